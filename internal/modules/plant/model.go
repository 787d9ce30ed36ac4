package plant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPlantNotFound     = errors.New("plant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidSize       = errors.New("invalid size")
)

// Size identifies one of the three sale sizes a plant is stocked in.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes lists every valid size tag.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// ValidSize reports whether s is one of small, medium, large.
func ValidSize(s Size) bool {
	return s == SizeSmall || s == SizeMedium || s == SizeLarge
}

// PriceSet holds the per-size prices of a plant.
type PriceSet struct {
	Small  float64 `json:"small"`
	Medium float64 `json:"medium"`
	Large  float64 `json:"large"`
}

// For returns the price for the given size.
func (p PriceSet) For(size Size) float64 {
	switch size {
	case SizeSmall:
		return p.Small
	case SizeMedium:
		return p.Medium
	case SizeLarge:
		return p.Large
	}
	return 0
}

// StockSet holds the per-size stock quantities of a plant. Quantities
// never go negative; the repository enforces this with a conditional
// update rather than a read-then-write.
type StockSet struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// For returns the quantity for the given size.
func (s StockSet) For(size Size) int {
	switch size {
	case SizeSmall:
		return s.Small
	case SizeMedium:
		return s.Medium
	case SizeLarge:
		return s.Large
	}
	return 0
}

// Plant is a catalog entry with per-size pricing and stock.
type Plant struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Rating      float64   `json:"rating"`
	Prices      PriceSet  `json:"prices"`
	Stock       StockSet  `json:"stock_quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePlantRequest is the payload for adding a plant to the catalog.
type CreatePlantRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
	Rating      float64  `json:"rating"`
	Prices      PriceSet `json:"prices"`
	Stock       StockSet `json:"stock_quantity"`
}

// UpdatePlantRequest is the payload for editing catalog fields.
// Stock is deliberately absent: quantities only move through purchases,
// waste, and orders.
type UpdatePlantRequest struct {
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Prices      *PriceSet `json:"prices,omitempty"`
}
