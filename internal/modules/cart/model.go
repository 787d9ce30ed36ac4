package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

var ErrItemNotFound = errors.New("cart item not found")

// CartItem is one line in a user's cart. Price and name are read live
// from the catalog on every fetch; the cart stores only plant, size and
// quantity, so it never goes stale.
type CartItem struct {
	PlantID   uuid.UUID  `json:"plant_id"`
	Name      string     `json:"name"`
	Size      plant.Size `json:"size"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
	Image     string     `json:"image,omitempty"`
	Available int        `json:"available_quantity"`
	LineTotal float64    `json:"line_total"`
}

// Cart is a user's current cart with running totals. Adding to the cart
// checks stock but reserves nothing; reservation happens at checkout.
type Cart struct {
	UserID   uuid.UUID   `json:"user_id"`
	Items    []*CartItem `json:"items"`
	Subtotal float64     `json:"subtotal"`
	Count    int         `json:"count"`
}

// AddItemRequest is the payload for adding a line to the cart.
type AddItemRequest struct {
	PlantID  string `json:"plant_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// UpdateItemRequest is the payload for changing a line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}
