package plant

import "context"

// Repository defines data access for plants.
type Repository interface {
	// CreatePlant persists a new plant.
	CreatePlant(ctx context.Context, p *Plant) error

	// GetPlantByID retrieves a plant by UUID.
	GetPlantByID(ctx context.Context, id string) (*Plant, error)

	// ListPlants returns all plants, optionally filtered by category.
	ListPlants(ctx context.Context, category string) ([]*Plant, error)

	// UpdatePlant updates catalog fields (not stock) of an existing plant.
	UpdatePlant(ctx context.Context, p *Plant) error

	// DeletePlant removes a plant from the catalog.
	DeletePlant(ctx context.Context, id string) error

	// AdjustStock atomically applies delta to the stock bucket for size.
	// A negative delta is rejected with ErrInsufficientStock when it would
	// drive the quantity below zero; no partial change is applied.
	// Returns the plant after the adjustment.
	AdjustStock(ctx context.Context, id string, size Size, delta int) (*Plant, error)

	// CountPlants returns the total number of plants in the catalog.
	CountPlants(ctx context.Context) (int, error)
}
