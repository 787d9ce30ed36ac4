package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

// Repository defines cart persistence. A cart is the set of rows keyed
// by (user, plant, size).
type Repository interface {
	// UpsertItem adds quantity to an existing line or creates it.
	UpsertItem(ctx context.Context, userID, plantID uuid.UUID, size plant.Size, quantity int) error

	// SetQuantity replaces a line's quantity.
	SetQuantity(ctx context.Context, userID, plantID uuid.UUID, size plant.Size, quantity int) error

	// RemoveItem deletes a line.
	RemoveItem(ctx context.Context, userID, plantID uuid.UUID, size plant.Size) error

	// ClearCart deletes every line of a user's cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// ListItems returns a user's cart lines joined with live catalog
	// name, price, image, and availability.
	ListItems(ctx context.Context, userID uuid.UUID) ([]*CartItem, error)

	// GetQuantity returns the current quantity of a line, or
	// ErrItemNotFound.
	GetQuantity(ctx context.Context, userID, plantID uuid.UUID, size plant.Size) (int, error)
}
