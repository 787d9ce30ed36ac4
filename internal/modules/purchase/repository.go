package purchase

import (
	"context"
	"time"

	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

// Repository defines data access for purchases.
type Repository interface {
	// RecordPurchase inserts the purchase and increments the plant's stock
	// bucket in a single transaction. Returns the plant after the increment.
	RecordPurchase(ctx context.Context, p *Purchase) (*plant.Plant, error)

	// GetPurchaseByID retrieves a purchase with its plant name.
	GetPurchaseByID(ctx context.Context, id string) (*Purchase, error)

	// ListPurchases returns all purchases, newest first.
	ListPurchases(ctx context.Context) ([]*Purchase, error)

	// ListPurchasesBetween returns purchases created in [start, end).
	ListPurchasesBetween(ctx context.Context, start, end time.Time) ([]*Purchase, error)
}
