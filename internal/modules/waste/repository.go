package waste

import (
	"context"
	"time"

	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

// Repository defines data access for waste records.
type Repository interface {
	// RecordWaste inserts the waste record and decrements the plant's stock
	// bucket in a single transaction. The decrement is guarded: when the
	// bucket holds less than the wasted quantity the whole transaction
	// fails with plant.ErrInsufficientStock and nothing is persisted.
	RecordWaste(ctx context.Context, w *Waste) (*plant.Plant, error)

	// GetWasteByID retrieves a waste record with its plant name.
	GetWasteByID(ctx context.Context, id string) (*Waste, error)

	// ListWaste returns all waste records, newest first.
	ListWaste(ctx context.Context) ([]*Waste, error)

	// ListWasteBetween returns waste records created in [start, end).
	ListWasteBetween(ctx context.Context, start, end time.Time) ([]*Waste, error)
}
