package purchase

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

// Purchase records a stock-in event from a supplier nursery. Purchases are
// immutable once recorded; the matching stock increment happens in the
// same transaction.
type Purchase struct {
	ID          uuid.UUID  `json:"id"`
	PlantID     uuid.UUID  `json:"plant_id"`
	PlantName   string     `json:"plant_name,omitempty"`
	NurseryName string     `json:"nursery_name"`
	Size        plant.Size `json:"size"`
	Quantity    int        `json:"quantity"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RecordPurchaseRequest is the payload for recording a purchase.
type RecordPurchaseRequest struct {
	PlantID     string `json:"plant_id"`
	NurseryName string `json:"nursery_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
}
