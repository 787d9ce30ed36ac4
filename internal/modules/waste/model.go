package waste

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

var ErrWasteNotFound = errors.New("waste record not found")

// Waste records stock written off as dead, damaged, or otherwise unsellable.
// The matching stock decrement happens in the same transaction and is
// rejected outright when it would underflow the bucket.
type Waste struct {
	ID        uuid.UUID  `json:"id"`
	PlantID   uuid.UUID  `json:"plant_id"`
	PlantName string     `json:"plant_name,omitempty"`
	Size      plant.Size `json:"size"`
	Quantity  int        `json:"quantity"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RecordWasteRequest is the payload for recording waste.
type RecordWasteRequest struct {
	PlantID  string `json:"plant_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}
