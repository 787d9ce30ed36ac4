package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Type categorizes admin notifications.
type Type string

const (
	TypeNewOrder       Type = "new_order"
	TypeOrderCancelled Type = "order_cancelled"
	TypeOrderRefunded  Type = "order_refunded"
)

// Notification is an admin-facing event record, created as a side
// effect of order activity.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	Type      Type       `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}
