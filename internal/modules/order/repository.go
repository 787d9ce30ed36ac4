package order

import (
	"context"
	"time"
)

// Filter narrows admin order listings.
type Filter struct {
	Status    OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder reserves stock and persists the order and its items in a
	// single transaction. Every line's decrement is a guarded conditional
	// update; if any line cannot be fulfilled the transaction rolls back
	// and an *OutOfStockError describes the failing lines.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves a full order with its items.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// ListOrders returns a page of orders matching the filter, newest
	// first, plus the total match count.
	ListOrders(ctx context.Context, f Filter) ([]*Order, int, error)

	// ListOrdersByUser returns a page of a customer's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string, page, limit int) ([]*Order, int, error)

	// UpdateStatus persists a new status without touching stock or totals.
	// The write only lands if the row still holds from; a concurrent status
	// change surfaces as an *InvalidTransitionError.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus, trackingNumber, notes string) error

	// CancelOrder sets the status to cancelled and restores every line's
	// stock bucket in the same transaction. The flip is guarded on o.Status,
	// so a racing cancel restores stock exactly once.
	CancelOrder(ctx context.Context, o *Order) error
}
