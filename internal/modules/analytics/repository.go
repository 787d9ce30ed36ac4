package analytics

import (
	"context"
	"time"

	"github.com/plantheaven/nursery-backend/internal/modules/order"
)

// Repository defines the read-only aggregation queries behind the
// dashboard. All methods tolerate empty tables.
type Repository interface {
	// StatusCounts groups orders by status, optionally bounded by
	// creation date.
	StatusCounts(ctx context.Context, start, end *time.Time) (map[order.OrderStatus]int, error)

	// DailySales sums totalAmount and counts orders per calendar day.
	DailySales(ctx context.Context, start, end *time.Time) ([]DailySale, error)

	// RecentOrders returns up to limit orders placed today, newest first.
	RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)

	// TimeBasedCounts buckets orders by time of day (morning, afternoon,
	// evening, night).
	TimeBasedCounts(ctx context.Context, start, end *time.Time) (map[string]int, error)
}
