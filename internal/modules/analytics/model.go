package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/order"
)

// DailySale is one calendar day's order revenue rollup.
type DailySale struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// RecentOrder is a dashboard row for an order placed today.
type RecentOrder struct {
	ID           uuid.UUID         `json:"id"`
	CustomerName string            `json:"customer_name"`
	TotalAmount  float64           `json:"total_amount"`
	Status       order.OrderStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Stats is the aggregated dashboard payload. Every map is fully keyed
// even when the underlying collections are empty.
type Stats struct {
	StatusCounts    map[order.OrderStatus]int `json:"status_counts"`
	StatusPercent   map[order.OrderStatus]int `json:"status_percent"`
	DailySales      []DailySale               `json:"daily_sales"`
	RecentOrders    []RecentOrder             `json:"recent_orders"`
	TimeBasedOrders map[string]int            `json:"time_based_orders"`
	TotalOrders     int                       `json:"total_orders"`
	TotalUsers      int                       `json:"total_users"`
	TotalProducts   int                       `json:"total_products"`
}
