package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOutOfStock        = errors.New("insufficient stock for one or more items")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOrderOwner     = errors.New("not authorized to access this order")
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed" // unreachable via the transition table; kept for legacy data
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusRefunded   OrderStatus = "refunded"
)

// validTransitions defines the allowed status state machine. Orders move
// pending -> processing -> shipped -> delivered, may be cancelled from any
// pre-delivery state, and a delivered order may only be refunded.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next OrderStatus) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// AllowedNext returns the set of statuses reachable from current.
func AllowedNext(current OrderStatus) []OrderStatus {
	return validTransitions[current]
}

// InvalidTransitionError reports a rejected status change together with
// the transitions that would have been accepted.
type InvalidTransitionError struct {
	From    OrderStatus
	To      OrderStatus
	Allowed []OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s (allowed: %v)", e.From, e.To, e.Allowed)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// OutOfStockItem describes one order line that could not be fulfilled.
type OutOfStockItem struct {
	PlantID   uuid.UUID  `json:"plant_id"`
	Name      string     `json:"name,omitempty"`
	Size      plant.Size `json:"size"`
	Requested int        `json:"requested_quantity"`
	Available int        `json:"available_quantity"`
}

// OutOfStockError reports every line item that failed the stock check.
// Order placement is all-or-nothing, so a single failing line rejects the
// whole order.
type OutOfStockError struct {
	Items []OutOfStockItem
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%v: %d item(s) unavailable", ErrOutOfStock, len(e.Items))
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStock }

// Pricing constants applied at placement. Totals are computed once and
// never recomputed on status changes.
const (
	ShippingFee = 200.0
	CODRate     = 0.02
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCOD       PaymentMethod = "cod"
	PaymentJazzCash  PaymentMethod = "jazzcash"
	PaymentEasypaisa PaymentMethod = "easypaisa"
)

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCOD || m == PaymentJazzCash || m == PaymentEasypaisa
}

// UserDetails is a snapshot of the placing customer, captured at order
// time rather than referenced live.
type UserDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingAddress is where the order is delivered.
type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// PaymentDetails holds the mobile-wallet account for non-COD orders.
type PaymentDetails struct {
	Number string `json:"number,omitempty"`
	Status string `json:"status,omitempty"`
}

// OrderItem is a single line item. Name and Price are copied from the
// plant at placement time so later catalog edits don't rewrite history.
type OrderItem struct {
	PlantID  uuid.UUID  `json:"plant_id"`
	Name     string     `json:"name"`
	Size     plant.Size `json:"size"`
	Quantity int        `json:"quantity"`
	Price    float64    `json:"price"`
	Image    string     `json:"image,omitempty"`
}

// Order is a customer order. Items and monetary fields are immutable once
// placed; only Status (and its timestamps) move afterwards.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	UserDetails     UserDetails     `json:"user_details"`
	Items           []*OrderItem    `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentDetails  PaymentDetails  `json:"payment_details,omitempty"`
	Subtotal        float64         `json:"subtotal"`
	ShippingFee     float64         `json:"shipping_fee"`
	Discount        float64         `json:"discount"`
	CODCharges      float64         `json:"cod_charges"`
	TotalAmount     float64         `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ItemRequest is one requested line during checkout.
type ItemRequest struct {
	PlantID  string `json:"plant_id"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest is the payload for creating a new order.
type PlaceOrderRequest struct {
	Items           []ItemRequest   `json:"items"`
	UserDetails     UserDetails     `json:"user_details"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentDetails  PaymentDetails  `json:"payment_details"`
	Discount        float64         `json:"discount,omitempty"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Notes          string `json:"notes,omitempty"`
}
