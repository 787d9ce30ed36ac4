package order

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
	"github.com/sirupsen/logrus"
)

// Notifier is told about order lifecycle events. Implementations must not
// block; failures are logged and never fail the order.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order)
	OrderStatusChanged(ctx context.Context, o *Order, previous OrderStatus)
}

// Service defines order business logic.
type Service interface {
	// PlaceOrder validates the request, prices every line from the
	// catalog, and reserves stock atomically. The whole order fails if
	// any single line cannot be fulfilled.
	PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*Order, error)

	// GetOrder retrieves an order. Non-admin callers may only read their own.
	GetOrder(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error)

	// ListOrders returns a filtered admin page of all orders.
	ListOrders(ctx context.Context, f Filter) ([]*Order, int, error)

	// ListMyOrders returns a page of the caller's own orders.
	ListMyOrders(ctx context.Context, userID string, page, limit int) ([]*Order, int, error)

	// ChangeStatus advances an order through the status state machine.
	// Moving to cancelled restores stock for every line.
	ChangeStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error)

	// CancelOrder cancels an order on behalf of its owner (or an admin)
	// and restores stock.
	CancelOrder(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error)
}

type service struct {
	repo      Repository
	plantRepo plant.Repository
	notifier  Notifier
	log       *logrus.Logger
}

// NewService creates a new order service. notifier may be nil.
func NewService(repo Repository, plantRepo plant.Repository, notifier Notifier, log *logrus.Logger) Service {
	return &service{repo: repo, plantRepo: plantRepo, notifier: notifier, log: log}
}

func (s *service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*Order, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}

	o := &Order{
		ID:              uuid.New(),
		UserID:          uid,
		UserDetails:     req.UserDetails,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   PaymentMethod(req.PaymentMethod),
		PaymentDetails:  req.PaymentDetails,
		Discount:        req.Discount,
		Status:          StatusPending,
	}

	// Price each line from the catalog. Stock is not checked here; the
	// repository re-checks atomically inside the transaction.
	subtotal := 0.0
	for _, ir := range req.Items {
		plantID, err := uuid.Parse(ir.PlantID)
		if err != nil {
			return nil, plant.ErrPlantNotFound
		}
		p, err := s.plantRepo.GetPlantByID(ctx, ir.PlantID)
		if err != nil {
			return nil, err
		}
		size := plant.Size(ir.Size)
		price := p.Prices.For(size)
		o.Items = append(o.Items, &OrderItem{
			PlantID:  plantID,
			Name:     p.Name,
			Size:     size,
			Quantity: ir.Quantity,
			Price:    price,
			Image:    p.ImageURL,
		})
		subtotal += price * float64(ir.Quantity)
	}

	o.Subtotal = round2(subtotal)
	o.ShippingFee = ShippingFee
	if o.PaymentMethod == PaymentCOD {
		o.CODCharges = round2(o.Subtotal * CODRate)
	}
	o.TotalAmount = round2(o.Subtotal + o.ShippingFee + o.CODCharges - o.Discount)

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	s.log.Infof("order %s placed by %s: %d item(s), total %.2f (%s)",
		o.ID, o.UserID, len(o.Items), o.TotalAmount, o.PaymentMethod)
	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, o)
	}
	return s.repo.GetOrderByID(ctx, o.ID.String())
}

func (s *service) GetOrder(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID.String() != callerID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, f Filter) ([]*Order, int, error) {
	if f.Status != "" {
		if _, ok := validTransitions[f.Status]; !ok && f.Status != StatusConfirmed {
			return nil, 0, fmt.Errorf("invalid status filter %q", f.Status)
		}
	}
	return s.repo.ListOrders(ctx, f)
}

func (s *service) ListMyOrders(ctx context.Context, userID string, page, limit int) ([]*Order, int, error) {
	return s.repo.ListOrdersByUser(ctx, userID, page, limit)
}

func (s *service) ChangeStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Order, error) {
	next := OrderStatus(strings.ToLower(req.Status))
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, next) {
		return nil, &InvalidTransitionError{From: o.Status, To: next, Allowed: AllowedNext(o.Status)}
	}

	previous := o.Status
	if next == StatusCancelled {
		if err := s.repo.CancelOrder(ctx, o); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.UpdateStatus(ctx, id, o.Status, next, req.TrackingNumber, req.Notes); err != nil {
			return nil, err
		}
	}

	o, err = s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Infof("order %s status %s -> %s", o.ID, previous, o.Status)
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, o, previous)
	}
	return o, nil
}

func (s *service) CancelOrder(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID.String() != callerID {
		return nil, ErrNotOrderOwner
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return nil, &InvalidTransitionError{From: o.Status, To: StatusCancelled, Allowed: AllowedNext(o.Status)}
	}
	if err := s.repo.CancelOrder(ctx, o); err != nil {
		return nil, err
	}

	previous := o.Status
	o, err = s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Infof("order %s cancelled by %s, stock restored", o.ID, callerID)
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, o, previous)
	}
	return o, nil
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.PlantID == "" {
			return fmt.Errorf("item %d: plant_id is required", i)
		}
		if !plant.ValidSize(plant.Size(item.Size)) {
			return fmt.Errorf("item %d: %w: allowed sizes are small, medium, large", i, plant.ErrInvalidSize)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be a positive number", i)
		}
	}
	u := req.UserDetails
	if u.FirstName == "" || u.LastName == "" || u.Email == "" || u.Phone == "" {
		return fmt.Errorf("first_name, last_name, email and phone are required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	a := req.ShippingAddress
	if a.Street == "" || a.City == "" || a.ZipCode == "" {
		return fmt.Errorf("street, city and zip_code are required")
	}
	method := PaymentMethod(req.PaymentMethod)
	if !ValidPaymentMethod(method) {
		return fmt.Errorf("invalid payment method %q: allowed are cod, jazzcash, easypaisa", req.PaymentMethod)
	}
	if method != PaymentCOD && req.PaymentDetails.Number == "" {
		return fmt.Errorf("payment number is required for %s", method)
	}
	if req.Discount < 0 {
		return fmt.Errorf("discount cannot be negative")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
