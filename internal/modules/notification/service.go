package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/order"
	"github.com/sirupsen/logrus"
)

// Service records order events as admin notifications and serves the
// notification feed. It satisfies the order module's Notifier.
type Service interface {
	order.Notifier

	ListNotifications(ctx context.Context, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
}

type service struct {
	repo Repository
	log  *logrus.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, log *logrus.Logger) Service {
	return &service{repo: repo, log: log}
}

// OrderPlaced records a new-order notification. Failures are logged;
// order placement never fails because of its notification.
func (s *service) OrderPlaced(ctx context.Context, o *order.Order) {
	s.create(ctx, &Notification{
		ID:      uuid.New(),
		Type:    TypeNewOrder,
		Title:   "New order",
		Message: fmt.Sprintf("Order %s placed: %d item(s), total %.2f", o.ID, len(o.Items), o.TotalAmount),
		OrderID: &o.ID,
	})
}

// OrderStatusChanged records cancellations and refunds. Routine
// fulfillment transitions do not notify.
func (s *service) OrderStatusChanged(ctx context.Context, o *order.Order, previous order.OrderStatus) {
	switch o.Status {
	case order.StatusCancelled:
		s.create(ctx, &Notification{
			ID:      uuid.New(),
			Type:    TypeOrderCancelled,
			Title:   "Order cancelled",
			Message: fmt.Sprintf("Order %s cancelled (was %s), stock restored", o.ID, previous),
			OrderID: &o.ID,
		})
	case order.StatusRefunded:
		s.create(ctx, &Notification{
			ID:      uuid.New(),
			Type:    TypeOrderRefunded,
			Title:   "Order refunded",
			Message: fmt.Sprintf("Order %s refunded, amount %.2f", o.ID, o.TotalAmount),
			OrderID: &o.ID,
		})
	}
}

func (s *service) create(ctx context.Context, n *Notification) {
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		s.log.Warnf("could not record %s notification for order %s: %v", n.Type, n.OrderID, err)
	}
}

func (s *service) ListNotifications(ctx context.Context, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListNotifications(ctx, unreadOnly)
}

func (s *service) MarkRead(ctx context.Context, id string) (*Notification, error) {
	return s.repo.MarkRead(ctx, id)
}
