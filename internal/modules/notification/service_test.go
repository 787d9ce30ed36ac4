package notification

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/order"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notifications []*Notification
}

func (r *fakeRepo) CreateNotification(ctx context.Context, n *Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeRepo) ListNotifications(ctx context.Context, unreadOnly bool) ([]*Notification, error) {
	if !unreadOnly {
		return r.notifications, nil
	}
	var out []*Notification
	for _, n := range r.notifications {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkRead(ctx context.Context, id string) (*Notification, error) {
	for _, n := range r.notifications {
		if n.ID.String() == id {
			n.Read = true
			return n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func newTestService(t *testing.T) (Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repo, log), repo
}

func sampleOrder(status order.OrderStatus) *order.Order {
	return &order.Order{
		ID:          uuid.New(),
		Items:       []*order.OrderItem{{Quantity: 2}},
		TotalAmount: 1220,
		Status:      status,
	}
}

func TestOrderPlacedCreatesNotification(t *testing.T) {
	svc, repo := newTestService(t)

	o := sampleOrder(order.StatusPending)
	svc.OrderPlaced(context.Background(), o)

	require.Len(t, repo.notifications, 1)
	n := repo.notifications[0]
	assert.Equal(t, TypeNewOrder, n.Type)
	assert.Equal(t, o.ID, *n.OrderID)
	assert.False(t, n.Read)
}

func TestStatusChangeNotifiesCancellationsAndRefundsOnly(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	svc.OrderStatusChanged(ctx, sampleOrder(order.StatusProcessing), order.StatusPending)
	svc.OrderStatusChanged(ctx, sampleOrder(order.StatusShipped), order.StatusProcessing)
	assert.Empty(t, repo.notifications, "routine transitions are silent")

	svc.OrderStatusChanged(ctx, sampleOrder(order.StatusCancelled), order.StatusPending)
	svc.OrderStatusChanged(ctx, sampleOrder(order.StatusRefunded), order.StatusDelivered)
	require.Len(t, repo.notifications, 2)
	assert.Equal(t, TypeOrderCancelled, repo.notifications[0].Type)
	assert.Equal(t, TypeOrderRefunded, repo.notifications[1].Type)
}

func TestMarkRead(t *testing.T) {
	svc, repo := newTestService(t)

	svc.OrderPlaced(context.Background(), sampleOrder(order.StatusPending))
	require.Len(t, repo.notifications, 1)

	n, err := svc.MarkRead(context.Background(), repo.notifications[0].ID.String())
	require.NoError(t, err)
	assert.True(t, n.Read)

	unread, err := svc.ListNotifications(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkReadUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.MarkRead(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, ErrNotificationNotFound)
}
