package booking

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	bookings map[uuid.UUID]*Booking
}

func newFakeRepo() *fakeRepo { return &fakeRepo{bookings: map[uuid.UUID]*Booking{}} }

func (r *fakeRepo) CreateBooking(ctx context.Context, b *Booking) error {
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeRepo) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	b, ok := r.bookings[uid]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (r *fakeRepo) ListBookings(ctx context.Context) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeRepo) ListBookingsByUser(ctx context.Context, userID string) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.UserID.String() == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id string, status BookingStatus) error {
	b, err := r.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	b.Status = status
	return nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(newFakeRepo(), log)
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		ServiceType: "garden_maintenance",
		Description: "hedge trimming, front lawn",
		ScheduledAt: time.Now().Add(72 * time.Hour).Format(scheduleLayout),
		Address:     Address{Street: "12 Garden Road", City: "Lahore", ZipCode: "54000"},
		Phone:       "03001234567",
	}
}

func TestRequestService(t *testing.T) {
	svc := newTestService(t)

	b, err := svc.RequestService(context.Background(), uuid.New().String(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, ServiceGardenMaintenance, b.ServiceType)
}

func TestRequestServiceValidation(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New().String()

	cases := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"bad service type", func(r *CreateBookingRequest) { r.ServiceType = "tree_surgery" }},
		{"missing street", func(r *CreateBookingRequest) { r.Address.Street = "" }},
		{"missing phone", func(r *CreateBookingRequest) { r.Phone = "" }},
		{"bad schedule format", func(r *CreateBookingRequest) { r.ScheduledAt = "next tuesday" }},
		{"past schedule", func(r *CreateBookingRequest) { r.ScheduledAt = "2020-01-01 09:00" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.RequestService(context.Background(), userID, req)
			assert.Error(t, err)
		})
	}
}

func TestBookingWorkflow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	b, err := svc.RequestService(ctx, uuid.New().String(), validRequest())
	require.NoError(t, err)
	id := b.ID.String()

	// pending cannot complete without confirmation
	_, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "completed"})
	require.ErrorIs(t, err, ErrInvalidTransition)

	b, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	b, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, b.Status)

	// completed is terminal
	_, err = svc.ChangeStatus(ctx, id, UpdateStatusRequest{Status: "cancelled"})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBookingCancellable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	b, err := svc.RequestService(ctx, uuid.New().String(), validRequest())
	require.NoError(t, err)

	b, err = svc.ChangeStatus(ctx, b.ID.String(), UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestBookingOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New().String()

	b, err := svc.RequestService(ctx, owner, validRequest())
	require.NoError(t, err)

	_, err = svc.GetBooking(ctx, b.ID.String(), owner, false)
	require.NoError(t, err)

	_, err = svc.GetBooking(ctx, b.ID.String(), uuid.New().String(), false)
	require.ErrorIs(t, err, ErrNotBookingOwner)

	_, err = svc.GetBooking(ctx, b.ID.String(), uuid.New().String(), true)
	require.NoError(t, err)
}
