package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const scheduleLayout = "2006-01-02 15:04"

// Service defines booking business logic.
type Service interface {
	// RequestService validates and records a new garden service request.
	RequestService(ctx context.Context, userID string, req CreateBookingRequest) (*Booking, error)

	// GetBooking retrieves a request. Non-admin callers may only read
	// their own.
	GetBooking(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error)

	// ListBookings returns all requests, soonest first.
	ListBookings(ctx context.Context) ([]*Booking, error)

	// ListMyBookings returns the caller's requests.
	ListMyBookings(ctx context.Context, userID string) ([]*Booking, error)

	// ChangeStatus moves a request through its workflow.
	ChangeStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Booking, error)
}

type service struct {
	repo Repository
	log  *logrus.Logger
	now  func() time.Time
}

// NewService creates a new booking service.
func NewService(repo Repository, log *logrus.Logger) Service {
	return &service{repo: repo, log: log, now: time.Now}
}

func (s *service) RequestService(ctx context.Context, userID string, req CreateBookingRequest) (*Booking, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id")
	}
	serviceType := ServiceType(req.ServiceType)
	if !ValidServiceType(serviceType) {
		return nil, fmt.Errorf("invalid service type %q", req.ServiceType)
	}
	if req.Address.Street == "" || req.Address.City == "" || req.Address.ZipCode == "" {
		return nil, fmt.Errorf("street, city and zip_code are required")
	}
	if req.Phone == "" {
		return nil, fmt.Errorf("phone is required")
	}
	scheduledAt, err := time.Parse(scheduleLayout, req.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled_at, expected YYYY-MM-DD HH:MM")
	}
	if scheduledAt.Before(s.now()) {
		return nil, fmt.Errorf("scheduled_at cannot be in the past")
	}

	b := &Booking{
		ID:          uuid.New(),
		UserID:      uid,
		ServiceType: serviceType,
		Description: req.Description,
		ScheduledAt: scheduledAt,
		Address:     req.Address,
		Phone:       req.Phone,
		Status:      StatusPending,
	}
	if err := s.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	s.log.Infof("service request %s: %s at %s for user %s",
		b.ID, b.ServiceType, b.ScheduledAt.Format(scheduleLayout), b.UserID)
	return s.repo.GetBookingByID(ctx, b.ID.String())
}

func (s *service) GetBooking(ctx context.Context, id, callerID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID.String() != callerID {
		return nil, ErrNotBookingOwner
	}
	return b, nil
}

func (s *service) ListBookings(ctx context.Context) ([]*Booking, error) {
	return s.repo.ListBookings(ctx)
}

func (s *service) ListMyBookings(ctx context.Context, userID string) ([]*Booking, error) {
	return s.repo.ListBookingsByUser(ctx, userID)
}

func (s *service) ChangeStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Booking, error) {
	next := BookingStatus(strings.ToLower(req.Status))
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, next) {
		return nil, &InvalidTransitionError{From: b.Status, To: next, Allowed: validTransitions[b.Status]}
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	s.log.Infof("service request %s status %s -> %s", b.ID, b.Status, next)
	return s.repo.GetBookingByID(ctx, id)
}
