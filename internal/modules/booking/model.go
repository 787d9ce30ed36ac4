package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errors.New("service request not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotBookingOwner   = errors.New("not authorized to access this service request")
)

// ServiceType identifies the kind of garden service requested.
type ServiceType string

const (
	ServiceGardenMaintenance ServiceType = "garden_maintenance"
	ServicePlantCare         ServiceType = "plant_care"
	ServiceLandscaping       ServiceType = "landscaping"
	ServiceConsultation      ServiceType = "consultation"
)

// ValidServiceType reports whether t is a supported service type.
func ValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceGardenMaintenance, ServicePlantCare, ServiceLandscaping, ServiceConsultation:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a service request.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition returns true if the transition from current to next is valid.
func CanTransition(current, next BookingStatus) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a rejected booking status change.
type InvalidTransitionError struct {
	From    BookingStatus
	To      BookingStatus
	Allowed []BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s (allowed: %v)", e.From, e.To, e.Allowed)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// Address is where the service is performed.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

// Booking is a customer's garden service request.
type Booking struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	ServiceType ServiceType   `json:"service_type"`
	Description string        `json:"description,omitempty"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Address     Address       `json:"address"`
	Phone       string        `json:"phone"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreateBookingRequest is the payload for requesting a service.
type CreateBookingRequest struct {
	ServiceType string  `json:"service_type"`
	Description string  `json:"description"`
	ScheduledAt string  `json:"scheduled_at"`
	Address     Address `json:"address"`
	Phone       string  `json:"phone"`
}

// UpdateStatusRequest is the payload for moving a request through its
// workflow.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
