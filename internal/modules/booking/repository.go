package booking

import "context"

// Repository defines booking persistence.
type Repository interface {
	CreateBooking(ctx context.Context, b *Booking) error
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	ListBookings(ctx context.Context) ([]*Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id string, status BookingStatus) error
}
