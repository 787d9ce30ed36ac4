package booking

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const bookingColumns = `id, user_id, service_type, description, scheduled_at,
       street, city, zip_code, phone, status, created_at, updated_at`

func (r *postgresRepo) CreateBooking(ctx context.Context, b *Booking) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookings
		  (id, user_id, service_type, description, scheduled_at, street, city, zip_code, phone, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		b.ID, b.UserID, b.ServiceType, b.Description, b.ScheduledAt,
		b.Address.Street, b.Address.City, b.Address.ZipCode, b.Phone, b.Status)
	return err
}

func (r *postgresRepo) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, uid)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return b, err
}

func (r *postgresRepo) ListBookings(ctx context.Context) ([]*Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY scheduled_at`)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *postgresRepo) ListBookingsByUser(ctx context.Context, userID string) ([]*Booking, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY scheduled_at`, uid)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status BookingStatus) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrBookingNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status=$1, updated_at=NOW() WHERE id=$2`, status, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanBooking(row rowScanner) (*Booking, error) {
	b := &Booking{}
	var description sql.NullString
	err := row.Scan(&b.ID, &b.UserID, &b.ServiceType, &description, &b.ScheduledAt,
		&b.Address.Street, &b.Address.City, &b.Address.ZipCode, &b.Phone,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Description = description.String
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]*Booking, error) {
	defer rows.Close()
	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
