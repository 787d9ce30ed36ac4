package notification

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) CreateNotification(ctx context.Context, n *Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, type, title, message, order_id, read)
		VALUES ($1, $2, $3, $4, $5, false)`,
		n.ID, n.Type, n.Title, n.Message, n.OrderID)
	return err
}

func (r *postgresRepo) ListNotifications(ctx context.Context, unreadOnly bool) ([]*Notification, error) {
	query := `SELECT id, type, title, message, order_id, read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE read = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		var orderID uuid.NullUUID
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &orderID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if orderID.Valid {
			id := orderID.UUID
			n.OrderID = &id
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *postgresRepo) MarkRead(ctx context.Context, id string) (*Notification, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotificationNotFound
	}
	n := &Notification{}
	var orderID uuid.NullUUID
	err = r.db.QueryRowContext(ctx, `
		UPDATE notifications SET read = true WHERE id = $1
		RETURNING id, type, title, message, order_id, read, created_at`, uid).
		Scan(&n.ID, &n.Type, &n.Title, &n.Message, &orderID, &n.Read, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		id := orderID.UUID
		n.OrderID = &id
	}
	return n, nil
}
