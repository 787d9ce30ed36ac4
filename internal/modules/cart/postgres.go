package cart

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) UpsertItem(ctx context.Context, userID, plantID uuid.UUID, size plant.Size, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, plant_id, size, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, plant_id, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		userID, plantID, size, quantity)
	return err
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, plantID uuid.UUID, size plant.Size, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity=$1, updated_at=NOW()
		WHERE user_id=$2 AND plant_id=$3 AND size=$4`,
		quantity, userID, plantID, size)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveItem(ctx context.Context, userID, plantID uuid.UUID, size plant.Size) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id=$1 AND plant_id=$2 AND size=$3`,
		userID, plantID, size)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *postgresRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

func (r *postgresRepo) ListItems(ctx context.Context, userID uuid.UUID) ([]*CartItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ci.plant_id, p.name, ci.size, ci.quantity, p.image_url,
		       CASE ci.size
		         WHEN 'small'  THEN p.price_small
		         WHEN 'medium' THEN p.price_medium
		         ELSE p.price_large
		       END,
		       CASE ci.size
		         WHEN 'small'  THEN p.stock_small
		         WHEN 'medium' THEN p.stock_medium
		         ELSE p.stock_large
		       END
		FROM cart_items ci
		JOIN plants p ON p.id = ci.plant_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		item := &CartItem{}
		if err := rows.Scan(&item.PlantID, &item.Name, &item.Size, &item.Quantity,
			&item.Image, &item.Price, &item.Available); err != nil {
			return nil, err
		}
		item.LineTotal = item.Price * float64(item.Quantity)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) GetQuantity(ctx context.Context, userID, plantID uuid.UUID, size plant.Size) (int, error) {
	var quantity int
	err := r.db.QueryRowContext(ctx, `
		SELECT quantity FROM cart_items WHERE user_id=$1 AND plant_id=$2 AND size=$3`,
		userID, plantID, size).Scan(&quantity)
	if err == sql.ErrNoRows {
		return 0, ErrItemNotFound
	}
	return quantity, err
}
