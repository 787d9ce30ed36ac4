package waste

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// RecordWaste decrements the stock bucket with a guard clause and inserts
// the waste row in one transaction. The guard makes the check-and-decrement
// a single statement, so concurrent writers can never drive stock negative.
func (r *postgresRepo) RecordWaste(ctx context.Context, w *Waste) (*plant.Plant, error) {
	col, err := plant.StockColumn(w.Size)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE plants SET %[1]s = %[1]s - $1, updated_at=NOW()
		WHERE id=$2 AND %[1]s >= $1`, col),
		w.Quantity, w.PlantID)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM plants WHERE id=$1)`, w.PlantID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, plant.ErrPlantNotFound
		}
		return nil, plant.ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO waste (id, plant_id, size, quantity, reason)
		VALUES ($1,$2,$3,$4,$5)`,
		w.ID, w.PlantID, w.Size, w.Quantity, w.Reason)
	if err != nil {
		return nil, fmt.Errorf("insert waste: %w", err)
	}

	updated := &plant.Plant{}
	err = tx.QueryRowContext(ctx, `
		SELECT id,name,description,category,image_url,rating,
		       price_small,price_medium,price_large,
		       stock_small,stock_medium,stock_large,created_at,updated_at
		FROM plants WHERE id=$1`, w.PlantID).Scan(
		&updated.ID, &updated.Name, &updated.Description, &updated.Category,
		&updated.ImageURL, &updated.Rating,
		&updated.Prices.Small, &updated.Prices.Medium, &updated.Prices.Large,
		&updated.Stock.Small, &updated.Stock.Medium, &updated.Stock.Large,
		&updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	w.PlantName = updated.Name
	return updated, nil
}

func (r *postgresRepo) GetWasteByID(ctx context.Context, id string) (*Waste, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrWasteNotFound
	}
	w := &Waste{}
	err = r.db.QueryRowContext(ctx, `
		SELECT w.id, w.plant_id, pl.name, w.size, w.quantity, w.reason, w.created_at
		FROM waste w JOIN plants pl ON pl.id = w.plant_id
		WHERE w.id=$1`, uid).Scan(
		&w.ID, &w.PlantID, &w.PlantName, &w.Size, &w.Quantity, &w.Reason, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWasteNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *postgresRepo) ListWaste(ctx context.Context) ([]*Waste, error) {
	return r.queryWaste(ctx, `
		SELECT w.id, w.plant_id, pl.name, w.size, w.quantity, w.reason, w.created_at
		FROM waste w JOIN plants pl ON pl.id = w.plant_id
		ORDER BY w.created_at DESC`)
}

func (r *postgresRepo) ListWasteBetween(ctx context.Context, start, end time.Time) ([]*Waste, error) {
	return r.queryWaste(ctx, `
		SELECT w.id, w.plant_id, pl.name, w.size, w.quantity, w.reason, w.created_at
		FROM waste w JOIN plants pl ON pl.id = w.plant_id
		WHERE w.created_at >= $1 AND w.created_at < $2
		ORDER BY w.created_at DESC`, start, end)
}

func (r *postgresRepo) queryWaste(ctx context.Context, query string, args ...interface{}) ([]*Waste, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*Waste
	for rows.Next() {
		w := &Waste{}
		if err := rows.Scan(&w.ID, &w.PlantID, &w.PlantName, &w.Size,
			&w.Quantity, &w.Reason, &w.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, w)
	}
	return records, rows.Err()
}
