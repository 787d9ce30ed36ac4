package purchase

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

// RecordPurchase increments the stock bucket and inserts the purchase row
// inside a single transaction so a failed insert never leaves a phantom
// stock increase.
func (r *postgresRepo) RecordPurchase(ctx context.Context, p *Purchase) (*plant.Plant, error) {
	col, err := plant.StockColumn(p.Size)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE plants SET %[1]s = %[1]s + $1, updated_at=NOW() WHERE id=$2`, col),
		p.Quantity, p.PlantID)
	if err != nil {
		return nil, fmt.Errorf("increment stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, plant.ErrPlantNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (id, plant_id, nursery_name, size, quantity)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.PlantID, p.NurseryName, p.Size, p.Quantity)
	if err != nil {
		return nil, fmt.Errorf("insert purchase: %w", err)
	}

	updated := &plant.Plant{}
	err = tx.QueryRowContext(ctx, `
		SELECT id,name,description,category,image_url,rating,
		       price_small,price_medium,price_large,
		       stock_small,stock_medium,stock_large,created_at,updated_at
		FROM plants WHERE id=$1`, p.PlantID).Scan(
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
	p.PlantName = updated.Name
	return updated, nil
}

func (r *postgresRepo) GetPurchaseByID(ctx context.Context, id string) (*Purchase, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrPurchaseNotFound
	}
	p := &Purchase{}
	err = r.db.QueryRowContext(ctx, `
		SELECT p.id, p.plant_id, pl.name, p.nursery_name, p.size, p.quantity, p.created_at
		FROM purchases p JOIN plants pl ON pl.id = p.plant_id
		WHERE p.id=$1`, uid).Scan(
		&p.ID, &p.PlantID, &p.PlantName, &p.NurseryName, &p.Size, &p.Quantity, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListPurchases(ctx context.Context) ([]*Purchase, error) {
	return r.queryPurchases(ctx, `
		SELECT p.id, p.plant_id, pl.name, p.nursery_name, p.size, p.quantity, p.created_at
		FROM purchases p JOIN plants pl ON pl.id = p.plant_id
		ORDER BY p.created_at DESC`)
}

func (r *postgresRepo) ListPurchasesBetween(ctx context.Context, start, end time.Time) ([]*Purchase, error) {
	return r.queryPurchases(ctx, `
		SELECT p.id, p.plant_id, pl.name, p.nursery_name, p.size, p.quantity, p.created_at
		FROM purchases p JOIN plants pl ON pl.id = p.plant_id
		WHERE p.created_at >= $1 AND p.created_at < $2
		ORDER BY p.created_at DESC`, start, end)
}

func (r *postgresRepo) queryPurchases(ctx context.Context, query string, args ...interface{}) ([]*Purchase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var purchases []*Purchase
	for rows.Next() {
		p := &Purchase{}
		if err := rows.Scan(&p.ID, &p.PlantID, &p.PlantName, &p.NurseryName,
			&p.Size, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
