package plant

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const plantColumns = `id,name,description,category,image_url,rating,
       price_small,price_medium,price_large,
       stock_small,stock_medium,stock_large,created_at,updated_at`

func (r *postgresRepo) CreatePlant(ctx context.Context, p *Plant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plants
		  (id,name,description,category,image_url,rating,
		   price_small,price_medium,price_large,
		   stock_small,stock_medium,stock_large)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.Name, p.Description, p.Category, p.ImageURL, p.Rating,
		p.Prices.Small, p.Prices.Medium, p.Prices.Large,
		p.Stock.Small, p.Stock.Medium, p.Stock.Large)
	if err != nil {
		return fmt.Errorf("insert plant: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetPlantByID(ctx context.Context, id string) (*Plant, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrPlantNotFound
	}
	p := &Plant{}
	err = r.db.QueryRowContext(ctx,
		`SELECT `+plantColumns+` FROM plants WHERE id=$1`, uid).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.ImageURL, &p.Rating,
		&p.Prices.Small, &p.Prices.Medium, &p.Prices.Large,
		&p.Stock.Small, &p.Stock.Medium, &p.Stock.Large,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPlantNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListPlants(ctx context.Context, category string) ([]*Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var plants []*Plant
	for rows.Next() {
		p := &Plant{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category, &p.ImageURL, &p.Rating,
			&p.Prices.Small, &p.Prices.Medium, &p.Prices.Large,
			&p.Stock.Small, &p.Stock.Medium, &p.Stock.Large,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (r *postgresRepo) UpdatePlant(ctx context.Context, p *Plant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plants SET name=$1, description=$2, category=$3, image_url=$4, rating=$5,
		       price_small=$6, price_medium=$7, price_large=$8, updated_at=NOW()
		WHERE id=$9`,
		p.Name, p.Description, p.Category, p.ImageURL, p.Rating,
		p.Prices.Small, p.Prices.Medium, p.Prices.Large, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlantNotFound
	}
	return nil
}

func (r *postgresRepo) DeletePlant(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrPlantNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM plants WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPlantNotFound
	}
	return nil
}

// AdjustStock applies the delta with a guard clause so the check and the
// write are a single statement; concurrent mutations can never drive a
// bucket negative.
func (r *postgresRepo) AdjustStock(ctx context.Context, id string, size Size, delta int) (*Plant, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrPlantNotFound
	}
	col, err := StockColumn(size)
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE plants SET %[1]s = %[1]s + $1, updated_at=NOW()
		WHERE id=$2 AND %[1]s + $1 >= 0`, col),
		delta, uid)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish a missing plant from a guarded rejection.
		if _, err := r.GetPlantByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientStock
	}
	return r.GetPlantByID(ctx, id)
}

func (r *postgresRepo) CountPlants(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plants`).Scan(&n)
	return n, err
}

// StockColumn maps a validated size tag to its column. Sizes are a closed
// enum, so this never interpolates caller input into SQL. Sibling repos
// (purchase, waste, order) reuse it for their guarded stock updates.
func StockColumn(size Size) (string, error) {
	switch size {
	case SizeSmall:
		return "stock_small", nil
	case SizeMedium:
		return "stock_medium", nil
	case SizeLarge:
		return "stock_large", nil
	}
	return "", ErrInvalidSize
}
