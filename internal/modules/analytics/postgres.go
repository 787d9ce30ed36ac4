package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/plantheaven/nursery-backend/internal/modules/order"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// dateWhere builds an optional created_at range clause starting at
// placeholder $1.
func dateWhere(start, end *time.Time) (string, []interface{}) {
	where := ""
	args := []interface{}{}
	if start != nil {
		args = append(args, *start)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return where, args
}

func (r *postgresRepo) StatusCounts(ctx context.Context, start, end *time.Time) (map[order.OrderStatus]int, error) {
	where, args := dateWhere(start, end)
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM orders WHERE 1=1`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[order.OrderStatus]int{}
	for rows.Next() {
		var status order.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *postgresRepo) DailySales(ctx context.Context, start, end *time.Time) ([]DailySale, error) {
	where, args := dateWhere(start, end)
	rows, err := r.db.QueryContext(ctx, `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD'), COALESCE(SUM(total_amount),0), COUNT(*)
		FROM orders WHERE 1=1`+where+`
		GROUP BY created_at::date ORDER BY created_at::date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []DailySale
	for rows.Next() {
		var d DailySale
		if err := rows.Scan(&d.Date, &d.Total, &d.Count); err != nil {
			return nil, err
		}
		sales = append(sales, d)
	}
	return sales, rows.Err()
}

func (r *postgresRepo) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name || ' ' || last_name, total_amount, status, created_at
		FROM orders WHERE created_at >= CURRENT_DATE
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recent []RecentOrder
	for rows.Next() {
		var o RecentOrder
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		recent = append(recent, o)
	}
	return recent, rows.Err()
}

func (r *postgresRepo) TimeBasedCounts(ctx context.Context, start, end *time.Time) (map[string]int, error) {
	where, args := dateWhere(start, end)
	rows, err := r.db.QueryContext(ctx, `
		SELECT CASE
		         WHEN EXTRACT(HOUR FROM created_at) BETWEEN 5 AND 11 THEN 'morning'
		         WHEN EXTRACT(HOUR FROM created_at) BETWEEN 12 AND 16 THEN 'afternoon'
		         WHEN EXTRACT(HOUR FROM created_at) BETWEEN 17 AND 20 THEN 'evening'
		         ELSE 'night'
		       END AS bucket, COUNT(*)
		FROM orders WHERE 1=1`+where+`
		GROUP BY bucket`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var bucket string
		var count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, err
		}
		counts[bucket] = count
	}
	return counts, rows.Err()
}
