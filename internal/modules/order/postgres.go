package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/plantheaven/nursery-backend/internal/modules/plant"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id,user_id,first_name,last_name,email,phone,
       street,city,zip_code,country,payment_method,payment_number,payment_status,
       subtotal,shipping_fee,discount,cod_charges,total_amount,
       status,tracking_number,notes,delivered_at,cancelled_at,created_at,updated_at`

// CreateOrder reserves stock line by line with guarded conditional updates
// and inserts the order inside one transaction. All decrements and inserts
// commit together or not at all.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oos []OutOfStockItem
	for _, item := range o.Items {
		col, err := plant.StockColumn(item.Size)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE plants SET %[1]s = %[1]s - $1, updated_at=NOW()
			WHERE id=$2 AND %[1]s >= $1`, col),
			item.Quantity, item.PlantID)
		if err != nil {
			return fmt.Errorf("reserve stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var available int
			err := tx.QueryRowContext(ctx,
				fmt.Sprintf(`SELECT %s FROM plants WHERE id=$1`, col),
				item.PlantID).Scan(&available)
			if err == sql.ErrNoRows {
				return plant.ErrPlantNotFound
			}
			if err != nil {
				return err
			}
			oos = append(oos, OutOfStockItem{
				PlantID:   item.PlantID,
				Name:      item.Name,
				Size:      item.Size,
				Requested: item.Quantity,
				Available: available,
			})
		}
	}
	if len(oos) > 0 {
		return &OutOfStockError{Items: oos}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders
		  (id,user_id,first_name,last_name,email,phone,
		   street,city,zip_code,country,payment_method,payment_number,payment_status,
		   subtotal,shipping_fee,discount,cod_charges,total_amount,status,notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		o.ID, o.UserID, o.UserDetails.FirstName, o.UserDetails.LastName,
		o.UserDetails.Email, o.UserDetails.Phone,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.ZipCode,
		o.ShippingAddress.Country, o.PaymentMethod, o.PaymentDetails.Number, o.PaymentDetails.Status,
		o.Subtotal, o.ShippingFee, o.Discount, o.CODCharges, o.TotalAmount, o.Status, o.Notes)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, plant_id, name, size, quantity, price, image)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			o.ID, item.PlantID, item.Name, item.Size, item.Quantity, item.Price, item.Image)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	o := orders[0]
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrders(ctx context.Context, f Filter) ([]*Order, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	n := 0
	if f.Status != "" {
		n++
		where += fmt.Sprintf(` AND status=$%d`, n)
		args = append(args, f.Status)
	}
	if f.StartDate != nil {
		n++
		where += fmt.Sprintf(` AND created_at >= $%d`, n)
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		n++
		where += fmt.Sprintf(` AND created_at <= $%d`, n)
		args = append(args, *f.EndDate)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pageBounds(f.Page, f.Limit)
	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepo) ListOrdersByUser(ctx context.Context, userID string, page, limit int) ([]*Order, int, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, ErrOrderNotFound
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id=$1`, uid).Scan(&total); err != nil {
		return nil, 0, err
	}

	lim, offset := pageBounds(page, limit)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		uid, lim, offset)
	if err != nil {
		return nil, 0, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus pins the expected current status in the WHERE clause. The
// service's transition check runs against a snapshot, so without the guard
// two racing writers could both pass it and flip the same row twice.
func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to OrderStatus, trackingNumber, notes string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrOrderNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status=$1,
		       tracking_number = COALESCE(NULLIF($2,''), tracking_number),
		       notes = COALESCE(NULLIF($3,''), notes),
		       delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		       updated_at = NOW()
		WHERE id=$4 AND status=$5`,
		to, trackingNumber, notes, uid, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.staleStatusErr(ctx, uid, to)
	}
	return nil
}

// CancelOrder flips the order to cancelled and puts every reserved line
// back into stock, all in one transaction. The flip is guarded on the
// status the caller validated against; if it lost a race the transaction
// rolls back and nothing is restored.
func (r *postgresRepo) CancelOrder(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status=$1, cancelled_at=NOW(), updated_at=NOW()
		WHERE id=$2 AND status=$3`,
		StatusCancelled, o.ID, o.Status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.staleStatusErr(ctx, o.ID, StatusCancelled)
	}

	for _, item := range o.Items {
		col, err := plant.StockColumn(item.Size)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE plants SET %[1]s = %[1]s + $1, updated_at=NOW() WHERE id=$2`, col),
			item.Quantity, item.PlantID)
		if err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	return tx.Commit()
}

// staleStatusErr explains a guarded status update that matched no row:
// either the order is gone or another writer moved it first.
func (r *postgresRepo) staleStatusErr(ctx context.Context, id uuid.UUID, to OrderStatus) error {
	var current OrderStatus
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id=$1`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	return &InvalidTransitionError{From: current, To: to, Allowed: AllowedNext(current)}
}

func pageBounds(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	defer rows.Close()
	var orders []*Order
	for rows.Next() {
		o := &Order{}
		var trackingNumber, notes sql.NullString
		var deliveredAt, cancelledAt sql.NullTime
		if err := rows.Scan(
			&o.ID, &o.UserID,
			&o.UserDetails.FirstName, &o.UserDetails.LastName,
			&o.UserDetails.Email, &o.UserDetails.Phone,
			&o.ShippingAddress.Street, &o.ShippingAddress.City,
			&o.ShippingAddress.ZipCode, &o.ShippingAddress.Country,
			&o.PaymentMethod, &o.PaymentDetails.Number, &o.PaymentDetails.Status,
			&o.Subtotal, &o.ShippingFee, &o.Discount, &o.CODCharges, &o.TotalAmount,
			&o.Status, &trackingNumber, &notes, &deliveredAt, &cancelledAt,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.TrackingNumber = trackingNumber.String
		o.Notes = notes.String
		if deliveredAt.Valid {
			t := deliveredAt.Time
			o.DeliveredAt = &t
		}
		if cancelledAt.Valid {
			t := cancelledAt.Time
			o.CancelledAt = &t
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT plant_id, name, size, quantity, price, image
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.PlantID, &item.Name, &item.Size,
			&item.Quantity, &item.Price, &item.Image); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []*Order) error {
	for _, o := range orders {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return err
		}
		o.Items = items
	}
	return nil
}
