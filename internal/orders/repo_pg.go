package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PGStore implements Store on Postgres. Money columns are numeric(10,2);
// they travel as text so decimal never goes through float64.
type PGStore struct{ DB *pgxpool.Pool }

func (r *PGStore) SaveOrder(ctx context.Context, o Order) (Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, fmt.Errorf("marshal items: %w", err)
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO orders(id, customer_id, items, status, subtotal, tax, total,
		                   created_at, estimated_ready_at, delivery_address, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		o.ID, o.CustomerID, items, string(o.Status),
		o.Subtotal.StringFixed(2), o.Tax.StringFixed(2), o.Total.StringFixed(2),
		o.CreatedAt, o.EstimatedReadyAt, o.DeliveryAddress, o.Note,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return Order{}, ErrDuplicateID
		}
		return Order{}, err
	}
	return o, nil
}

func (r *PGStore) GetOrder(ctx context.Context, id string) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, items, status, subtotal::text, tax::text, total::text,
		       created_at, estimated_ready_at, delivery_address, note
		FROM orders WHERE id=$1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *PGStore) UpdateOrder(ctx context.Context, o Order) (Order, error) {
	// Status is the only mutable column; the money fields stay as written at
	// creation time.
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, o.ID, string(o.Status))
	if err != nil {
		return Order{}, err
	}
	if ct.RowsAffected() == 0 {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *PGStore) FindOrdersByCustomer(ctx context.Context, customerID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_id, items, status, subtotal::text, tax::text, total::text,
		       created_at, estimated_ready_at, delivery_address, note
		FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                    Order
		items                []byte
		status               string
		subtotal, tax, total string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &items, &status, &subtotal, &tax, &total,
		&o.CreatedAt, &o.EstimatedReadyAt, &o.DeliveryAddress, &o.Note); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, fmt.Errorf("unmarshal items: %w", err)
	}
	o.Status = Status(status)
	var err error
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Order{}, err
	}
	if o.Tax, err = decimal.NewFromString(tax); err != nil {
		return Order{}, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return Order{}, err
	}
	return o, nil
}
