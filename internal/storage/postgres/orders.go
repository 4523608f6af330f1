// Package postgres implements the stores over database/sql with the
// pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"microshop/internal/model"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Save(ctx context.Context, order model.Order) (model.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, product_id, quantity, total_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_date
	`, order.UserID, order.ProductID, order.Quantity, order.TotalCents, order.Status)

	if err := row.Scan(&order.ID, &order.OrderDate); err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

// Ids arrive as opaque strings from the API; comparing as text keeps a
// malformed id a plain miss instead of a uuid cast error.
func (s *OrderStore) FindByID(ctx context.Context, id string) (model.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, total_cents, status, order_date
		FROM orders
		WHERE id::text = $1
	`, id)

	var o model.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalCents, &o.Status, &o.OrderDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, model.ErrOrderNotFound
		}
		return model.Order{}, fmt.Errorf("query order: %w", err)
	}
	return o, nil
}

func (s *OrderStore) List(ctx context.Context, limit, offset int) ([]model.Order, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, quantity, total_cents, status, order_date
		FROM orders
		ORDER BY order_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalCents, &o.Status, &o.OrderDate); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration failed: %w", err)
	}

	return orders, total, nil
}

func (s *OrderStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id::text = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
