package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"microshop/internal/model"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Save(ctx context.Context, product model.Product) (model.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price_cents, stock)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id, created_at
	`, product.Name, product.Description, product.PriceCents, product.Stock)

	if err := row.Scan(&product.ID, &product.CreatedAt); err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (model.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), price_cents, stock, created_at
		FROM products
		WHERE id::text = $1
	`, id)

	var p model.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Product{}, model.ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) List(ctx context.Context, limit, offset int) ([]model.Product, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), price_cents, stock, created_at
		FROM products
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration failed: %w", err)
	}

	return products, total, nil
}

func (s *ProductStore) Update(ctx context.Context, product model.Product) (model.Product, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET name = $1, description = NULLIF($2, ''), price_cents = $3, stock = $4
		WHERE id::text = $5
	`, product.Name, product.Description, product.PriceCents, product.Stock, product.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return model.Product{}, model.ErrProductNotFound
	}
	return product, nil
}

func (s *ProductStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id::text = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
