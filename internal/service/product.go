package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"microshop/internal/model"
)

var ErrProductInvalid = errors.New("product name is required and price must be non-negative")

type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

func (s *ProductService) Create(ctx context.Context, product model.Product) (model.Product, error) {
	if strings.TrimSpace(product.Name) == "" || product.PriceCents < 0 {
		return model.Product{}, ErrProductInvalid
	}

	saved, err := s.store.Save(ctx, product)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	slog.Info("product created", "product_id", saved.ID, "price_cents", saved.PriceCents)
	return saved, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	return s.store.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, page, size int) (model.Page[model.Product], error) {
	products, total, err := s.store.List(ctx, size, page*size)
	if err != nil {
		return model.Page[model.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return model.Page[model.Product]{Content: products, Page: page, Size: size, TotalElements: total}, nil
}

func (s *ProductService) Replace(ctx context.Context, id string, product model.Product) (model.Product, error) {
	if strings.TrimSpace(product.Name) == "" || product.PriceCents < 0 {
		return model.Product{}, ErrProductInvalid
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	current.Name = product.Name
	current.Description = product.Description
	current.PriceCents = product.PriceCents
	current.Stock = product.Stock
	return s.store.Update(ctx, current)
}

func (s *ProductService) Patch(ctx context.Context, id string, name, description *string, priceCents *int64, stock *int) (model.Product, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if name != nil {
		current.Name = *name
	}
	if description != nil {
		current.Description = *description
	}
	if priceCents != nil {
		current.PriceCents = *priceCents
	}
	if stock != nil {
		current.Stock = *stock
	}

	if strings.TrimSpace(current.Name) == "" || current.PriceCents < 0 {
		return model.Product{}, ErrProductInvalid
	}
	return s.store.Update(ctx, current)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	slog.Info("product deleted", "product_id", id)
	return nil
}
