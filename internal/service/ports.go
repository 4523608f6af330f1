package service

import (
	"context"

	"microshop/internal/model"
)

// Resolver turns a logical service name into a base URL. Implemented by
// the registry client; a static implementation covers fixed deployments.
type Resolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// OrderStore persists orders. Save assigns the identifier and the order
// date when absent and returns the stored record. DeleteByID succeeds
// whether or not the id exists.
type OrderStore interface {
	Save(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, id string) (model.Order, error)
	List(ctx context.Context, limit, offset int) ([]model.Order, int64, error)
	DeleteByID(ctx context.Context, id string) error
}

type UserStore interface {
	Save(ctx context.Context, user model.User) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int64, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	DeleteByID(ctx context.Context, id string) error
}

type ProductStore interface {
	Save(ctx context.Context, product model.Product) (model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	List(ctx context.Context, limit, offset int) ([]model.Product, int64, error)
	Update(ctx context.Context, product model.Product) (model.Product, error)
	DeleteByID(ctx context.Context, id string) error
}
