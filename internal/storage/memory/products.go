package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"microshop/internal/model"
)

type ProductStore struct {
	mu    sync.RWMutex
	items map[string]model.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{items: make(map[string]model.Product)}
}

func (s *ProductStore) Save(_ context.Context, product model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}
	s.items[product.ID] = product
	return product, nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.items[id]
	if !ok {
		return model.Product{}, model.ErrProductNotFound
	}
	return product, nil
}

func (s *ProductStore) List(_ context.Context, limit, offset int) ([]model.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Product, 0, len(s.items))
	for _, product := range s.items {
		all = append(all, product)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []model.Product{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *ProductStore) Update(_ context.Context, product model.Product) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[product.ID]; !ok {
		return model.Product{}, model.ErrProductNotFound
	}
	s.items[product.ID] = product
	return product, nil
}

func (s *ProductStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}
