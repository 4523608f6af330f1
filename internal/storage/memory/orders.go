// Package memory holds map-backed store implementations used by tests
// and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"microshop/internal/model"
)

type OrderStore struct {
	mu    sync.RWMutex
	items map[string]model.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{items: make(map[string]model.Order)}
}

func (s *OrderStore) Save(_ context.Context, order model.Order) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	s.items[order.ID] = order
	return order, nil
}

func (s *OrderStore) FindByID(_ context.Context, id string) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.items[id]
	if !ok {
		return model.Order{}, model.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderStore) List(_ context.Context, limit, offset int) ([]model.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.Order, 0, len(s.items))
	for _, order := range s.items {
		all = append(all, order)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].OrderDate.Equal(all[j].OrderDate) {
			return all[i].OrderDate.After(all[j].OrderDate)
		}
		return all[i].ID > all[j].ID
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []model.Order{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *OrderStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}
