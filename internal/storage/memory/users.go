package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"microshop/internal/model"
)

type UserStore struct {
	mu    sync.RWMutex
	items map[string]model.User
}

func NewUserStore() *UserStore {
	return &UserStore{items: make(map[string]model.User)}
}

func (s *UserStore) Save(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Email == user.Email && existing.ID != user.ID {
			return model.User{}, model.ErrEmailTaken
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.items[user.ID] = user
	return user, nil
}

func (s *UserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.items[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) List(_ context.Context, limit, offset int) ([]model.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]model.User, 0, len(s.items))
	for _, user := range s.items {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *UserStore) Update(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[user.ID]; !ok {
		return model.User{}, model.ErrUserNotFound
	}
	for _, existing := range s.items {
		if existing.Email == user.Email && existing.ID != user.ID {
			return model.User{}, model.ErrEmailTaken
		}
	}
	s.items[user.ID] = user
	return user, nil
}

func (s *UserStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}
