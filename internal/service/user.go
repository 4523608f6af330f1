package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"microshop/internal/model"
)

var ErrUserInvalid = errors.New("user name and email are required")

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Create(ctx context.Context, user model.User) (model.User, error) {
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" {
		return model.User{}, ErrUserInvalid
	}

	saved, err := s.store.Save(ctx, user)
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	slog.Info("user created", "user_id", saved.ID, "email", saved.Email)
	return saved, nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.store.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page, size int) (model.Page[model.User], error) {
	users, total, err := s.store.List(ctx, size, page*size)
	if err != nil {
		return model.Page[model.User]{}, fmt.Errorf("list users: %w", err)
	}
	return model.Page[model.User]{Content: users, Page: page, Size: size, TotalElements: total}, nil
}

// Replace is full-replace semantics: all required fields must be present.
func (s *UserService) Replace(ctx context.Context, id string, user model.User) (model.User, error) {
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Email) == "" {
		return model.User{}, ErrUserInvalid
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	current.Name = user.Name
	current.Email = user.Email
	current.Phone = user.Phone
	return s.store.Update(ctx, current)
}

// Patch updates only the fields present in the request; required fields
// must survive the merge.
func (s *UserService) Patch(ctx context.Context, id string, name, email, phone *string) (model.User, error) {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if name != nil {
		current.Name = *name
	}
	if email != nil {
		current.Email = *email
	}
	if phone != nil {
		current.Phone = *phone
	}

	if strings.TrimSpace(current.Name) == "" || strings.TrimSpace(current.Email) == "" {
		return model.User{}, ErrUserInvalid
	}
	return s.store.Update(ctx, current)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	slog.Info("user deleted", "user_id", id)
	return nil
}
