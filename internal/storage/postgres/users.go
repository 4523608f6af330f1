package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"microshop/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Save(ctx context.Context, user model.User) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at
	`, user.Name, user.Email, user.Phone)

	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM users
		WHERE id::text = $1
	`, id)

	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context, limit, offset int) ([]model.User, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM users
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration failed: %w", err)
	}

	return users, total, nil
}

func (s *UserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = $1, email = $2, phone = NULLIF($3, '')
		WHERE id::text = $4
	`, user.Name, user.Email, user.Phone, user.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return model.User{}, model.ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) DeleteByID(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id::text = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
