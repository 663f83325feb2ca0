// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/danielhkuo/veo/models"
)

// CreateUser registers an account. Emails are compared lower-cased;
// a taken email fails with ErrConflict.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	_, err := exec(ctx, s.conn, s.sb.Insert("app_user").
		Columns("id", "email", "password_hash", "created_at").
		Values(u.ID, u.Email, u.PasswordHash, u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %s is already registered: %w", u.Email, models.ErrConflict)
		}
		return nil, classify(err, "insert user")
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := queryRow(ctx, s.conn, s.sb.
		Select("id", "email", "password_hash", "created_at").
		From("app_user").
		Where(sq.Eq{"email": normalizeEmail(email)}))
	if err != nil {
		return nil, err
	}

	var u models.User
	err = row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "query user")
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
