// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"propertycms/internal/models"
)

// UserStore handles admin account lookups.
type UserStore struct {
	db DBTX
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

// FindByUsername retrieves an admin by username. Returns nil if not found.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	u := &models.AdminUser{}
	err := s.db.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admin_users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}
