// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"propertycms/internal/models"
)

// CompanyStore reads partner companies.
type CompanyStore struct {
	db DBTX
}

// NewCompanyStore returns a new CompanyStore.
func NewCompanyStore(db DBTX) *CompanyStore {
	return &CompanyStore{db: db}
}

// List returns all companies in insertion order.
func (s *CompanyStore) List(ctx context.Context) ([]models.Company, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name_en, name_ar, created_at
		FROM companies
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var items []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.NameEn, &c.NameAr, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
