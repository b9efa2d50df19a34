// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"propertycms/internal/models"
)

// ContactStore manages the contact_info table.
type ContactStore struct {
	db DBTX
}

// NewContactStore returns a new ContactStore.
func NewContactStore(db DBTX) *ContactStore {
	return &ContactStore{db: db}
}

// List returns all contact entries ordered by type, then insertion order.
func (s *ContactStore) List(ctx context.Context) ([]models.ContactEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, type, value, label_en, label_ar, created_at
		FROM contact_info
		ORDER BY type, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list contact info: %w", err)
	}
	defer rows.Close()

	var items []models.ContactEntry
	for rows.Next() {
		var e models.ContactEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Value, &e.LabelEn, &e.LabelAr, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact info: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Replace swaps every contact entry for the given set in one transaction.
// Types are written in lexical order so IDs are deterministic.
func (s *ContactStore) Replace(ctx context.Context, info models.ContactInfo) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace contact info: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM contact_info`); err != nil {
		return fmt.Errorf("clear contact info: %w", err)
	}

	for _, kind := range slices.Sorted(maps.Keys(info)) {
		for _, e := range info[kind] {
			if _, err := tx.Exec(ctx, `
				INSERT INTO contact_info (type, value, label_en, label_ar)
				VALUES ($1, $2, $3, $4)
			`, kind, e.Value, e.LabelEn, e.LabelAr); err != nil {
				return fmt.Errorf("insert contact info %q: %w", kind, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace contact info: %w", err)
	}
	return nil
}
