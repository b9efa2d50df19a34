// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// Execer is the subset of *pgxpool.Pool the seeders need.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SeedAdmin creates the admin account if it does not exist yet. An
// existing account keeps its password.
func SeedAdmin(ctx context.Context, db Execer, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tag, err := db.Exec(ctx, `
		INSERT INTO admin_users (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, username, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if tag.RowsAffected() == 0 {
		slog.Info("admin user already present, skipping", "username", username)
		return nil
	}
	slog.Info("admin user created", "username", username)
	return nil
}

type sampleCategory struct {
	name, nameAr, description, descriptionAr string
}

var sampleCategories = []sampleCategory{
	{"Current Properties", "العقارات الحالية", "Currently managed properties", "العقارات المُدارة حالياً"},
	{"Complexes", "المجمعات", "Commercial and residential complexes", "المجمعات التجارية والسكنية"},
	{"Residential", "السكنية", "Residential properties and villas", "العقارات السكنية والفيلل"},
}

type sampleContact struct {
	kind, value, labelEn, labelAr string
}

var sampleContacts = []sampleContact{
	{"phone", "+966-XX-XXX-XXXX", "Main Office", "المكتب الرئيسي"},
	{"email", "info@example.com", "General Info", "معلومات عامة"},
	{"address", "Riyadh, Saudi Arabia", "Main Office", "المكتب الرئيسي"},
}

// SeedSamples populates development data: a few categories and contact
// entries. It is a no-op when any category already exists.
func SeedSamples(ctx context.Context, db Execer) error {
	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, c := range sampleCategories {
		if _, err := db.Exec(ctx, `
			INSERT INTO categories (name, name_ar, description, description_ar)
			VALUES ($1, $2, $3, $4)
		`, c.name, c.nameAr, c.description, c.descriptionAr); err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.name, err)
		}
	}

	for _, c := range sampleContacts {
		if _, err := db.Exec(ctx, `
			INSERT INTO contact_info (type, value, label_en, label_ar)
			VALUES ($1, $2, $3, $4)
		`, c.kind, c.value, c.labelEn, c.labelAr); err != nil {
			return fmt.Errorf("seed insert contact %q: %w", c.kind, err)
		}
	}

	slog.Info("database seeded with sample data",
		"categories", len(sampleCategories),
		"contacts", len(sampleContacts),
	)
	return nil
}
