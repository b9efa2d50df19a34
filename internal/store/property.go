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

// PropertyStore manages properties and their images.
type PropertyStore struct {
	db DBTX
}

// NewPropertyStore returns a new PropertyStore.
func NewPropertyStore(db DBTX) *PropertyStore {
	return &PropertyStore{db: db}
}

const propertyColumns = `id, category_id, title_en, title_ar, description_en, description_ar,
	location, video_url, featured, created_at`

const propertyImageColumns = `id, property_id, image_url, title_en, title_ar, sort_order, created_at`

func scanProperty(row scanner) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.TitleEn, &p.TitleAr, &p.DescriptionEn, &p.DescriptionAr,
		&p.Location, &p.VideoURL, &p.Featured, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPropertyImage(row scanner) (*models.PropertyImage, error) {
	var img models.PropertyImage
	err := row.Scan(
		&img.ID, &img.PropertyID, &img.ImageURL, &img.TitleEn, &img.TitleAr,
		&img.SortOrder, &img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// ListByCategories returns the properties of the given categories,
// featured first, then newest first.
func (s *PropertyStore) ListByCategories(ctx context.Context, categoryIDs []int64) ([]models.Property, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE category_id = ANY($1)
		ORDER BY featured DESC, created_at DESC, id DESC
	`, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var items []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// ImagesForProperties returns the images of the given properties ordered
// by property, then display order.
func (s *PropertyStore) ImagesForProperties(ctx context.Context, propertyIDs []int64) ([]models.PropertyImage, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+propertyImageColumns+`
		FROM property_images
		WHERE property_id = ANY($1)
		ORDER BY property_id, sort_order, id
	`, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("list property images: %w", err)
	}
	defer rows.Close()

	var items []models.PropertyImage
	for rows.Next() {
		img, err := scanPropertyImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property image: %w", err)
		}
		items = append(items, *img)
	}
	return items, rows.Err()
}

// Create inserts a property together with its images in one transaction.
// Each image's SortOrder is set to its index in images.
func (s *PropertyStore) Create(ctx context.Context, p *models.Property, images []models.PropertyImage) (*models.Property, []models.PropertyImage, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin create property: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanProperty(tx.QueryRow(ctx, `
		INSERT INTO properties (category_id, title_en, title_ar, description_en, description_ar,
			location, video_url, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+propertyColumns,
		p.CategoryID, p.TitleEn, p.TitleAr, p.DescriptionEn, p.DescriptionAr,
		p.Location, p.VideoURL, p.Featured,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("create property: %w", err)
	}

	stored := make([]models.PropertyImage, 0, len(images))
	for i, img := range images {
		saved, err := scanPropertyImage(tx.QueryRow(ctx, `
			INSERT INTO property_images (property_id, image_url, title_en, title_ar, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+propertyImageColumns,
			created.ID, img.ImageURL, img.TitleEn, img.TitleAr, i,
		))
		if err != nil {
			return nil, nil, fmt.Errorf("create property image %d: %w", i, err)
		}
		stored = append(stored, *saved)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit create property: %w", err)
	}
	return created, stored, nil
}

// Update replaces the scalar fields of a property.
// Returns ErrNotFound when no row has the given ID.
func (s *PropertyStore) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	updated, err := scanProperty(s.db.QueryRow(ctx, `
		UPDATE properties
		SET category_id = $1, title_en = $2, title_ar = $3, description_en = $4,
			description_ar = $5, location = $6, video_url = $7, featured = $8
		WHERE id = $9
		RETURNING `+propertyColumns,
		p.CategoryID, p.TitleEn, p.TitleAr, p.DescriptionEn, p.DescriptionAr,
		p.Location, p.VideoURL, p.Featured, p.ID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	return updated, nil
}

// Delete removes a property; its images cascade.
// Returns ErrNotFound when no row has the given ID.
func (s *PropertyStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
