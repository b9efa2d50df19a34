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

// ImageStore handles the images table: media attached straight to a
// category, predating properties.
type ImageStore struct {
	db DBTX
}

// NewImageStore creates a new ImageStore.
func NewImageStore(db DBTX) *ImageStore {
	return &ImageStore{db: db}
}

const imageColumns = `id, category_id, filename, original_name, title, title_ar,
	video_url, file_size, mime_type, image_url, created_at`

func scanImage(row scanner) (*models.LegacyImage, error) {
	var m models.LegacyImage
	err := row.Scan(
		&m.ID, &m.CategoryID, &m.Filename, &m.OriginalName, &m.Title, &m.TitleAr,
		&m.VideoURL, &m.FileSize, &m.MimeType, &m.ImageURL, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByCategories returns the images of the given categories, newest first.
func (s *ImageStore) ListByCategories(ctx context.Context, categoryIDs []int64) ([]models.LegacyImage, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+imageColumns+`
		FROM images
		WHERE category_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var items []models.LegacyImage
	for rows.Next() {
		m, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Create inserts a new image record and returns it with the generated ID.
func (s *ImageStore) Create(ctx context.Context, m *models.LegacyImage) (*models.LegacyImage, error) {
	created, err := scanImage(s.db.QueryRow(ctx, `
		INSERT INTO images (category_id, filename, original_name, title, title_ar,
			video_url, file_size, mime_type, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+imageColumns,
		m.CategoryID, m.Filename, m.OriginalName, m.Title, m.TitleAr,
		m.VideoURL, m.FileSize, m.MimeType, m.ImageURL,
	))
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return created, nil
}

// UpdateMeta changes the titles and video link of an image.
// Returns ErrNotFound when no row has the given ID.
func (s *ImageStore) UpdateMeta(ctx context.Context, id int64, title, titleAr, videoURL *string) (*models.LegacyImage, error) {
	updated, err := scanImage(s.db.QueryRow(ctx, `
		UPDATE images SET title = $1, title_ar = $2, video_url = $3
		WHERE id = $4
		RETURNING `+imageColumns,
		title, titleAr, videoURL, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update image: %w", err)
	}
	return updated, nil
}

// Delete removes an image record and returns it so the caller can clean
// up the stored file. Returns ErrNotFound when no row has the given ID.
func (s *ImageStore) Delete(ctx context.Context, id int64) (*models.LegacyImage, error) {
	m, err := scanImage(s.db.QueryRow(ctx, `
		DELETE FROM images WHERE id = $1
		RETURNING `+imageColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete image: %w", err)
	}
	return m, nil
}
