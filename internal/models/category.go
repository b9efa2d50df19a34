// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and the response shapes served by the public catalog API.
package models

import "time"

// Category is a bilingual grouping of listings. It owns Properties, or
// LegacyImages in the pre-property data shape.
type Category struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	NameAr        *string   `json:"name_ar"`
	Description   *string   `json:"description"`
	DescriptionAr *string   `json:"description_ar"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategoryView is a category decorated with its rendered media list, as
// served by GET /api/categories. The *_en fields mirror the unsuffixed
// ones for front-ends that always address fields by language.
type CategoryView struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	NameAr        *string     `json:"name_ar"`
	NameEn        string      `json:"name_en"`
	Description   *string     `json:"description"`
	DescriptionAr *string     `json:"description_ar"`
	DescriptionEn *string     `json:"description_en"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Images        []MediaItem `json:"images"`
}

// NewCategoryView builds the response entry for c. A nil images slice is
// replaced by an empty one so the field always serializes as [].
func NewCategoryView(c Category, images []MediaItem) CategoryView {
	if images == nil {
		images = []MediaItem{}
	}
	return CategoryView{
		ID:            c.ID,
		Name:          c.Name,
		NameAr:        c.NameAr,
		NameEn:        c.Name,
		Description:   c.Description,
		DescriptionAr: c.DescriptionAr,
		DescriptionEn: c.Description,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Images:        images,
	}
}
