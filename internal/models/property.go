// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Property is a single real-estate listing owned by exactly one Category.
// Deleting the category cascades to its properties.
type Property struct {
	ID            int64     `json:"id"`
	CategoryID    int64     `json:"category_id"`
	TitleEn       *string   `json:"title_en"`
	TitleAr       *string   `json:"title_ar"`
	DescriptionEn *string   `json:"description_en"`
	DescriptionAr *string   `json:"description_ar"`
	Location      *string   `json:"location"`
	VideoURL      *string   `json:"video_url"`
	Featured      bool      `json:"featured"`
	CreatedAt     time.Time `json:"created_at"`
}

// PropertyImage is an image owned by a Property. SortOrder defines the
// display order within the property; ties fall back to ID.
type PropertyImage struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"property_id"`
	ImageURL   string    `json:"image_url"`
	TitleEn    *string   `json:"title_en"`
	TitleAr    *string   `json:"title_ar"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}
