// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LegacyImage is a media row owned directly by a Category (the images
// table). Either Filename (a storage key) or ImageURL (an external URL) is set.
type LegacyImage struct {
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"category_id"`
	Filename     *string   `json:"filename"`
	OriginalName *string   `json:"original_name"`
	Title        *string   `json:"title"`
	TitleAr      *string   `json:"title_ar"`
	VideoURL     *string   `json:"video_url"`
	FileSize     *int64    `json:"file_size"`
	MimeType     *string   `json:"mime_type"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsImage returns true if the stored file has an image MIME type.
func (m *LegacyImage) IsImage() bool {
	return m.MimeType != nil && strings.HasPrefix(*m.MimeType, "image/")
}

// HumanSize returns a human-readable file size string.
func (m *LegacyImage) HumanSize() string {
	if m.FileSize == nil {
		return ""
	}
	const (
		kb = 1024
		mb = 1024 * kb
	)
	size := *m.FileSize
	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/float64(mb))
	case size >= kb:
		return fmt.Sprintf("%.0f KB", float64(size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// MediaKind tags which data shape a MediaItem was rendered from.
type MediaKind string

const (
	// MediaDirect is a LegacyImage attached straight to a category.
	MediaDirect MediaKind = "direct"
	// MediaPropertyDerived is a "virtual image" synthesized from a
	// Property and one of its images (or a placeholder when it has none).
	MediaPropertyDerived MediaKind = "property"
)

// MediaItem is one entry of a category's images list. Both kinds render
// to the same wire shape; property fields are surfaced at the image level
// for the front-end's convenience.
type MediaItem struct {
	Kind MediaKind

	// ID is the source row: images.id for direct items, property_images.id
	// for derived items, 0 for a property placeholder.
	ID         int64
	PropertyID *int64

	Title        *string
	TitleAr      *string
	Filename     *string
	OriginalName *string
	ImageURL     *string
	VideoURL     *string

	// Property-derived only.
	ImageTitleEn  *string
	ImageTitleAr  *string
	Location      *string
	Description   *string
	DescriptionAr *string
	Featured      *bool
	SortOrder     *int

	CreatedAt time.Time
}

// NewDirectMedia renders a legacy image. urlFor maps a stored filename to
// its public URL; an explicit ImageURL always wins.
func NewDirectMedia(img LegacyImage, urlFor func(filename string) string) MediaItem {
	item := MediaItem{
		Kind:         MediaDirect,
		ID:           img.ID,
		Title:        img.Title,
		TitleAr:      img.TitleAr,
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		VideoURL:     img.VideoURL,
		CreatedAt:    img.CreatedAt,
	}
	switch {
	case img.ImageURL != nil && *img.ImageURL != "":
		item.ImageURL = img.ImageURL
	case img.Filename != nil && *img.Filename != "":
		u := urlFor(*img.Filename)
		item.ImageURL = &u
	}
	return item
}

// NewPropertyMedia renders a virtual image for p. A nil img produces the
// placeholder entry (null image_url) that keeps an image-less property
// visible in category listings.
func NewPropertyMedia(p Property, img *PropertyImage) MediaItem {
	propertyID := p.ID
	featured := p.Featured
	item := MediaItem{
		Kind:          MediaPropertyDerived,
		PropertyID:    &propertyID,
		Title:         p.TitleEn,
		TitleAr:       p.TitleAr,
		VideoURL:      p.VideoURL,
		Location:      p.Location,
		Description:   p.DescriptionEn,
		DescriptionAr: p.DescriptionAr,
		Featured:      &featured,
		CreatedAt:     p.CreatedAt,
	}
	if img != nil {
		url := img.ImageURL
		sortOrder := img.SortOrder
		item.ID = img.ID
		item.ImageURL = &url
		item.ImageTitleEn = img.TitleEn
		item.ImageTitleAr = img.TitleAr
		item.SortOrder = &sortOrder
		item.CreatedAt = img.CreatedAt
	}
	return item
}

// IsPlaceholder reports whether the item stands in for a property with no images.
func (m MediaItem) IsPlaceholder() bool {
	return m.Kind == MediaPropertyDerived && m.ID == 0
}

// WireID is the id the front-end sees: the numeric row id for direct
// images, "prop_<image id>" for derived ones, "prop_empty_<property id>"
// for placeholders.
func (m MediaItem) WireID() any {
	switch {
	case m.Kind == MediaDirect:
		return m.ID
	case m.IsPlaceholder() && m.PropertyID != nil:
		return fmt.Sprintf("prop_empty_%d", *m.PropertyID)
	default:
		return fmt.Sprintf("prop_%d", m.ID)
	}
}

type mediaWire struct {
	ID            any       `json:"id"`
	Kind          MediaKind `json:"kind"`
	PropertyID    *int64    `json:"property_id,omitempty"`
	Title         *string   `json:"title"`
	TitleAr       *string   `json:"title_ar"`
	TitleEn       *string   `json:"title_en"`
	Filename      *string   `json:"filename"`
	OriginalName  *string   `json:"original_name,omitempty"`
	ImageURL      *string   `json:"image_url"`
	VideoURL      *string   `json:"video_url"`
	ImageTitleEn  *string   `json:"image_title_en,omitempty"`
	ImageTitleAr  *string   `json:"image_title_ar,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Description   *string   `json:"description,omitempty"`
	DescriptionAr *string   `json:"description_ar,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
	SortOrder     *int      `json:"sort_order,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MarshalJSON renders both kinds into the single wire shape.
func (m MediaItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(mediaWire{
		ID:            m.WireID(),
		Kind:          m.Kind,
		PropertyID:    m.PropertyID,
		Title:         m.Title,
		TitleAr:       m.TitleAr,
		TitleEn:       m.Title,
		Filename:      m.Filename,
		OriginalName:  m.OriginalName,
		ImageURL:      m.ImageURL,
		VideoURL:      m.VideoURL,
		ImageTitleEn:  m.ImageTitleEn,
		ImageTitleAr:  m.ImageTitleAr,
		Location:      m.Location,
		Description:   m.Description,
		DescriptionAr: m.DescriptionAr,
		Featured:      m.Featured,
		SortOrder:     m.SortOrder,
		CreatedAt:     m.CreatedAt,
	})
}
