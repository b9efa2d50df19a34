// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"propertycms/internal/models"
)

type propertyImageInput struct {
	ImageURL string  `json:"image_url"`
	TitleEn  *string `json:"title_en"`
	TitleAr  *string `json:"title_ar"`
}

type propertyInput struct {
	CategoryID    flexID               `json:"category_id"`
	TitleEn       *string              `json:"title_en"`
	TitleAr       *string              `json:"title_ar"`
	DescriptionEn *string              `json:"description_en"`
	DescriptionAr *string              `json:"description_ar"`
	Location      *string              `json:"location"`
	VideoURL      *string              `json:"video_url"`
	Featured      bool                 `json:"featured"`
	Images        []propertyImageInput `json:"images"`
}

func (in *propertyInput) model() *models.Property {
	return &models.Property{
		CategoryID:    int64(in.CategoryID),
		TitleEn:       trimPtr(in.TitleEn),
		TitleAr:       trimPtr(in.TitleAr),
		DescriptionEn: trimPtr(in.DescriptionEn),
		DescriptionAr: trimPtr(in.DescriptionAr),
		Location:      trimPtr(in.Location),
		VideoURL:      trimPtr(in.VideoURL),
		Featured:      in.Featured,
	}
}

// images returns the inline images in request order; the store assigns
// sort_order from the position.
func (in *propertyInput) images() []models.PropertyImage {
	images := make([]models.PropertyImage, 0, len(in.Images))
	for _, img := range in.Images {
		images = append(images, models.PropertyImage{
			ImageURL: strings.TrimSpace(img.ImageURL),
			TitleEn:  trimPtr(img.TitleEn),
			TitleAr:  trimPtr(img.TitleAr),
		})
	}
	return images
}

func (a *Admin) readProperty(w http.ResponseWriter, r *http.Request) (*propertyInput, error) {
	var in propertyInput
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	if msg := validateProperty(&in); msg != "" {
		return nil, badRequest(msg)
	}
	return &in, nil
}

// CreateProperty handles POST /api/properties. Inline images are inserted
// in the same transaction as the property.
func (a *Admin) CreateProperty(w http.ResponseWriter, r *http.Request) {
	in, err := a.readProperty(w, r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	created, images, err := a.properties.Create(r.Context(), in.model(), in.images())
	if err != nil {
		respond(w, r, err, "")
		return
	}

	a.invalidate(r.Context(), "property", &created.ID, "create")
	slog.Info("property created", "id", created.ID, "category_id", created.CategoryID, "images", len(images))
	if images == nil {
		images = []models.PropertyImage{}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"id":       created.ID,
		"property": created,
		"images":   images,
		"message":  "Property created successfully",
	})
}

// UpdateProperty handles PUT /api/properties/{id}. Only scalar fields are
// updated; images are left as they are.
func (a *Admin) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond(w, r, err, "")
		return
	}
	in, err := a.readProperty(w, r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	p := in.model()
	p.ID = id
	updated, err := a.properties.Update(r.Context(), p)
	if err != nil {
		respond(w, r, err, "Property not found")
		return
	}

	a.invalidate(r.Context(), "property", &id, "update")
	slog.Info("property updated", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"property": updated,
		"message":  "Property updated successfully",
	})
}

// DeleteProperty handles DELETE /api/properties/{id}.
func (a *Admin) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	if err := a.properties.Delete(r.Context(), id); err != nil {
		respond(w, r, err, "Property not found")
		return
	}

	a.invalidate(r.Context(), "property", &id, "delete")
	slog.Info("property deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Property deleted successfully",
	})
}
