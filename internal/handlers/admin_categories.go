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

type categoryInput struct {
	Name          string  `json:"name"`
	NameAr        *string `json:"name_ar"`
	Description   *string `json:"description"`
	DescriptionAr *string `json:"description_ar"`
}

func (in *categoryInput) model() *models.Category {
	return &models.Category{
		Name:          strings.TrimSpace(in.Name),
		NameAr:        trimPtr(in.NameAr),
		Description:   trimPtr(in.Description),
		DescriptionAr: trimPtr(in.DescriptionAr),
	}
}

func (a *Admin) readCategory(w http.ResponseWriter, r *http.Request) (*categoryInput, error) {
	var in categoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		return nil, err
	}
	if msg := validateCategory(in.Name, in.NameAr, in.Description, in.DescriptionAr); msg != "" {
		return nil, badRequest(msg)
	}
	return &in, nil
}

// CreateCategory handles POST /api/categories.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	in, err := a.readCategory(w, r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	created, err := a.categories.Create(r.Context(), in.model())
	if err != nil {
		respond(w, r, err, "")
		return
	}

	a.invalidate(r.Context(), "category", &created.ID, "create")
	slog.Info("category created", "id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"id":       created.ID,
		"category": created,
		"message":  "Category created successfully",
	})
}

// UpdateCategory handles PUT /api/categories/{id}.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond(w, r, err, "")
		return
	}
	in, err := a.readCategory(w, r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	c := in.model()
	c.ID = id
	updated, err := a.categories.Update(r.Context(), c)
	if err != nil {
		respond(w, r, err, "Category not found")
		return
	}

	a.invalidate(r.Context(), "category", &id, "update")
	slog.Info("category updated", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"category": updated,
		"message":  "Category updated successfully",
	})
}

// DeleteCategory handles DELETE /api/categories/{id}. Properties and
// images cascade in the database; stored files of the category's images
// are removed afterwards.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	files, err := a.categories.Delete(r.Context(), id)
	if err != nil {
		respond(w, r, err, "Category not found")
		return
	}
	a.discardFiles(r.Context(), files...)

	a.invalidate(r.Context(), "category", &id, "delete")
	slog.Info("category deleted", "id", id, "files", len(files))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Category and associated images deleted successfully",
	})
}
