// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the catalog API.
// Handlers are grouped by concern (public, admin, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"propertycms/internal/models"
	"propertycms/internal/store"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// CategoryStore persists categories.
type CategoryStore interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id int64) ([]string, error)
}

// PropertyStore persists properties and their images.
type PropertyStore interface {
	Create(ctx context.Context, p *models.Property, images []models.PropertyImage) (*models.Property, []models.PropertyImage, error)
	Update(ctx context.Context, p *models.Property) (*models.Property, error)
	Delete(ctx context.Context, id int64) error
}

// ImageStore persists images attached directly to categories.
type ImageStore interface {
	Create(ctx context.Context, m *models.LegacyImage) (*models.LegacyImage, error)
	UpdateMeta(ctx context.Context, id int64, title, titleAr, videoURL *string) (*models.LegacyImage, error)
	Delete(ctx context.Context, id int64) (*models.LegacyImage, error)
}

// ContactStore reads and replaces contact entries.
type ContactStore interface {
	List(ctx context.Context) ([]models.ContactEntry, error)
	Replace(ctx context.Context, info models.ContactInfo) error
}

// CompanyLister lists partner companies.
type CompanyLister interface {
	List(ctx context.Context) ([]models.Company, error)
}

// InvalidationLog audits cache invalidations.
type InvalidationLog interface {
	Log(ctx context.Context, entityType string, entityID *int64, action string)
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// CatalogBuilder computes the category listing.
type CatalogBuilder interface {
	Categories(ctx context.Context) ([]models.CategoryView, error)
}

// SnapshotCache holds the last computed category listing.
type SnapshotCache interface {
	Get() ([]models.CategoryView, bool)
	Generation() uint64
	Set(gen uint64, v []models.CategoryView) bool
	Clear()
	Age() (time.Duration, bool)
	TTL() time.Duration
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("Request body is required")
		}
		return badRequest("Invalid JSON body")
	}
	return nil
}

// isJSON reports whether the request declares a JSON body.
func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid ID")
	}
	return id, nil
}

// optional trims s and returns nil when it is empty.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// trimPtr trims *s, mapping blank strings to nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}

// flexID accepts an ID sent either as a JSON number or a numeric string,
// as HTML forms and JS front-ends do both.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*f = flexID(n)
	return nil
}
