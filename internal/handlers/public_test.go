// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertycms/internal/catalog"
	"propertycms/internal/models"
)

func TestCategoriesEmpty(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)

	rec, cats := env.listCategories(t, "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, cats)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCategoriesWithProperties(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	id := env.createCategory(t, "Villas", "فلل")

	rec := serve(env.admin.CreateProperty, jsonRequest(t, http.MethodPost, "/api/properties", map[string]any{
		"category_id": id,
		"title_en":    "Sea View",
		"location":    "Jeddah",
		"images": []map[string]any{
			{"image_url": "a.jpg"},
			{"image_url": "b.jpg"},
		},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	_, cats := env.listCategories(t, "")
	require.Len(t, cats, 1)
	assert.Equal(t, "Villas", cats[0]["name"])
	assert.Equal(t, "Villas", cats[0]["name_en"])
	assert.Equal(t, "فلل", cats[0]["name_ar"])

	images := cats[0]["images"].([]any)
	require.Len(t, images, 2)
	first, second := images[0].(map[string]any), images[1].(map[string]any)
	assert.Equal(t, "a.jpg", first["image_url"])
	assert.Equal(t, "b.jpg", second["image_url"])
	assert.Regexp(t, "^prop_[0-9]+$", first["id"])
	assert.Equal(t, "Sea View", first["title"])
	assert.Equal(t, "Jeddah", first["location"])
}

func TestCategoriesPlaceholderForPropertyWithoutImages(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	id := env.createCategory(t, "Villas", "فلل")

	rec := serve(env.admin.CreateProperty, jsonRequest(t, http.MethodPost, "/api/properties", map[string]any{
		"category_id": id,
		"title_en":    "Empty",
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	propID := int64(decode[map[string]any](t, rec)["id"].(float64))

	_, cats := env.listCategories(t, "")
	images := cats[0]["images"].([]any)
	require.Len(t, images, 1)
	entry := images[0].(map[string]any)
	assert.Equal(t, "prop_empty_"+itoa(propID), entry["id"])
	assert.Nil(t, entry["image_url"])
}

func TestCategoriesCaching(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	env.createCategory(t, "Villas", "فلل")

	rec, _ := env.listCategories(t, "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec, _ = env.listCategories(t, "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	t.Run("database is not read on a hit", func(t *testing.T) {
		env.db.err = errors.New("connection refused")
		defer func() { env.db.err = nil }()

		rec, cats := env.listCategories(t, "")
		assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
		assert.Len(t, cats, 1)
	})

	t.Run("stale after ttl", func(t *testing.T) {
		env.clock = env.clock.Add(10 * time.Minute)
		rec, _ := env.listCategories(t, "")
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	})

	t.Run("write invalidates", func(t *testing.T) {
		env.createCategory(t, "Apartments", "شقق")
		rec, cats := env.listCategories(t, "")
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		require.Len(t, cats, 2)
		assert.Equal(t, "Apartments", cats[0]["name"], "newest first")
	})
}

func TestCategoriesBypass(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	env.createCategory(t, "Villas", "فلل")
	env.listCategories(t, "")

	// A row written behind the cache's back is only visible on bypass.
	env.db.categories = append(env.db.categories, models.Category{ID: 99, Name: "Hidden"})

	rec, cats := env.listCategories(t, "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Len(t, cats, 1)

	for _, q := range []string{"?t=1718000000", "?refresh=1"} {
		rec, cats = env.listCategories(t, q)
		assert.Equal(t, "BYPASS", rec.Header().Get("X-Cache"), q)
		assert.Len(t, cats, 2, q)
	}

	// The bypass result was stored.
	rec, cats = env.listCategories(t, "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Len(t, cats, 2)
}

func TestCategoriesRefreshOtherValueIsNotBypass(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	env.listCategories(t, "")

	rec, _ := env.listCategories(t, "?refresh=0")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestCategoriesDatabaseError(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	env.db.err = errors.New("connection refused")

	rec := serve(env.public.Categories, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Database error", errorMessage(t, rec))

	_, cached := env.snapshot.Age()
	assert.False(t, cached, "failed computations are not cached")
}

// blockingCatalog returns a fixed listing once release is closed.
type blockingCatalog struct {
	views   []models.CategoryView
	started chan struct{}
	release chan struct{}
}

func (b *blockingCatalog) Categories(ctx context.Context) ([]models.CategoryView, error) {
	close(b.started)
	<-b.release
	return b.views, nil
}

func TestCategoriesRecomputeRacingWriteIsNotCached(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	slow := &blockingCatalog{
		views:   []models.CategoryView{models.NewCategoryView(models.Category{ID: 1, Name: "pre-write"}, nil)},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	public := NewPublic(slow, env.snapshot, nil, nil)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- serve(public.Categories, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	}()
	<-slow.started

	// A write commits and invalidates while the read is still computing.
	env.createCategory(t, "Villas", "فلل")
	close(slow.release)

	rec := <-done
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	_, cached := env.snapshot.Age()
	assert.False(t, cached, "pre-write listing must not be cached after the write's invalidation")

	rec, cats := env.listCategories(t, "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Len(t, cats, 1)
	assert.Equal(t, "Villas", cats[0]["name"])
}

func TestContact(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)
	label := "Office"
	env.db.contacts = []models.ContactEntry{
		{ID: 1, Type: "phone", Value: "+966 11 000 0000", LabelEn: &label},
		{ID: 2, Type: "email", Value: "info@example.com"},
		{ID: 3, Type: "phone", Value: "+966 55 000 0000"},
	}

	rec := serve(env.public.Contact, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[map[string][]map[string]any](t, rec)
	require.Len(t, got["phone"], 2)
	assert.Equal(t, "+966 11 000 0000", got["phone"][0]["value"])
	assert.Equal(t, "Office", got["phone"][0]["label_en"])
	assert.Nil(t, got["phone"][0]["label_ar"])
	assert.NotContains(t, got["phone"][0], "type")
	assert.Len(t, got["email"], 1)
}

func TestCompanies(t *testing.T) {
	env := newTestEnv(t, catalog.BranchGlobal)

	rec := serve(env.public.Companies, httptest.NewRequest(http.MethodGet, "/api/companies", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	ar := "شركة"
	env.db.companies = []models.Company{{ID: 1, NameEn: "Acme", NameAr: &ar}}
	rec = serve(env.public.Companies, httptest.NewRequest(http.MethodGet, "/api/companies", nil))
	assert.JSONEq(t, `[{"name_en":"Acme","name_ar":"شركة"}]`, rec.Body.String())
}
