// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// an in-memory database behind the store interfaces, a real snapshot cache,
// a real aggregator and a local upload directory.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"propertycms/internal/cache"
	"propertycms/internal/catalog"
	"propertycms/internal/models"
	"propertycms/internal/storage"
	"propertycms/internal/store"
	"propertycms/internal/upload"
)

// memDB mimics the PostgreSQL schema: serial ids, ON DELETE CASCADE and
// foreign key violations for unknown categories.
type memDB struct {
	mu     sync.Mutex
	nextID int64
	now    time.Time
	err    error // returned by every call when set

	categories []models.Category
	properties []models.Property
	propImages []models.PropertyImage
	images     []models.LegacyImage
	contacts   []models.ContactEntry
	companies  []models.Company
	log        []store.CacheLogEntry
}

func newMemDB() *memDB {
	return &memDB{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// tick allocates an id and a strictly increasing timestamp.
func (db *memDB) tick() (int64, time.Time) {
	db.nextID++
	return db.nextID, db.now.Add(time.Duration(db.nextID) * time.Second)
}

func (db *memDB) hasCategory(id int64) bool {
	return slices.ContainsFunc(db.categories, func(c models.Category) bool { return c.ID == id })
}

func fkViolation() error {
	return &pgconn.PgError{Code: foreignKeyViolation, Message: "violates foreign key constraint"}
}

type memCategories struct{ db *memDB }

func (m memCategories) List(context.Context) ([]models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	out := slices.Clone(m.db.categories)
	slices.Reverse(out)
	return out, nil
}

func (m memCategories) FindByID(_ context.Context, id int64) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	for _, c := range m.db.categories {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (m memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	created := *c
	created.ID, created.CreatedAt = m.db.tick()
	created.UpdatedAt = created.CreatedAt
	m.db.categories = append(m.db.categories, created)
	return &created, nil
}

func (m memCategories) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	for i := range m.db.categories {
		if m.db.categories[i].ID == c.ID {
			updated := *c
			updated.CreatedAt = m.db.categories[i].CreatedAt
			_, updated.UpdatedAt = m.db.tick()
			m.db.categories[i] = updated
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memCategories) Delete(_ context.Context, id int64) ([]string, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	if !m.db.hasCategory(id) {
		return nil, store.ErrNotFound
	}
	var files []string
	for _, img := range m.db.images {
		if img.CategoryID == id && img.Filename != nil {
			files = append(files, *img.Filename)
		}
	}
	var gone []int64
	m.db.properties = slices.DeleteFunc(m.db.properties, func(p models.Property) bool {
		if p.CategoryID == id {
			gone = append(gone, p.ID)
			return true
		}
		return false
	})
	m.db.propImages = slices.DeleteFunc(m.db.propImages, func(img models.PropertyImage) bool {
		return slices.Contains(gone, img.PropertyID)
	})
	m.db.images = slices.DeleteFunc(m.db.images, func(img models.LegacyImage) bool { return img.CategoryID == id })
	m.db.categories = slices.DeleteFunc(m.db.categories, func(c models.Category) bool { return c.ID == id })
	return files, nil
}

type memProperties struct{ db *memDB }

func (m memProperties) ListByCategories(_ context.Context, ids []int64) ([]models.Property, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	var out []models.Property
	for _, p := range m.db.properties {
		if slices.Contains(ids, p.CategoryID) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m memProperties) ImagesForProperties(_ context.Context, ids []int64) ([]models.PropertyImage, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	var out []models.PropertyImage
	for _, img := range m.db.propImages {
		if slices.Contains(ids, img.PropertyID) {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PropertyID != out[j].PropertyID {
			return out[i].PropertyID < out[j].PropertyID
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m memProperties) Create(_ context.Context, p *models.Property, images []models.PropertyImage) (*models.Property, []models.PropertyImage, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, nil, m.db.err
	}
	if !m.db.hasCategory(p.CategoryID) {
		return nil, nil, fkViolation()
	}
	created := *p
	created.ID, created.CreatedAt = m.db.tick()
	m.db.properties = append(m.db.properties, created)

	var out []models.PropertyImage
	for i, img := range images {
		img.PropertyID = created.ID
		img.SortOrder = i
		img.ID, img.CreatedAt = m.db.tick()
		m.db.propImages = append(m.db.propImages, img)
		out = append(out, img)
	}
	return &created, out, nil
}

func (m memProperties) Update(_ context.Context, p *models.Property) (*models.Property, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	for i := range m.db.properties {
		if m.db.properties[i].ID == p.ID {
			if !m.db.hasCategory(p.CategoryID) {
				return nil, fkViolation()
			}
			updated := *p
			updated.CreatedAt = m.db.properties[i].CreatedAt
			m.db.properties[i] = updated
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memProperties) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return m.db.err
	}
	before := len(m.db.properties)
	m.db.properties = slices.DeleteFunc(m.db.properties, func(p models.Property) bool { return p.ID == id })
	if len(m.db.properties) == before {
		return store.ErrNotFound
	}
	m.db.propImages = slices.DeleteFunc(m.db.propImages, func(img models.PropertyImage) bool { return img.PropertyID == id })
	return nil
}

type memImages struct{ db *memDB }

func (m memImages) ListByCategories(_ context.Context, ids []int64) ([]models.LegacyImage, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	var out []models.LegacyImage
	for _, img := range m.db.images {
		if slices.Contains(ids, img.CategoryID) {
			out = append(out, img)
		}
	}
	slices.Reverse(out)
	return out, nil
}

func (m memImages) Create(_ context.Context, img *models.LegacyImage) (*models.LegacyImage, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	if !m.db.hasCategory(img.CategoryID) {
		return nil, fkViolation()
	}
	created := *img
	created.ID, created.CreatedAt = m.db.tick()
	m.db.images = append(m.db.images, created)
	return &created, nil
}

func (m memImages) UpdateMeta(_ context.Context, id int64, title, titleAr, videoURL *string) (*models.LegacyImage, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	for i := range m.db.images {
		if m.db.images[i].ID == id {
			m.db.images[i].Title = title
			m.db.images[i].TitleAr = titleAr
			m.db.images[i].VideoURL = videoURL
			updated := m.db.images[i]
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memImages) Delete(_ context.Context, id int64) (*models.LegacyImage, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	for i, img := range m.db.images {
		if img.ID == id {
			m.db.images = slices.Delete(m.db.images, i, i+1)
			return &img, nil
		}
	}
	return nil, store.ErrNotFound
}

type memContacts struct{ db *memDB }

func (m memContacts) List(context.Context) ([]models.ContactEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	return slices.Clone(m.db.contacts), nil
}

func (m memContacts) Replace(_ context.Context, info models.ContactInfo) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return m.db.err
	}
	var entries []models.ContactEntry
	types := make([]string, 0, len(info))
	for typ := range info {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		for _, e := range info[typ] {
			e.Type = typ
			e.ID, e.CreatedAt = m.db.tick()
			entries = append(entries, e)
		}
	}
	m.db.contacts = entries
	return nil
}

type memCompanies struct{ db *memDB }

func (m memCompanies) List(context.Context) ([]models.Company, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	return slices.Clone(m.db.companies), nil
}

type memLog struct{ db *memDB }

func (m memLog) Log(_ context.Context, entityType string, entityID *int64, action string) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	id, at := m.db.tick()
	m.db.log = append(m.db.log, store.CacheLogEntry{
		ID:            id,
		EntityType:    entityType,
		EntityID:      entityID,
		Action:        action,
		InvalidatedAt: at,
	})
}

func (m memLog) RecentEntries(_ context.Context, limit int) ([]store.CacheLogEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.err != nil {
		return nil, m.db.err
	}
	out := slices.Clone(m.db.log)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	db        *memDB
	snapshot  *cache.Snapshot
	clock     time.Time
	warmedAt  time.Time
	uploadDir string
	public    *Public
	admin     *Admin
}

func newTestEnv(t *testing.T, mode catalog.BranchMode) *testEnv {
	t.Helper()

	env := &testEnv{
		db:        newMemDB(),
		clock:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		uploadDir: t.TempDir(),
	}
	env.snapshot = cache.NewSnapshot(10 * time.Minute).WithClock(func() time.Time { return env.clock })

	backend, err := storage.NewLocal(env.uploadDir, "/uploads")
	require.NoError(t, err)
	uploader := upload.New(backend, 1<<20, []string{"jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "avi"})

	categories := memCategories{env.db}
	properties := memProperties{env.db}
	images := memImages{env.db}
	contacts := memContacts{env.db}

	agg := catalog.New(categories, properties, images, uploader.URL, mode)
	env.public = NewPublic(agg, env.snapshot, contacts, memCompanies{env.db})
	env.admin = NewAdmin(categories, properties, images, contacts, uploader, env.snapshot, memLog{env.db})
	return env
}

// withID attaches a chi {id} URL parameter to r.
func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON-encoded body (nil for none).
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

// decode unmarshals a response body.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

// errorMessage returns the "error" field of a JSON error response.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

// multipartRequest builds a POST with form fields and an optional file.
func multipartRequest(t *testing.T, target string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(upload.FieldName, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// pngBytes is a minimal PNG header, enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

// storedFiles lists every file under the upload directory, relative and
// slash-separated.
func (env *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(env.uploadDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(env.uploadDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return files
}

// createCategory creates a category through the handler and returns its id.
func (env *testEnv) createCategory(t *testing.T, name, nameAr string) int64 {
	t.Helper()
	rec := serve(env.admin.CreateCategory, jsonRequest(t, http.MethodPost, "/api/categories", map[string]any{
		"name":    name,
		"name_ar": nameAr,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(decode[map[string]any](t, rec)["id"].(float64))
}

// listCategories performs GET /api/categories with an optional query.
func (env *testEnv) listCategories(t *testing.T, query string) (*httptest.ResponseRecorder, []map[string]any) {
	t.Helper()
	rec := serve(env.public.Categories, httptest.NewRequest(http.MethodGet, "/api/categories"+query, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec, decode[[]map[string]any](t, rec)
}

// warmListing is the marker listing stored by warm.
var warmListing = []models.CategoryView{
	models.NewCategoryView(models.Category{ID: -1, Name: "warm"}, nil),
}

// warm fills the snapshot with warmListing and moves the clock on, so a
// later Set shows up as a changed age.
func (env *testEnv) warm() {
	env.snapshot.Set(env.snapshot.Generation(), warmListing)
	env.warmedAt = env.clock
	env.clock = env.clock.Add(time.Second)
}

func jsonUnmarshal(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}
