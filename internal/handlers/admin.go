// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"propertycms/internal/upload"
)

// Admin groups the authenticated catalog mutation handlers.
type Admin struct {
	categories CategoryStore
	properties PropertyStore
	images     ImageStore
	contacts   ContactStore
	uploader   *upload.Uploader
	snapshot   SnapshotCache
	cacheLog   InvalidationLog
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(categories CategoryStore, properties PropertyStore, images ImageStore, contacts ContactStore, uploader *upload.Uploader, snapshot SnapshotCache, cacheLog InvalidationLog) *Admin {
	return &Admin{
		categories: categories,
		properties: properties,
		images:     images,
		contacts:   contacts,
		uploader:   uploader,
		snapshot:   snapshot,
		cacheLog:   cacheLog,
	}
}

// invalidate drops the catalog snapshot and records why. It runs after a
// successful write and before the response is sent.
func (a *Admin) invalidate(ctx context.Context, entityType string, entityID *int64, action string) {
	a.snapshot.Clear()
	a.cacheLog.Log(ctx, entityType, entityID, action)
}

// discardFiles removes stored files, tolerating ones already gone.
func (a *Admin) discardFiles(ctx context.Context, keys ...string) {
	for _, key := range keys {
		a.uploader.Discard(ctx, key)
	}
}

// CacheClear drops the catalog snapshot on demand.
func (a *Admin) CacheClear(w http.ResponseWriter, r *http.Request) {
	a.invalidate(r.Context(), "catalog", nil, "clear")
	slog.Info("catalog cache cleared by admin")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Cache cleared successfully",
	})
}

// recentInvalidations is how many audit entries CacheStatus returns.
const recentInvalidations = 20

// CacheStatus reports whether a snapshot is held, its age, and the most
// recent invalidations.
func (a *Admin) CacheStatus(w http.ResponseWriter, r *http.Request) {
	age, cached := a.snapshot.Age()
	ttl := a.snapshot.TTL()

	entries, err := a.cacheLog.RecentEntries(r.Context(), recentInvalidations)
	if err != nil {
		respond(w, r, err, "")
		return
	}

	resp := map[string]any{
		"cached":               cached,
		"fresh":                cached && age < ttl,
		"ttl_seconds":          ttl.Seconds(),
		"recent_invalidations": entries,
	}
	if cached {
		resp["age_seconds"] = age.Seconds()
	}
	writeJSON(w, http.StatusOK, resp)
}
