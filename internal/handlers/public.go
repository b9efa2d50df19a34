// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"propertycms/internal/models"
)

// Cache status header values on GET /api/categories.
const (
	cacheHeader = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
	cacheBypass = "BYPASS"
)

// Public groups the unauthenticated read handlers.
type Public struct {
	catalog   CatalogBuilder
	snapshot  SnapshotCache
	contacts  ContactStore
	companies CompanyLister
}

// NewPublic creates a new Public handler group.
func NewPublic(catalog CatalogBuilder, snapshot SnapshotCache, contacts ContactStore, companies CompanyLister) *Public {
	return &Public{
		catalog:   catalog,
		snapshot:  snapshot,
		contacts:  contacts,
		companies: companies,
	}
}

// Categories serves every category with its nested images. A fresh
// snapshot is served from memory; ?t=<anything> or ?refresh=1 forces a
// recomputation, which is then cached unless a write invalidated the
// snapshot while it ran.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bypass := q.Has("t") || q.Get("refresh") == "1"

	if !bypass {
		if views, ok := p.snapshot.Get(); ok {
			w.Header().Set(cacheHeader, cacheHit)
			writeJSON(w, http.StatusOK, views)
			return
		}
	}

	gen := p.snapshot.Generation()
	views, err := p.catalog.Categories(r.Context())
	if err != nil {
		respond(w, r, err, "")
		return
	}
	stored := p.snapshot.Set(gen, views)
	slog.Debug("catalog recomputed", "categories", len(views), "bypass", bypass, "cached", stored)

	if bypass {
		w.Header().Set(cacheHeader, cacheBypass)
	} else {
		w.Header().Set(cacheHeader, cacheMiss)
	}
	writeJSON(w, http.StatusOK, views)
}

// Contact serves contact entries grouped by type.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	entries, err := p.contacts.List(r.Context())
	if err != nil {
		respond(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, models.GroupContacts(entries))
}

// Companies serves the partner company list.
func (p *Public) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := p.companies.List(r.Context())
	if err != nil {
		respond(w, r, err, "")
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}
