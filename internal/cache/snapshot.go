// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// snapshot.go holds the materialized category listing (L1). There is a
// single slot: the whole listing is cached or nothing is. Any catalog
// write clears it.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"propertycms/internal/models"
)

// DefaultSnapshotTTL is how long a computed listing stays fresh.
const DefaultSnapshotTTL = 10 * time.Minute

// Snapshot is a one-slot, TTL-bounded cache for the category listing.
// Get, Set and Clear are each atomic. Every Clear starts a new generation;
// a listing computed under an older generation is never stored, so a read
// racing a write cannot resurrect the pre-write listing.
type Snapshot struct {
	mu        sync.RWMutex
	value     []models.CategoryView
	createdAt time.Time
	present   bool
	gen       uint64

	ttl time.Duration
	now func() time.Time
}

// NewSnapshot creates an empty Snapshot. A zero ttl uses DefaultSnapshotTTL.
func NewSnapshot(ttl time.Duration) *Snapshot {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Snapshot{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. For tests.
func (s *Snapshot) WithClock(now func() time.Time) *Snapshot {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// TTL returns the configured freshness window.
func (s *Snapshot) TTL() time.Duration {
	return s.ttl
}

// Get returns the cached listing if one exists and is younger than the TTL.
func (s *Snapshot) Get() ([]models.CategoryView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.present {
		slog.Debug("catalog cache miss", "reason", "empty")
		return nil, false
	}
	if s.now().Sub(s.createdAt) >= s.ttl {
		slog.Debug("catalog cache miss", "reason", "stale")
		return nil, false
	}
	slog.Debug("catalog cache hit")
	return s.value, true
}

// Generation returns the current invalidation generation. Capture it before
// computing a listing and pass it to Set.
func (s *Snapshot) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Set stores v stamped with the current time, provided no Clear happened
// since gen was read. It reports whether v was stored.
func (s *Snapshot) Set(gen uint64, v []models.CategoryView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		slog.Debug("catalog cache set dropped", "generation", gen, "current", s.gen)
		return false
	}
	s.value = v
	s.createdAt = s.now()
	s.present = true
	return true
}

// Clear drops the cached listing. Safe to call when empty.
func (s *Snapshot) Clear() {
	s.mu.Lock()
	s.value = nil
	s.createdAt = time.Time{}
	s.present = false
	s.gen++
	s.mu.Unlock()
	slog.Debug("catalog cache cleared")
}

// Age reports how old the cached listing is and whether one is held,
// stale or not.
func (s *Snapshot) Age() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return 0, false
	}
	return s.now().Sub(s.createdAt), true
}
