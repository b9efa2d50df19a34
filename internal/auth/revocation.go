// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces revoked token IDs in Valkey.
const keyPrefix = "revoked:"

// ValkeyRevocations stores revoked token IDs in Valkey with automatic
// TTL expiry, so every process behind the same Valkey honours a logout.
type ValkeyRevocations struct {
	client *redis.Client
}

// NewValkeyRevocations creates a revocation list backed by client.
func NewValkeyRevocations(client *redis.Client) *ValkeyRevocations {
	return &ValkeyRevocations{client: client}
}

// Revoke marks tokenID as revoked for ttl.
func (v *ValkeyRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := v.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation store: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (v *ValkeyRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := v.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("revocation get: %w", err)
	}
	return n > 0, nil
}

// MemoryRevocations is an in-process revocation list used when Valkey is
// not configured.
type MemoryRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations creates an empty in-process revocation list.
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke marks tokenID as revoked for ttl. Expired entries are pruned.
func (m *MemoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, id)
		}
	}
	m.entries[tokenID] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether tokenID is revoked and not yet expired.
func (m *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.entries[tokenID]
	return ok && m.now().Before(until), nil
}
