// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// deck.go provides a Valkey-backed snapshot of the last completed
// presentation. When a deck finishes generating (or is edited) its JSON
// snapshot is stored in Valkey so a server restart restores the editing
// session instead of losing the user's work.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"luminaslides/internal/deck"
)

const (
	// lastDeckKey is the Valkey key holding the last completed deck.
	lastDeckKey = "deck:last"

	// DefaultDeckTTL is how long a parked deck survives without activity.
	DefaultDeckTTL = 7 * 24 * time.Hour
)

// DeckCache persists the last completed presentation in Valkey. All
// operations are best-effort: persistence failures are logged, never
// surfaced, since the in-memory document stays authoritative.
type DeckCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeckCache creates a deck cache backed by the given Valkey client.
func NewDeckCache(client *redis.Client, ttl time.Duration) *DeckCache {
	if ttl == 0 {
		ttl = DefaultDeckTTL
	}
	return &DeckCache{client: client, ttl: ttl}
}

// SaveLast stores a snapshot of the presentation with the configured TTL.
func (dc *DeckCache) SaveLast(ctx context.Context, p *deck.Presentation) {
	payload, err := json.Marshal(p)
	if err != nil {
		slog.Warn("deck cache marshal error", "error", err)
		return
	}
	if err := dc.client.Set(ctx, lastDeckKey, payload, dc.ttl).Err(); err != nil {
		slog.Warn("deck cache set error", "error", err)
	}
}

// LoadLast returns the stored presentation, or nil when none exists or
// the payload cannot be decoded.
func (dc *DeckCache) LoadLast(ctx context.Context) *deck.Presentation {
	payload, err := dc.client.Get(ctx, lastDeckKey).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		slog.Warn("deck cache get error", "error", err)
		return nil
	}

	var p deck.Presentation
	if err := json.Unmarshal(payload, &p); err != nil {
		slog.Warn("deck cache unmarshal error", "error", err)
		return nil
	}
	return &p
}

// ClearLast removes the stored presentation.
func (dc *DeckCache) ClearLast(ctx context.Context) {
	if err := dc.client.Del(ctx, lastDeckKey).Err(); err != nil {
		slog.Warn("deck cache clear error", "error", err)
	}
}
