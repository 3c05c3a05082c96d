// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package brand persists the active brand identity and caches per-site
// extraction results in Valkey, and fills extraction gaps by probing the
// brand's website directly.
package brand

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"luminaslides/internal/deck"
)

const (
	// activeKey holds the single branding record applied to new decks.
	activeKey = "brand:active"

	// siteKeyPrefix namespaces cached extraction results per website.
	siteKeyPrefix = "brand:site:"

	// DefaultCacheTTL is how long a cached extraction stays fresh. The
	// active record itself never expires.
	DefaultCacheTTL = 24 * time.Hour
)

// Store manages branding records in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a branding store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultCacheTTL,
	}
}

// SaveActive stores the branding applied to subsequently generated decks.
func (s *Store) SaveActive(ctx context.Context, b *deck.Branding) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("brand marshal: %w", err)
	}
	if err := s.client.Set(ctx, activeKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("brand store: %w", err)
	}
	return nil
}

// Active returns the stored branding, or nil if none has been saved.
func (s *Store) Active(ctx context.Context) (*deck.Branding, error) {
	payload, err := s.client.Get(ctx, activeKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("brand get: %w", err)
	}

	var b deck.Branding
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("brand unmarshal: %w", err)
	}
	return &b, nil
}

// ClearActive removes the stored branding.
func (s *Store) ClearActive(ctx context.Context) error {
	if err := s.client.Del(ctx, activeKey).Err(); err != nil {
		return fmt.Errorf("brand clear: %w", err)
	}
	return nil
}

// CacheExtraction stores an extraction result for a site with a TTL, so
// re-entering the same website does not re-run grounded research.
func (s *Store) CacheExtraction(ctx context.Context, siteURL string, b *deck.Branding) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("brand cache marshal: %w", err)
	}
	if err := s.client.Set(ctx, siteKey(siteURL), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("brand cache store: %w", err)
	}
	return nil
}

// CachedExtraction returns the cached extraction for a site, or nil on a
// cache miss.
func (s *Store) CachedExtraction(ctx context.Context, siteURL string) (*deck.Branding, error) {
	payload, err := s.client.Get(ctx, siteKey(siteURL)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("brand cache get: %w", err)
	}

	var b deck.Branding
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("brand cache unmarshal: %w", err)
	}
	return &b, nil
}

func siteKey(siteURL string) string {
	return siteKeyPrefix + strings.ToLower(strings.TrimSpace(siteURL))
}
