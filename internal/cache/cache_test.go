// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"luminaslides/internal/deck"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "deck:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Errorf("ping after connect: %v", err)
	}
}

func TestDeckCache_RoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	dc := NewDeckCache(client, time.Minute)
	ctx := context.Background()

	if got := dc.LoadLast(ctx); got != nil {
		t.Fatalf("expected nil before save, got %+v", got)
	}

	want := &deck.Presentation{
		Topic: "Quantum Computing",
		Title: "Quantum Computing",
		Mode:  deck.ModeHybrid,
		Theme: "neon circuitry",
		Date:  "March 14, 2026",
		Slides: []*deck.Slide{
			{
				ID:            "slide-1",
				Title:         "Qubits",
				Content:       []string{"superposition", "entanglement"},
				Layout:        deck.LayoutSplit,
				ComponentType: deck.ComponentList,
				ImagePrompt:   "abstract qubit lattice",
				ImageURL:      "data:image/png;base64,QUJD",
			},
		},
	}
	dc.SaveLast(ctx, want)

	got := dc.LoadLast(ctx)
	if got == nil {
		t.Fatal("LoadLast returned nil after save")
	}
	if got.Title != want.Title || got.Mode != want.Mode || len(got.Slides) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Slides[0].ImageURL != want.Slides[0].ImageURL {
		t.Errorf("slide image lost: %q", got.Slides[0].ImageURL)
	}

	dc.ClearLast(ctx)
	if got := dc.LoadLast(ctx); got != nil {
		t.Errorf("expected nil after clear, got %+v", got)
	}
}
