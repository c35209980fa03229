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

	"edukoder/internal/models"
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
		keys, _ := client.Keys(ctx, photoKeyPrefix+"*").Result()
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

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	// Port 1 is reserved and nothing listens there.
	if _, err := ConnectValkey(context.Background(), "127.0.0.1", "1", ""); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}

func TestPhotoCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPhotoCache(client, time.Minute)
	ctx := context.Background()

	want := []models.Image{
		{URL: "https://images.example/a.jpg", Alt: "teclado", Credit: "Foto de Ana en Pexels"},
		{URL: "https://images.example/b.jpg", Alt: "pantalla", Credit: "Foto de Luis en Pexels"},
	}
	pc.Set(ctx, "programming javascript", want)

	got, ok := pc.Get(ctx, "  Programming JavaScript ")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != len(want) || got[1].URL != want[1].URL {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestPhotoCacheMiss(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPhotoCache(client, time.Minute)

	if _, ok := pc.Get(context.Background(), "never stored"); ok {
		t.Error("expected miss")
	}
}

func TestPhotoCacheSkipsEmpty(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPhotoCache(client, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "empty", nil)
	if _, ok := pc.Get(ctx, "empty"); ok {
		t.Error("empty result should not be cached")
	}
}

func TestPhotoCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPhotoCache(client, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "one", []models.Image{{URL: "u1"}})
	pc.Set(ctx, "two", []models.Image{{URL: "u2"}})
	pc.InvalidateAll(ctx)

	for _, q := range []string{"one", "two"} {
		if _, ok := pc.Get(ctx, q); ok {
			t.Errorf("%q still cached after InvalidateAll", q)
		}
	}
}

func TestPhotoKey(t *testing.T) {
	if got := PhotoKey("  Go Lang "); got != "photos:go lang" {
		t.Errorf("PhotoKey = %q", got)
	}
}
