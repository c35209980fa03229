// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// photos.go caches stock-photo search results in Valkey. A search for the
// same query within the TTL reuses the stored candidates instead of calling
// the photo API again; the random pick still happens on every lookup.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"edukoder/internal/models"
)

const (
	// photoKeyPrefix is the Valkey key prefix for cached searches.
	photoKeyPrefix = "photos:"

	// DefaultPhotoTTL is how long a search result stays cached.
	DefaultPhotoTTL = time.Hour
)

// PhotoCache stores candidate images per search query. All errors are
// logged and treated as misses.
type PhotoCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPhotoCache creates a photo cache backed by the given Valkey client.
func NewPhotoCache(client *redis.Client, ttl time.Duration) *PhotoCache {
	if ttl == 0 {
		ttl = DefaultPhotoTTL
	}
	return &PhotoCache{client: client, ttl: ttl}
}

// Get returns the cached candidates for query.
func (pc *PhotoCache) Get(ctx context.Context, query string) ([]models.Image, bool) {
	key := PhotoKey(query)
	val, err := pc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("photo cache get error", "key", key, "error", err)
		return nil, false
	}

	var images []models.Image
	if err := json.Unmarshal(val, &images); err != nil {
		slog.Warn("photo cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("photo cache hit", "key", key, "candidates", len(images))
	return images, true
}

// Set stores the candidates for query. Empty results are not cached so a
// later search can still find something.
func (pc *PhotoCache) Set(ctx context.Context, query string, images []models.Image) {
	if len(images) == 0 {
		return
	}
	data, err := json.Marshal(images)
	if err != nil {
		slog.Warn("photo cache encode error", "error", err)
		return
	}
	if err := pc.client.Set(ctx, PhotoKey(query), data, pc.ttl).Err(); err != nil {
		slog.Warn("photo cache set error", "query", query, "error", err)
	}
}

// InvalidateAll removes every cached search by scanning for the prefix.
func (pc *PhotoCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, photoKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("photo cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("photo cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("photo cache cleared", "deleted", deleted)
	}
}

// PhotoKey returns the cache key for a search query. Queries differing
// only in case or surrounding space share an entry.
func PhotoKey(query string) string {
	return photoKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}
