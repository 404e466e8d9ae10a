// Copyright 2026 The RentDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache provides the Redis-backed listing cache. Every operation is
// fail-open: a Redis outage degrades to hitting Postgres, never to an error
// surfaced to the caller.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentdesk/rentdesk/internal/property"
)

const browseKeyPrefix = "rentdesk:browse:"

// ListingCache caches public browse results in Redis, keyed by filter.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a listing cache over an established Redis client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func browseKey(filter property.BrowseFilter) string {
	return fmt.Sprintf("%sq=%s&city=%s", browseKeyPrefix, filter.Keyword, filter.City)
}

// GetBrowse returns cached listings for the filter, reporting a miss on any
// Redis or decode failure.
func (c *ListingCache) GetBrowse(ctx context.Context, filter property.BrowseFilter) ([]*property.Listing, bool) {
	payload, err := c.client.Get(ctx, browseKey(filter)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("listing cache read failed", "error", err)
		}
		return nil, false
	}

	var listings []*property.Listing
	if err := json.Unmarshal(payload, &listings); err != nil {
		slog.Warn("listing cache decode failed", "error", err)
		return nil, false
	}
	return listings, true
}

// SetBrowse stores listings for the filter with the configured TTL.
func (c *ListingCache) SetBrowse(ctx context.Context, filter property.BrowseFilter, listings []*property.Listing) {
	payload, err := json.Marshal(listings)
	if err != nil {
		slog.Warn("listing cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, browseKey(filter), payload, c.ttl).Err(); err != nil {
		slog.Warn("listing cache write failed", "error", err)
	}
}

// Invalidate drops every cached browse result.
func (c *ListingCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, browseKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("listing cache invalidation failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("listing cache scan failed", "error", err)
	}
}
