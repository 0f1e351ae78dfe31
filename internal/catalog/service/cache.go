package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"assembly_portal_backend/internal/catalog/repository"
	"assembly_portal_backend/platform/logger"
)

const elementKeyPrefix = "catalog:element:"

// ElementCache is a read-through Redis cache for single catalog elements.
// Cache failures are soft: callers fall back to the repository, and misses
// are indistinguishable from errors on the read path.
type ElementCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewElementCache creates an element cache with the given TTL.
func NewElementCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *ElementCache {
	return &ElementCache{client: client, ttl: ttl, log: log}
}

func elementKey(id int64) string {
	return fmt.Sprintf("%s%d", elementKeyPrefix, id)
}

// Get returns the cached element and true on a hit.
func (c *ElementCache) Get(ctx context.Context, id int64) (repository.Element, bool) {
	payload, err := c.client.Get(ctx, elementKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("element cache read failed", "id", id, "error", err)
		}
		return repository.Element{}, false
	}

	var element repository.Element
	if err := json.Unmarshal(payload, &element); err != nil {
		c.log.Warn("element cache entry corrupt", "id", id, "error", err)
		return repository.Element{}, false
	}
	return element, true
}

// Set stores the element for the configured TTL.
func (c *ElementCache) Set(ctx context.Context, element repository.Element) {
	payload, err := json.Marshal(element)
	if err != nil {
		c.log.Warn("element cache encode failed", "id", element.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, elementKey(element.ID), payload, c.ttl).Err(); err != nil {
		c.log.Warn("element cache write failed", "id", element.ID, "error", err)
	}
}

// Invalidate drops the cached entries for the given element IDs.
func (c *ElementCache) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, elementKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("element cache invalidate failed", "count", len(ids), "error", err)
	}
}
