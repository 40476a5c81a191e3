// Copyright (c) 2026 BookVault. All rights reserved.

package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookvault/api/internal/platform/constants"
)

// Cache is a read-through store for successful ISBN lookups.
//
// A cache miss returns (nil, false, nil). Cache failures are never fatal to a
// lookup, implementations log and degrade to the upstream call.
type Cache interface {
	Get(ctx context.Context, isbn string) (*Volume, bool, error)
	Set(ctx context.Context, isbn string, volume *Volume) error
}

// RedisCache caches normalized volumes in Redis under "metadata:isbn:<isbn>".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache constructs a RedisCache with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached volume for an ISBN, if any.
func (c *RedisCache) Get(ctx context.Context, isbn string) (*Volume, bool, error) {
	payload, err := c.client.Get(ctx, constants.RedisPrefixMetadataISBN+isbn).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		c.logger.WarnContext(ctx, "metadata_cache_read_failed", slog.Any("error", err))
		return nil, false, err
	}

	var volume Volume
	if err := json.Unmarshal(payload, &volume); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		c.logger.WarnContext(ctx, "metadata_cache_corrupt_entry", slog.String("isbn", isbn))
		return nil, false, nil
	}

	return &volume, true, nil
}

// Set stores a volume under the ISBN key with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, isbn string, volume *Volume) error {
	payload, err := json.Marshal(volume)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, constants.RedisPrefixMetadataISBN+isbn, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "metadata_cache_write_failed", slog.Any("error", err))
		return err
	}

	return nil
}
