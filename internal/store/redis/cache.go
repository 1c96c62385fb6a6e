package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/drivemark/internal/metadata"
)

// CacheMetadata stores the metadata extracted for a URL
func (s *Store) CacheMetadata(ctx context.Context, url string, md metadata.Metadata, ttl time.Duration) error {
	data, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := s.client.Set(ctx, MetadataKey(url), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}

// CachedMetadata retrieves cached metadata; ok is false on a cache miss
func (s *Store) CachedMetadata(ctx context.Context, url string) (md metadata.Metadata, ok bool, err error) {
	data, err := s.client.Get(ctx, MetadataKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return metadata.Metadata{}, false, nil
		}
		return metadata.Metadata{}, false, fmt.Errorf("failed to get cached metadata: %w", err)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return metadata.Metadata{}, false, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return md, true, nil
}

// FlushMetadata removes all cached metadata. Sessions and OAuth state
// live under other prefixes and are kept.
func (s *Store) FlushMetadata(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixMetadata+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete metadata key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush metadata: %w", err)
	}
	return nil
}
