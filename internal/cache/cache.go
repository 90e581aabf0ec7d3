// Package cache holds the Redis-backed read paths: coach profiles, match results
// per coaching request, and matching processing statistics.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent or Redis is not configured.
var ErrCacheMiss = errors.New("cache: key not found")

const (
	PrefixCoach        = "coach:"
	PrefixMatchResult  = "match_result:"
	KeyProcessingStats = "matching:processing_stats"
	maxProcessingStats = 1000
	defaultTTL         = time.Hour
)

func getJSON(ctx context.Context, client *redis.Client, key string, dest any) error {
	if client == nil {
		return ErrCacheMiss
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, client *redis.Client, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return client.Set(ctx, key, raw, ttl).Err()
}
