// Package cache stores analysis results and daily counters. RedisStore is
// used when REDIS_ADDR is set; MemoryStore otherwise.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is a byte cache with expiring counters.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Incr adds one to key and returns the new value. A positive ttl sets
	// the counter's expiry.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Decr subtracts one from key, stopping at zero. Missing counters stay
	// missing.
	Decr(ctx context.Context, key string) (int64, error)
	// Count reads a counter without changing it. Missing counters are zero.
	Count(ctx context.Context, key string) (int64, error)
}

// AnalysisKey derives the cache key for an image reference.
func AnalysisKey(imageRef string) string {
	sum := sha256.Sum256([]byte(imageRef))
	return "analysis:" + hex.EncodeToString(sum[:])
}

// GenerationsKey is the daily generation counter for a user.
func GenerationsKey(userID string, day time.Time) string {
	return "generations:" + userID + ":" + day.UTC().Format("2006-01-02")
}

// UntilMidnight is the time left in day's UTC calendar day.
func UntilMidnight(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(now)
}
