package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// exerciseCacheTTL bounds how stale a cached catalog lookup may be.
const exerciseCacheTTL = 24 * time.Hour

// exerciseCache stores catalog lookups keyed by muscle and difficulty.
// Get reports found=false on a miss.
type exerciseCache interface {
	Get(ctx context.Context, muscle, difficulty string) (results []exercise, found bool, err error)
	Set(ctx context.Context, muscle, difficulty string, results []exercise) error
}

func exerciseCacheKey(muscle, difficulty string) string {
	return fmt.Sprintf("exercises:%s:%s", muscle, difficulty)
}

/* ─── Redis implementation ──────────────────────────────────────────── */

type redisExerciseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// newRedisExerciseCache connects using a redis:// URL.
func newRedisExerciseCache(redisURL string) (*redisExerciseCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &redisExerciseCache{rdb: redis.NewClient(opts), ttl: exerciseCacheTTL}, nil
}

func (rc *redisExerciseCache) Get(ctx context.Context, muscle, difficulty string) ([]exercise, bool, error) {
	raw, err := rc.rdb.Get(ctx, exerciseCacheKey(muscle, difficulty)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var results []exercise
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("decode cached exercises: %w", err)
	}
	return results, true, nil
}

func (rc *redisExerciseCache) Set(ctx context.Context, muscle, difficulty string, results []exercise) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode exercises: %w", err)
	}
	return rc.rdb.Set(ctx, exerciseCacheKey(muscle, difficulty), raw, rc.ttl).Err()
}

/* ─── Read-through wrapper ──────────────────────────────────────────── */

// cachedExerciseSearcher consults the cache before the catalog API. Cache
// errors are logged and never fail a lookup; only successful API responses
// are stored.
type cachedExerciseSearcher struct {
	next  exerciseSearcher
	cache exerciseCache
}

func (cs *cachedExerciseSearcher) SearchExercises(ctx context.Context, muscle, difficulty string) ([]exercise, error) {
	results, found, err := cs.cache.Get(ctx, muscle, difficulty)
	if err != nil {
		log.Printf("[exerciseCache] get %s/%s: %v", muscle, difficulty, err)
	} else if found {
		return results, nil
	}

	results, err = cs.next.SearchExercises(ctx, muscle, difficulty)
	if err != nil {
		return nil, err
	}
	if err := cs.cache.Set(ctx, muscle, difficulty, results); err != nil {
		log.Printf("[exerciseCache] set %s/%s: %v", muscle, difficulty, err)
	}
	return results, nil
}
