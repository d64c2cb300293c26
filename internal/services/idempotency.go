package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	idempotencyPrefix = "cashbook:idem:"
	idempotencyTTL    = 24 * time.Hour
	pendingMarker     = "pending"
)

// ErrRequestInFlight is returned while another request holds the same key.
var ErrRequestInFlight = errors.New("a request with this idempotency key is in progress")

// IdempotencyStore remembers which entry an Idempotency-Key created, so a
// resubmitted form returns the original row instead of a duplicate. A nil
// store, or one without a Redis client, claims every key.
type IdempotencyStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{redis: rdb, ttl: idempotencyTTL}
}

func (s *IdempotencyStore) enabled() bool {
	return s != nil && s.redis != nil
}

// Claim reserves key for the caller. When the key already completed it
// returns the entry id it produced and claimed=false.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (entryID string, claimed bool, err error) {
	if !s.enabled() || key == "" {
		return "", true, nil
	}
	k := idempotencyPrefix + key

	ok, err := s.redis.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if ok {
		return "", true, nil
	}

	val, err := s.redis.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls; treat as fresh
		return s.Claim(ctx, key)
	}
	if err != nil {
		return "", false, err
	}
	if val == pendingMarker {
		return "", false, ErrRequestInFlight
	}
	return val, false, nil
}

// Complete records the entry created under key.
func (s *IdempotencyStore) Complete(ctx context.Context, key, entryID string) error {
	if !s.enabled() || key == "" {
		return nil
	}
	return s.redis.Set(ctx, idempotencyPrefix+key, entryID, s.ttl).Err()
}

// Release drops a claim whose request failed so it can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if !s.enabled() || key == "" {
		return nil
	}
	return s.redis.Del(ctx, idempotencyPrefix+key).Err()
}
