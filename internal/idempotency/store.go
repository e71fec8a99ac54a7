// Package idempotency remembers the result of write requests carrying an
// Idempotency-Key so retries return the original result.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idem:"

const DefaultTTL = 24 * time.Hour

// Pending marks a key whose request is still running.
const Pending = "pending"

// Store tracks keys through reserve, then complete or release. Only the
// caller whose Reserve succeeded may perform the write.
type Store interface {
	// Reserve claims key with the Pending marker unless it is already held.
	// It reports whether this call claimed it.
	Reserve(ctx context.Context, key string) (bool, error)
	// Lookup returns the value held for key, Pending while in flight.
	Lookup(ctx context.Context, key string) (string, bool, error)
	// Complete replaces the marker with the request's result.
	Complete(ctx context.Context, key, value string) error
	// Release drops a reservation whose write failed so the key can be retried.
	Release(ctx context.Context, key string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, keyPrefix+key, Pending, s.ttl).Result()
}

func (s *RedisStore) Complete(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, keyPrefix+key, value, s.ttl).Err()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

type entry struct {
	value   string
	expires time.Time
}

// MemoryStore is the single-process fallback used when redis is disabled.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]entry)}
}

func (s *MemoryStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expires) {
		delete(s.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && !s.now().After(e.expires) {
		return false, nil
	}
	s.entries[key] = entry{value: Pending, expires: s.now().Add(s.ttl)}
	return true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
