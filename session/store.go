package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every Redis failure other than a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrNotFound is returned when no snapshot exists for the requested id.
var ErrNotFound = errors.New("snapshot not found")

// Store is a Redis-backed snapshot store keyed by identity id.
//
// A zero ttl stores snapshots without expiry; their lifetime is then bound
// to explicit deletion (logout) or Redis eviction.
//
//	Performance: every method is a single Redis round trip.
type Store[T any] struct {
	redis   redis.UniversalClient
	prefix  string
	ttl     time.Duration
	maxSize int
}

// NewStore creates a [Store] backed by the given Redis client. prefix sets
// the key namespace; an empty prefix stores snapshots under the bare id.
func NewStore[T any](rdb redis.UniversalClient, prefix string, ttl time.Duration, maxSize int) *Store[T] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSnapshotSize
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store[T]{
		redis:   rdb,
		prefix:  prefix,
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func (s *Store[T]) key(id string) string {
	if s.prefix == "" {
		return id
	}
	return s.prefix + ":" + id
}

// Put overwrites the snapshot for id.
func (s *Store[T]) Put(ctx context.Context, id string, v *T) error {
	if id == "" {
		return errors.New("empty snapshot id")
	}
	data, err := Encode(v, s.maxSize)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get returns the snapshot for id, or [ErrNotFound].
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return Decode[T](data)
}

// Exists reports whether a snapshot is present for id without decoding it.
func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Delete removes the snapshot for id. Deleting a missing id is not an error.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (s *Store[T]) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
