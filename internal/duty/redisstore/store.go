// Package redisstore keeps duty ("garde") records in Redis, one hash per
// calendar date so the day's records come back in a single round trip.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pharmagarde/locator/internal/core/model"
	"github.com/pharmagarde/locator/internal/core/observability"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

type Store struct {
	rdb       *redis.Client
	retention time.Duration
}

// New connects to Redis and verifies the connection. retention bounds how
// long a date's duty hash outlives its calendar day.
func New(ctx context.Context, addr string, retention time.Duration, opts ...Option) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}
	if retention <= 0 {
		retention = 72 * time.Hour
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     32,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	observability.ObserveDutyStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb, retention: retention}, nil
}

func hashKey(day model.DateKey) string {
	return "duty:" + day.String()
}

// RecordsForDate returns every duty record for the given date in one HGETALL.
// Pharmacies without a record are simply absent from the map.
func (s *Store) RecordsForDate(ctx context.Context, day model.DateKey) (map[string]model.DutyStatus, error) {
	start := time.Now()
	vals, err := s.rdb.HGetAll(ctx, hashKey(day)).Result()
	observability.ObserveDutyStoreOp("hgetall", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("redis HGETALL %q: %w", hashKey(day), err)
	}

	out := make(map[string]model.DutyStatus, len(vals))
	for id, raw := range vals {
		out[id] = model.DutyStatus(raw)
	}
	return out, nil
}

// SetStatus writes one pharmacy's duty record for the date and refreshes the
// hash retention window.
func (s *Store) SetStatus(ctx context.Context, day model.DateKey, pharmacyID string, status model.DutyStatus) error {
	if pharmacyID == "" {
		return errors.New("pharmacy id is required")
	}
	if !status.Valid() {
		return fmt.Errorf("invalid duty status %q", status)
	}

	key := hashKey(day)
	start := time.Now()
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, pharmacyID, string(status))
		p.Expire(ctx, key, s.retention)
		return nil
	})
	observability.ObserveDutyStoreOp("hset", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis HSET %q %q: %w", key, pharmacyID, err)
	}
	return nil
}

// DeleteStatus removes a pharmacy's record for the date. Absence of a record
// already means "none", so deleting a missing field is not an error.
func (s *Store) DeleteStatus(ctx context.Context, day model.DateKey, pharmacyID string) error {
	start := time.Now()
	err := s.rdb.HDel(ctx, hashKey(day), pharmacyID).Err()
	observability.ObserveDutyStoreOp("hdel", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis HDEL %q %q: %w", hashKey(day), pharmacyID, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
