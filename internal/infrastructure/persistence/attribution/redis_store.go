// Package attribution provides attribution store implementations backed by
// the hash-per-key merge semantics the capture pipeline depends on.
package attribution

import (
	"context"
	"fmt"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists session records as redis hashes. The merge/upsert
// contract maps directly onto HSET: fields absent from a write are never
// touched, and concurrent writes from the same client are last-write-wins
// per field without any read-modify-write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.ChanneledLogger
}

// NewRedisStore creates a redis-backed attribution store. The client is
// constructed once at startup and reused for the process lifetime.
func NewRedisStore(addr, password string, db int, ttl time.Duration, logger *logging.ChanneledLogger) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if logger != nil {
		logger.Store().Info("Redis attribution store initialized", "addr", addr, "db", db, "ttl", ttl)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Upsert merges attrs into the record keyed by sessionID. The firstTouch
// field is written set-if-absent so the first request's timestamp survives
// every later merge; all other fields overwrite. The record TTL is refreshed
// on every write so an active visitor's attribution cannot expire under a
// still-valid cookie.
func (s *RedisStore) Upsert(ctx context.Context, sessionID string, attrs session.AttributeSet) error {
	if len(attrs) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()

	if firstTouch, ok := attrs[session.FieldFirstTouch]; ok {
		pipe.HSetNX(ctx, sessionID, session.FieldFirstTouch, firstTouch)
	}

	fields := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if k == session.FieldFirstTouch {
			continue
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		pipe.HSet(ctx, sessionID, fields)
	}

	if s.ttl > 0 {
		pipe.Expire(ctx, sessionID, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("attribution upsert for %s: %w", sessionID, err)
	}
	return nil
}

// Get returns the stored attribute set for a session id. The second return
// is false when no record exists.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (session.AttributeSet, bool, error) {
	fields, err := s.client.HGetAll(ctx, sessionID).Result()
	if err != nil {
		return nil, false, fmt.Errorf("attribution get for %s: %w", sessionID, err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}

	attrs := make(session.AttributeSet, len(fields))
	for k, v := range fields {
		attrs[k] = v
	}
	return attrs, true, nil
}

// Ping verifies store connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
