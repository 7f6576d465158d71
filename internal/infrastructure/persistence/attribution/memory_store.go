package attribution

import (
	"context"
	"sync"
	"time"

	"github.com/anishwij/beacon-go/internal/domain/entities/session"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
)

type memoryRecord struct {
	fields    session.AttributeSet
	expiresAt time.Time
}

// MemoryStore is an in-process attribution store with the same merge and TTL
// semantics as the redis store. It backs development mode (no REDIS_ADDR)
// and tests.
type MemoryStore struct {
	records map[string]*memoryRecord
	ttl     time.Duration
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger
	now     func() time.Time
}

// NewMemoryStore creates an in-memory attribution store.
func NewMemoryStore(ttl time.Duration, logger *logging.ChanneledLogger) *MemoryStore {
	if logger != nil {
		logger.Store().Info("In-memory attribution store initialized", "ttl", ttl)
	}
	return &MemoryStore{
		records: make(map[string]*memoryRecord),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Upsert merges attrs into the record keyed by sessionID, mirroring the redis
// HSET contract: untouched fields survive, firstTouch is set-if-absent, and
// the record TTL is refreshed on every write.
func (s *MemoryStore) Upsert(_ context.Context, sessionID string, attrs session.AttributeSet) error {
	if len(attrs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[sessionID]
	if exists && s.expired(rec) {
		delete(s.records, sessionID)
		exists = false
	}
	if !exists {
		rec = &memoryRecord{fields: make(session.AttributeSet)}
		s.records[sessionID] = rec
	}

	for k, v := range attrs {
		if k == session.FieldFirstTouch {
			if _, ok := rec.fields[session.FieldFirstTouch]; ok {
				continue
			}
		}
		rec.fields[k] = v
	}

	if s.ttl > 0 {
		rec.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

// Get returns the stored attribute set for a session id.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (session.AttributeSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[sessionID]
	if !exists || s.expired(rec) {
		return nil, false, nil
	}
	return rec.fields.Clone(), true, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// Close releases the record map.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*memoryRecord)
	return nil
}

func (s *MemoryStore) expired(rec *memoryRecord) bool {
	return !rec.expiresAt.IsZero() && s.now().After(rec.expiresAt)
}
