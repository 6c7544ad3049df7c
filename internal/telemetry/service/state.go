package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageState is the per-visitor tracking state of the current page.
type PageState int

const (
	PageUntracked PageState = iota
	PageTracked
)

func (s PageState) String() string {
	if s == PageTracked {
		return "tracked"
	}
	return "untracked"
}

// StateStore remembers which path a visitor's current page was tracked for.
// An empty path means untracked.
type StateStore interface {
	TrackedPath(ctx context.Context, visitorID string) (string, error)
	MarkTracked(ctx context.Context, visitorID, path string) error
	Reset(ctx context.Context, visitorID string) error
}

const stateKeyPrefix = "telemetry:page:"

// RedisStateStore keeps page state in Redis with a TTL so abandoned
// visitors expire.
type RedisStateStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStateStore creates a Redis-backed state store.
func NewRedisStateStore(client redis.Cmdable, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (s *RedisStateStore) TrackedPath(ctx context.Context, visitorID string) (string, error) {
	path, err := s.client.Get(ctx, stateKeyPrefix+visitorID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read page state: %w", err)
	}
	return path, nil
}

func (s *RedisStateStore) MarkTracked(ctx context.Context, visitorID, path string) error {
	if err := s.client.Set(ctx, stateKeyPrefix+visitorID, path, s.ttl).Err(); err != nil {
		return fmt.Errorf("write page state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Reset(ctx context.Context, visitorID string) error {
	if err := s.client.Del(ctx, stateKeyPrefix+visitorID).Err(); err != nil {
		return fmt.Errorf("reset page state: %w", err)
	}
	return nil
}

// MemoryStateStore is the single-process fallback when Redis is not configured.
// Expired entries are swept at most once per TTL on writes.
type MemoryStateStore struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type memoryEntry struct {
	path    string
	expires time.Time
}

// NewMemoryStateStore creates an in-memory state store.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStateStore) TrackedPath(_ context.Context, visitorID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[visitorID]
	if !ok {
		return "", nil
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.entries, visitorID)
		return "", nil
	}
	return e.path, nil
}

func (s *MemoryStateStore) MarkTracked(_ context.Context, visitorID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[visitorID] = memoryEntry{path: path, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStateStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStateStore) Reset(_ context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, visitorID)
	return nil
}

var (
	_ StateStore = (*RedisStateStore)(nil)
	_ StateStore = (*MemoryStateStore)(nil)
)
