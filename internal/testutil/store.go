package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/gophcheck-server/internal/model"
)

// MemoryCounterStore is an in-process CounterStore with the same window and lock rules as the SQL one.
type MemoryCounterStore struct {
	mu   sync.Mutex
	rows map[string]*counterRow
}

type counterRow struct {
	windowStart time.Time
	count       int
	lockUntil   *time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{rows: make(map[string]*counterRow)}
}

func (s *MemoryCounterStore) Bump(_ context.Context, key string, windowStart, now time.Time, limit int, lock time.Duration) (model.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[key]
	switch {
	case !ok:
		row = &counterRow{windowStart: windowStart, count: 1}
		s.rows[key] = row
	case row.lockUntil != nil && row.lockUntil.After(now):
	case row.lockUntil == nil && row.windowStart.Equal(windowStart):
		row.count++
	default:
		row.windowStart = windowStart
		row.count = 1
		row.lockUntil = nil
	}

	if row.lockUntil == nil && row.count > limit {
		until := now.Add(lock)
		row.lockUntil = &until
	}

	counter := model.Counter{Count: row.count, LockUntil: row.lockUntil}
	counter.Locked = row.lockUntil != nil && row.lockUntil.After(now)
	return counter, nil
}

// MemoryCodeStore is an in-process CodeStore.
type MemoryCodeStore struct {
	mu     sync.Mutex
	active map[string]bool
}

func NewMemoryCodeStore(digests ...string) *MemoryCodeStore {
	s := &MemoryCodeStore{active: make(map[string]bool)}
	for _, d := range digests {
		s.active[d] = true
	}
	return s
}

func (s *MemoryCodeStore) Consume(_ context.Context, digest string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active[digest] {
		return false, nil
	}
	s.active[digest] = false
	return true, nil
}

func (s *MemoryCodeStore) Create(_ context.Context, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[digest]; !ok {
		s.active[digest] = true
	}
	return nil
}

// MemoryAttemptStore collects recorded attempts.
type MemoryAttemptStore struct {
	mu       sync.Mutex
	attempts []model.Attempt
}

func (s *MemoryAttemptStore) Record(_ context.Context, attempt model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, attempt)
	return nil
}

// Attempts returns a copy of everything recorded so far.
func (s *MemoryAttemptStore) Attempts() []model.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Attempt(nil), s.attempts...)
}
