package session

import (
	"context"
	"sync"
	"time"

	"datadash/domain/core"
	"datadash/domain/dataset"
	"datadash/internal"
)

// entry is one session's table and when it was last touched
type entry struct {
	table    *dataset.Table
	lastSeen time.Time
}

// MemoryTableStore keeps each session's table in process memory. Uploads
// replace the previous table wholesale. Idle sessions are evicted on the
// next write once they are older than the configured TTL.
type MemoryTableStore struct {
	mu      sync.RWMutex
	entries map[core.SessionID]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryTableStore creates a store. A zero ttl keeps tables until they
// are deleted.
func NewMemoryTableStore(ttl time.Duration) *MemoryTableStore {
	return &MemoryTableStore{
		entries: make(map[core.SessionID]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put replaces the table held for sessionID
func (s *MemoryTableStore) Put(ctx context.Context, sessionID core.SessionID, table *dataset.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)
	s.entries[sessionID] = &entry{table: table, lastSeen: now}
	return nil
}

// Get returns the session's table, or core.ErrNoDataset
func (s *MemoryTableStore) Get(ctx context.Context, sessionID core.SessionID) (*dataset.Table, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(e, s.now()) {
		return nil, core.ErrNoDataset
	}

	s.mu.Lock()
	e.lastSeen = s.now()
	s.mu.Unlock()

	return e.table, nil
}

// Delete drops the session's table
func (s *MemoryTableStore) Delete(ctx context.Context, sessionID core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Len returns the number of live sessions
func (s *MemoryTableStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryTableStore) expired(e *entry, now time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(e.lastSeen) > s.ttl
}

func (s *MemoryTableStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	evicted := 0
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		internal.DefaultLogger.Debug("[MemoryTableStore] Evicted %d idle sessions", evicted)
	}
}
