package cache

import (
	"context"
	"sync"
	"time"

	"sanctionwatch/internal/sanction/models"
)

type entry struct {
	rec       models.Record
	expiresAt time.Time
}

// Memory is the in-process cache implementation. Expired entries are dropped
// lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*Memory)

func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, id string) (*models.Record, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, nil
	}
	rec := e.rec
	return &rec, nil
}

func (m *Memory) Set(ctx context.Context, rec *models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[rec.ID] = entry{rec: *rec, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
