package frequency

import (
	"context"
	"time"
)

// NewMemory creates an empty in-process store.
func NewMemory(opts MemoryOptions) *Memory {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Memory{
		entries: make(map[string]entry),
		now:     opts.Clock,
	}
}

func (m *Memory) TryReserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.entries[key]; ok && !e.expired(now) {
		return false, nil
	}
	m.entries[key] = entry{count: 1, start: now, ttl: ttl}
	return true, nil
}

func (m *Memory) Increment(_ context.Context, key string, window time.Duration) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || e.expired(now) {
		m.entries[key] = entry{count: 1, start: now, ttl: window}
		return 1, true, nil
	}
	e.count++
	m.entries[key] = e
	return e.count, false, nil
}

// Sweep removes expired entries and returns how many were dropped.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
