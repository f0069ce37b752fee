package cache

import (
	"sync"
	"sync/atomic"
	"time"

	chatlate "github.com/ZaguanLabs/chatlate"
)

// slot holds the last input and result for one direction.
type slot struct {
	mu        sync.Mutex
	input     string
	output    string
	filled    bool
	timestamp time.Time
	enabled   atomic.Bool
}

// Memory is a thread-safe in-memory cache with one slot per direction.
type Memory struct {
	slots [len(directions)]slot
	ttl   time.Duration
}

// MemoryOption is a functional option for configuring Memory.
type MemoryOption func(*Memory)

// WithTTL expires a slot ttl after it was written. Zero keeps entries forever.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		m.ttl = ttl
	}
}

// NewMemory creates an in-memory cache with both directions enabled.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{}
	for i := range m.slots {
		m.slots[i].enabled.Store(true)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) slot(dir chatlate.Direction) *slot {
	if !validDirection(dir) {
		return nil
	}
	return &m.slots[dir]
}

// Get returns the stored result when text equals the last input for dir.
func (m *Memory) Get(dir chatlate.Direction, text string) (string, bool) {
	s := m.slot(dir)
	if s == nil || !s.enabled.Load() {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filled || s.input != text {
		return "", false
	}
	if m.ttl > 0 && time.Since(s.timestamp) > m.ttl {
		s.filled = false
		s.input, s.output = "", ""
		return "", false
	}
	return s.output, true
}

// Put replaces the slot for dir. It does nothing while dir is disabled.
func (m *Memory) Put(dir chatlate.Direction, text, result string) {
	s := m.slot(dir)
	if s == nil || !s.enabled.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.input, s.output = text, result
	s.filled = true
	s.timestamp = time.Now()
}

// SetEnabled toggles caching for dir. Disabling keeps the stored pair, so
// re-enabling can hit again.
func (m *Memory) SetEnabled(dir chatlate.Direction, enabled bool) {
	if s := m.slot(dir); s != nil {
		s.enabled.Store(enabled)
	}
}

// Enabled reports whether caching is on for dir.
func (m *Memory) Enabled(dir chatlate.Direction) bool {
	s := m.slot(dir)
	return s != nil && s.enabled.Load()
}

// Clear empties every slot.
func (m *Memory) Clear() {
	for i := range m.slots {
		s := &m.slots[i]
		s.mu.Lock()
		s.input, s.output, s.filled = "", "", false
		s.mu.Unlock()
	}
}

var _ chatlate.ResultCache = (*Memory)(nil)
