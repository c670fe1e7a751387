package errors

import (
	"sort"
	"sync"
	"sync/atomic"
)

// ErrorMetrics tallies recoverable errors seen during one ingestion run
type ErrorMetrics struct {
	TotalErrors *Counter

	mu           sync.RWMutex
	errorsByType map[ErrorType]*Counter
}

// NewErrorMetrics creates an empty tally
func NewErrorMetrics() *ErrorMetrics {
	return &ErrorMetrics{
		TotalErrors:  NewCounter(),
		errorsByType: make(map[ErrorType]*Counter),
	}
}

// Record classifies err and bumps the matching counters
func (m *ErrorMetrics) Record(err error) {
	if err == nil {
		return
	}
	errType, _ := Classify(err)

	m.TotalErrors.Inc()
	m.counterFor(errType).Inc()
}

func (m *ErrorMetrics) counterFor(errType ErrorType) *Counter {
	m.mu.RLock()
	c, ok := m.errorsByType[errType]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok = m.errorsByType[errType]; !ok {
		c = NewCounter()
		m.errorsByType[errType] = c
	}
	return c
}

// Count returns how many errors of the given type were recorded
func (m *ErrorMetrics) Count(errType ErrorType) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.errorsByType[errType]; ok {
		return c.Value()
	}
	return 0
}

// Snapshot returns per-type counts
func (m *ErrorMetrics) Snapshot() map[ErrorType]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[ErrorType]int64, len(m.errorsByType))
	for t, c := range m.errorsByType {
		out[t] = c.Value()
	}
	return out
}

// Types returns the recorded error types sorted by name
func (m *ErrorMetrics) Types() []ErrorType {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]ErrorType, 0, len(m.errorsByType))
	for t := range m.errorsByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Counter is a lock-free counter
type Counter struct {
	value int64
}

// NewCounter creates a counter at zero
func NewCounter() *Counter {
	return &Counter{}
}

// Inc increments by one
func (c *Counter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

// Add increments by delta
func (c *Counter) Add(delta int64) {
	atomic.AddInt64(&c.value, delta)
}

// Value returns the current count
func (c *Counter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// Reset sets the counter back to zero
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}
