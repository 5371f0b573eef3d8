// Package sequence provides the invocation counter that names harness work
// directories and the run-ID generators used by the history store.
package sequence

import "sync"

// Counter is a thread-safe monotonic invocation counter.
//
// Each harness test invocation calls Next exactly once, so the value doubles
// as the unique suffix of that invocation's work directory. A Counter is owned
// by a harness.Session rather than being process-global; harnesses that share
// a session share the numbering.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Counter struct {
	mu  sync.Mutex
	seq int64
}

// NewCounter creates a new counter starting at 0.
//
// The first call to Next() returns 1.
func NewCounter() *Counter {
	return &Counter{seq: 0}
}

// NewCounterAt creates a counter whose next value is start+1.
func NewCounterAt(start int64) *Counter {
	return &Counter{seq: start}
}

// Next increments and returns the next sequence number.
//
// Monotonic: always returns seq+1, never decreases.
func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
