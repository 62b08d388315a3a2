// Package testutil provides deterministic test doubles shared across
// packages.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable wall clock for tests. It satisfies
// engine.Clock and never advances on its own, so rollover behavior can be
// pinned to exact dates.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// NewFixedClockAt creates a clock frozen at noon of the given
// "YYYY-MM-DD" date. Panics on a malformed date; tests pass literals.
func NewFixedClockAt(date string) *FixedClock {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &FixedClock{now: t.Add(12 * time.Hour)}
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
