package engine

import "time"

// Clock supplies the engine's notion of wall time. Rollover decisions and
// log timestamps go through it so tests can pin the date.
//
// Production code uses SystemClock; tests use testutil.FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
