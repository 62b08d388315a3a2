package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_FrozenUntilMoved(t *testing.T) {
	c := NewFixedClockAt("2024-01-01")
	assert.Equal(t, "2024-01-01", c.Now().Format("2006-01-02"))
	assert.Equal(t, c.Now(), c.Now(), "clock must not advance on its own")

	c.Advance(24 * time.Hour)
	assert.Equal(t, "2024-01-02", c.Now().Format("2006-01-02"))

	c.Set(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-01", c.Now().Format("2006-01-02"))
}
