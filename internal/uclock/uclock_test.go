package uclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockMonotonic(t *testing.T) {
	c := NewSystemClock(time.Now().Add(-time.Second))
	t1 := c.Now()
	time.Sleep(time.Millisecond)
	t2 := c.Now()
	assert.Greater(t, t2, t1)
	assert.InDelta(t, Freq, t1, float64(Freq)) // roughly one second elapsed
}

func TestManualClockAdvance(t *testing.T) {
	c := NewManual(0)
	assert.Equal(t, int64(0), c.Now())
	c.Advance(40_000)
	assert.Equal(t, int64(40_000), c.Now())
	c.Advance(40_000)
	assert.Equal(t, int64(80_000), c.Now())
}
