// Package uclock implements the abstract clock source: a monotonic
// "program clock" in 27 MHz units with an optional mapping to
// real-world time.
package uclock

import "time"

// Freq is the program-clock tick rate: 27 MHz, matching MPEG's system
// clock reference unit so flow-defs borrowed from that domain need no
// rescaling.
const Freq = 27_000_000

// Clock returns the current time in 27 MHz ticks.
type Clock interface {
	Now() int64
}

// SystemClock maps time.Now() (since an arbitrary epoch fixed at
// construction) onto 27 MHz ticks — the standard, wall-clock-backed
// implementation every pipeline defaults to absent an explicit
// attach-uclock.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock creates a clock whose epoch is the given reference
// time (tests pass a fixed epoch; production code passes time.Now()).
func NewSystemClock(epoch time.Time) *SystemClock {
	return &SystemClock{epoch: epoch}
}

func (c *SystemClock) Now() int64 {
	return time.Since(c.epoch).Nanoseconds() * Freq / time.Second.Nanoseconds()
}

// ToRealTime maps a 27 MHz program-clock reading back to a wall-clock
// time.
func (c *SystemClock) ToRealTime(ticks int64) time.Time {
	ns := ticks * time.Second.Nanoseconds() / Freq
	return c.epoch.Add(time.Duration(ns))
}

var _ Clock = (*SystemClock)(nil)

// Manual is a test/deterministic clock: Now returns whatever it was
// last advanced to, with no dependency on wall-clock jitter.
type Manual struct {
	ticks int64
}

func NewManual(start int64) *Manual { return &Manual{ticks: start} }

func (m *Manual) Now() int64 { return m.ticks }

func (m *Manual) Advance(delta int64) { m.ticks += delta }

var _ Clock = (*Manual)(nil)
