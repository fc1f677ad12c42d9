package anim

import "time"

// Clock is the time source animations are sampled against.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Animations driven by it are fully
// deterministic, which is what tests want.
type ManualClock struct {
	now time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
