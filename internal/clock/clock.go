// Package clock supplies wall-clock time to the engine and maps instants
// onto the game's day index.
package clock

import (
	"sync"
	"time"
)

// Clock is the only source of "now" the engine consults.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock stands still until a test moves it.
type FakeClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock by d, which may be negative.
func (c *FakeClock) Advance(d time.Duration) {
	c.move(func(t time.Time) time.Time { return t.Add(d) })
}

// AdvanceDays moves the clock by whole calendar days, keeping the wall time.
func (c *FakeClock) AdvanceDays(n int) {
	c.move(func(t time.Time) time.Time { return t.AddDate(0, 0, n) })
}

func (c *FakeClock) move(fn func(time.Time) time.Time) {
	c.mu.Lock()
	c.now = fn(c.now)
	c.mu.Unlock()
}
