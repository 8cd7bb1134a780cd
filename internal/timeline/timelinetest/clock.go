// Package timelinetest provides deterministic doubles for exercising a
// timeline.Controller: a manually advanced clock and recording surfaces.
package timelinetest

import (
	"sort"
	"sync"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
)

// ManualClock is a timeline.Clock whose time only moves on Advance.
// Due callbacks run synchronously on the goroutine calling Advance,
// in deadline order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	seq      int
	fn       func()
	stopped  bool
	fired    bool
}

// NewManualClock returns a clock starting at an arbitrary fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run once Advance passes now+d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) timeline.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, deadline: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing every timer that falls due,
// including timers scheduled by callbacks during this call.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// Pending reports the number of armed timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// NextDeadline returns the time until the earliest armed timer.
func (c *ManualClock) NextDeadline() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.nextDue(time.Time{})
	if t == nil {
		return 0, false
	}
	return t.deadline.Sub(c.now), true
}

// nextDue returns the earliest armed timer due at or before limit.
// A zero limit matches any deadline. Caller holds c.mu.
func (c *ManualClock) nextDue(limit time.Time) *manualTimer {
	armed := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			armed = append(armed, t)
		}
	}
	c.timers = armed

	sort.SliceStable(armed, func(i, j int) bool {
		if armed[i].deadline.Equal(armed[j].deadline) {
			return armed[i].seq < armed[j].seq
		}
		return armed[i].deadline.Before(armed[j].deadline)
	})

	if len(armed) == 0 {
		return nil
	}
	if !limit.IsZero() && armed[0].deadline.After(limit) {
		return nil
	}
	return armed[0]
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
