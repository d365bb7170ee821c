package clock

import (
	"sync"
	"time"
)

// Fake is a Clock that only moves when Advance is called. Scheduled callbacks
// run synchronously on the goroutine calling Advance, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	events []*event
}

type event struct {
	seq    int
	at     time.Time
	period time.Duration
	f      func()
}

// NewFake returns a Fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) func() bool {
	ev := c.schedule(d, 0, f)
	return func() bool { return c.cancel(ev) }
}

func (c *Fake) Every(d time.Duration, f func()) func() {
	ev := c.schedule(d, d, f)
	return func() { c.cancel(ev) }
}

// Pending reports how many callbacks are scheduled.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Advance moves the clock forward by d, firing every callback that falls due.
// A callback may itself call Advance; the clock never moves backwards.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		ev := c.next(target)
		if ev == nil {
			break
		}
		if ev.at.After(c.now) {
			c.now = ev.at
		}
		if ev.period > 0 {
			ev.at = ev.at.Add(ev.period)
		} else {
			c.remove(ev)
		}
		c.mu.Unlock()
		ev.f()
		c.mu.Lock()
	}
	if target.After(c.now) {
		c.now = target
	}
	c.mu.Unlock()
}

func (c *Fake) schedule(d, period time.Duration, f func()) *event {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	ev := &event{seq: c.seq, at: c.now.Add(d), period: period, f: f}
	c.events = append(c.events, ev)
	return ev
}

func (c *Fake) cancel(ev *event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(ev)
}

func (c *Fake) remove(ev *event) bool {
	for i, e := range c.events {
		if e == ev {
			c.events = append(c.events[:i], c.events[i+1:]...)
			return true
		}
	}
	return false
}

// next returns the earliest event due at or before target; ties go to the
// event scheduled first.
func (c *Fake) next(target time.Time) *event {
	var best *event
	for _, e := range c.events {
		if e.at.After(target) {
			continue
		}
		if best == nil || e.at.Before(best.at) || (e.at.Equal(best.at) && e.seq < best.seq) {
			best = e
		}
	}
	return best
}
