// Package clock abstracts wall time and timers so the timer engine and the
// task ledger can be driven by a real clock in the binaries and by a manually
// advanced one in tests.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source used by stateful components.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f once after d. The returned func cancels it and reports
	// whether the call was still pending.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
	// Every runs f every d until the returned func is called.
	Every(d time.Duration, f func()) (stop func())
}

// Real is the Clock backed by the time package.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, f)
	return t.Stop
}

func (Real) Every(d time.Duration, f func()) func() {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				f()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
