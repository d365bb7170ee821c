// Package bridge connects the timer's completion event to the streak ledger
// without either package importing the other.
package bridge

import "sync"

// CompletionSource exposes a single completion slot. *timer.Engine
// satisfies it.
type CompletionSource interface {
	SetOnComplete(func())
}

// Bridge holds one completion subscriber. Registering replaces the previous
// subscriber; there is no broadcast.
type Bridge struct {
	mu   sync.Mutex
	sink func()
	seq  uint64
}

func New() *Bridge { return &Bridge{} }

// Connect is the one-subscriber shorthand: it attaches a fresh bridge to src
// and registers sink on it.
func Connect(src CompletionSource, sink func()) (disconnect func()) {
	b := New()
	b.Attach(src)
	return b.Register(sink)
}

// Attach routes src's completion events through the bridge.
func (b *Bridge) Attach(src CompletionSource) {
	src.SetOnComplete(b.Fire)
}

// Register installs sink and returns a func that removes it. The removal is
// a no-op once a later Register has replaced sink.
func (b *Bridge) Register(sink func()) (unregister func()) {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.sink = sink
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.seq == id {
			b.sink = nil
		}
	}
}

// Fire delivers one completion to the current subscriber, if any. It runs
// the subscriber synchronously on the caller's goroutine.
func (b *Bridge) Fire() {
	b.mu.Lock()
	sink := b.sink
	b.mu.Unlock()
	if sink != nil {
		sink()
	}
}
