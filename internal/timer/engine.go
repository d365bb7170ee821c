package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/MihkelHunter/mkFocus/internal/clock"
	"github.com/MihkelHunter/mkFocus/internal/telemetry"
)

const celebrateFor = 2 * time.Second

// Notifier delivers a user-visible alert. Implementations must not block;
// the engine never waits on or retries a notification.
type Notifier interface {
	Notify(title, body string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}

// Engine owns one countdown and at most one tick source.
type Engine struct {
	clock    clock.Clock
	notifier Notifier
	logger   *slog.Logger
	observer func(State)

	mu         sync.Mutex
	state      State
	onComplete func()
	closed     bool
	// expiring is set while completion side effects run; Start waits it out.
	expiring bool

	stopTicks     func()
	tickGen       uint64
	stopCelebrate func() bool
	celebrateGen  uint64
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(c clock.Clock) Option   { return func(e *Engine) { e.clock = c } }
func WithNotifier(n Notifier) Option   { return func(e *Engine) { e.notifier = n } }
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }
func WithInitialMinutes(m int) Option  { return func(e *Engine) { e.state = NewState(m) } }

// WithObserver registers f to receive every committed state. f runs without
// the engine lock held and may be called from the tick goroutine.
func WithObserver(f func(State)) Option { return func(e *Engine) { e.observer = f } }

// NewEngine returns an idle engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:    clock.Real{},
		notifier: nopNotifier{},
		logger:   slog.Default(),
		state:    NewState(DefaultMinutes),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetOnComplete fills the single completion slot; nil clears it. The last
// registration wins.
func (e *Engine) SetOnComplete(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = f
}

// Start begins or resumes the countdown. It is ignored while a completed
// session is still being recorded.
func (e *Engine) Start() {
	e.transition("start", func(s State) (State, bool) {
		if s.Running() || e.expiring {
			return s, false
		}
		e.cancelCelebrateLocked()
		e.startTicksLocked()
		return Start(s), true
	})
}

// Pause stops the tick source and keeps the remaining time.
func (e *Engine) Pause() {
	e.transition("pause", func(s State) (State, bool) {
		if !s.Running() {
			return s, false
		}
		e.stopTicksLocked()
		return Pause(s), true
	})
}

// Reset stops the countdown and restores the full duration.
func (e *Engine) Reset() {
	e.transition("reset", func(s State) (State, bool) {
		e.stopTicksLocked()
		return Reset(s), true
	})
}

// SetDuration sets the session length, clamped to [1, 60]. It is rejected
// unless the timer is idle.
func (e *Engine) SetDuration(minutes int) bool {
	return e.transition("set_duration", func(s State) (State, bool) {
		return SetDuration(s, minutes)
	})
}

// AdjustDuration shifts the session length by delta minutes, idle only.
func (e *Engine) AdjustDuration(delta int) bool {
	return e.transition("adjust_duration", func(s State) (State, bool) {
		return AdjustDuration(s, delta)
	})
}

// Tick advances the countdown by one second. The tick source calls it; tests
// may call it directly.
func (e *Engine) Tick() { e.tick(0) }

// Close stops every timer the engine owns. Later calls are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.stopTicksLocked()
	e.cancelCelebrateLocked()
}

func (e *Engine) transition(action string, fn func(State) (State, bool)) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	next, ok := fn(e.state)
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.state = next
	e.mu.Unlock()

	telemetry.TimerTransitions.WithLabelValues(action).Inc()
	e.logger.Debug("timer "+action,
		slog.String("status", next.Status.String()),
		slog.String("remaining", next.Remaining()),
	)
	e.emit(next)
	return true
}

// tick applies one second. gen identifies the tick source that fired; zero
// means a direct call.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if e.closed || (gen != 0 && gen != e.tickGen) || !e.state.Running() {
		e.mu.Unlock()
		return
	}
	next, expired := Tick(e.state)
	if !expired {
		e.state = next
		e.mu.Unlock()
		e.emit(next)
		return
	}

	// Expired: show 0:00 while the completion side effects run, then restore.
	e.stopTicksLocked()
	shown := State{Initial: e.state.Initial, Status: Idle, JustCompleted: true}
	e.state = shown
	e.expiring = true
	e.armCelebrateLocked()
	cb := e.onComplete
	e.mu.Unlock()
	e.emit(shown)

	telemetry.SessionsCompleted.Inc()
	e.logger.Info("focus session complete", slog.Int("minutes", shown.Initial))
	if cb != nil {
		cb()
	}
	e.notifier.Notify("Timer Finished!", "Your focus session is complete. Take a break!")

	e.mu.Lock()
	e.expiring = false
	// The celebrate timer may already have cleared JustCompleted.
	cur := e.state
	cur.JustCompleted = true
	if cur == shown {
		celebrating := e.state.JustCompleted
		e.state = next
		e.state.JustCompleted = celebrating
	}
	final := e.state
	e.mu.Unlock()
	e.emit(final)
}

func (e *Engine) startTicksLocked() {
	e.stopTicksLocked()
	gen := e.tickGen
	e.stopTicks = e.clock.Every(time.Second, func() { e.tick(gen) })
}

func (e *Engine) stopTicksLocked() {
	if e.stopTicks != nil {
		e.stopTicks()
		e.stopTicks = nil
	}
	e.tickGen++
}

func (e *Engine) armCelebrateLocked() {
	e.cancelCelebrateLocked()
	gen := e.celebrateGen
	e.stopCelebrate = e.clock.AfterFunc(celebrateFor, func() {
		e.mu.Lock()
		if gen != e.celebrateGen || !e.state.JustCompleted {
			e.mu.Unlock()
			return
		}
		e.state.JustCompleted = false
		e.stopCelebrate = nil
		s := e.state
		e.mu.Unlock()
		e.emit(s)
	})
}

func (e *Engine) cancelCelebrateLocked() {
	if e.stopCelebrate != nil {
		e.stopCelebrate()
		e.stopCelebrate = nil
	}
	e.celebrateGen++
}

func (e *Engine) emit(s State) {
	if e.observer != nil {
		e.observer(s)
	}
}
