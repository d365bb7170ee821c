package todo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MihkelHunter/mkFocus/internal/clock"
	"github.com/MihkelHunter/mkFocus/internal/store"
	"github.com/MihkelHunter/mkFocus/internal/telemetry"
)

// Ledger is the process-wide task store. It loads once on construction and
// writes the full task set back after every change.
type Ledger struct {
	kv       store.KV
	clock    clock.Clock
	delay    time.Duration
	logger   *slog.Logger
	observer func()

	mu     sync.Mutex
	tasks  []*Task
	lastID int64
	queue  *expiryQueue
	closed bool

	// single one-shot timer armed for the head of queue
	stopTimer func() bool
	armedAt   time.Time
	gen       uint64
}

// Option configures a Ledger.
type Option func(*Ledger)

func WithClock(c clock.Clock) Option    { return func(l *Ledger) { l.clock = c } }
func WithExpiry(d time.Duration) Option { return func(l *Ledger) { l.delay = d } }
func WithLogger(lg *slog.Logger) Option { return func(l *Ledger) { l.logger = lg } }

// WithObserver registers f to run after every change, including expiries
// fired by the timer. f runs without the ledger lock held.
func WithObserver(f func()) Option { return func(l *Ledger) { l.observer = f } }

// New loads the ledger from kv. A missing or unreadable blob yields the
// built-in starter tasks.
func New(kv store.KV, opts ...Option) *Ledger {
	l := &Ledger{
		kv:     kv,
		clock:  clock.Real{},
		delay:  DefaultExpiry,
		logger: slog.Default(),
		queue:  newExpiryQueue(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.delay < 0 {
		l.delay = 0
	}

	l.mu.Lock()
	seeded := l.load()
	expired := l.reconcileLocked()
	if seeded || expired > 0 {
		l.persistLocked()
	}
	l.mu.Unlock()
	return l
}

func (l *Ledger) load() (seeded bool) {
	now := l.clock.Now()
	blob, err := l.kv.Get(store.KeyTasks)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.logger.Error("failed to load tasks, using defaults", slog.String("error", err.Error()))
		}
		l.seed(now)
		return true
	}

	var tasks []*Task
	if err := json.Unmarshal(blob, &tasks); err != nil {
		l.logger.Error("malformed task blob, using defaults", slog.String("error", err.Error()))
		l.seed(now)
		return true
	}

	l.tasks = make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		// completedAt is present iff completed
		switch {
		case t.Completed && t.CompletedAt == nil:
			at := now
			t.CompletedAt = &at
		case !t.Completed:
			t.CompletedAt = nil
		}
		l.lastID = max(l.lastID, t.ID)
		l.tasks = append(l.tasks, t)
	}
	return false
}

func (l *Ledger) seed(now time.Time) {
	l.tasks = defaultTasks(now)
	for _, t := range l.tasks {
		l.lastID = max(l.lastID, t.ID)
	}
}

// Add creates an active task from text. Whitespace-only text is ignored and
// reported with ok=false.
func (l *Ledger) Add(text string) (task Task, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}
	ok = l.mutate("add", func(now time.Time) bool {
		t := &Task{ID: l.nextID(now), Text: text, CreatedAt: now}
		l.tasks = append(l.tasks, t)
		task = t.clone()
		return true
	})
	return task, ok
}

// Toggle flips a task between active and completed. Unknown ids are ignored.
func (l *Ledger) Toggle(id int64) bool {
	return l.mutate("toggle", func(now time.Time) bool {
		t := l.find(id)
		if t == nil {
			return false
		}
		t.Completed = !t.Completed
		if t.Completed {
			at := now
			t.CompletedAt = &at
		} else {
			t.CompletedAt = nil
		}
		return true
	})
}

// Delete removes a task. Deleting an unknown id is a no-op.
func (l *Ledger) Delete(id int64) bool {
	return l.mutate("delete", func(time.Time) bool {
		return l.remove(id)
	})
}

// Edit replaces a task's text. Whitespace-only text and unknown ids are ignored.
func (l *Ledger) Edit(id int64, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return l.mutate("edit", func(time.Time) bool {
		t := l.find(id)
		if t == nil || t.Text == text {
			return false
		}
		t.Text = text
		return true
	})
}

// Tasks returns a copy of every task in insertion order.
func (l *Ledger) Tasks() []Task {
	return l.filter(func(*Task) bool { return true })
}

// Active returns the tasks not yet completed.
func (l *Ledger) Active() []Task {
	return l.filter(func(t *Task) bool { return !t.Completed })
}

// Completed returns the completed tasks still awaiting expiry.
func (l *Ledger) Completed() []Task {
	return l.filter(func(t *Task) bool { return t.Completed })
}

// Counts reports how many tasks are completed out of the total.
func (l *Ledger) Counts() (completed, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.tasks {
		if t.Completed {
			completed++
		}
	}
	return completed, len(l.tasks)
}

// TopActive returns up to n active tasks, oldest first.
func (l *Ledger) TopActive(n int) []Task {
	if n <= 0 {
		return []Task{}
	}
	active := l.Active()
	slices.SortStableFunc(active, func(a, b Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	if len(active) > n {
		active = active[:n]
	}
	return active
}

// Close cancels pending expiry timers. The ledger ignores mutations afterwards.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.disarmLocked()
	telemetry.PendingExpiries.Set(0)
}

func (l *Ledger) filter(keep func(*Task) bool) []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if keep(t) {
			out = append(out, t.clone())
		}
	}
	return out
}

// mutate runs fn under the lock, then expires due tasks, persists and
// notifies the observer if anything changed.
func (l *Ledger) mutate(op string, fn func(now time.Time) bool) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	changed := fn(l.clock.Now())
	if changed {
		telemetry.TaskMutations.WithLabelValues(op).Inc()
	}
	expired := l.reconcileLocked()
	dirty := changed || expired > 0
	if dirty {
		l.persistLocked()
	}
	l.mu.Unlock()

	if dirty && l.observer != nil {
		l.observer()
	}
	return changed
}

func (l *Ledger) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *Ledger) find(id int64) *Task {
	for _, t := range l.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (l *Ledger) remove(id int64) bool {
	for i, t := range l.tasks {
		if t.ID == id {
			l.tasks = slices.Delete(l.tasks, i, i+1)
			return true
		}
	}
	return false
}

// reconcileLocked deletes completed tasks whose grace period is over,
// brings the expiry queue in line with the task set and re-arms the timer.
// It returns the number of tasks deleted.
func (l *Ledger) reconcileLocked() int {
	now := l.clock.Now()
	expired := 0
	kept := make([]*Task, 0, len(l.tasks))
	due := make(map[int64]bool, len(l.tasks))

	for _, t := range l.tasks {
		if t.Completed {
			at := t.CompletedAt.Add(l.delay)
			if !now.Before(at) {
				expired++
				continue
			}
			l.queue.upsert(t.ID, at)
			due[t.ID] = true
		}
		kept = append(kept, t)
	}
	l.tasks = kept

	for id := range l.queue.byID {
		if !due[id] {
			l.queue.remove(id)
		}
	}

	if expired > 0 {
		telemetry.TasksExpired.Add(float64(expired))
		l.logger.Debug("expired completed tasks", slog.Int("count", expired))
	}
	telemetry.PendingExpiries.Set(float64(l.queue.Len()))
	l.armLocked()
	return expired
}

func (l *Ledger) armLocked() {
	head := l.queue.peek()
	if head == nil {
		l.disarmLocked()
		return
	}
	if l.stopTimer != nil && l.armedAt.Equal(head.at) {
		return
	}
	l.disarmLocked()

	gen := l.gen
	l.armedAt = head.at
	l.stopTimer = l.clock.AfterFunc(head.at.Sub(l.clock.Now()), func() { l.expire(gen) })
}

func (l *Ledger) disarmLocked() {
	if l.stopTimer != nil {
		l.stopTimer()
		l.stopTimer = nil
	}
	l.gen++
}

// expire is the timer callback. Stale generations belong to a timer that
// was replaced after it had already fired.
func (l *Ledger) expire(gen uint64) {
	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.stopTimer = nil
	expired := l.reconcileLocked()
	if expired > 0 {
		l.persistLocked()
	}
	l.mu.Unlock()

	if expired > 0 && l.observer != nil {
		l.observer()
	}
}

func (l *Ledger) persistLocked() {
	blob, err := json.Marshal(l.tasks)
	if err != nil {
		l.logger.Error("failed to encode tasks", slog.String("error", err.Error()))
		return
	}
	if err := l.kv.Set(store.KeyTasks, blob); err != nil {
		telemetry.PersistFailures.WithLabelValues(store.KeyTasks).Inc()
		l.logger.Error("failed to save tasks", slog.String("error", err.Error()))
	}
}
