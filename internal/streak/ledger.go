package streak

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"sync"

	"github.com/MihkelHunter/mkFocus/internal/clock"
	"github.com/MihkelHunter/mkFocus/internal/store"
	"github.com/MihkelHunter/mkFocus/internal/telemetry"
)

// Ledger is the persisted date → completions store.
type Ledger struct {
	kv     store.KV
	clock  clock.Clock
	logger *slog.Logger

	mu     sync.Mutex
	counts Counts
}

// Option configures a Ledger.
type Option func(*Ledger)

func WithClock(c clock.Clock) Option    { return func(l *Ledger) { l.clock = c } }
func WithLogger(lg *slog.Logger) Option { return func(l *Ledger) { l.logger = lg } }

// New loads the ledger from kv. A missing or unreadable blob yields an empty
// ledger.
func New(kv store.KV, opts ...Option) *Ledger {
	l := &Ledger{
		kv:     kv,
		clock:  clock.Real{},
		logger: slog.Default(),
		counts: Counts{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.load()
	return l
}

func (l *Ledger) load() {
	blob, err := l.kv.Get(store.KeyStreak)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.logger.Error("failed to load streak data", slog.String("error", err.Error()))
		}
		return
	}

	var counts Counts
	if err := json.Unmarshal(blob, &counts); err != nil {
		l.logger.Error("malformed streak data, starting empty", slog.String("error", err.Error()))
		return
	}
	for key, n := range counts {
		if n < 0 {
			l.logger.Warn("dropping negative streak count", slog.String("date", key), slog.Int("count", n))
			continue
		}
		l.counts[key] = n
	}
}

// IncrementToday records one completion for today and persists.
func (l *Ledger) IncrementToday() {
	l.mu.Lock()
	key := DateKey(l.clock.Now())
	l.counts[key]++
	n := l.counts[key]
	l.persistLocked()
	l.mu.Unlock()

	telemetry.StreakIncrements.Inc()
	l.logger.Info("completion recorded", slog.String("date", key), slog.Int("count", n))
}

func (l *Ledger) CurrentStreak() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.CurrentStreak(l.clock.Now())
}

func (l *Ledger) LongestStreak() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.LongestStreak()
}

func (l *Ledger) TotalCompletions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.Total()
}

// CalendarGrid lays out the last days days ending today.
func (l *Ledger) CalendarGrid(days int) Calendar {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.Calendar(l.clock.Now(), days)
}

func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts.Stats(l.clock.Now())
}

// View returns the calendar and stats computed from one consistent snapshot.
func (l *Ledger) View(days int) View {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock.Now()
	return View{Stats: l.counts.Stats(now), Calendar: l.counts.Calendar(now, days)}
}

// Counts returns a copy of the raw ledger.
func (l *Ledger) Counts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.counts)
}

func (l *Ledger) persistLocked() {
	blob, err := json.Marshal(l.counts)
	if err != nil {
		l.logger.Error("failed to encode streak data", slog.String("error", err.Error()))
		return
	}
	if err := l.kv.Set(store.KeyStreak, blob); err != nil {
		telemetry.PersistFailures.WithLabelValues(store.KeyStreak).Inc()
		l.logger.Error("failed to save streak data", slog.String("error", err.Error()))
	}
}
