// Package app wires the core components together. The desktop shell and the
// web server both build an App, so the business logic and storage are shared
// without duplication.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MihkelHunter/mkFocus/internal/bridge"
	"github.com/MihkelHunter/mkFocus/internal/clock"
	"github.com/MihkelHunter/mkFocus/internal/config"
	"github.com/MihkelHunter/mkFocus/internal/store"
	"github.com/MihkelHunter/mkFocus/internal/streak"
	"github.com/MihkelHunter/mkFocus/internal/timer"
	"github.com/MihkelHunter/mkFocus/internal/todo"
)

// Hooks lets a front end observe the core. All fields are optional.
type Hooks struct {
	Clock    clock.Clock
	Notifier timer.Notifier
	OnTasks  func()
	OnTimer  func(timer.State)
}

// App is the running set of ledgers and the timer engine.
type App struct {
	Tasks  *todo.Ledger
	Timer  *timer.Engine
	Streak *streak.Ledger

	cfg        config.Config
	kv         store.KV
	bridge     *bridge.Bridge
	unregister func()
	logger     *slog.Logger
}

// Open creates the configured store and builds an App on it.
func Open(cfg config.Config, logger *slog.Logger, hooks Hooks) (*App, error) {
	kv, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	return New(kv, cfg, logger, hooks), nil
}

// OpenStore returns the persistence backend named by cfg.Store.
func OpenStore(cfg config.Config) (store.KV, error) {
	switch cfg.Store {
	case config.StoreSQLite, "":
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		st, err := store.NewSQLite(cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return st, nil
	case config.StoreRedis:
		rs := store.NewRedis(store.NewRedisClient(cfg.RedisAddr), cfg.RedisPrefix)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		return rs, nil
	case config.StoreMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// New builds the ledgers and the engine on kv and connects timer completion
// to the streak ledger. The App takes ownership of kv.
func New(kv store.KV, cfg config.Config, logger *slog.Logger, hooks Hooks) *App {
	if logger == nil {
		logger = slog.Default()
	}
	c := hooks.Clock
	if c == nil {
		c = clock.Real{}
	}

	taskOpts := []todo.Option{
		todo.WithClock(c),
		todo.WithExpiry(cfg.ExpiryDelay),
		todo.WithLogger(logger.With(slog.String("component", "tasks"))),
	}
	if hooks.OnTasks != nil {
		taskOpts = append(taskOpts, todo.WithObserver(hooks.OnTasks))
	}

	timerOpts := []timer.Option{
		timer.WithClock(c),
		timer.WithLogger(logger.With(slog.String("component", "timer"))),
		timer.WithInitialMinutes(cfg.DefaultMinutes),
	}
	if hooks.Notifier != nil {
		timerOpts = append(timerOpts, timer.WithNotifier(hooks.Notifier))
	}
	if hooks.OnTimer != nil {
		timerOpts = append(timerOpts, timer.WithObserver(hooks.OnTimer))
	}

	a := &App{
		Tasks: todo.New(kv, taskOpts...),
		Timer: timer.NewEngine(timerOpts...),
		Streak: streak.New(kv,
			streak.WithClock(c),
			streak.WithLogger(logger.With(slog.String("component", "streak"))),
		),
		cfg:    cfg,
		kv:     kv,
		bridge: bridge.New(),
		logger: logger,
	}
	a.bridge.Attach(a.Timer)
	a.unregister = a.bridge.Register(a.Streak.IncrementToday)
	return a
}

// CalendarDays is the configured heat-map span.
func (a *App) CalendarDays() int { return a.cfg.CalendarDays }

// Close stops all timers, detaches the streak ledger and closes the store.
func (a *App) Close() error {
	a.unregister()
	a.Timer.Close()
	a.Tasks.Close()
	if err := a.kv.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
