// Package telemetry holds the Prometheus collectors shared by the core
// packages and the handler that exposes them.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ─── Timer ───────────────────────────────────────────────────────────────────

	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mkfocus",
		Subsystem: "timer",
		Name:      "sessions_completed_total",
		Help:      "Focus sessions that ran down to zero.",
	})

	TimerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mkfocus",
		Subsystem: "timer",
		Name:      "transitions_total",
		Help:      "Timer state changes requested by the user, by action.",
	}, []string{"action"})

	// ─── Tasks ───────────────────────────────────────────────────────────────────

	TaskMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mkfocus",
		Subsystem: "tasks",
		Name:      "mutations_total",
		Help:      "Task ledger mutations, by operation.",
	}, []string{"op"})

	TasksExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mkfocus",
		Subsystem: "tasks",
		Name:      "expired_total",
		Help:      "Completed tasks removed by auto-expiry.",
	})

	PendingExpiries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mkfocus",
		Subsystem: "tasks",
		Name:      "pending_expiries",
		Help:      "Completed tasks waiting for auto-expiry.",
	})

	// ─── Streak ──────────────────────────────────────────────────────────────────

	StreakIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mkfocus",
		Subsystem: "streak",
		Name:      "increments_total",
		Help:      "Completions recorded in the streak ledger.",
	})

	// ─── Persistence ─────────────────────────────────────────────────────────────

	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mkfocus",
		Subsystem: "store",
		Name:      "write_failures_total",
		Help:      "Failed ledger writes, by key. In-memory state stays authoritative.",
	}, []string{"key"})
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler { return promhttp.Handler() }
