// Package notify provides timer.Notifier implementations that do not depend
// on a GUI toolkit.
package notify

import "log/slog"

// Log writes notifications to a structured logger. Used by the headless web
// server, where there is no desktop to alert.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (n *Log) Notify(title, body string) {
	n.logger.Info("notification", slog.String("title", title), slog.String("body", body))
}

// Func adapts an ordinary function to timer.Notifier.
type Func func(title, body string)

func (f Func) Notify(title, body string) { f(title, body) }

// Multi fans a notification out to several notifiers in order.
type Multi []interface{ Notify(title, body string) }

func (m Multi) Notify(title, body string) {
	for _, n := range m {
		n.Notify(title, body)
	}
}
