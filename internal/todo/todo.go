// Package todo owns the task ledger: the in-memory task set, its mutations,
// derived views and the auto-expiry of completed tasks. The ledger persists
// itself through store.KV after every change, so the desktop and web front
// ends share the same business logic without duplication.
package todo

import (
	"time"
)

// DefaultExpiry is how long a completed task lingers before it is removed.
const DefaultExpiry = time.Minute

// Task is the central domain object.
type Task struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t *Task) clone() Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

// defaultTasks is the starter set used when nothing usable is stored.
func defaultTasks(now time.Time) []*Task {
	texts := []string{
		"Create todo timer app",
		"Add timer functionality",
		"Deploy to GitHub Pages",
	}
	base := now.UnixMilli()
	tasks := make([]*Task, len(texts))
	for i, text := range texts {
		tasks[i] = &Task{
			ID:        base + int64(i),
			Text:      text,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		}
	}
	return tasks
}
