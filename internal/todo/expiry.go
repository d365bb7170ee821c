package todo

import (
	"container/heap"
	"time"
)

// expiry is a pending deletion of a completed task.
type expiry struct {
	id    int64
	at    time.Time
	index int
}

// expiryQueue is a min-heap of pending deletions keyed by deadline, with an
// id index so a task can be rescheduled or cancelled in O(log n).
type expiryQueue struct {
	items []*expiry
	byID  map[int64]*expiry
}

func newExpiryQueue() *expiryQueue {
	return &expiryQueue{byID: make(map[int64]*expiry)}
}

func (q *expiryQueue) Len() int { return len(q.items) }

func (q *expiryQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.at.Equal(b.at) {
		return a.id < b.id
	}
	return a.at.Before(b.at)
}

func (q *expiryQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *expiryQueue) Push(x any) {
	e := x.(*expiry)
	e.index = len(q.items)
	q.items = append(q.items, e)
	q.byID[e.id] = e
}

func (q *expiryQueue) Pop() any {
	n := len(q.items)
	e := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	delete(q.byID, e.id)
	e.index = -1
	return e
}

// upsert schedules id for deletion at at, replacing any earlier entry.
func (q *expiryQueue) upsert(id int64, at time.Time) {
	if e, ok := q.byID[id]; ok {
		if !e.at.Equal(at) {
			e.at = at
			heap.Fix(q, e.index)
		}
		return
	}
	heap.Push(q, &expiry{id: id, at: at})
}

func (q *expiryQueue) remove(id int64) {
	if e, ok := q.byID[id]; ok {
		heap.Remove(q, e.index)
	}
}

func (q *expiryQueue) peek() *expiry {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}
