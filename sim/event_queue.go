package sim

import "container/heap"

// ScheduledEntry is one pending unit of work in the EventQueue.
type ScheduledEntry struct {
	Time     int64  // simulation time at which Event is processed
	Sequence uint64 // insertion counter, breaks ties between equal Times
	Event    *Event
}

// EventQueue implements a priority queue with deterministic ordering.
// Ordering: time → sequence, so entries scheduled for the same time are
// processed in the order they were scheduled.
type EventQueue struct {
	entries []ScheduledEntry
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		entries: make([]ScheduledEntry, 0),
	}
	heap.Init(q)
	return q
}

// Len implements heap.Interface
func (q *EventQueue) Len() int {
	return len(q.entries)
}

// Less implements heap.Interface with deterministic ordering
func (q *EventQueue) Less(i, j int) bool {
	ei, ej := q.entries[i], q.entries[j]

	// Primary: time (lower first)
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}

	// Secondary: insertion sequence (FIFO at equal time)
	return ei.Sequence < ej.Sequence
}

// Swap implements heap.Interface
func (q *EventQueue) Swap(i, j int) {
	q.entries[i], q.entries[j] = q.entries[j], q.entries[i]
}

// Push implements heap.Interface
func (q *EventQueue) Push(x interface{}) {
	q.entries = append(q.entries, x.(ScheduledEntry))
}

// Pop implements heap.Interface
func (q *EventQueue) Pop() interface{} {
	old := q.entries
	n := len(old)
	item := old[n-1]
	old[n-1] = ScheduledEntry{} // drop the event reference
	q.entries = old[0 : n-1]
	return item
}

// Schedule adds an entry to the queue
func (q *EventQueue) Schedule(e ScheduledEntry) {
	heap.Push(q, e)
}

// PopNext removes and returns the earliest entry
func (q *EventQueue) PopNext() (ScheduledEntry, bool) {
	if q.Len() == 0 {
		return ScheduledEntry{}, false
	}
	return heap.Pop(q).(ScheduledEntry), true
}

// Peek returns the earliest entry without removing it
func (q *EventQueue) Peek() (ScheduledEntry, bool) {
	if q.Len() == 0 {
		return ScheduledEntry{}, false
	}
	return q.entries[0], true
}
