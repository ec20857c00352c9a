package queue

import "github.com/simworks/desim/sim"

// A QObject wraps an arbitrary payload so that it can wait in a Queue. The
// wrapper carries the bookkeeping the queue disciplines need: a
// creation-ordered id, a priority, and the time the object entered its
// current queue.
//
// A QObject is a member of at most one queue at any time.
type QObject struct {
	id          uint64
	priority    int
	enqueueTime sim.VTime
	payload     interface{}
	queue       *Queue
}

// ID returns the creation-ordered identity of the object.
func (o *QObject) ID() uint64 {
	return o.id
}

// Priority returns the queueing priority. Lower values rank earlier under
// the ranked discipline.
func (o *QObject) Priority() int {
	return o.priority
}

// EnqueueTime returns the time the object entered its current queue.
func (o *QObject) EnqueueTime() sim.VTime {
	return o.enqueueTime
}

// Payload returns the wrapped entity.
func (o *QObject) Payload() interface{} {
	return o.payload
}

// Queue returns the queue currently holding the object, or nil.
func (o *QObject) Queue() *Queue {
	return o.queue
}

// InQueue tells if the object is currently held by a queue.
func (o *QObject) InQueue() bool {
	return o.queue != nil
}

// qobjectBefore ranks queue objects by priority ascending, then enqueue time
// ascending, then id ascending. The structure mirrors the event ordering
// relation so that ranked removal is a strict total order.
func qobjectBefore(a, b *QObject) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}

	if a.enqueueTime != b.enqueueTime {
		return a.enqueueTime < b.enqueueTime
	}

	return a.id < b.id
}
