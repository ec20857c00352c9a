// Package queue provides the waiting-line primitive of the simulation. A
// Queue holds QObjects under a pluggable discipline and reports every
// mutation to its hooks and statistics collectors.
package queue

import (
	"log"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/hooking"
	"github.com/simworks/desim/sim/rng"
	"github.com/simworks/desim/sim/stats"
)

// HookPosEnqueue marks when an object enters the queue.
var HookPosEnqueue = &hooking.HookPos{Name: "Queue Enqueue"}

// HookPosDequeue marks when an object leaves the queue through a removal
// that counts toward wait-time statistics.
var HookPosDequeue = &hooking.HookPos{Name: "Queue Dequeue"}

// HookPosIgnore marks when an object leaves the queue through an
// administrative removal that does not count toward wait-time statistics.
var HookPosIgnore = &hooking.HookPos{Name: "Queue Ignore"}

// Status reports the queue's last mutation, for listeners that poll instead
// of hooking.
type Status int

// The possible values of Status.
const (
	StatusNone Status = iota
	StatusEnqueued
	StatusDequeued
	StatusIgnored
)

// A Queue is an ordered collection of QObjects plus a discipline that
// decides both where arriving objects are placed and which object is next.
type Queue struct {
	hooking.HookableBase

	name       string
	timeTeller sim.TimeTeller
	sequencer  *sim.Sequencer
	stream     *rng.Stream

	items []*QObject

	// drawnIndex is the slot the random discipline has committed to serve
	// next; -1 means no draw is outstanding. Any mutation invalidates it.
	drawnIndex int

	initialDiscipline Discipline
	discipline        Discipline
	strategy          strategy

	waitTimes  stats.Collector
	numInQueue stats.Collector

	lastStatus Status
}

// Builder builds Queues.
type Builder struct {
	timeTeller sim.TimeTeller
	sequencer  *sim.Sequencer
	discipline Discipline
	stream     *rng.Stream
	waitTimes  stats.Collector
	numInQueue stats.Collector
}

// WithTimeTeller sets the clock the queue reads enqueue times from.
// Required.
func (b Builder) WithTimeTeller(tt sim.TimeTeller) Builder {
	b.timeTeller = tt
	return b
}

// WithSequencer sets the sequencer that hands out QObject ids. Queues that
// share a sequencer have globally creation-ordered ids.
func (b Builder) WithSequencer(s *sim.Sequencer) Builder {
	b.sequencer = s
	return b
}

// WithDiscipline sets the initial discipline. Defaults to FIFO.
func (b Builder) WithDiscipline(d Discipline) Builder {
	b.discipline = d
	return b
}

// WithStream sets the dedicated random stream used by the random
// discipline.
func (b Builder) WithStream(st *rng.Stream) Builder {
	b.stream = st
	return b
}

// WithWaitTimeCollector sets the collector that receives one wait-time
// observation per counted removal.
func (b Builder) WithWaitTimeCollector(c stats.Collector) Builder {
	b.waitTimes = c
	return b
}

// WithLengthCollector sets the collector that receives the queue length
// after every mutation, for time-weighted number-in-queue statistics.
func (b Builder) WithLengthCollector(c stats.Collector) Builder {
	b.numInQueue = c
	return b
}

// Build builds a Queue.
func (b Builder) Build(name string) *Queue {
	if b.timeTeller == nil {
		log.Panicf("queue %s built without a time teller", name)
	}

	if b.sequencer == nil {
		b.sequencer = &sim.Sequencer{}
	}

	if b.discipline == Random && b.stream == nil {
		log.Panicf("queue %s uses the random discipline without a stream",
			name)
	}

	return &Queue{
		name:              name,
		timeTeller:        b.timeTeller,
		sequencer:         b.sequencer,
		stream:            b.stream,
		drawnIndex:        -1,
		initialDiscipline: b.discipline,
		discipline:        b.discipline,
		strategy:          strategyFor(b.discipline),
		waitTimes:         b.waitTimes,
		numInQueue:        b.numInQueue,
	}
}

// Name returns the name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Discipline returns the current discipline.
func (q *Queue) Discipline() Discipline {
	return q.discipline
}

// InitialDiscipline returns the discipline the queue starts each
// replication with.
func (q *Queue) InitialDiscipline() Discipline {
	return q.initialDiscipline
}

// LastStatus returns the kind of the queue's most recent mutation.
func (q *Queue) LastStatus() Status {
	return q.lastStatus
}

// Size returns the number of waiting objects.
func (q *Queue) Size() int {
	return len(q.items)
}

// IsEmpty tells if no object is waiting.
func (q *Queue) IsEmpty() bool {
	return len(q.items) == 0
}

// Enqueue wraps the payload in a fresh QObject and places it according to
// the current discipline. A nil payload is a precondition violation.
func (q *Queue) Enqueue(payload interface{}, priority int) *QObject {
	if payload == nil {
		log.Panicf("queue %s: enqueueing a nil payload", q.name)
	}

	obj := &QObject{
		id:       q.sequencer.Next(),
		priority: priority,
		payload:  payload,
	}

	q.EnqueueObject(obj)

	return obj
}

// EnqueueObject places an existing QObject, typically one removed from
// another queue earlier. The object must not currently be a member of any
// queue.
func (q *Queue) EnqueueObject(obj *QObject) {
	if obj == nil {
		log.Panicf("queue %s: enqueueing a nil object", q.name)
	}

	if obj.queue != nil {
		log.Panicf("queue %s: object %d is already a member of queue %s",
			q.name, obj.id, obj.queue.name)
	}

	obj.enqueueTime = q.timeTeller.CurrentTime()
	obj.queue = q

	q.strategy.insert(q, obj)
	q.drawnIndex = -1

	q.lastStatus = StatusEnqueued
	q.collectLength()
	q.notify(HookPosEnqueue, obj)
}

// PeekNext returns the object the discipline serves next, without removing
// it, or nil if the queue is empty. Under the random discipline the drawn
// slot is held until the next mutation, so the peeked object is the one the
// following removal returns.
func (q *Queue) PeekNext() *QObject {
	if len(q.items) == 0 {
		return nil
	}

	return q.items[q.strategy.nextIndex(q)]
}

// RemoveNext removes and returns the object the discipline serves next, or
// nil if the queue is empty. The removal counts toward wait-time
// statistics.
func (q *Queue) RemoveNext() *QObject {
	if len(q.items) == 0 {
		return nil
	}

	return q.removeAt(q.strategy.nextIndex(q), true)
}

// Remove removes a specific object. collectWaitStats selects whether the
// removal counts toward wait-time statistics; pass false for administrative
// removals such as reneging or cancellation. Removing an object that is not
// a member of this queue is a precondition violation.
func (q *Queue) Remove(obj *QObject, collectWaitStats bool) {
	if obj == nil {
		log.Panicf("queue %s: removing a nil object", q.name)
	}

	if obj.queue != q {
		log.Panicf("queue %s: object %d is not a member of this queue",
			q.name, obj.id)
	}

	for i, held := range q.items {
		if held == obj {
			q.removeAt(i, collectWaitStats)
			return
		}
	}

	log.Panicf("queue %s: object %d not found despite membership", q.name,
		obj.id)
}

// RemoveAt removes the object at the given position in the current
// ordering. An out-of-range index is a precondition violation.
func (q *Queue) RemoveAt(i int, collectWaitStats bool) *QObject {
	if i < 0 || i >= len(q.items) {
		log.Panicf("queue %s: removing index %d out of range [0, %d)",
			q.name, i, len(q.items))
	}

	return q.removeAt(i, collectWaitStats)
}

// RemoveIf removes every object matching the predicate, in queue order, and
// returns the removed objects.
func (q *Queue) RemoveIf(
	pred func(*QObject) bool,
	collectWaitStats bool,
) []*QObject {
	if pred == nil {
		log.Panicf("queue %s: removing with a nil predicate", q.name)
	}

	var removed []*QObject

	for i := 0; i < len(q.items); {
		if pred(q.items[i]) {
			removed = append(removed, q.removeAt(i, collectWaitStats))
			continue
		}

		i++
	}

	return removed
}

// Find returns the first object matching the predicate, or nil.
func (q *Queue) Find(pred func(*QObject) bool) *QObject {
	if pred == nil {
		log.Panicf("queue %s: finding with a nil predicate", q.name)
	}

	for _, obj := range q.items {
		if pred(obj) {
			return obj
		}
	}

	return nil
}

// Contains tells if the object is currently a member of this queue.
func (q *Queue) Contains(obj *QObject) bool {
	return obj != nil && obj.queue == q
}

// ChangeDiscipline swaps the ordering policy at runtime. Switching to the
// ranked discipline re-sorts the existing contents so the queue is
// immediately consistent with the new policy.
func (q *Queue) ChangeDiscipline(d Discipline) {
	if d == Random && q.stream == nil {
		log.Panicf("queue %s uses the random discipline without a stream",
			q.name)
	}

	q.discipline = d
	q.strategy = strategyFor(d)
	q.drawnIndex = -1
	q.strategy.activate(q)
}

// ChangePriority updates the priority of a waiting object. Under the ranked
// discipline the queue re-sorts so the new priority takes effect for the
// very next removal.
func (q *Queue) ChangePriority(obj *QObject, priority int) {
	if obj == nil {
		log.Panicf("queue %s: changing priority of a nil object", q.name)
	}

	if obj.queue != q {
		log.Panicf("queue %s: object %d is not a member of this queue",
			q.name, obj.id)
	}

	obj.priority = priority
	q.drawnIndex = -1

	if q.discipline == Ranked {
		q.strategy.activate(q)
	}
}

// Clear removes every object without collecting wait-time statistics.
func (q *Queue) Clear() {
	for _, obj := range q.items {
		obj.queue = nil
	}

	q.items = nil
	q.drawnIndex = -1
	q.collectLength()
}

// Initialize resets the queue for a new replication: contents are
// discarded and the discipline returns to its initial value.
func (q *Queue) Initialize() {
	for _, obj := range q.items {
		obj.queue = nil
	}

	q.items = nil
	q.drawnIndex = -1
	q.lastStatus = StatusNone
	q.discipline = q.initialDiscipline
	q.strategy = strategyFor(q.initialDiscipline)
}

func (q *Queue) removeAt(i int, collectWaitStats bool) *QObject {
	obj := q.items[i]

	copy(q.items[i:], q.items[i+1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	q.drawnIndex = -1

	obj.queue = nil

	now := q.timeTeller.CurrentTime()
	pos := HookPosIgnore
	q.lastStatus = StatusIgnored

	if collectWaitStats {
		pos = HookPosDequeue
		q.lastStatus = StatusDequeued

		if q.waitTimes != nil {
			q.waitTimes.Collect(now, float64(now-obj.enqueueTime))
		}
	}

	q.collectLength()
	q.notify(pos, obj)

	return obj
}

func (q *Queue) collectLength() {
	if q.numInQueue != nil {
		q.numInQueue.Collect(q.timeTeller.CurrentTime(),
			float64(len(q.items)))
	}
}

func (q *Queue) notify(pos *hooking.HookPos, obj *QObject) {
	if q.NumHooks() == 0 {
		return
	}

	q.InvokeHook(hooking.HookCtx{
		Domain: q,
		Pos:    pos,
		Item:   obj,
	})
}
