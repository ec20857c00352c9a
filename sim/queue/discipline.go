package queue

import (
	"log"
	"sort"
)

// Discipline selects the ordering policy of a Queue.
type Discipline int

// The supported queue disciplines.
const (
	FIFO Discipline = iota
	LIFO
	Ranked
	Random
)

func (d Discipline) String() string {
	switch d {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	case Ranked:
		return "Ranked"
	case Random:
		return "Random"
	}

	return "Unknown"
}

// A strategy decides where an arriving object is placed and which object is
// next. The queue is always internally consistent with its current strategy;
// activate restores that consistency when the strategy is switched in at
// runtime.
type strategy interface {
	insert(q *Queue, obj *QObject)
	nextIndex(q *Queue) int
	activate(q *Queue)
}

func strategyFor(d Discipline) strategy {
	switch d {
	case FIFO:
		return fifoStrategy{}
	case LIFO:
		return lifoStrategy{}
	case Ranked:
		return rankedStrategy{}
	case Random:
		return randomStrategy{}
	}

	log.Panicf("unknown queue discipline %d", d)

	return nil
}

// fifoStrategy appends at the tail and serves the head. O(1) on both sides.
type fifoStrategy struct{}

func (fifoStrategy) insert(q *Queue, obj *QObject) {
	q.items = append(q.items, obj)
}

func (fifoStrategy) nextIndex(_ *Queue) int {
	return 0
}

func (fifoStrategy) activate(_ *Queue) {}

// lifoStrategy appends at the tail and serves the tail.
type lifoStrategy struct{}

func (lifoStrategy) insert(q *Queue, obj *QObject) {
	q.items = append(q.items, obj)
}

func (lifoStrategy) nextIndex(q *Queue) int {
	return len(q.items) - 1
}

func (lifoStrategy) activate(_ *Queue) {}

// rankedStrategy keeps the sequence fully sorted by the queue-object
// comparison relation. Insertion scans for the position, O(n), so that
// removal of the next object stays O(1). Queue traffic in a simulation is
// insert-heavy-then-drain, which makes this the right trade.
type rankedStrategy struct{}

func (rankedStrategy) insert(q *Queue, obj *QObject) {
	pos := sort.Search(len(q.items), func(i int) bool {
		return qobjectBefore(obj, q.items[i])
	})

	q.items = append(q.items, nil)
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = obj
}

func (rankedStrategy) nextIndex(_ *Queue) int {
	return 0
}

// activate re-sorts the existing contents so that a queue switched to the
// ranked discipline mid-operation immediately serves in ranked order.
func (rankedStrategy) activate(q *Queue) {
	sort.SliceStable(q.items, func(i, j int) bool {
		return qobjectBefore(q.items[i], q.items[j])
	})
}

// randomStrategy appends at the tail and serves a uniformly drawn slot,
// using the queue's dedicated random stream. The drawn slot is cached on the
// queue until the next mutation, so peeking agrees with the removal that
// follows and costs at most one draw per removal.
type randomStrategy struct{}

func (randomStrategy) insert(q *Queue, obj *QObject) {
	q.items = append(q.items, obj)
}

func (randomStrategy) nextIndex(q *Queue) int {
	if q.stream == nil {
		log.Panicf("queue %s uses the random discipline without a stream",
			q.name)
	}

	if q.drawnIndex < 0 {
		q.drawnIndex = q.stream.Intn(len(q.items))
	}

	return q.drawnIndex
}

func (randomStrategy) activate(_ *Queue) {}
