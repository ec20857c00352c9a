package sim

import "log"

// A SkewHeapCalendar is an EventCalendar backed by a self-adjusting binary
// heap. Insert is a merge with a singleton and extract-min is a merge of the
// two children of the root. Both are amortized O(log n), with small constant
// factors for the insert-then-drain traffic pattern that dominates
// discrete-event simulation.
type SkewHeapCalendar struct {
	root *skewNode
	size int
}

type skewNode struct {
	event       *Event
	left, right *skewNode
}

// NewSkewHeapCalendar creates an empty SkewHeapCalendar.
func NewSkewHeapCalendar() *SkewHeapCalendar {
	return &SkewHeapCalendar{}
}

// Add inserts an event by merging a singleton heap with the root.
func (c *SkewHeapCalendar) Add(e *Event) {
	if e == nil {
		log.Panic("adding a nil event to the calendar")
	}

	if e.dispatched {
		log.Panic("re-adding an event that has already been fired")
	}

	if e.resident {
		log.Panic("adding an event that is already in the calendar")
	}

	e.resident = true
	c.root = skewMerge(c.root, &skewNode{event: e})
	c.size++
}

// PeekNext returns the minimal event without removing it, or nil.
func (c *SkewHeapCalendar) PeekNext() *Event {
	if c.root == nil {
		return nil
	}

	return c.root.event
}

// NextEvent removes and returns the minimal event, or nil.
func (c *SkewHeapCalendar) NextEvent() *Event {
	if c.root == nil {
		return nil
	}

	e := c.root.event
	c.root = skewMerge(c.root.left, c.root.right)
	c.size--

	e.resident = false
	e.dispatched = true

	return e
}

// Cancel marks the event canceled in place. The heap structure is not
// touched; the event is discarded when it is eventually popped.
func (c *SkewHeapCalendar) Cancel(e *Event) {
	if e == nil {
		log.Panic("canceling a nil event")
	}

	e.Cancel()
}

// Clear empties the calendar.
func (c *SkewHeapCalendar) Clear() {
	clearResident(c.root)
	c.root = nil
	c.size = 0
}

func clearResident(n *skewNode) {
	if n == nil {
		return
	}

	n.event.resident = false
	clearResident(n.left)
	clearResident(n.right)
}

// Size returns the number of resident events.
func (c *SkewHeapCalendar) Size() int {
	return c.size
}

// IsEmpty tells if the calendar holds no events.
func (c *SkewHeapCalendar) IsEmpty() bool {
	return c.size == 0
}

// skewMerge merges two skew heaps along their right spines. The node with the
// smaller root keeps its left child, its right child becomes the merge of its
// old right child and the other heap, and the children are then swapped. The
// unconditional swap is what keeps the heap self-adjusting.
func skewMerge(a, b *skewNode) *skewNode {
	if a == nil {
		return b
	}

	if b == nil {
		return a
	}

	if eventBefore(b.event, a.event) {
		a, b = b, a
	}

	a.right = skewMerge(a.right, b)
	a.left, a.right = a.right, a.left

	return a
}
