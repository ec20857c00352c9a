package sim

import (
	"log"

	"github.com/google/btree"
)

// A TreeCalendar is an EventCalendar backed by a balanced ordered tree keyed
// by the event ordering relation. Insert and extract-min are O(log n). Keys
// are unique because the creation-order sequence is strictly monotonic.
type TreeCalendar struct {
	tree *btree.BTreeG[*Event]
}

// NewTreeCalendar creates an empty TreeCalendar.
func NewTreeCalendar() *TreeCalendar {
	return &TreeCalendar{
		tree: btree.NewG(2, eventBefore),
	}
}

// Add inserts an event.
func (c *TreeCalendar) Add(e *Event) {
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
	c.tree.ReplaceOrInsert(e)
}

// PeekNext returns the minimal event without removing it, or nil.
func (c *TreeCalendar) PeekNext() *Event {
	e, ok := c.tree.Min()
	if !ok {
		return nil
	}

	return e
}

// NextEvent removes and returns the minimal event, or nil.
func (c *TreeCalendar) NextEvent() *Event {
	e, ok := c.tree.DeleteMin()
	if !ok {
		return nil
	}

	e.resident = false
	e.dispatched = true

	return e
}

// Cancel marks the event canceled in place. Like the skew-heap backing, the
// tree keeps the event until it is popped.
func (c *TreeCalendar) Cancel(e *Event) {
	if e == nil {
		log.Panic("canceling a nil event")
	}

	e.Cancel()
}

// Clear empties the calendar.
func (c *TreeCalendar) Clear() {
	c.tree.Ascend(func(e *Event) bool {
		e.resident = false
		return true
	})

	c.tree.Clear(false)
}

// Size returns the number of resident events.
func (c *TreeCalendar) Size() int {
	return c.tree.Len()
}

// IsEmpty tells if the calendar holds no events.
func (c *TreeCalendar) IsEmpty() bool {
	return c.tree.Len() == 0
}
