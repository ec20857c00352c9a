package sim

// An EventCalendar holds the events that are scheduled but not yet fired,
// ordered by time, then priority, then creation order.
//
// An empty calendar is a normal state, not a fault. PeekNext and NextEvent
// return nil when the calendar is empty.
//
// Cancellation is cooperative: Cancel only marks the event in place. The
// canceled event keeps its slot until it becomes the minimum and is popped,
// at which point the executive discards it without firing.
type EventCalendar interface {
	// Add inserts an event. Adding an event that has already been fired or
	// that is already resident panics.
	Add(e *Event)

	// PeekNext returns the minimal event without removing it, or nil.
	PeekNext() *Event

	// NextEvent removes and returns the minimal event, or nil.
	NextEvent() *Event

	// Cancel marks an event canceled in place.
	Cancel(e *Event)

	// Clear empties the calendar.
	Clear()

	// Size returns the number of resident events, including events that are
	// canceled but not yet popped.
	Size() int

	// IsEmpty tells if the calendar holds no events.
	IsEmpty() bool
}
