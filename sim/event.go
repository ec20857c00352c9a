package sim

// An Action is the behavior attached to an event. The executive invokes the
// action when the event fires.
//
// One event is always constrained to one model element. The element that
// schedules the event is the only element the action may directly modify.
// Cross-element effects must go through further scheduled events.
type Action interface {
	Execute(e *Event)
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(e *Event)

// Execute invokes the function.
func (f ActionFunc) Execute(e *Event) {
	f(e)
}

// An Event is something going to happen in the future.
//
// Events are single-use. Once an event is fired or canceled it must not be
// added to a calendar again; schedule a fresh event instead.
type Event struct {
	time     VTime
	priority int
	sequence uint64

	action  Action
	message interface{}
	owner   Named

	canceled   bool
	dispatched bool
	resident   bool
}

// Time returns the time that the event is going to happen.
func (e *Event) Time() VTime {
	return e.time
}

// Priority returns the scheduling priority of the event. A lower value means
// the event fires earlier among same-time events.
func (e *Event) Priority() int {
	return e.priority
}

// Sequence returns the creation order of the event. It serves as the final
// tie-break so that the event ordering is a strict total order.
func (e *Event) Sequence() uint64 {
	return e.sequence
}

// Action returns the action that fires with the event.
func (e *Event) Action() Action {
	return e.action
}

// Message returns the payload attached to the event, if any.
func (e *Event) Message() interface{} {
	return e.message
}

// Owner returns the model element that scheduled the event, or nil.
func (e *Event) Owner() Named {
	return e.owner
}

// Canceled returns true if the event has been canceled.
func (e *Event) Canceled() bool {
	return e.canceled
}

// Cancel marks the event canceled. The event keeps its calendar slot; the
// executive skips it when it is eventually popped.
func (e *Event) Cancel() {
	e.canceled = true
}

// eventBefore is the total order shared by all calendar implementations:
// time ascending, then priority ascending, then creation order ascending.
func eventBefore(a, b *Event) bool {
	if a.time != b.time {
		return a.time < b.time
	}

	if a.priority != b.priority {
		return a.priority < b.priority
	}

	return a.sequence < b.sequence
}
