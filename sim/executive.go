package sim

import (
	"errors"
	"log"
	"math"
	"reflect"

	"github.com/simworks/desim/sim/hooking"
)

// DefaultEventPriority is the priority given to events scheduled without an
// explicit priority. Lower values fire earlier among same-time events.
const DefaultEventPriority = 10

// EndEventPriority is the priority of the scheduled end event. It is the
// largest priority in use so that all other events at the horizon time fire
// before the replication concludes.
const EndEventPriority = 1 << 30

// ErrNoMoreEvents reports that the calendar has no event left to execute. It
// is a normal termination condition for the caller, not a defect.
var ErrNoMoreEvents = errors.New("no more events to execute")

// End reasons recorded by the executive.
const (
	EndReasonScheduledEnd  = "scheduled end event reached"
	EndReasonCalendarEmpty = "event calendar emptied"
	EndReasonExternalStop  = "stop requested"
)

// HookPosExecInitialized is triggered when the executive finishes
// initializing a replication.
var HookPosExecInitialized = &hooking.HookPos{Name: "Executive Initialized"}

// HookPosBeforeEvent is triggered before an event fires.
var HookPosBeforeEvent = &hooking.HookPos{Name: "Before Event"}

// HookPosAfterEvent is triggered after an event fires.
var HookPosAfterEvent = &hooking.HookPos{Name: "After Event"}

// HookPosAfterExecution is triggered once per replication, when the
// executive ends.
var HookPosAfterExecution = &hooking.HookPos{Name: "After Execution"}

// ExecPhase describes where the executive is in its life cycle.
type ExecPhase int

// The phases of an Executive.
const (
	PhaseUninitialized ExecPhase = iota
	PhaseInitialized
	PhaseRunning
	PhaseEnded
)

func (p ExecPhase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseInitialized:
		return "Initialized"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	}

	return "Unknown"
}

// An EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	// Schedule schedules an action after a delay with the default priority
	// and no message.
	Schedule(action Action, delay VTime) *Event

	// ScheduleEvent schedules an action after a delay with an explicit
	// priority and message payload.
	ScheduleEvent(action Action, delay VTime, priority int, message interface{}) *Event

	// Cancel marks a scheduled event canceled.
	Cancel(e *Event)
}

// The Executive drives the event calendar. It repeatedly extracts the
// minimal pending event, advances the simulated clock to the event time, and
// fires the event's action, until an end event fires, the calendar empties,
// or an external stop is requested.
//
// Execution is strictly serial. An action runs to completion before the next
// event is considered, so event ordering and all downstream state
// transitions are deterministic and replayable for identical inputs.
type Executive struct {
	hooking.HookableBase

	calendar  EventCalendar
	sequencer Sequencer

	phase   ExecPhase
	time    VTime
	horizon VTime

	endEvent      *Event
	numExecuted   uint64
	actualEndTime VTime
	endReason     string
}

// NewExecutive creates an Executive over the given calendar. A nil calendar
// selects the skew-heap backing.
func NewExecutive(calendar EventCalendar) *Executive {
	if calendar == nil {
		calendar = NewSkewHeapCalendar()
	}

	return &Executive{
		calendar: calendar,
		horizon:  VTime(math.Inf(1)),
	}
}

// SetHorizon sets the simulated time at which the next replication ends. An
// infinite horizon means no end event is scheduled. Takes effect at the next
// Initialize.
func (x *Executive) SetHorizon(t VTime) {
	if t < 0 {
		log.Panic("horizon must be non-negative")
	}

	x.horizon = t
}

// Initialize resets the executive for a replication: the clock returns to
// zero, the calendar is cleared, and the end event is scheduled at the
// horizon. Must be called once before any event executes, and once per
// replication thereafter.
func (x *Executive) Initialize() {
	x.time = 0
	x.numExecuted = 0
	x.actualEndTime = 0
	x.endReason = ""
	x.endEvent = nil
	x.calendar.Clear()

	x.phase = PhaseInitialized

	if !math.IsInf(float64(x.horizon), 1) {
		x.endEvent = x.ScheduleEndEvent(x.horizon)
	}

	x.InvokeHook(hooking.HookCtx{
		Domain: x,
		Pos:    HookPosExecInitialized,
	})
}

// CurrentTime returns the current simulated time. Specifically, the time of
// the event being executed.
func (x *Executive) CurrentTime() VTime {
	return x.time
}

// Phase returns the current life-cycle phase of the executive.
func (x *Executive) Phase() ExecPhase {
	return x.phase
}

// NumEventsExecuted returns the number of events fired so far in the current
// replication. Canceled events are not counted.
func (x *Executive) NumEventsExecuted() uint64 {
	return x.numExecuted
}

// ActualEndTime returns the clock value at which the last replication ended.
func (x *Executive) ActualEndTime() VTime {
	return x.actualEndTime
}

// EndReason returns why the last replication ended.
func (x *Executive) EndReason() string {
	return x.endReason
}

// Calendar exposes the calendar, mainly for inspection by tracers.
func (x *Executive) Calendar() EventCalendar {
	return x.calendar
}

// Schedule schedules an action after a delay with the default priority.
func (x *Executive) Schedule(action Action, delay VTime) *Event {
	return x.ScheduleEvent(action, delay, DefaultEventPriority, nil)
}

// ScheduleEvent schedules an action after a delay with an explicit priority
// and message payload. It returns the event handle, which the caller may
// later pass to Cancel.
func (x *Executive) ScheduleEvent(
	action Action,
	delay VTime,
	priority int,
	message interface{},
) *Event {
	if x.phase == PhaseUninitialized {
		log.Panic("scheduling an event before the executive is initialized")
	}

	if action == nil {
		log.Panic("scheduling a nil action")
	}

	if delay < 0 {
		log.Panicf("scheduling an event with negative delay %f", delay)
	}

	e := &Event{
		time:     x.time + delay,
		priority: priority,
		sequence: x.sequencer.Next(),
		action:   action,
		message:  message,
	}

	if owner, ok := action.(Named); ok {
		e.owner = owner
	}

	x.calendar.Add(e)

	return e
}

// Cancel marks an event canceled. The event keeps its calendar slot and is
// skipped, without firing, when it becomes the minimum.
func (x *Executive) Cancel(e *Event) {
	if e == nil {
		log.Panic("canceling a nil event")
	}

	x.calendar.Cancel(e)
}

// ScheduleEndEvent schedules the sentinel event that concludes the
// replication at the given absolute time. A previously scheduled end event
// is canceled, so the replication has at most one pending end.
func (x *Executive) ScheduleEndEvent(t VTime) *Event {
	if t < x.time {
		log.Panicf("scheduling the end event in the past, t %f, now %f",
			t, x.time)
	}

	if x.endEvent != nil && !x.endEvent.dispatched {
		x.calendar.Cancel(x.endEvent)
	}

	x.endEvent = x.ScheduleEvent(
		endAction{executive: x}, t-x.time, EndEventPriority, nil)

	return x.endEvent
}

// ExecuteNextEvent pops the minimal non-canceled event, advances the clock
// to its time, and fires its action. It returns ErrNoMoreEvents when the
// calendar is empty or the replication has ended.
func (x *Executive) ExecuteNextEvent() error {
	switch x.phase {
	case PhaseUninitialized:
		log.Panic("executing events before the executive is initialized")
	case PhaseEnded:
		return ErrNoMoreEvents
	}

	x.phase = PhaseRunning

	var e *Event
	for {
		e = x.calendar.NextEvent()
		if e == nil {
			return ErrNoMoreEvents
		}

		if !e.Canceled() {
			break
		}
	}

	if e.Time() < x.time {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(e.action), e.Time(), x.time,
		)
	}

	x.time = e.Time()

	hookCtx := hooking.HookCtx{
		Domain: x,
		Pos:    HookPosBeforeEvent,
		Item:   e,
	}
	x.InvokeHook(hookCtx)

	e.action.Execute(e)
	x.numExecuted++

	hookCtx.Pos = HookPosAfterEvent
	x.InvokeHook(hookCtx)

	return nil
}

// ExecuteAllEvents runs events until the calendar empties or an end is
// requested.
func (x *Executive) ExecuteAllEvents() error {
	for {
		err := x.ExecuteNextEvent()
		if err != nil {
			if errors.Is(err, ErrNoMoreEvents) {
				if x.phase != PhaseEnded {
					x.End(EndReasonCalendarEmpty)
				}

				return nil
			}

			return err
		}

		if x.phase == PhaseEnded {
			return nil
		}
	}
}

// Stop requests termination from outside the event loop. Remaining calendar
// contents are discarded.
func (x *Executive) Stop() {
	x.End(EndReasonExternalStop)
}

// End marks the replication ended. The clock value of the last processed
// event is recorded as the actual end time and the calendar is discarded.
func (x *Executive) End(reason string) {
	if x.phase == PhaseEnded {
		return
	}

	x.phase = PhaseEnded
	x.actualEndTime = x.time
	x.endReason = reason
	x.calendar.Clear()

	x.InvokeHook(hooking.HookCtx{
		Domain: x,
		Pos:    HookPosAfterExecution,
		Detail: reason,
	})
}

// endAction concludes the replication when the scheduled end event fires.
type endAction struct {
	executive *Executive
}

func (a endAction) Execute(_ *Event) {
	a.executive.End(EndReasonScheduledEnd)
}
