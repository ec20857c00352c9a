package resource

import (
	"log"
	"math"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/hooking"
	"github.com/simworks/desim/sim/stats"
)

// A MoveCallback is invoked exactly once when the matching move of a
// transporter completes, then cleared.
type MoveCallback func(t *Transporter)

// A Transporter is a material-handling unit that moves between locations on
// a one-dimensional track. Moves take distance/velocity in simulated time
// and complete through a calendar event; while a move is in flight the
// transporter is in one of the moving states and accepts no operation.
type Transporter struct {
	hooking.HookableBase

	name      string
	scheduler sim.EventScheduler

	state          TransporterState
	stateEnteredAt sim.VTime
	stateTimes     map[TransporterState]stats.Collector

	initialLocation float64
	location        float64
	velocity        float64

	idleMoveDone  MoveCallback
	emptyMoveDone MoveCallback
	transportDone MoveCallback

	pools []*TransporterPool
}

// TransporterBuilder builds Transporters.
type TransporterBuilder struct {
	scheduler  sim.EventScheduler
	velocity   float64
	location   float64
	stateTimes map[TransporterState]stats.Collector
}

// WithScheduler sets the event scheduler move completions are scheduled on.
// Required.
func (b TransporterBuilder) WithScheduler(
	s sim.EventScheduler,
) TransporterBuilder {
	b.scheduler = s
	return b
}

// WithVelocity sets the travel velocity in distance per simulated second.
// Defaults to 1.
func (b TransporterBuilder) WithVelocity(v float64) TransporterBuilder {
	b.velocity = v
	return b
}

// WithInitialLocation sets where the transporter starts each replication.
func (b TransporterBuilder) WithInitialLocation(
	loc float64,
) TransporterBuilder {
	b.location = loc
	return b
}

// WithStateTimeCollector attaches a collector that receives the elapsed
// time every time the transporter exits the given state.
func (b TransporterBuilder) WithStateTimeCollector(
	s TransporterState,
	c stats.Collector,
) TransporterBuilder {
	if b.stateTimes == nil {
		b.stateTimes = make(map[TransporterState]stats.Collector)
	}

	b.stateTimes[s] = c

	return b
}

// Build builds a Transporter in the Created state.
func (b TransporterBuilder) Build(name string) *Transporter {
	if b.scheduler == nil {
		log.Panicf("transporter %s built without a scheduler", name)
	}

	if b.velocity == 0 {
		b.velocity = 1
	}

	if b.velocity < 0 {
		log.Panicf("transporter %s built with negative velocity", name)
	}

	return &Transporter{
		name:            name,
		scheduler:       b.scheduler,
		state:           TransporterCreated,
		velocity:        b.velocity,
		initialLocation: b.location,
		location:        b.location,
		stateTimes:      b.stateTimes,
	}
}

// Name returns the name of the transporter.
func (t *Transporter) Name() string {
	return t.name
}

// State returns the current state tag.
func (t *Transporter) State() TransporterState {
	return t.state
}

// IsIdle tells if the transporter can be allocated or moved empty.
func (t *Transporter) IsIdle() bool {
	return t.state == TransporterIdle
}

// Location returns the current location of the transporter. During a move
// the location is the origin until the move completes.
func (t *Transporter) Location() float64 {
	return t.location
}

// Activate makes a Created or Inactive transporter available.
func (t *Transporter) Activate() {
	t.apply("Activate")
}

// Deactivate takes the transporter out of service.
func (t *Transporter) Deactivate() {
	t.apply("Deactivate")
}

// Allocate claims an idle transporter for a job.
func (t *Transporter) Allocate() {
	t.apply("Allocate")
}

// Free releases an allocated transporter back to idle.
func (t *Transporter) Free() {
	t.apply("Free")
}

// MoveIdle repositions an unallocated transporter, for example to a home
// depot. The callback fires exactly once when the move completes and the
// transporter is back in the Idle state.
func (t *Transporter) MoveIdle(dest float64, done MoveCallback) {
	t.mustBeLegal("MoveIdle")

	t.idleMoveDone = done
	t.startMove("MoveIdle", "CompleteIdleMove", dest)
}

// MoveEmpty sends an allocated transporter, unloaded, to a pickup point.
// The callback fires exactly once when the move completes and the
// transporter is back in the Allocated state.
func (t *Transporter) MoveEmpty(dest float64, done MoveCallback) {
	t.mustBeLegal("MoveEmpty")

	t.emptyMoveDone = done
	t.startMove("MoveEmpty", "CompleteEmptyMove", dest)
}

// Transport carries a load to the destination. The callback fires exactly
// once when the transport completes and the transporter is back in the
// Allocated state.
func (t *Transporter) Transport(dest float64, done MoveCallback) {
	t.mustBeLegal("Transport")

	t.transportDone = done
	t.startMove("Transport", "CompleteTransport", dest)
}

// Initialize resets the transporter to the Created state at its initial
// location for a new replication, without notifying hooks. Any in-flight
// move callback is dropped; the stale completion event is discarded by the
// executive's own reset.
func (t *Transporter) Initialize() {
	t.state = TransporterCreated
	t.stateEnteredAt = 0
	t.location = t.initialLocation
	t.idleMoveDone = nil
	t.emptyMoveDone = nil
	t.transportDone = nil
}

func (t *Transporter) travelTime(dest float64) sim.VTime {
	return sim.VTime(math.Abs(dest-t.location) / t.velocity)
}

func (t *Transporter) startMove(op, completeOp string, dest float64) {
	delay := t.travelTime(dest)
	t.apply(op)

	t.scheduler.Schedule(moveCompletion{
		transporter: t,
		operation:   completeOp,
		dest:        dest,
	}, delay)
}

func (t *Transporter) mustBeLegal(op string) {
	if _, legal := transporterTransitions[t.state][op]; !legal {
		illegalOperation(t.name, op, t.state.String())
	}
}

func (t *Transporter) apply(op string) {
	target, legal := transporterTransitions[t.state][op]
	if !legal {
		illegalOperation(t.name, op, t.state.String())
	}

	t.transition(op, target)
}

func (t *Transporter) transition(op string, to TransporterState) {
	now := t.scheduler.CurrentTime()
	from := t.state

	if c, ok := t.stateTimes[from]; ok {
		c.Collect(now, float64(now-t.stateEnteredAt))
	}

	t.state = to
	t.stateEnteredAt = now

	if from == TransporterIdle {
		for _, p := range t.pools {
			p.retractIdle(t)
		}
	}

	if to == TransporterIdle {
		for _, p := range t.pools {
			p.noteIdle(t)
		}
	}

	if t.NumHooks() > 0 {
		t.InvokeHook(hooking.HookCtx{
			Domain: t,
			Pos:    HookPosStateChange,
			Item:   t,
			Detail: StateChange{
				From:      from.String(),
				To:        to.String(),
				Operation: op,
			},
		})
	}
}

// moveCompletion is the calendar action that finishes a transporter move.
type moveCompletion struct {
	transporter *Transporter
	operation   string
	dest        float64
}

func (m moveCompletion) Name() string {
	return m.transporter.name
}

func (m moveCompletion) Execute(_ *sim.Event) {
	t := m.transporter

	t.location = m.dest
	t.apply(m.operation)

	var done MoveCallback

	switch m.operation {
	case "CompleteIdleMove":
		done, t.idleMoveDone = t.idleMoveDone, nil
	case "CompleteEmptyMove":
		done, t.emptyMoveDone = t.emptyMoveDone, nil
	case "CompleteTransport":
		done, t.transportDone = t.transportDone, nil
	}

	if done != nil {
		done(t)
	}
}
