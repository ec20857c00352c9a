package resource

import (
	"log"

	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/hooking"
	"github.com/simworks/desim/sim/stats"
)

// A Resource is a unit of service capacity. It starts in the Created state
// and cycles through Idle and Busy as model logic seizes and releases it;
// Inactive and Failed model scheduled downtime and breakdowns.
//
// Every transition exits the old state, collecting the elapsed time spent
// there, enters the new state, and synchronously notifies hooks. Pools the
// resource belongs to keep their idle lists current through the same
// notification, so pool-level idle queries never scan busy members.
type Resource struct {
	hooking.HookableBase

	name       string
	timeTeller sim.TimeTeller

	state          ResourceState
	stateEnteredAt sim.VTime
	stateTimes     map[ResourceState]stats.Collector

	pools []*Pool
}

// ResourceBuilder builds Resources.
type ResourceBuilder struct {
	timeTeller sim.TimeTeller
	stateTimes map[ResourceState]stats.Collector
}

// WithTimeTeller sets the clock used for state sojourn times. Required.
func (b ResourceBuilder) WithTimeTeller(tt sim.TimeTeller) ResourceBuilder {
	b.timeTeller = tt
	return b
}

// WithStateTimeCollector attaches a collector that receives the elapsed
// time every time the resource exits the given state.
func (b ResourceBuilder) WithStateTimeCollector(
	s ResourceState,
	c stats.Collector,
) ResourceBuilder {
	if b.stateTimes == nil {
		b.stateTimes = make(map[ResourceState]stats.Collector)
	}

	b.stateTimes[s] = c

	return b
}

// Build builds a Resource in the Created state.
func (b ResourceBuilder) Build(name string) *Resource {
	if b.timeTeller == nil {
		log.Panicf("resource %s built without a time teller", name)
	}

	return &Resource{
		name:       name,
		timeTeller: b.timeTeller,
		state:      ResourceCreated,
		stateTimes: b.stateTimes,
	}
}

// Name returns the name of the resource.
func (r *Resource) Name() string {
	return r.name
}

// State returns the current state tag.
func (r *Resource) State() ResourceState {
	return r.state
}

// IsIdle tells if the resource can be seized.
func (r *Resource) IsIdle() bool {
	return r.state == ResourceIdle
}

// Activate makes a Created or Inactive resource available for seizing.
func (r *Resource) Activate() {
	r.apply("Activate")
}

// Deactivate takes the resource out of service.
func (r *Resource) Deactivate() {
	r.apply("Deactivate")
}

// Seize claims an idle resource for service.
func (r *Resource) Seize() {
	r.apply("Seize")
}

// Release returns a busy resource to idle.
func (r *Resource) Release() {
	r.apply("Release")
}

// Fail moves the resource to the Failed state.
func (r *Resource) Fail() {
	r.apply("Fail")
}

// Repair returns a failed resource to idle.
func (r *Resource) Repair() {
	r.apply("Repair")
}

// Initialize resets the resource to the Created state for a new
// replication, without notifying hooks.
func (r *Resource) Initialize() {
	r.state = ResourceCreated
	r.stateEnteredAt = 0
}

func (r *Resource) apply(op string) {
	target, legal := resourceTransitions[r.state][op]
	if !legal {
		illegalOperation(r.name, op, r.state.String())
	}

	r.transition(op, target)
}

func (r *Resource) transition(op string, to ResourceState) {
	now := r.timeTeller.CurrentTime()
	from := r.state

	if c, ok := r.stateTimes[from]; ok {
		c.Collect(now, float64(now-r.stateEnteredAt))
	}

	r.state = to
	r.stateEnteredAt = now

	if from == ResourceIdle {
		for _, p := range r.pools {
			p.retractIdle(r)
		}
	}

	if to == ResourceIdle {
		for _, p := range r.pools {
			p.noteIdle(r)
		}
	}

	if r.NumHooks() > 0 {
		r.InvokeHook(hooking.HookCtx{
			Domain: r,
			Pos:    HookPosStateChange,
			Item:   r,
			Detail: StateChange{
				From:      from.String(),
				To:        to.String(),
				Operation: op,
			},
		})
	}
}
