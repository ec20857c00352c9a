// Package resource provides the finite-state entities of the simulation:
// resources that are seized and released, and transporters that move
// material. Every entity exposes only the operations legal in its current
// state; an illegal operation is a defect in the surrounding model and
// panics.
package resource

import (
	"log"

	"github.com/simworks/desim/sim/hooking"
)

// HookPosStateChange marks a state transition of a resource or transporter.
// The hook context carries the entity as Item and a StateChange as Detail.
var HookPosStateChange = &hooking.HookPos{Name: "State Change"}

// A StateChange describes one transition for observers.
type StateChange struct {
	From      string
	To        string
	Operation string
}

// ResourceState is the state tag of a Resource.
type ResourceState int

// The states of a Resource.
const (
	ResourceCreated ResourceState = iota
	ResourceIdle
	ResourceBusy
	ResourceInactive
	ResourceFailed
)

func (s ResourceState) String() string {
	switch s {
	case ResourceCreated:
		return "Created"
	case ResourceIdle:
		return "Idle"
	case ResourceBusy:
		return "Busy"
	case ResourceInactive:
		return "Inactive"
	case ResourceFailed:
		return "Failed"
	}

	return "Unknown"
}

// TransporterState is the state tag of a Transporter.
type TransporterState int

// The states of a Transporter.
const (
	TransporterCreated TransporterState = iota
	TransporterInactive
	TransporterIdle
	TransporterMovingIdle
	TransporterAllocated
	TransporterAllocatedMovingEmpty
	TransporterAllocatedMovingLoaded
)

func (s TransporterState) String() string {
	switch s {
	case TransporterCreated:
		return "Created"
	case TransporterInactive:
		return "Inactive"
	case TransporterIdle:
		return "Idle"
	case TransporterMovingIdle:
		return "MovingIdle"
	case TransporterAllocated:
		return "Allocated"
	case TransporterAllocatedMovingEmpty:
		return "AllocatedMovingEmpty"
	case TransporterAllocatedMovingLoaded:
		return "AllocatedMovingLoaded"
	}

	return "Unknown"
}

// resourceTransitions is the transition table of a Resource, keyed by the
// current state and the operation name. Absence means the operation is
// illegal in that state.
var resourceTransitions = map[ResourceState]map[string]ResourceState{
	ResourceCreated: {
		"Activate":   ResourceIdle,
		"Deactivate": ResourceInactive,
	},
	ResourceIdle: {
		"Seize":      ResourceBusy,
		"Deactivate": ResourceInactive,
		"Fail":       ResourceFailed,
	},
	ResourceBusy: {
		"Release": ResourceIdle,
		"Fail":    ResourceFailed,
	},
	ResourceInactive: {
		"Activate": ResourceIdle,
	},
	ResourceFailed: {
		"Repair": ResourceIdle,
	},
}

// transporterTransitions is the transition table of a Transporter.
var transporterTransitions = map[TransporterState]map[string]TransporterState{
	TransporterCreated: {
		"Activate":   TransporterIdle,
		"Deactivate": TransporterInactive,
	},
	TransporterInactive: {
		"Activate": TransporterIdle,
	},
	TransporterIdle: {
		"Deactivate": TransporterInactive,
		"MoveIdle":   TransporterMovingIdle,
		"Allocate":   TransporterAllocated,
	},
	TransporterMovingIdle: {
		"CompleteIdleMove": TransporterIdle,
	},
	TransporterAllocated: {
		"Free":      TransporterIdle,
		"MoveEmpty": TransporterAllocatedMovingEmpty,
		"Transport": TransporterAllocatedMovingLoaded,
	},
	TransporterAllocatedMovingEmpty: {
		"CompleteEmptyMove": TransporterAllocated,
	},
	TransporterAllocatedMovingLoaded: {
		"CompleteTransport": TransporterAllocated,
	},
}

func illegalOperation(entity string, op string, state string) {
	log.Panicf("%s: illegal operation %s in state %s", entity, op, state)
}
