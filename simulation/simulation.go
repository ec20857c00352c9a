// Package simulation wires the kernel pieces of one model together and runs
// replicated experiments over them.
package simulation

import (
	"log"

	"github.com/rs/xid"

	"github.com/simworks/desim/datarecording"
	"github.com/simworks/desim/sim"
	"github.com/simworks/desim/sim/rng"
)

// An Initializable is a stateful model element that must be reset between
// replications. The experiment runner calls Initialize on every registered
// element after the executive itself has been re-initialized, so that
// replications are statistically independent.
type Initializable interface {
	Initialize()
}

// A Simulation holds the shared services of one model: the executive, the
// random streams, the optional data recorder, and a registry of named model
// elements.
type Simulation struct {
	id        string
	executive *sim.Executive
	streams   *rng.Streams
	recorder  datarecording.DataRecorder

	elements       map[string]any
	order          []string
	initializables []Initializable
}

// Builder builds Simulations.
type Builder struct {
	executive *sim.Executive
	seed      uint64
	recorder  datarecording.DataRecorder
}

// WithExecutive sets the executive. Defaults to a skew-heap-backed one.
func (b Builder) WithExecutive(x *sim.Executive) Builder {
	b.executive = x
	return b
}

// WithSeed sets the master seed of the random streams.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithDataRecorder sets the recorder experiments persist their replication
// records into. Optional.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// Build builds a Simulation.
func (b Builder) Build() *Simulation {
	if b.executive == nil {
		b.executive = sim.NewExecutive(nil)
	}

	return &Simulation{
		id:        xid.New().String(),
		executive: b.executive,
		streams:   rng.NewStreams(b.seed),
		recorder:  b.recorder,
		elements:  make(map[string]any),
	}
}

// ID returns the unique id of this simulation run.
func (s *Simulation) ID() string {
	return s.id
}

// Executive returns the executive of the simulation.
func (s *Simulation) Executive() *sim.Executive {
	return s.executive
}

// Streams returns the random stream factory of the simulation.
func (s *Simulation) Streams() *rng.Streams {
	return s.streams
}

// DataRecorder returns the recorder, or nil if none was configured.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.recorder
}

// Register adds a named model element to the simulation. Elements that are
// Initializable are reset at the start of every replication, in
// registration order. Register dependents after what they depend on; for
// example, pools after their members.
func (s *Simulation) Register(name string, element any) {
	if element == nil {
		log.Panic("registering a nil model element")
	}

	if _, ok := s.elements[name]; ok {
		log.Panicf("model element %s already registered", name)
	}

	s.elements[name] = element
	s.order = append(s.order, name)

	if init, ok := element.(Initializable); ok {
		s.initializables = append(s.initializables, init)
	}
}

// GetByName returns the registered element with the given name, or nil.
func (s *Simulation) GetByName(name string) any {
	return s.elements[name]
}

// initializeReplication resets the executive and every registered element
// for one replication.
func (s *Simulation) initializeReplication(rep int) {
	s.streams.SetReplication(rep)
	s.executive.Initialize()

	for _, init := range s.initializables {
		init.Initialize()
	}
}

// Terminate releases the simulation's external resources.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
	}
}
