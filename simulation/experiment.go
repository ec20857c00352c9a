package simulation

import (
	"log"
	"math"

	"github.com/simworks/desim/sim"
)

// A ReplicationRecord summarizes one replication for the data recorder.
type ReplicationRecord struct {
	Experiment     string
	Replication    int
	EndTime        float64
	EventsExecuted uint64
	EndReason      string
}

// An Experiment runs a model for a number of statistically independent
// replications. Each replication starts from a fully re-initialized
// executive, model state, and per-replication random streams, and runs
// until the horizon's end event fires or the calendar empties.
type Experiment struct {
	name         string
	simulation   *Simulation
	replications int
	horizon      sim.VTime

	beforeReplication func(rep int, s *Simulation)
	afterReplication  func(rep int, s *Simulation)
}

// ExperimentBuilder builds Experiments.
type ExperimentBuilder struct {
	simulation   *Simulation
	replications int
	horizon      sim.VTime

	beforeReplication func(rep int, s *Simulation)
	afterReplication  func(rep int, s *Simulation)
}

// WithSimulation sets the simulation the experiment runs. Required.
func (b ExperimentBuilder) WithSimulation(s *Simulation) ExperimentBuilder {
	b.simulation = s
	return b
}

// WithReplications sets the number of replications. Defaults to 1.
func (b ExperimentBuilder) WithReplications(n int) ExperimentBuilder {
	b.replications = n
	return b
}

// WithHorizon sets the simulated end time of each replication. Defaults to
// running until the calendar empties.
func (b ExperimentBuilder) WithHorizon(t sim.VTime) ExperimentBuilder {
	b.horizon = t
	return b
}

// WithBeforeReplication sets the callback that primes the model at the
// start of each replication, typically by scheduling the first arrivals.
func (b ExperimentBuilder) WithBeforeReplication(
	f func(rep int, s *Simulation),
) ExperimentBuilder {
	b.beforeReplication = f
	return b
}

// WithAfterReplication sets the callback that harvests statistics at the
// end of each replication.
func (b ExperimentBuilder) WithAfterReplication(
	f func(rep int, s *Simulation),
) ExperimentBuilder {
	b.afterReplication = f
	return b
}

// Build builds an Experiment.
func (b ExperimentBuilder) Build(name string) *Experiment {
	if b.simulation == nil {
		log.Panicf("experiment %s built without a simulation", name)
	}

	if b.replications == 0 {
		b.replications = 1
	}

	if b.replications < 0 {
		log.Panicf("experiment %s built with negative replications", name)
	}

	if b.horizon == 0 {
		b.horizon = sim.VTime(math.Inf(1))
	}

	return &Experiment{
		name:              name,
		simulation:        b.simulation,
		replications:      b.replications,
		horizon:           b.horizon,
		beforeReplication: b.beforeReplication,
		afterReplication:  b.afterReplication,
	}
}

// Name returns the name of the experiment.
func (e *Experiment) Name() string {
	return e.name
}

// Run executes all replications and records one ReplicationRecord per
// replication if the simulation has a data recorder.
func (e *Experiment) Run() error {
	s := e.simulation
	x := s.Executive()

	recorder := s.DataRecorder()
	tableName := e.name + "_replications"

	if recorder != nil {
		recorder.CreateTable(tableName, ReplicationRecord{})
	}

	for rep := 1; rep <= e.replications; rep++ {
		x.SetHorizon(e.horizon)
		s.initializeReplication(rep)

		if e.beforeReplication != nil {
			e.beforeReplication(rep, s)
		}

		if err := x.ExecuteAllEvents(); err != nil {
			return err
		}

		if e.afterReplication != nil {
			e.afterReplication(rep, s)
		}

		if recorder != nil {
			recorder.InsertData(tableName, ReplicationRecord{
				Experiment:     e.name,
				Replication:    rep,
				EndTime:        float64(x.ActualEndTime()),
				EventsExecuted: x.NumEventsExecuted(),
				EndReason:      x.EndReason(),
			})
		}
	}

	if recorder != nil {
		recorder.Flush()
	}

	return nil
}
