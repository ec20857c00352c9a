// Package stats provides the statistical collectors that observe the
// simulation kernel. The kernel only depends on the Collector interface;
// everything else in this package is one implementation of it.
package stats

import "github.com/simworks/desim/sim"

// A Collector accumulates observations. The kernel calls Collect on every
// state exit and queue mutation, passing the simulated time of the
// observation and the observed value.
type Collector interface {
	Collect(t sim.VTime, value float64)
}

// CollectorFunc adapts a plain function to the Collector interface.
type CollectorFunc func(t sim.VTime, value float64)

// Collect invokes the function.
func (f CollectorFunc) Collect(t sim.VTime, value float64) {
	f(t, value)
}

// An Initializable collector can be reset between replications.
type Initializable interface {
	Initialize()
}
