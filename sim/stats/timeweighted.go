package stats

import (
	"math"

	"github.com/simworks/desim/sim"
)

// A TimeWeighted accumulates a time-persistent statistic, such as the number
// of entities in a queue or the utilization of a resource. Collect records
// that the observed variable changed to a new value at the given time; the
// variable is assumed to hold its previous value for the whole interval
// since the previous observation.
type TimeWeighted struct {
	name string

	startTime sim.VTime
	lastTime  sim.VTime
	lastValue float64
	area      float64
}

// NewTimeWeighted creates an empty TimeWeighted statistic starting at time
// zero with value zero.
func NewTimeWeighted(name string) *TimeWeighted {
	return &TimeWeighted{name: name}
}

// Name returns the name of the statistic.
func (w *TimeWeighted) Name() string {
	return w.name
}

// Collect records that the variable changed to value at time t. Observations
// must arrive in non-decreasing time order.
func (w *TimeWeighted) Collect(t sim.VTime, value float64) {
	if t < w.lastTime {
		return
	}

	w.area += w.lastValue * float64(t-w.lastTime)
	w.lastTime = t
	w.lastValue = value
}

// Value returns the current value of the observed variable.
func (w *TimeWeighted) Value() float64 {
	return w.lastValue
}

// Average returns the time-weighted average of the variable from the start
// of collection up to the given time.
func (w *TimeWeighted) Average(upTo sim.VTime) float64 {
	elapsed := float64(upTo - w.startTime)
	if elapsed <= 0 {
		return math.NaN()
	}

	area := w.area + w.lastValue*float64(upTo-w.lastTime)

	return area / elapsed
}

// Initialize discards the accumulated area and restarts collection at the
// given time with the given value, for replication resets.
func (w *TimeWeighted) InitializeAt(t sim.VTime, value float64) {
	w.startTime = t
	w.lastTime = t
	w.lastValue = value
	w.area = 0
}

// Initialize restarts collection at time zero with value zero.
func (w *TimeWeighted) Initialize() {
	w.InitializeAt(0, 0)
}
