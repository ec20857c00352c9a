package stats

import (
	"math"

	"github.com/simworks/desim/sim"
)

// A Tally accumulates observation-based statistics: count, mean, variance,
// minimum, and maximum. The mean and variance use Welford's online update so
// a Tally never stores its observations.
type Tally struct {
	name string

	count uint64
	mean  float64
	m2    float64
	min   float64
	max   float64
}

// NewTally creates an empty Tally.
func NewTally(name string) *Tally {
	t := &Tally{name: name}
	t.Initialize()

	return t
}

// Name returns the name of the Tally.
func (t *Tally) Name() string {
	return t.name
}

// Collect records one observation. The simulated time is ignored; a Tally is
// purely observation-weighted.
func (t *Tally) Collect(_ sim.VTime, value float64) {
	t.count++

	delta := value - t.mean
	t.mean += delta / float64(t.count)
	t.m2 += delta * (value - t.mean)

	if value < t.min {
		t.min = value
	}

	if value > t.max {
		t.max = value
	}
}

// Count returns the number of observations collected.
func (t *Tally) Count() uint64 {
	return t.count
}

// Mean returns the sample mean, or NaN if nothing was collected.
func (t *Tally) Mean() float64 {
	if t.count == 0 {
		return math.NaN()
	}

	return t.mean
}

// Variance returns the sample variance, or NaN with fewer than two
// observations.
func (t *Tally) Variance() float64 {
	if t.count < 2 {
		return math.NaN()
	}

	return t.m2 / float64(t.count-1)
}

// StdDev returns the sample standard deviation.
func (t *Tally) StdDev() float64 {
	return math.Sqrt(t.Variance())
}

// Min returns the smallest observation, or +Inf if nothing was collected.
func (t *Tally) Min() float64 {
	return t.min
}

// Max returns the largest observation, or -Inf if nothing was collected.
func (t *Tally) Max() float64 {
	return t.max
}

// Initialize discards all observations, for replication resets.
func (t *Tally) Initialize() {
	t.count = 0
	t.mean = 0
	t.m2 = 0
	t.min = math.Inf(1)
	t.max = math.Inf(-1)
}
