package stats

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/simworks/desim/sim"
)

// A Histogram accumulates the distribution of observations in a mergeable
// quantile sketch. Quantile queries carry the sketch's configured relative
// accuracy rather than being exact.
type Histogram struct {
	name        string
	relativeAcc float64
	sketch      *ddsketch.DDSketch
}

// NewHistogram creates an empty Histogram with the given relative accuracy,
// e.g. 0.01 for 1%.
func NewHistogram(name string, relativeAccuracy float64) *Histogram {
	h := &Histogram{
		name:        name,
		relativeAcc: relativeAccuracy,
	}
	h.Initialize()

	return h
}

// Name returns the name of the histogram.
func (h *Histogram) Name() string {
	return h.name
}

// Collect records one observation. The simulated time is ignored.
func (h *Histogram) Collect(_ sim.VTime, value float64) {
	// DDSketch only rejects non-finite values.
	_ = h.sketch.Add(value)
}

// Count returns the number of observations collected.
func (h *Histogram) Count() uint64 {
	return uint64(h.sketch.GetCount())
}

// Quantile returns the value at the given quantile in [0, 1], or NaN if the
// histogram is empty.
func (h *Histogram) Quantile(q float64) float64 {
	v, err := h.sketch.GetValueAtQuantile(q)
	if err != nil {
		return math.NaN()
	}

	return v
}

// Initialize discards all observations, for replication resets.
func (h *Histogram) Initialize() {
	sketch, err := ddsketch.NewDefaultDDSketch(h.relativeAcc)
	if err != nil {
		panic(err)
	}

	h.sketch = sketch
}
