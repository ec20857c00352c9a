package stats

import (
	moremath "github.com/aclements/go-moremath/stats"
)

// A Summary holds one observation per replication and answers
// across-replication questions: mean, standard deviation, and quantiles.
// Unlike a Tally it keeps every observation, which is fine because the
// number of replications is small.
type Summary struct {
	name   string
	sample moremath.Sample
}

// NewSummary creates an empty Summary.
func NewSummary(name string) *Summary {
	return &Summary{name: name}
}

// Name returns the name of the summary.
func (s *Summary) Name() string {
	return s.name
}

// Add records one replication observation.
func (s *Summary) Add(x float64) {
	s.sample.Xs = append(s.sample.Xs, x)
	s.sample.Sorted = false
}

// Count returns the number of observations.
func (s *Summary) Count() int {
	return len(s.sample.Xs)
}

// Mean returns the across-replication mean.
func (s *Summary) Mean() float64 {
	return s.sample.Mean()
}

// StdDev returns the across-replication sample standard deviation.
func (s *Summary) StdDev() float64 {
	return s.sample.StdDev()
}

// Quantile returns the q-th quantile of the replication observations.
func (s *Summary) Quantile(q float64) float64 {
	return s.sample.Quantile(q)
}

// Values returns the raw observations, one per replication.
func (s *Summary) Values() []float64 {
	return s.sample.Xs
}

// Initialize discards all observations.
func (s *Summary) Initialize() {
	s.sample.Xs = nil
	s.sample.Sorted = false
}
