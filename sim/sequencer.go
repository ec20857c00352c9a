package sim

import "sync/atomic"

// A Sequencer hands out monotonically increasing sequence numbers. Each
// executive owns one, so that event creation order is deterministic for a
// given schedule without relying on hidden global state.
type Sequencer struct {
	next uint64
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return atomic.AddUint64(&s.next, 1)
}
