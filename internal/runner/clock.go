package runner

import "sync/atomic"

// Clock is a monotonic logical clock stamping trace events.
//
// Steps are ordered by a strictly increasing seq, never by wall-clock
// timestamps, so traces replay and compare deterministically.
//
// Thread-safety: Clock uses atomics, though the session's single-writer
// design means only one goroutine normally calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
