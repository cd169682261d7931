// Package clock provides the monotonic time source used throughout the
// orchestrator. All timeout and throttle arithmetic in this repository is
// expressed in milliseconds taken from here, never from wall-clock reads.
package clock

import "time"

// Clock exposes a monotonic millisecond time source. Construct it with New;
// the zero value has no start instant and does not measure elapsed time.
type Clock struct {
	start time.Time
}

// New returns a Clock anchored to the current instant.
func New() *Clock {
	return &Clock{start: time.Now()}
}

// NowMS returns milliseconds elapsed since the Clock was created. time.Time
// subtraction uses the runtime's monotonic reading, so there is no
// numer/denom conversion step to get wrong here.
func (c *Clock) NowMS() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// NowS returns NowMS truncated to whole seconds.
func (c *Clock) NowS() uint32 {
	return c.NowMS() / 1000
}
