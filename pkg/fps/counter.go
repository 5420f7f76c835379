package fps

import "time"

// BatchSize is the number of frames a measurement window spans before the
// reference time is reset.
const BatchSize = 30

// Counter estimates frames per second over a rolling batch of frames.
// It is not safe for concurrent use.
type Counter struct {
	now     func() time.Time
	start   time.Time
	samples int
	rate    float64
}

func NewCounter() *Counter {
	return newCounter(time.Now)
}

func newCounter(now func() time.Time) *Counter {
	return &Counter{now: now, start: now()}
}

// Count records one frame and returns the current rate. The rate is taken
// before a full batch resets the window, so the last frame of a batch
// reports the rate over the whole batch.
//
// If no time has elapsed since the window started the rate is +Inf.
func (c *Counter) Count() float64 {
	c.samples++
	c.rate = float64(c.samples) / c.now().Sub(c.start).Seconds()
	if c.samples == BatchSize {
		c.samples = 0
		c.start = c.now()
	}
	return c.rate
}

// Rate returns the value computed by the last call to Count.
func (c *Counter) Rate() float64 {
	return c.rate
}

// Samples returns the number of frames counted in the current window.
func (c *Counter) Samples() int {
	return c.samples
}
