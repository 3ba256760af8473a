package grove

import "time"

// Clock paces frames. WaitUntilElapsed blocks until at least min seconds
// have passed since the last restart, then returns the elapsed seconds and
// restarts.
type Clock interface {
	Start()
	Elapsed() float64
	WaitUntilElapsed(min float64) float64
}

type wallClock struct {
	start time.Time
}

// NewClock returns a Clock backed by the wall clock.
func NewClock() Clock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) Start() { c.start = time.Now() }

func (c *wallClock) Elapsed() float64 { return time.Since(c.start).Seconds() }

func (c *wallClock) WaitUntilElapsed(min float64) float64 {
	deadline := c.start.Add(time.Duration(min * float64(time.Second)))
	if d := time.Until(deadline); d > 0 {
		time.Sleep(d)
	}
	now := time.Now()
	elapsed := now.Sub(c.start).Seconds()
	c.start = now
	return elapsed
}

// ManualClock is a Clock that never blocks. Every wait reports Step seconds,
// or min when Step is zero.
type ManualClock struct {
	Step    float64
	elapsed float64
	total   float64
}

func (c *ManualClock) Start() { c.elapsed = 0 }

func (c *ManualClock) Elapsed() float64 { return c.elapsed }

func (c *ManualClock) WaitUntilElapsed(min float64) float64 {
	dt := c.Step
	if dt == 0 {
		dt = min
	}
	c.elapsed = 0
	c.total += dt
	return dt
}

// Advance adds dt to the time reported by Elapsed.
func (c *ManualClock) Advance(dt float64) { c.elapsed += dt }

// Total returns the sum of every reported frame time.
func (c *ManualClock) Total() float64 { return c.total }
