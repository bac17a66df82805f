package engine

import "time"

// Clock reports elapsed seconds since the start of a run.
type Clock interface {
	Elapsed() float64
}

// WallClock measures real time. The zero point is set by Start or, failing
// that, by the first call to Elapsed.
type WallClock struct {
	start   time.Time
	started bool
}

func NewWallClock() *WallClock {
	return &WallClock{}
}

// Start resets the zero point to now.
func (c *WallClock) Start() {
	c.start = time.Now()
	c.started = true
}

func (c *WallClock) Elapsed() float64 {
	if !c.started {
		c.Start()
	}
	return time.Since(c.start).Seconds()
}
