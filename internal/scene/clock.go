package scene

import "time"

// Clock reports elapsed time in seconds.
type Clock interface {
	Now() float64
}

// WallClock reads wall time, in seconds since the Unix epoch.
type WallClock struct{}

func (WallClock) Now() float64 {
	return float64(time.Now().UnixMilli()) * 0.001
}

// StepClock advances by Step on every read, starting at Start.
type StepClock struct {
	Start float64
	Step  float64
	n     int
}

func (c *StepClock) Now() float64 {
	t := c.Start + float64(c.n)*c.Step
	c.n++
	return t
}
