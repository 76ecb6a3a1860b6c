package scene

import "math/rand/v2"

// DefaultDots is the number of pulsing dots over the page grid.
const DefaultDots = 20

// Dot is a pulsing marker of the page background, placed in percent of the
// viewport and timed in seconds.
type Dot struct {
	ID       int     `json:"id"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Delay    float64 `json:"delay"`
	Duration float64 `json:"duration"`
}

// Dots scatters n background dots.
func Dots(n int, rng *rand.Rand) []Dot {
	dots := make([]Dot, 0, n)
	for i := 0; i < n; i++ {
		dots = append(dots, Dot{
			ID:       i,
			Left:     rng.Float64() * 100,
			Top:      rng.Float64() * 100,
			Delay:    rng.Float64() * 3,
			Duration: 2 + rng.Float64()*2,
		})
	}
	return dots
}
