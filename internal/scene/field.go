// Package scene builds the decorative hero background: a random point field,
// the proximity lines between nearby points and the per-frame pose that
// rotates them.
package scene

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Defaults match the hero instance on the home page.
const (
	DefaultCount        = 100
	DefaultHalfWidth    = 10.0
	DefaultLinkDistance = 5.0
)

// Config sizes a point field.
type Config struct {
	Count        int     `json:"count"`
	HalfWidth    float64 `json:"halfWidth"`
	LinkDistance float64 `json:"linkDistance"`
	// Seed fixes the random source. Zero means a fresh field on every call.
	Seed uint64 `json:"seed,omitempty"`
}

// DefaultConfig returns the hero field configuration.
func DefaultConfig() Config {
	return Config{
		Count:        DefaultCount,
		HalfWidth:    DefaultHalfWidth,
		LinkDistance: DefaultLinkDistance,
	}
}

// Color is a linear RGB triple in [0, 1].
type Color struct {
	R, G, B float64
}

// Point is one particle of the field.
type Point struct {
	Pos   r3.Vec
	Color Color
}

// Field is an immutable point set with its proximity edges.
type Field struct {
	Config Config
	Points []Point
	Edges  []Edge
}

// Rand returns the random source described by cfg.Seed.
func (cfg Config) Rand() *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate samples cfg.Count points with every position component uniform in
// [-HalfWidth, HalfWidth] and links the pairs closer than LinkDistance.
func Generate(cfg Config, rng *rand.Rand) *Field {
	if rng == nil {
		rng = cfg.Rand()
	}
	n := cfg.Count
	if n < 0 {
		n = 0
	}
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{
			Pos: r3.Vec{
				X: sample(rng, cfg.HalfWidth),
				Y: sample(rng, cfg.HalfWidth),
				Z: sample(rng, cfg.HalfWidth),
			},
			Color: Color{
				R: rng.Float64()*0.5 + 0.5,
				G: rng.Float64()*0.5 + 0.5,
				B: 1,
			},
		}
	}
	return &Field{
		Config: cfg,
		Points: points,
		Edges:  BuildEdges(points, cfg.LinkDistance),
	}
}

func sample(rng *rand.Rand, halfWidth float64) float64 {
	return (rng.Float64()*2 - 1) * halfWidth
}

// Positions flattens point positions into xyz triples.
func (f *Field) Positions() []float32 {
	out := make([]float32, 0, len(f.Points)*3)
	for _, p := range f.Points {
		out = append(out, float32(p.Pos.X), float32(p.Pos.Y), float32(p.Pos.Z))
	}
	return out
}

// Colors flattens point colors into rgb triples.
func (f *Field) Colors() []float32 {
	out := make([]float32, 0, len(f.Points)*3)
	for _, p := range f.Points {
		out = append(out, float32(p.Color.R), float32(p.Color.G), float32(p.Color.B))
	}
	return out
}

// Segments returns the line endpoints of the field's edges.
func (f *Field) Segments() []float32 {
	return Segments(f.Points, f.Edges)
}
