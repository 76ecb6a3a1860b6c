package scene

import "gonum.org/v1/gonum/spatial/r3"

// Edge links two points by index, I < J.
type Edge struct {
	I, J int
}

// BuildEdges returns every pair of points strictly closer than maxDist.
// Pairs come out ordered by I, then J.
func BuildEdges(points []Point, maxDist float64) []Edge {
	var edges []Edge
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if r3.Norm(r3.Sub(points[i].Pos, points[j].Pos)) < maxDist {
				edges = append(edges, Edge{I: i, J: j})
			}
		}
	}
	return edges
}

// Segments flattens edges into line-segment vertex data: six floats per
// edge, the position of I followed by the position of J.
func Segments(points []Point, edges []Edge) []float32 {
	out := make([]float32, 0, len(edges)*6)
	for _, e := range edges {
		a, b := points[e.I].Pos, points[e.J].Pos
		out = append(out,
			float32(a.X), float32(a.Y), float32(a.Z),
			float32(b.X), float32(b.Y), float32(b.Z),
		)
	}
	return out
}
