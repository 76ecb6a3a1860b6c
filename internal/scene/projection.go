package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera constants of the hero view.
const (
	FOV     = 75.0
	Near    = 0.1
	Far     = 1000.0
	CameraZ = 8.0
)

// Viewport is the display surface size in pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Aspect returns width/height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Projection is a perspective camera on the z axis looking at the origin.
type Projection struct {
	Viewport Viewport `json:"viewport"`
	FOV      float64  `json:"fov"`
	Aspect   float64  `json:"aspect"`
	Near     float64  `json:"near"`
	Far      float64  `json:"far"`
	CameraZ  float64  `json:"cameraZ"`
}

// NewProjection sets the hero camera up for vp.
func NewProjection(vp Viewport) Projection {
	return Projection{
		Viewport: vp,
		FOV:      FOV,
		Aspect:   vp.Aspect(),
		Near:     Near,
		Far:      Far,
		CameraZ:  CameraZ,
	}
}

// Project maps a world position to pixel coordinates. ok is false when the
// position falls outside the near/far range.
func (p Projection) Project(v r3.Vec) (x, y float64, ok bool) {
	depth := p.CameraZ - v.Z
	if depth < p.Near || depth > p.Far {
		return 0, 0, false
	}
	f := 1 / math.Tan(p.FOV*math.Pi/360)
	ndcX := v.X * f / (p.Aspect * depth)
	ndcY := v.Y * f / depth
	x = (ndcX + 1) / 2 * float64(p.Viewport.Width)
	y = (1 - ndcY) / 2 * float64(p.Viewport.Height)
	return x, y, true
}
