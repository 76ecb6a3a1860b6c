package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Euler is a rotation in radians with XYZ order: the matrix is Rx·Ry·Rz,
// so Z acts on the vector first.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Apply rotates v by e.
func (e Euler) Apply(v r3.Vec) r3.Vec {
	if e.Z != 0 {
		v = r3.NewRotation(e.Z, r3.Vec{Z: 1}).Rotate(v)
	}
	if e.Y != 0 {
		v = r3.NewRotation(e.Y, r3.Vec{Y: 1}).Rotate(v)
	}
	if e.X != 0 {
		v = r3.NewRotation(e.X, r3.Vec{X: 1}).Rotate(v)
	}
	return v
}

// Vec3 is a JSON friendly position.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// R3 converts v for use with the r3 helpers.
func (v Vec3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Pose is the transform state of every animated group at one instant.
type Pose struct {
	Time        float64 `json:"time"`
	Shell       Euler   `json:"shell"`
	ShellOffset float64 `json:"shellOffset"`
	InnerShell  Euler   `json:"innerShell"`
	Points      Euler   `json:"points"`
	Lines       Euler   `json:"lines"`
	Light1      Vec3    `json:"light1"`
	Light2      Vec3    `json:"light2"`
}

// PoseAt computes the pose for t seconds of elapsed time. Same t, same pose.
func PoseAt(t float64) Pose {
	return Pose{
		Time: t,
		Shell: Euler{
			X: math.Sin(t*0.3) * 0.2,
			Y: t * 0.1,
			Z: math.Sin(t*0.2) * 0.1,
		},
		ShellOffset: math.Sin(t*0.5) * 0.3,
		InnerShell: Euler{
			X: -t * 0.1,
			Y: math.Sin(t*0.4) * 0.2,
		},
		Points: Euler{
			X: math.Sin(t*0.01) * 0.1,
			Y: t * 0.02,
		},
		Lines: Euler{Y: t * 0.015},
		Light1: Vec3{
			X: math.Sin(t*0.5) * 15,
			Y: 10,
			Z: math.Cos(t*0.5) * 15,
		},
		Light2: Vec3{
			X: -math.Sin(t*0.5) * 15,
			Y: -10,
			Z: -math.Cos(t*0.5) * 15,
		},
	}
}
