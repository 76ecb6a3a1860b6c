package scene

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r3"
)

// Hero palette.
var (
	backgroundColor = color.NRGBA{R: 0x09, G: 0x09, B: 0x0b, A: 0xff}
	lineColor       = color.NRGBA{R: 0x00, G: 0xff, B: 0xff, A: 0x33}
	shellColor      = color.NRGBA{R: 0x00, G: 0x99, B: 0xff, A: 0x4d}
	innerColor      = color.NRGBA{R: 0x00, G: 0xff, B: 0x99, A: 0x1a}
)

const (
	shellRadius = 1.5
	innerRadius = 1.2
	wireSteps   = 24
)

type segment struct {
	a, b r3.Vec
}

// GIFSurface renders a fixed number of frames and writes them as an
// animated GIF when the last one is drawn.
type GIFSurface struct {
	// Delay between frames in hundredths of a second.
	Delay int

	w       io.Writer
	frames  int
	field   *Field
	shell   []segment
	inner   []segment
	indices map[color.RGBA]uint8
	anim    gif.GIF
	done    bool
}

// NewGIFSurface returns a surface that encodes frames images into w.
func NewGIFSurface(w io.Writer, frames int) *GIFSurface {
	return &GIFSurface{Delay: 5, w: w, frames: frames}
}

func (s *GIFSurface) Attach(f *Field, proj Projection) error {
	if s == nil {
		return errors.New("gif surface: nil")
	}
	if s.frames <= 0 {
		return errors.New("gif surface: frame count must be positive")
	}
	if proj.Viewport.Width <= 0 || proj.Viewport.Height <= 0 {
		return errors.New("gif surface: empty viewport")
	}
	s.field = f
	s.shell = sphereWireframe(shellRadius, 6, 8)
	s.inner = sphereWireframe(innerRadius, 4, 6)
	s.indices = make(map[color.RGBA]uint8)
	return nil
}

func (s *GIFSurface) Draw(fr Frame) error {
	if s.done {
		return ErrStop
	}
	img := s.render(fr)
	s.anim.Image = append(s.anim.Image, s.quantize(img))
	s.anim.Delay = append(s.anim.Delay, s.Delay)

	if len(s.anim.Image) < s.frames {
		return nil
	}
	s.done = true
	if err := gif.EncodeAll(s.w, &s.anim); err != nil {
		return err
	}
	return ErrStop
}

func (s *GIFSurface) Release() error {
	if s == nil {
		return nil
	}
	s.anim = gif.GIF{}
	s.indices = nil
	return nil
}

// quantize maps img onto the Plan9 palette. Frames share few distinct
// colors, so palette lookups are memoized per color.
func (s *GIFSurface) quantize(img *image.RGBA) *image.Paletted {
	b := img.Bounds()
	pal := image.NewPaletted(b, palette.Plan9)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			i, ok := s.indices[c]
			if !ok {
				i = uint8(pal.Palette.Index(c))
				s.indices[c] = i
			}
			pal.SetColorIndex(x, y, i)
		}
	}
	return pal
}

func (s *GIFSurface) render(fr Frame) *image.RGBA {
	vp := fr.Projection.Viewport
	img := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	z := vector.NewRasterizer(vp.Width, vp.Height)

	offset := r3.Vec{Y: fr.Pose.ShellOffset}
	for _, seg := range s.shell {
		a := r3.Add(fr.Pose.Shell.Apply(seg.a), offset)
		b := r3.Add(fr.Pose.Shell.Apply(seg.b), offset)
		strokeSegment(z, fr.Projection, a, b, 1)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(shellColor), image.Point{})

	z.Reset(vp.Width, vp.Height)
	for _, seg := range s.inner {
		a := fr.Pose.InnerShell.Apply(seg.a)
		b := fr.Pose.InnerShell.Apply(seg.b)
		strokeSegment(z, fr.Projection, a, b, 1)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(innerColor), image.Point{})

	z.Reset(vp.Width, vp.Height)
	for _, e := range s.field.Edges {
		a := fr.Pose.Lines.Apply(s.field.Points[e.I].Pos)
		b := fr.Pose.Lines.Apply(s.field.Points[e.J].Pos)
		strokeSegment(z, fr.Projection, a, b, 1)
	}
	z.Draw(img, img.Bounds(), image.NewUniform(lineColor), image.Point{})

	for _, p := range s.field.Points {
		x, y, ok := fr.Projection.Project(fr.Pose.Points.Apply(p.Pos))
		if !ok || x < 1 || y < 1 || x > float64(vp.Width-2) || y > float64(vp.Height-2) {
			continue
		}
		px, py := int(x), int(y)
		c := color.NRGBA{
			R: uint8(p.Color.R * 255),
			G: uint8(p.Color.G * 255),
			B: uint8(p.Color.B * 255),
			A: 0x99,
		}
		draw.Draw(img, image.Rect(px-1, py-1, px+1, py+1), image.NewUniform(c), image.Point{}, draw.Over)
	}
	return img
}

// strokeSegment adds a width-pixel quad for the projected segment a-b,
// clipped to the viewport.
func strokeSegment(z *vector.Rasterizer, proj Projection, a, b r3.Vec, width float64) {
	x0, y0, ok0 := proj.Project(a)
	x1, y1, ok1 := proj.Project(b)
	if !ok0 || !ok1 {
		return
	}
	vp := proj.Viewport
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, 1, 1, float64(vp.Width-2), float64(vp.Height-2))
	if !ok {
		return
	}
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}

// clipSegment clips a segment to the given box (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// sphereWireframe returns latitude rings and meridians of a sphere.
func sphereWireframe(radius float64, rings, meridians int) []segment {
	at := func(theta, phi float64) r3.Vec {
		return r3.Vec{
			X: radius * math.Sin(theta) * math.Cos(phi),
			Y: radius * math.Cos(theta),
			Z: radius * math.Sin(theta) * math.Sin(phi),
		}
	}
	var segs []segment
	for i := 1; i < rings; i++ {
		theta := math.Pi * float64(i) / float64(rings)
		for k := 0; k < wireSteps; k++ {
			p0 := 2 * math.Pi * float64(k) / wireSteps
			p1 := 2 * math.Pi * float64(k+1) / wireSteps
			segs = append(segs, segment{at(theta, p0), at(theta, p1)})
		}
	}
	for m := 0; m < meridians; m++ {
		phi := 2 * math.Pi * float64(m) / float64(meridians)
		for k := 0; k < wireSteps; k++ {
			t0 := math.Pi * float64(k) / wireSteps
			t1 := math.Pi * float64(k+1) / wireSteps
			segs = append(segs, segment{at(t0, phi), at(t1, phi)})
		}
	}
	return segs
}
