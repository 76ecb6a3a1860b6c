package scene

import (
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"testing"
)

func TestMountTypedNilGIFSurfaceIsInert(t *testing.T) {
	var s *GIFSurface
	h, err := Mount(s, Viewport{Width: 160, Height: 90})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Mounted() || h.Field() != nil {
		t.Fatal("expected inert hero for a nil GIF surface")
	}
	if err := h.Run(context.Background()); err != nil {
		t.Errorf("Run on inert hero: %v", err)
	}
	if err := h.Teardown(); err != nil {
		t.Errorf("Teardown on inert hero: %v", err)
	}
}

func TestGIFSurfaceQuantize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	colors := []color.RGBA{
		{R: 0x09, G: 0x09, B: 0x0b, A: 0xff},
		{R: 0x00, G: 0xff, B: 0xff, A: 0xff},
		{R: 0xc0, G: 0xe0, B: 0xff, A: 0xff},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, colors[(x+y)%len(colors)])
		}
	}

	s := &GIFSurface{indices: make(map[color.RGBA]uint8)}
	pal := s.quantize(img)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint8(color.Palette(palette.Plan9).Index(img.At(x, y)))
			if got := pal.ColorIndexAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): index %d, want %d", x, y, got, want)
			}
		}
	}
	if len(s.indices) != len(colors) {
		t.Errorf("expected %d cached colors, got %d", len(colors), len(s.indices))
	}
}

func TestGIFSurfaceDrawsInnerShell(t *testing.T) {
	vp := Viewport{Width: 160, Height: 90}
	s := NewGIFSurface(nil, 1)
	if err := s.Attach(Generate(Config{}, nil), NewProjection(vp)); err != nil {
		t.Fatalf("attach: %v", err)
	}
	s.shell = nil

	img := s.render(Frame{Pose: PoseAt(1), Projection: NewProjection(vp)})
	bg := color.RGBAModel.Convert(backgroundColor).(color.RGBA)
	drawn := 0
	for y := 0; y < vp.Height; y++ {
		for x := 0; x < vp.Width; x++ {
			if img.RGBAAt(x, y) != bg {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("expected the inner shell wireframe to be drawn")
	}
}
