package creases

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ByLCY/ecgpaper/texture"
)

func TestStrokeSymmetry(t *testing.T) {
	strokes := Strokes()
	if len(strokes) != 5 {
		t.Fatalf("expected 5 strokes, got %d", len(strokes))
	}
	for _, s := range strokes {
		found := false
		for _, o := range strokes {
			if o.Offset == -s.Offset && o.Gain == s.Gain {
				found = true
			}
		}
		if !found {
			t.Fatalf("stroke %+v has no mirrored partner", s)
		}
		if s.Offset == 0 && s.Gain != 1.25 {
			t.Fatalf("centre stroke gain should be 1.25, got %v", s.Gain)
		}
	}
}

func TestCoordsHorizontal(t *testing.T) {
	lines := Coords(0, 2, 300, 600)
	want := []Line{{0, 100, 600, 100}, {0, 200, 600, 200}}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestCoordsVertical(t *testing.T) {
	lines := Coords(90, 3, 200, 400)
	for i, l := range lines {
		x := 100 * (i + 1)
		if l != (Line{x, 0, x, 200}) {
			t.Fatalf("line %d = %+v", i, l)
		}
	}
	if Coords(90, 0, 200, 400) != nil {
		t.Fatalf("zero creases should give no lines")
	}
}

func TestCoordsSlanted(t *testing.T) {
	h, w := 400, 600
	for _, angle := range []int{20, 110} {
		lines := Coords(angle, 3, h, w)
		if len(lines) != 3 {
			t.Fatalf("angle %d: expected 3 lines, got %d", angle, len(lines))
		}
		for _, l := range lines {
			if l.X1 < 0 || l.X1 > w || l.Y1 < 0 || l.Y1 > h {
				t.Fatalf("angle %d: start outside the page: %+v", angle, l)
			}
			if l.X1 == l.X2 && l.Y1 == l.Y2 {
				t.Fatalf("angle %d: degenerate line %+v", angle, l)
			}
		}
	}
}

func TestOptionsLines(t *testing.T) {
	o := Options{Angle: 0, Vertical: 3, Horizontal: 2}
	if n := len(o.Lines(300, 600)); n != 5 {
		t.Fatalf("expected 5 creases, got %d", n)
	}
}

func TestMaskGains(t *testing.T) {
	w, h := 100, 100
	gain, err := Mask([]Line{{0, 50, 100, 50}}, h, w)
	if err != nil {
		t.Fatalf("mask error: %v", err)
	}
	at := func(x, y int) float64 { return gain[y*w+x] }
	if math.Abs(at(50, 50)-1.25) > 1e-5 {
		t.Fatalf("centre gain = %v", at(50, 50))
	}
	if math.Abs(at(50, 55)-1.15) > 1e-5 || math.Abs(at(50, 45)-1.15) > 1e-5 {
		t.Fatalf("side gains = %v %v", at(50, 55), at(50, 45))
	}
	if math.Abs(at(50, 5)-1) > 1e-5 {
		t.Fatalf("background gain = %v", at(50, 5))
	}
}

func TestApplyBrightensCrease(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 90))
	for i := range img.Pix {
		img.Pix[i] = 100
	}
	out, err := Apply(img, Options{Horizontal: 2})
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if got := out.RGBAAt(60, 30).R; got != 125 {
		t.Fatalf("crease pixel = %d, want 125", got)
	}
	if got := out.RGBAAt(60, 2).R; got != 100 {
		t.Fatalf("background pixel = %d, want 100", got)
	}
	same, err := Apply(img, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if same.RGBAAt(10, 10) != img.RGBAAt(10, 10) {
		t.Fatalf("no creases should copy the image")
	}
}

func TestApplyWrinklesUniform(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 30; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	out, err := ApplyWrinkles(img, texture.Uniform(16, 16, 3, 0.5))
	if err != nil {
		t.Fatalf("wrinkles error: %v", err)
	}
	got := int(out.RGBAAt(7, 7).R)
	if got < 159 || got > 160 {
		t.Fatalf("uniform wrinkle should darken 200 to 160, got %d", got)
	}
}

func TestWrinkleTextureSmallSource(t *testing.T) {
	tex, err := WrinkleTexture(texture.Uniform(40, 30, 3, 0.5), nil)
	if err != nil {
		t.Fatalf("texture error: %v", err)
	}
	if tex.W != 30 || tex.H != 30 {
		t.Fatalf("block should shrink to the source: %dx%d", tex.W, tex.H)
	}
}
