package augment

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
)

func gray(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestNoiseSeeded(t *testing.T) {
	img := gray(20, 10, 128)
	a := Noise(img, 25, rand.New(rand.NewPCG(1, 2)))
	b := Noise(img, 25, rand.New(rand.NewPCG(1, 2)))
	changed := false
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed should give same noise at %d", i)
		}
		if a.Pix[i] != img.Pix[i] {
			changed = true
		}
	}
	if !changed {
		t.Fatalf("noise should change some pixels")
	}
	p := a.RGBAAt(3, 3)
	if p.R != p.G || p.G != p.B || p.A != 255 {
		t.Fatalf("channels should share the noise value: %+v", p)
	}
	if img.RGBAAt(3, 3).R != 128 {
		t.Fatalf("input must not be modified")
	}
}

func TestNoiseZeroScale(t *testing.T) {
	img := gray(4, 4, 77)
	out := Noise(img, 0, rand.New(rand.NewPCG(1, 2)))
	if out.RGBAAt(1, 1).R != 77 {
		t.Fatalf("zero scale should leave the image unchanged")
	}
}

func TestKelvinRGB(t *testing.T) {
	r, g, b := KelvinRGB(2000)
	if r != 1 || b >= g {
		t.Fatalf("2000K should be warm: %v %v %v", r, g, b)
	}
	r, _, b = KelvinRGB(20000)
	if b != 1 || r >= 1 {
		t.Fatalf("20000K should be cool: %v %v", r, b)
	}
}

func TestTemperatureWarm(t *testing.T) {
	out := Temperature(gray(2, 2, 200), 3000)
	p := out.RGBAAt(0, 0)
	if p.R != 200 || p.B >= p.G || p.G >= p.R {
		t.Fatalf("warm shift expected, got %+v", p)
	}
}
