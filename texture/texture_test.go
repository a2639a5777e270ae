package texture

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
)

func TestQuiltUniformSource(t *testing.T) {
	src := Uniform(40, 30, 3, 0.25)
	out, err := Quilt(src, 12, 3, 4, nil)
	if err != nil {
		t.Fatalf("quilt error: %v", err)
	}
	if out.W != OutputSize(12, 4) || out.H != OutputSize(12, 3) {
		t.Fatalf("unexpected size %dx%d", out.W, out.H)
	}
	for i, v := range out.Pix {
		if v != 0.25 {
			t.Fatalf("pixel %d = %v, want 0.25", i, v)
		}
	}
}

func TestOutputSize(t *testing.T) {
	if Overlap(250) != 41 {
		t.Fatalf("overlap should be block/6, got %d", Overlap(250))
	}
	if OutputSize(250, 1) != 250 || OutputSize(12, 3) != 32 {
		t.Fatalf("unexpected output sizes: %d %d", OutputSize(250, 1), OutputSize(12, 3))
	}
}

func TestQuiltDeterministic(t *testing.T) {
	src := noise(24, 24, 1)
	a, err := Quilt(src, 12, 2, 2, rand.New(rand.NewPCG(7, 1)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Quilt(src, 12, 2, 2, rand.New(rand.NewPCG(7, 1)))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed should give same texture, differs at %d", i)
		}
	}
}

func TestQuiltPixelsComeFromSource(t *testing.T) {
	src := noise(20, 20, 2)
	values := map[float64]bool{}
	for _, v := range src.Pix {
		values[v] = true
	}
	out, err := Quilt(src, 12, 2, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Pix {
		if !values[v] {
			t.Fatalf("pixel %d = %v was not copied from the source", i, v)
		}
	}
}

func TestQuiltRejectsSmallSource(t *testing.T) {
	if _, err := Quilt(Uniform(10, 10, 1, 0), 12, 1, 1, nil); err == nil {
		t.Fatalf("expected error for source smaller than block")
	}
	if _, err := Quilt(Uniform(20, 20, 1, 0), 12, 0, 1, nil); err == nil {
		t.Fatalf("expected error for zero blocks")
	}
}

func TestMinCutPathNotWorseThanStraight(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 3))
	for trial := 0; trial < 20; trial++ {
		h, w := 5+rng.IntN(20), 2+rng.IntN(8)
		errs := make([][]float64, h)
		for i := range errs {
			errs[i] = make([]float64, w)
			for j := range errs[i] {
				errs[i][j] = rng.Float64()
			}
		}
		path := MinCutPath(errs)
		if len(path) != h {
			t.Fatalf("path length %d, want %d", len(path), h)
		}
		for i := 1; i < h; i++ {
			if d := path[i] - path[i-1]; d < -1 || d > 1 {
				t.Fatalf("path jumps more than one column at row %d: %v", i, path)
			}
		}
		cost := PathCost(errs, path)
		for j := 0; j < w; j++ {
			straight := make([]int, h)
			for i := range straight {
				straight[i] = j
			}
			if s := PathCost(errs, straight); cost > s+1e-12 {
				t.Fatalf("seam cost %v exceeds straight line %d cost %v", cost, j, s)
			}
		}
	}
}

func TestMinCutPathFollowsValley(t *testing.T) {
	errs := [][]float64{
		{9, 0, 9},
		{9, 9, 0},
		{9, 0, 9},
		{0, 9, 9},
	}
	path := MinCutPath(errs)
	want := []int{1, 2, 1, 0}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestMinCutPathTieBreak(t *testing.T) {
	errs := [][]float64{{1, 1, 1}, {1, 1, 1}}
	path := MinCutPath(errs)
	if path[0] != 0 || path[1] != 0 {
		t.Fatalf("ties should resolve to the earliest path, got %v", path)
	}
	if MinCutPath(nil) != nil {
		t.Fatalf("empty error surface should give no path")
	}
}

func TestFromImageAndGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})
	m := FromImage(img)
	g := m.Gray()
	if g.C != 1 || g.At(0, 0, 0) < 0.999 || g.At(1, 0, 0) != 0.299 {
		t.Fatalf("unexpected gray values: %v", g.Pix)
	}
	back := m.RGBA()
	if back.RGBAAt(1, 0).R != 255 || back.RGBAAt(1, 0).G != 0 {
		t.Fatalf("unexpected round trip: %v", back.RGBAAt(1, 0))
	}
}

func noise(w, h int, seed uint64) *Image {
	rng := rand.New(rand.NewPCG(seed, 0))
	m := New(w, h, 3)
	for i := range m.Pix {
		m.Pix[i] = rng.Float64()
	}
	return m
}
