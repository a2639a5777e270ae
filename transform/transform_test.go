package transform

import (
	"image"
	"image/color"
	"math"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ByLCY/ecgpaper/provenance"
)

func TestAffineMatchesOpenCV(t *testing.T) {
	c := image.Point{X: 320, Y: 240}
	for _, angle := range []float64{-25, 7.5, 90} {
		rot := gocv.GetRotationMatrix2D(c, angle, 1.0)
		m := Affine(angle, c)
		for r := 0; r < 2; r++ {
			for k := 0; k < 3; k++ {
				if math.Abs(rot.GetDoubleAt(r, k)-m.At(r, k)) > 1e-9 {
					t.Fatalf("angle %v: element (%d,%d) = %v, opencv %v", angle, r, k, m.At(r, k), rot.GetDoubleAt(r, k))
				}
			}
		}
		rot.Close()
	}
}

func TestRotationRoundTrip(t *testing.T) {
	c := Center(801, 600)
	pts := []provenance.Point{{X: 10, Y: 20}, {X: 400.5, Y: 300.25}, {X: 799, Y: 1}}
	there := Project(Affine(13, c), pts)
	back := Project(Affine(-13, c), there)
	for i := range pts {
		if math.Hypot(back[i].X-pts[i].X, back[i].Y-pts[i].Y) > 1 {
			t.Fatalf("point %d drifted: %+v -> %+v", i, pts[i], back[i])
		}
	}
	if Project(Affine(5, c), nil) != nil {
		t.Fatalf("no points should give nil")
	}
}

func TestProjectCounterClockwise(t *testing.T) {
	// 屏幕坐标下，中心右侧的点逆时针转 90° 后位于中心上方。
	got := Project(Affine(90, image.Point{X: 100, Y: 100}), []provenance.Point{{X: 150, Y: 100}})
	if math.Abs(got[0].X-100) > 1e-9 || math.Abs(got[0].Y-50) > 1e-9 {
		t.Fatalf("unexpected rotation: %+v", got[0])
	}
}

func TestCropMargins(t *testing.T) {
	dx, dy := CropMargins(1000, 500, 0.02)
	if dx != 20 || dy != 10 {
		t.Fatalf("unexpected margins %d %d", dx, dy)
	}
}

func TestApplyCropOnly(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	img.SetRGBA(50, 40, color.RGBA{R: 255, A: 255})
	rec := provenance.Record{
		Kind:   provenance.KindWaveform,
		Label:  "II",
		Box:    provenance.BoxFromRect(10, 10, 60, 50),
		Points: []provenance.Point{{X: 50, Y: 40}, {X: 1, Y: 1}},
	}
	res, err := Apply(img, []provenance.Record{rec}, Options{Crop: 0.05})
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	if res.Image.Bounds().Dx() != 180 || res.Image.Bounds().Dy() != 90 {
		t.Fatalf("unexpected size %v", res.Image.Bounds())
	}
	if res.Offset != (image.Point{X: 10, Y: 5}) {
		t.Fatalf("unexpected offset %v", res.Offset)
	}
	got := res.Records[0]
	if got.Box[provenance.TopLeft] != (provenance.Point{X: 0, Y: 5}) {
		t.Fatalf("box should shift by the crop offset: %+v", got.Box)
	}
	if got.Points[0] != (provenance.Point{X: 40, Y: 35}) {
		t.Fatalf("trace point should shift: %+v", got.Points[0])
	}
	if res.Image.RGBAAt(40, 35).R != 255 {
		t.Fatalf("pixel should follow the annotation")
	}
	if res.OutOfFrame != 1 {
		t.Fatalf("expected 1 point out of frame, got %d", res.OutOfFrame)
	}
	if rec.Points[0].X != 50 {
		t.Fatalf("input records must not be modified")
	}
}

func TestApplyRotationKeepsPixelsAndRecordsAligned(t *testing.T) {
	w, h := 300, 200
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	for y := 58; y <= 62; y++ {
		for x := 218; x <= 222; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	rec := provenance.Record{Kind: provenance.KindWaveform, Points: []provenance.Point{{X: 220, Y: 60}}}
	res, err := Apply(img, []provenance.Record{rec}, Options{Angle: 20, Crop: 0.02})
	if err != nil {
		t.Fatalf("apply error: %v", err)
	}
	p := res.Records[0].Points[0]
	var sx, sy, sum float64
	b := res.Image.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := float64(res.Image.RGBAAt(x, y).R)
			sx += v * float64(x)
			sy += v * float64(y)
			sum += v
		}
	}
	if sum == 0 {
		t.Fatalf("bright blob vanished")
	}
	if d := math.Hypot(sx/sum-p.X, sy/sum-p.Y); d > 1 {
		t.Fatalf("raster and annotation disagree by %.2f px (%v,%v vs %+v)", d, sx/sum, sy/sum, p)
	}
}

func TestApplyRejectsBadCrop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if _, err := Apply(img, nil, Options{Crop: 0.5}); err == nil {
		t.Fatalf("expected error for crop 0.5")
	}
}
