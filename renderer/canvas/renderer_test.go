package canvasrenderer

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/ByLCY/ecgpaper/provenance"
	"github.com/ByLCY/ecgpaper/renderer"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Options{Width: 400, Height: 300, Resolution: 100})
	if err != nil {
		t.Fatalf("创建画布失败: %v", err)
	}
	return r
}

func TestNewRejectsEmptyCanvas(t *testing.T) {
	if _, err := New(Options{Width: 0, Height: 10, Resolution: 100}); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

// TestPolylineBoundsIncludeStroke 折线范围应比端点向外扩出约半个线宽（圆头）。
func TestPolylineBoundsIncludeStroke(t *testing.T) {
	r := newTestRenderer(t)
	d := r.Polyline([]provenance.Point{{X: 100, Y: 100}, {X: 200, Y: 100}}, renderer.Stroke{Color: color.RGBA{A: 255}, Width: 10})
	x0, y0, x1, y1 := d.Bounds().Rect()
	if x0 > 96 || x1 < 204 || y0 > 96 || y1 < 104 {
		t.Fatalf("expected stroke outline around the segment, got (%g,%g)-(%g,%g)", x0, y0, x1, y1)
	}
	if x0 < 90 || x1 > 210 {
		t.Fatalf("bounds too loose: (%g,%g)-(%g,%g)", x0, y0, x1, y1)
	}
}

// TestTextBoundsAroundBaseline 文本范围应在基线附近，且大部分位于基线上方。
func TestTextBoundsAroundBaseline(t *testing.T) {
	r := newTestRenderer(t)
	d, err := r.Text(50, 150, "aVR", renderer.TextStyle{Color: color.RGBA{A: 255}, Size: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x0, y0, x1, y1 := d.Bounds().Rect()
	if x1 <= x0 || y1 <= y0 {
		t.Fatalf("empty text bounds: (%g,%g)-(%g,%g)", x0, y0, x1, y1)
	}
	if y0 >= 150 || y0 < 120 {
		t.Fatalf("text top should sit above the baseline within one em, got %g", y0)
	}
	if x0 < 45 || x0 > 60 {
		t.Fatalf("text should start near x=50, got %g", x0)
	}
}

// TestTextBoundsHugInk 标签范围贴合栅格化后的墨迹。
func TestTextBoundsHugInk(t *testing.T) {
	r := newTestRenderer(t)
	r.Fill(color.White)
	d, err := r.Text(50, 150, "aVR", renderer.TextStyle{Color: color.RGBA{A: 255}, Size: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img := r.Rasterize()
	inkX0, inkY0, inkX1, inkY1 := 400, 300, -1, -1
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			if img.RGBAAt(x, y).R < 128 {
				inkX0, inkY0 = min(inkX0, x), min(inkY0, y)
				inkX1, inkY1 = max(inkX1, x+1), max(inkY1, y+1)
			}
		}
	}
	if inkX1 < 0 {
		t.Fatalf("no ink rendered")
	}
	x0, y0, x1, y1 := d.Bounds().Rect()
	if x0 > float64(inkX0)+1 || y0 > float64(inkY0)+1 || x1 < float64(inkX1)-1 || y1 < float64(inkY1)-1 {
		t.Fatalf("bounds (%g,%g)-(%g,%g) should enclose ink (%d,%d)-(%d,%d)", x0, y0, x1, y1, inkX0, inkY0, inkX1, inkY1)
	}
	if float64(inkY0)-y0 > 2 || x0 < float64(inkX0)-2 {
		t.Fatalf("bounds (%g,%g) should sit on the ink top-left (%d,%d)", x0, y0, inkX0, inkY0)
	}
}

// TestRasterizeMatchesPixelSize 栅格化尺寸与创建时的像素尺寸一致，且绘制位置正确。
func TestRasterizeMatchesPixelSize(t *testing.T) {
	r := newTestRenderer(t)
	r.Fill(color.White)
	r.Line(0, 150, 400, 150, renderer.Stroke{Color: color.RGBA{A: 255}, Width: 4})
	img := r.Rasterize()
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Fatalf("unexpected raster size %v", img.Bounds())
	}
	if c := img.RGBAAt(200, 150); c.R > 64 {
		t.Fatalf("expected dark pixel on the line, got %+v", c)
	}
	if c := img.RGBAAt(200, 50); c.R < 250 {
		t.Fatalf("expected white background, got %+v", c)
	}
}

func TestPDFExport(t *testing.T) {
	r := newTestRenderer(t)
	r.Fill(color.White)
	data, err := r.PDF("test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}
