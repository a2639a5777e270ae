package renderer

import (
	"image/color"

	"github.com/ByLCY/ecgpaper/provenance"
)

// Surface 是与具体绘图库无关的绘图后端。坐标统一为最终图像像素（左上原点，y 向下），
// 线宽与字号同样以像素计。
//
// Polyline 与 Text 返回的 Drawable 必须报告后端实际渲染出的范围（包含线帽、字形度量），
// 溯源记录以此为准。
type Surface interface {
	Fill(c color.Color)
	Line(x1, y1, x2, y2 float64, st Stroke)
	Polyline(pts []provenance.Point, st Stroke) Drawable
	Text(x, baseline float64, s string, st TextStyle) (Drawable, error)
}

// Drawable 是已绘制的图元。
type Drawable interface {
	Bounds() provenance.BoundingBox
}

// Stroke 描述线条样式。
type Stroke struct {
	Color color.RGBA
	Width float64
}

// TextStyle 描述文本样式。Size 为字号（像素）。
type TextStyle struct {
	Color color.RGBA
	Size  float64
	Mono  bool
}

// BoxDrawable 是只携带包围盒的 Drawable，方便后端与测试复用。
type BoxDrawable provenance.BoundingBox

func (b BoxDrawable) Bounds() provenance.BoundingBox { return provenance.BoundingBox(b) }

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// PtToPixels 把磅值换算为给定分辨率下的像素。
func PtToPixels(pt float64, dpi int) float64 { return pt / 72 * float64(dpi) }
