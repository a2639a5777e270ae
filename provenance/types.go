package provenance

import "math"

// 该文件定义溯源记录的基本几何类型。所有坐标均为最终图像的像素坐标，
// 原点在左上角，y 轴向下。

// Point 是一个像素坐标点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Kind 区分被绘制元素的类型。
type Kind string

const (
	KindWaveform Kind = "lead-waveform"
	KindLabel    Kind = "lead-label"
	KindHeader   Kind = "header-text"
)

// 角点下标，顺序固定为 左下、右下、右上、左上。
const (
	BottomLeft = iota
	BottomRight
	TopRight
	TopLeft
)

// BoundingBox 由四个角点构成，顺序见上。旋转之后四点不再轴对齐，但顺序保持不变。
type BoundingBox [4]Point

// BoxFromRect 用轴对齐矩形构造包围盒，自动规整最小/最大值。
func BoxFromRect(x0, y0, x1, y1 float64) BoundingBox {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return BoundingBox{
		BottomLeft:  {X: x0, Y: y1},
		BottomRight: {X: x1, Y: y1},
		TopRight:    {X: x1, Y: y0},
		TopLeft:     {X: x0, Y: y0},
	}
}

// Rect 返回包围四个角点的轴对齐矩形 (x0, y0, x1, y1)。
func (b BoundingBox) Rect() (x0, y0, x1, y1 float64) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, p := range b {
		x0 = math.Min(x0, p.X)
		y0 = math.Min(y0, p.Y)
		x1 = math.Max(x1, p.X)
		y1 = math.Max(y1, p.Y)
	}
	return x0, y0, x1, y1
}

// Union 返回同时包含 b 与 o 的轴对齐包围盒。零值包围盒视为空。
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.IsZero() {
		return o
	}
	if o.IsZero() {
		return b
	}
	ax0, ay0, ax1, ay1 := b.Rect()
	bx0, by0, bx1, by1 := o.Rect()
	return BoxFromRect(math.Min(ax0, bx0), math.Min(ay0, by0), math.Max(ax1, bx1), math.Max(ay1, by1))
}

// IsZero 报告包围盒是否为零值。
func (b BoundingBox) IsZero() bool { return b == BoundingBox{} }

// Map 对每个角点应用 fn，保持角点顺序。
func (b BoundingBox) Map(fn func(Point) Point) BoundingBox {
	var out BoundingBox
	for i, p := range b {
		out[i] = fn(p)
	}
	return out
}

// Record 记录一个被绘制元素与其来源：样本区间及每个样本落在图像上的像素位置。
type Record struct {
	Kind        Kind        `json:"kind"`
	Label       string      `json:"label"`
	Box         BoundingBox `json:"box"`
	StartSample int         `json:"start_sample"`
	EndSample   int         `json:"end_sample"`
	Points      []Point     `json:"points,omitempty"`
}

// Clone 深拷贝记录，避免变换阶段修改原始数据。
func (r Record) Clone() Record {
	out := r
	if r.Points != nil {
		out.Points = append([]Point(nil), r.Points...)
	}
	return out
}
