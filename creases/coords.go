package creases

import "math"

// Line 为一条折痕线段，端点为图像像素坐标。
type Line struct {
	X1, Y1 int
	X2, Y2 int
}

// Coords 计算 n 条倾角为 angle（度）的折痕在 h×w 图像上的端点。
// 0°/180° 时沿纵向等分（水平折痕），90° 时沿横向等分（竖直折痕）；
// 其余角度沿图像边界以 (h+w)/(n+1) 为步长取起点，再按斜率求与边界的交点。
// 小于 90° 时从上边向右边行进，大于 90° 时从下边向右边行进。
func Coords(angle, n, h, w int) []Line {
	if n <= 0 {
		return nil
	}
	gap := float64((h + w) / (n + 1))
	starts := make([][2]float64, 0, n)

	switch {
	case angle == 90:
		step := float64(w) / float64(n+1)
		xc := 0.0
		for i := 0; i < n; i++ {
			xc += step
			starts = append(starts, [2]float64{xc, 0})
		}
	case angle == 0 || angle == 180:
		step := float64(h) / float64(n+1)
		yc := 0.0
		for i := 0; i < n; i++ {
			yc += step
			starts = append(starts, [2]float64{0, yc})
		}
	case angle < 90:
		xc, yc := 0.0, 0.0
		turned := false
		for i := 0; i < n; i++ {
			switch {
			case xc+gap < float64(w):
				xc += gap
			case !turned:
				yc = xc + gap - float64(w)
				xc = float64(w)
				turned = true
			default:
				yc += gap
				xc = float64(w)
			}
			starts = append(starts, [2]float64{xc, yc})
		}
	default:
		xc, yc := 0.0, float64(h)
		turned := false
		for i := 0; i < n; i++ {
			switch {
			case xc+gap < float64(w):
				xc += gap
			case !turned:
				yc -= xc + gap - float64(w)
				xc = float64(w)
				turned = true
			default:
				yc -= gap
				xc = float64(w)
			}
			starts = append(starts, [2]float64{xc, yc})
		}
	}

	lines := make([]Line, 0, n)
	m := math.Tan(float64(180-angle) * math.Pi / 180)
	for i, s := range starts {
		x1, y1 := int(s[0]), int(s[1])
		var xe, ye float64
		c := float64(int(float64(y1) - m*float64(x1)))
		switch {
		case angle == 90:
			xe = float64(i+1) * (float64(w) / float64(n+1))
			ye = float64(h)
		case angle == 0 || angle == 180:
			xe = float64(w)
			ye = float64(i+1) * (float64(h) / float64(n+1))
		case angle > 90:
			if c < 0 {
				ye = 0
				xe = float64(int(-c / m))
			} else {
				xe = float64(w)
				ye = float64(int(m*xe + c))
			}
		default:
			if c > float64(h) {
				ye = float64(h)
				xe = (ye - c) / m
			} else {
				xe = 0
				ye = c
			}
		}
		lines = append(lines, Line{X1: x1, Y1: y1, X2: int(xe), Y2: int(ye)})
	}
	return lines
}

// Stroke 为一道折痕的一条笔画：相对中心线的偏移（像素）与亮度增益。
type Stroke struct {
	Offset int
	Gain   float64
}

// StrokeThickness 为每条笔画的线宽（像素）。
const StrokeThickness = 5

// Strokes 返回一道折痕的 5 条笔画，按绘制顺序排列：
// 中心 1.25，±5 像素 1.15，±10 像素 1.05。
func Strokes() []Stroke {
	return []Stroke{
		{Offset: 0, Gain: 1.25},
		{Offset: -5, Gain: 1.15},
		{Offset: 5, Gain: 1.15},
		{Offset: 10, Gain: 1.05},
		{Offset: -10, Gain: 1.05},
	}
}

// shift 将线段沿横向平移 off；起点贴近左边界时改为纵向平移。
func (l Line) shift(off int) Line {
	if l.X1-10 < 0 {
		return Line{X1: l.X1, Y1: l.Y1 + off, X2: l.X2, Y2: l.Y2 + off}
	}
	return Line{X1: l.X1 + off, Y1: l.Y1, X2: l.X2 + off, Y2: l.Y2}
}
