package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Image 为浮点多通道图像，像素值位于 [0,1]，按行优先、通道交织存储。
type Image struct {
	W, H, C int
	Pix     []float64
}

// New 创建全零图像。
func New(w, h, c int) *Image {
	return &Image{W: w, H: h, C: c, Pix: make([]float64, w*h*c)}
}

// Uniform 创建每个像素均为 v 的图像。
func Uniform(w, h, c int, v float64) *Image {
	m := New(w, h, c)
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}

// FromImage 将任意 image.Image 转为三通道 (R,G,B) 浮点图像。
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy(), 3)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := m.offset(x, y)
			m.Pix[i] = float64(r) / 0xffff
			m.Pix[i+1] = float64(g) / 0xffff
			m.Pix[i+2] = float64(bl) / 0xffff
		}
	}
	return m
}

func (m *Image) offset(x, y int) int {
	return (y*m.W + x) * m.C
}

// At 返回 (x,y) 处第 c 个通道的值。
func (m *Image) At(x, y, c int) float64 {
	return m.Pix[m.offset(x, y)+c]
}

// Set 设置 (x,y) 处第 c 个通道的值。
func (m *Image) Set(x, y, c int, v float64) {
	m.Pix[m.offset(x, y)+c] = v
}

// Gray 按 0.299R + 0.587G + 0.114B 转为单通道。
func (m *Image) Gray() *Image {
	if m.C == 1 {
		out := New(m.W, m.H, 1)
		copy(out.Pix, m.Pix)
		return out
	}
	out := New(m.W, m.H, 1)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			i := m.offset(x, y)
			out.Pix[y*m.W+x] = 0.299*m.Pix[i] + 0.587*m.Pix[i+1] + 0.114*m.Pix[i+2]
		}
	}
	return out
}

// RGBA 将图像量化为 8 位 RGBA，单通道图像输出为灰度。
func (m *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			i := m.offset(x, y)
			var c color.RGBA
			if m.C == 1 {
				v := quantize(m.Pix[i])
				c = color.RGBA{R: v, G: v, B: v, A: 255}
			} else {
				c = color.RGBA{R: quantize(m.Pix[i]), G: quantize(m.Pix[i+1]), B: quantize(m.Pix[i+2]), A: 255}
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

func quantize(v float64) uint8 {
	v = math.Max(0, math.Min(1, v)) * 255
	return uint8(v)
}

// sub 拷贝 (x,y) 起 w×h 的子块。
func (m *Image) sub(x, y, w, h int) *Image {
	out := New(w, h, m.C)
	for r := 0; r < h; r++ {
		copy(out.Pix[r*w*m.C:(r+1)*w*m.C], m.Pix[m.offset(x, y+r):m.offset(x+w, y+r)])
	}
	return out
}

// paste 把 p 写入 (x,y) 起的区域。
func (m *Image) paste(p *Image, x, y int) {
	for r := 0; r < p.H; r++ {
		copy(m.Pix[m.offset(x, y+r):m.offset(x+p.W, y+r)], p.Pix[r*p.W*p.C:(r+1)*p.W*p.C])
	}
}

func (m *Image) validate() error {
	if m == nil || m.W <= 0 || m.H <= 0 || m.C <= 0 {
		return fmt.Errorf("纹理图像为空")
	}
	if len(m.Pix) != m.W*m.H*m.C {
		return fmt.Errorf("纹理像素数 %d 与尺寸 %dx%dx%d 不符", len(m.Pix), m.W, m.H, m.C)
	}
	return nil
}
