package creases

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"github.com/ByLCY/ecgpaper/texture"
)

// 折痕掩膜以百分比存储，便于用 8 位颜色值画线。
const maskScale = 100

// Options 描述折痕参数。
type Options struct {
	Angle      int // 水平折痕的倾角（度），竖直折痕为 90+Angle
	Vertical   int // 竖直折痕条数
	Horizontal int // 水平折痕条数
}

// Lines 返回全部折痕线段：先水平后竖直。
func (o Options) Lines(h, w int) []Line {
	lines := Coords(o.Angle, o.Horizontal, h, w)
	return append(lines, Coords(90+o.Angle, o.Vertical, h, w)...)
}

// Mask 生成 h×w 的折痕增益图：底值为 1，笔画处取笔画增益，随后做 3×3 高斯模糊。
func Mask(lines []Line, h, w int) ([]float64, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("图像尺寸无效: %dx%d", w, h)
	}
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(maskScale, 0, 0, 0), h, w, gocv.MatTypeCV32F)
	defer m.Close()
	for _, l := range lines {
		for _, s := range Strokes() {
			sl := l.shift(s.Offset)
			c := color.RGBA{B: uint8(math.Round(s.Gain * maskScale))}
			gocv.Line(&m, image.Point{X: sl.X1, Y: sl.Y1}, image.Point{X: sl.X2, Y: sl.Y2}, c, StrokeThickness)
		}
	}
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(m, &blurred, image.Point{X: 3, Y: 3}, 0, 0, gocv.BorderDefault)

	out := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(blurred.GetFloatAt(y, x)) / maskScale
		}
	}
	return out, nil
}

// Apply 把折痕增益逐像素乘到图像上，返回新图像。没有折痕时原样拷贝。
func Apply(img *image.RGBA, opts Options) (*image.RGBA, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	lines := opts.Lines(h, w)
	if len(lines) == 0 {
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w*4], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return out, nil
	}
	gain, err := Mask(lines, h, w)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			g := gain[y*w+x]
			out.SetRGBA(x, y, color.RGBA{R: scale(src.R, g), G: scale(src.G, g), B: scale(src.B, g), A: src.A})
		}
	}
	return out, nil
}

func scale(v uint8, g float64) uint8 {
	return clip255(float64(v) * g)
}

func clip255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// WrinkleBlock 为褶皱纹理的缝合块尺寸。
const WrinkleBlock = 250

// WrinkleTexture 从样本纹理缝合出单块褶皱纹理；样本小于块尺寸时以样本短边为块。
func WrinkleTexture(src *texture.Image, rng *rand.Rand) (*texture.Image, error) {
	block := min(WrinkleBlock, src.W, src.H)
	return texture.Quilt(src, block, 1, 1, rng)
}

// ApplyWrinkles 把褶皱纹理叠加到图像上：纹理转灰度并缩放到图像尺寸，
// 亮度整体平移使均值为 0.4，再以 0.6 为阈值做叠加混合。
func ApplyWrinkles(img *image.RGBA, tex *texture.Image) (*image.RGBA, error) {
	if tex == nil || tex.W == 0 || tex.H == 0 {
		return nil, fmt.Errorf("褶皱纹理为空")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := tex.Gray()

	src := gocv.NewMatWithSize(gray.H, gray.W, gocv.MatTypeCV32F)
	defer src.Close()
	for y := 0; y < gray.H; y++ {
		for x := 0; x < gray.W; x++ {
			src.SetFloatAt(y, x, float32(gray.At(x, y, 0)))
		}
	}
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationLinear)

	wr := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			wr[y*w+x] = float64(resized.GetFloatAt(y, x))
		}
	}
	shift := stat.Mean(wr, nil) - 0.4
	for i := range wr {
		wr[i] -= shift
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := wr[y*w+x]
			p := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			out.SetRGBA(x, y, color.RGBA{
				R: overlay(p.R, t),
				G: overlay(p.G, t),
				B: overlay(p.B, t),
				A: p.A,
			})
		}
	}
	return out, nil
}

// overlay 为叠加混合：纹理亮于 0.6 时提亮，否则压暗。
func overlay(v uint8, t float64) uint8 {
	i := float64(v) / 255
	var r float64
	if t > 0.6 {
		r = 1 - 2*(1-i)*(1-t)
	} else {
		r = 2 * i * t
	}
	return clip255(255 * r)
}
