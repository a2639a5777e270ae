package augment

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
)

// Noise 为每个像素叠加同一个高斯噪声值（三个通道共用），scale 为 8 位灰度下的标准差。
func Noise(img *image.RGBA, scale float64, rng *rand.Rand) *image.RGBA {
	out := clone(img)
	if scale <= 0 || rng == nil {
		return out
	}
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := rng.NormFloat64() * scale
			p := out.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{R: clip(float64(p.R) + n), G: clip(float64(p.G) + n), B: clip(float64(p.B) + n), A: p.A})
		}
	}
	return out
}

// Temperature 按色温 kelvin 对应的黑体颜色逐通道缩放图像。
// 低色温偏暖（红），高色温偏冷（蓝），6600K 附近接近中性。
func Temperature(img *image.RGBA, kelvin float64) *image.RGBA {
	out := clone(img)
	if kelvin <= 0 {
		return out
	}
	kr, kg, kb := KelvinRGB(kelvin)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := out.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{R: clip(float64(p.R) * kr), G: clip(float64(p.G) * kg), B: clip(float64(p.B) * kb), A: p.A})
		}
	}
	return out
}

// KelvinRGB 返回色温对应的 RGB 乘子（0~1），取值范围 1000K~40000K。
func KelvinRGB(kelvin float64) (r, g, b float64) {
	t := math.Max(1000, math.Min(40000, kelvin)) / 100
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	return unit(r), unit(g), unit(b)
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(255, v)) / 255
}

func clip(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}
