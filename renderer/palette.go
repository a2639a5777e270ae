package renderer

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"
)

// Palette 为网格与波形配色。
type Palette struct {
	Name  string     `json:"name"`
	Major color.RGBA `json:"major"`
	Minor color.RGBA `json:"minor"`
	Trace color.RGBA `json:"trace"`
}

func rgb(r, g, b float64) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 255}
}

// 五组标准心电纸配色：棕、粉、蓝、绿、红。
var standardMajor = [5][3]float64{
	{0.4274, 0.196, 0.1843},
	{1, 0.796, 0.866},
	{0.0, 0.0, 0.4},
	{0, 0.3, 0.0},
	{1, 0, 0},
}

var standardMinor = [5][3]float64{
	{0.5882, 0.4196, 0.3960},
	{0.996, 0.9294, 0.9725},
	{0.0, 0, 0.7},
	{0, 0.8, 0.3},
	{0.996, 0.8745, 0.8588},
}

// BlackWhite 返回黑白配色。
func BlackWhite() Palette {
	return Palette{Name: "bw", Major: rgb(0.4, 0.4, 0.4), Minor: rgb(0.75, 0.75, 0.75), Trace: rgb(0, 0, 0)}
}

// Standard 返回第 index（1..5）组标准配色，波形为随机深灰。
func Standard(index int, rng *rand.Rand) (Palette, error) {
	if index < 1 || index > len(standardMajor) {
		return Palette{}, fmt.Errorf("标准配色下标超出范围: %d", index)
	}
	mj, mn := standardMajor[index-1], standardMinor[index-1]
	grey := rng.Float64() * 0.2
	return Palette{
		Name:  fmt.Sprintf("colour%d", index),
		Major: rgb(mj[0], mj[1], mj[2]),
		Minor: rgb(mn[0], mn[1], mn[2]),
		Trace: rgb(grey, grey, grey),
	}, nil
}

// Random 返回随机配色，细格比粗格略浅。
func Random(rng *rand.Rand) Palette {
	mr := rng.Float64() * 0.8
	mg := rng.Float64() * 0.5
	mb := rng.Float64() * 0.5
	off := rng.Float64() * 0.2
	nr := mr + off
	ng := rng.Float64()*0.5 + off
	nb := rng.Float64()*0.5 + off
	grey := rng.Float64() * 0.2
	return Palette{Name: "random", Major: rgb(mr, mg, mb), Minor: rgb(nr, ng, nb), Trace: rgb(grey, grey, grey)}
}

// PickPalette 按方案名选择配色：bw、standard（随机 1..5）、colourN 或 random。
func PickPalette(scheme string, rng *rand.Rand) (Palette, error) {
	s := strings.ToLower(strings.TrimSpace(scheme))
	switch {
	case s == "bw":
		return BlackWhite(), nil
	case s == "" || s == "standard":
		return Standard(rng.IntN(len(standardMajor))+1, rng)
	case s == "random":
		return Random(rng), nil
	case strings.HasPrefix(s, "colour"):
		var idx int
		if _, err := fmt.Sscanf(s, "colour%d", &idx); err != nil {
			return Palette{}, fmt.Errorf("无法解析配色 %q: %w", scheme, err)
		}
		return Standard(idx, rng)
	default:
		return Palette{}, fmt.Errorf("未知配色方案: %q", scheme)
	}
}
