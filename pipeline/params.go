package pipeline

import (
	"math/rand/v2"

	"github.com/ByLCY/ecgpaper/config"
	"github.com/ByLCY/ecgpaper/creases"
	"github.com/ByLCY/ecgpaper/renderer"
	"github.com/ByLCY/ecgpaper/transform"
)

// Params 为一页图像抽样得到的全部随机参数。
type Params struct {
	Resolution int
	Padding    float64

	Palette          renderer.Palette
	ShowGrid         bool
	CalibrationPulse bool
	PrintHeader      bool

	Augment     bool
	Transform   transform.Options
	Noise       float64
	Temperature float64

	Creases      bool
	CreaseOpts   creases.Options
	Wrinkles     bool
	WrinkleIndex int
}

// Sample 按固定顺序消耗 rng：分辨率、边距、绘制选项、增强参数、折痕参数。
// 顺序固定保证同一种子得到同一组参数。
func Sample(cfg *config.Config, wrinkleSources int, rng *rand.Rand) (Params, error) {
	var p Params
	p.Resolution = cfg.Layout.Resolution
	if cfg.Layout.RandomResolution && cfg.Layout.Resolution > 50 {
		p.Resolution = 50 + rng.IntN(cfg.Layout.Resolution-50+1)
	}
	p.Padding = cfg.Layout.PadInches
	if cfg.Layout.RandomPadding && cfg.Layout.PadInches >= 1 {
		p.Padding = float64(rng.IntN(int(cfg.Layout.PadInches) + 1))
	}

	if rng.Float64() < cfg.Render.RandomBW {
		p.Palette = renderer.BlackWhite()
	} else {
		pal, err := renderer.PickPalette(cfg.Render.GridColour, rng)
		if err != nil {
			return Params{}, err
		}
		p.Palette = pal
	}
	p.ShowGrid = rng.Float64() < cfg.Render.GridPresent
	p.CalibrationPulse = rng.Float64() < cfg.Render.CalibrationProb
	p.PrintHeader = rng.Float64() < cfg.Render.PrintHeaderProb

	a := cfg.Augment
	p.Augment = rng.Float64() < a.Probability
	if p.Augment {
		rot, noise, crop := a.Rotate, a.Noise, a.Crop
		if !a.Deterministic {
			rot = rng.IntN(2*a.Rotate+1) - a.Rotate
			noise = 1 + rng.IntN(max(a.Noise, 1))
			crop = rng.Float64() * a.Crop
		}
		p.Transform = transform.Options{Angle: float64(rot), Crop: crop}
		p.Noise = float64(noise)
		p.Temperature = a.Temperature
		if p.Temperature <= 0 {
			if rng.IntN(2) == 0 {
				p.Temperature = float64(2000 + rng.IntN(2000))
			} else {
				p.Temperature = float64(10000 + rng.IntN(10000))
			}
		}
	}

	c := cfg.Creases
	p.Creases = rng.Float64() < c.Probability
	if p.Creases {
		p.CreaseOpts = creases.Options{Angle: c.Angle, Vertical: c.Vertical, Horizontal: c.Horizontal}
		if !c.Deterministic {
			p.CreaseOpts = creases.Options{
				Angle:      rng.IntN(c.Angle + 1),
				Vertical:   1 + rng.IntN(max(c.Vertical, 1)),
				Horizontal: 1 + rng.IntN(max(c.Horizontal, 1)),
			}
		}
	}
	p.Wrinkles = wrinkleSources > 0 && rng.Float64() < c.WrinkleProb
	if p.Wrinkles {
		p.WrinkleIndex = rng.IntN(wrinkleSources)
	}
	return p, nil
}
