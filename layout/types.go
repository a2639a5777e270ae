package layout

import (
	"math"

	"github.com/ByLCY/ecgpaper/signal"
)

// 该文件定义布局结果，供渲染、溯源与调试 JSON 共用。
// 数据坐标：x 以秒为单位，y 以毫伏为单位，y 轴向上，原点在纸张左下角。

// 临床走纸常量：每个网格格子对应 0.2 秒、0.5 mV。
const (
	SecondsPerDivision = 0.2
	MillivoltsPerDiv   = 0.5
	// DefaultGridPitch 为一个格子的物理宽度（英寸），即 5mm。
	DefaultGridPitch = 5 / 25.4
	// CalibrationSeconds 为定标脉冲的宽度。
	CalibrationSeconds = 0.2
	// LabelOffset 为导联名称距离基线的距离（mV）。
	LabelOffset = 0.5
	// FullLeadLift 为节律条基线相对标签的抬升量。
	FullLeadLift = 0.8
	// MinDuration 为排出一页所需的最短记录时长（秒）。
	MinDuration = 10.0
)

// PaperGeometry 描述纸张与网格。Width/Height/Padding 单位为英寸，Resolution 为 dpi。
type PaperGeometry struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	GridPitch     float64 `json:"gridPitch"`
	Resolution    int     `json:"resolution"`
	Padding       float64 `json:"padding"`
	Columns       int     `json:"columns"`
	Rows          int     `json:"rows"`
	DataRows      int     `json:"dataRows"`
	RowHeight     float64 `json:"rowHeight"`
	XGap          float64 `json:"xGap"`
	XMax          float64 `json:"xMax"`
	YMax          float64 `json:"yMax"`
	WindowSeconds float64 `json:"windowSeconds"`
	PaperSeconds  float64 `json:"paperSeconds"`
}

// DotsPerDivision 返回一个网格格子的像素边长（注释 JSON 中的 x_grid/y_grid）。
func (g PaperGeometry) DotsPerDivision() float64 {
	return g.GridPitch * float64(g.Resolution)
}

// PadPixels 返回四周留白的像素宽度。
func (g PaperGeometry) PadPixels() float64 {
	return g.Padding * float64(g.Resolution)
}

// ToPixel 将数据坐标换算为最终图像像素坐标（含留白，y 轴向下）。
func (g PaperGeometry) ToPixel(x, y float64) (float64, float64) {
	dots := g.DotsPerDivision()
	px := x/SecondsPerDivision*dots + g.PadPixels()
	py := (g.YMax-y)/MillivoltsPerDiv*dots + g.PadPixels()
	return px, py
}

// FromPixel 是 ToPixel 的逆变换。
func (g PaperGeometry) FromPixel(px, py float64) (float64, float64) {
	dots := g.DotsPerDivision()
	x := (px - g.PadPixels()) / dots * SecondsPerDivision
	y := g.YMax - (py-g.PadPixels())/dots*MillivoltsPerDiv
	return x, y
}

// ImageSize 返回包含留白的整图像素尺寸。
func (g PaperGeometry) ImageSize() (int, int) {
	w := int(math.Round((g.Width + 2*g.Padding) * float64(g.Resolution)))
	h := int(math.Round((g.Height + 2*g.Padding) * float64(g.Resolution)))
	return w, h
}

// Placement 记录一个导联在纸面上的位置与其对应的样本区间 [SampleStart, SampleEnd)。
type Placement struct {
	Lead   signal.LeadName `json:"lead"`
	Row    int             `json:"row"`
	Column int             `json:"column"`
	Full   bool            `json:"full,omitempty"`
	// Pulse 为 true 时在波形前绘制定标脉冲（每行第一列与节律条）。
	Pulse bool `json:"pulse,omitempty"`

	XOffset float64 `json:"xOffset"` // 列起点（秒，已含 x_gap）
	YOffset float64 `json:"yOffset"` // 基线（mV）
	TraceX  float64 `json:"traceX"`  // 波形第一个样本的 x（秒）
	LabelX  float64 `json:"labelX"`
	LabelY  float64 `json:"labelY"`
	PixelX  float64 `json:"pixelX"`
	PixelY  float64 `json:"pixelY"`

	SampleStart int     `json:"sampleStart"`
	SampleEnd   int     `json:"sampleEnd"`
	Seconds     float64 `json:"seconds"`
}

// Plan 为一页心电图的完整布局。
type Plan struct {
	Geometry   PaperGeometry   `json:"geometry"`
	Placements []Placement     `json:"placements"`
	FullLead   signal.LeadName `json:"fullLead,omitempty"`
	SampleRate float64         `json:"sampleRate"`
	Start      int             `json:"start"`
}

// Windows 返回每个布局位置需要截取的样本窗口，顺序与 Placements 一致。
func (p *Plan) Windows() []signal.Window {
	out := make([]signal.Window, 0, len(p.Placements))
	for _, pl := range p.Placements {
		out = append(out, signal.Window{Lead: pl.Lead, Start: pl.SampleStart, End: pl.SampleEnd, Full: pl.Full})
	}
	return out
}

// Lookup 返回指定导联的网格位置（不含节律条）。
func (p *Plan) Lookup(name signal.LeadName) (Placement, bool) {
	for _, pl := range p.Placements {
		if pl.Lead == name && !pl.Full {
			return pl, true
		}
	}
	return Placement{}, false
}
