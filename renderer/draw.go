package renderer

import (
	"fmt"
	"math"

	"github.com/ByLCY/ecgpaper/layout"
	"github.com/ByLCY/ecgpaper/provenance"
	"github.com/ByLCY/ecgpaper/signal"
)

// 默认样式（磅）。
const (
	DefaultFontSizePt  = 11.0
	DefaultLineWidthPt = 0.75
	DefaultGridWidthPt = 0.5
	PulseWidthFactor   = 1.5
	minorPerMajor      = 5
)

// Options 控制一次绘制中各元素的开关与样式。
type Options struct {
	Palette          Palette
	ShowGrid         bool
	ShowLabels       bool
	LabelBoxes       bool // 为导联名称单独输出 lead-label 记录
	CalibrationPulse bool
	ShowLegend       bool
	Header           []string // 打印在左上角的患者信息，每项一行

	FontSizePt  float64
	LineWidthPt float64
	GridWidthPt float64
}

func (o Options) withDefaults() Options {
	if o.FontSizePt <= 0 {
		o.FontSizePt = DefaultFontSizePt
	}
	if o.LineWidthPt <= 0 {
		o.LineWidthPt = DefaultLineWidthPt
	}
	if o.GridWidthPt <= 0 {
		o.GridWidthPt = DefaultGridWidthPt
	}
	if o.Palette == (Palette{}) {
		o.Palette = BlackWhite()
	}
	return o
}

// Draw 按布局把一页信号画到 surface 上，并把每个导联与标签的实际像素范围写入 tracker。
// 帧中缺失的导联会被跳过。
func Draw(plan *layout.Plan, frame *signal.Frame, opts Options, s Surface, t *provenance.Tracker) error {
	if plan == nil || frame == nil {
		return fmt.Errorf("布局或信号为空")
	}
	opts = opts.withDefaults()
	g := plan.Geometry
	dpi := g.Resolution

	s.Fill(white)
	if opts.ShowGrid {
		drawGrid(g, opts, s)
	}

	trace := Stroke{Color: opts.Palette.Trace, Width: PtToPixels(opts.LineWidthPt, dpi)}
	pulse := Stroke{Color: opts.Palette.Trace, Width: trace.Width * PulseWidthFactor}
	text := TextStyle{Color: opts.Palette.Trace, Size: PtToPixels(opts.FontSizePt, dpi)}

	for _, pl := range plan.Placements {
		lead, ok := leadFor(frame, pl)
		if !ok {
			continue
		}
		if opts.ShowLabels {
			lx, ly := g.ToPixel(pl.LabelX, pl.LabelY)
			d, err := s.Text(lx, ly, string(pl.Lead), text)
			if err != nil {
				return fmt.Errorf("绘制导联 %s 名称失败: %w", pl.Lead, err)
			}
			if opts.LabelBoxes {
				t.Record(provenance.Record{Kind: provenance.KindLabel, Label: string(pl.Lead), Box: d.Bounds()})
			}
		}

		var box provenance.BoundingBox
		if opts.CalibrationPulse && pl.Pulse {
			box = s.Polyline(pulsePoints(g, pl, frame.SampleRate), pulse).Bounds()
		}
		pts := tracePoints(g, pl, lead.Samples, frame.SampleRate)
		if len(pts) == 0 {
			continue
		}
		box = box.Union(s.Polyline(pts, trace).Bounds())
		t.Record(provenance.Record{
			Kind:        provenance.KindWaveform,
			Label:       string(pl.Lead),
			Box:         box,
			StartSample: lead.Start,
			EndSample:   lead.End,
			Points:      pts,
		})
	}

	if len(opts.Header) > 0 {
		if err := drawHeader(g, opts.Header, text, s, t); err != nil {
			return err
		}
	}
	if opts.ShowLegend {
		for _, lg := range []struct {
			x float64
			s string
		}{{2, "25mm/s"}, {4, "10mm/mV"}} {
			x, y := g.ToPixel(lg.x, 0.5)
			if _, err := s.Text(x, y, lg.s, text); err != nil {
				return fmt.Errorf("绘制走纸速度标注失败: %w", err)
			}
		}
	}
	return nil
}

func leadFor(frame *signal.Frame, pl layout.Placement) (signal.Lead, bool) {
	if pl.Full {
		if frame.Full == nil || frame.Full.Name != pl.Lead {
			return signal.Lead{}, false
		}
		return *frame.Full, true
	}
	return frame.Lookup(pl.Lead)
}

// tracePoints 返回每个样本在图像上的像素位置。
func tracePoints(g layout.PaperGeometry, pl layout.Placement, samples []float64, rate float64) []provenance.Point {
	pts := make([]provenance.Point, len(samples))
	for i, v := range samples {
		x, y := g.ToPixel(pl.TraceX+float64(i)/rate, pl.YOffset+v)
		pts[i] = provenance.Point{X: x, Y: y}
	}
	return pts
}

// pulsePoints 生成 0.2 秒、1 mV 的定标方波，首尾各补两个 0。
func pulsePoints(g layout.PaperGeometry, pl layout.Placement, rate float64) []provenance.Point {
	n := int(math.Round(rate*layout.CalibrationSeconds)) + 4
	pts := make([]provenance.Point, n)
	for i := range pts {
		v := 1.0
		if i < 2 || i >= n-2 {
			v = 0
		}
		x, y := g.ToPixel(pl.XOffset+float64(i)/rate, pl.YOffset+v)
		pts[i] = provenance.Point{X: x, Y: y}
	}
	return pts
}

// drawGrid 在纸面范围内绘制细格与粗格，粗格后画以覆盖细格。
func drawGrid(g layout.PaperGeometry, opts Options, s Surface) {
	dots := g.DotsPerDivision()
	if dots <= 0 {
		return
	}
	pad := g.PadPixels()
	w := g.Width * float64(g.Resolution)
	h := g.Height * float64(g.Resolution)
	width := PtToPixels(opts.GridWidthPt, g.Resolution)
	minor := Stroke{Color: opts.Palette.Minor, Width: width}
	major := Stroke{Color: opts.Palette.Major, Width: width}

	step := dots / minorPerMajor
	for _, pass := range []struct {
		st    Stroke
		major bool
	}{{minor, false}, {major, true}} {
		for i := 0; float64(i)*step <= w+1e-9; i++ {
			if (i%minorPerMajor == 0) != pass.major {
				continue
			}
			x := pad + float64(i)*step
			s.Line(x, pad, x, pad+h, pass.st)
		}
		// 水平线从纸面底部（y=0 mV）向上排列，与数据坐标对齐。
		for i := 0; float64(i)*step <= h+1e-9; i++ {
			if (i%minorPerMajor == 0) != pass.major {
				continue
			}
			y := pad + h - float64(i)*step
			s.Line(pad, y, pad+w, y, pass.st)
		}
	}
}

func drawHeader(g layout.PaperGeometry, lines []string, st TextStyle, s Surface, t *provenance.Tracker) error {
	y := math.Floor(g.YMax)
	for _, line := range lines {
		px, py := g.ToPixel(0.05, y)
		d, err := s.Text(px, py, line, st)
		if err != nil {
			return fmt.Errorf("绘制页眉文本失败: %w", err)
		}
		t.Record(provenance.Record{Kind: provenance.KindHeader, Label: line, Box: d.Bounds()})
		y -= layout.MillivoltsPerDiv
	}
	return nil
}
