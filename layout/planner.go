package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/ecgpaper/signal"
)

// InferColumns 返回 columns 为 -1 时的列数。
func InferColumns(leadCount int) int {
	if leadCount == 2 {
		return 1
	}
	return 4
}

// Build 计算一页心电图的纸张几何与导联位置。
//
// 行从上到下编号，节律条总在最下方一行。相同输入总是得到相同结果。
func Build(req Request) (*Plan, error) {
	req = req.withDefaults()
	if len(req.Leads) == 0 {
		return nil, &GeometryError{Reason: "没有可排布的导联"}
	}
	if req.SampleRate <= 0 {
		return nil, &GeometryError{Reason: fmt.Sprintf("采样率无效: %g", req.SampleRate)}
	}
	if req.Duration < req.PaperSeconds {
		return nil, &InsufficientDurationError{Duration: req.Duration, Required: req.PaperSeconds}
	}

	leads := orderLeads(req.Leads, req.Order12)
	columns := req.Columns
	if columns == -1 {
		columns = InferColumns(len(leads))
	}
	// 仅 12 导联带节律条；2 导联强制单列。
	var full signal.LeadName
	if len(leads) == 12 {
		full = ResolveFullLead(req.FullLead, leads, req.Fallback, req.Rand)
	}
	if len(leads) == 2 {
		columns = 1
	}
	if columns <= 0 {
		return nil, &GeometryError{Reason: fmt.Sprintf("列数无效: %d", columns)}
	}

	dataRows := int(math.Ceil(float64(len(leads)) / float64(columns)))
	rows := dataRows
	if full != "" {
		rows++
	}

	window := req.PaperSeconds / float64(columns)
	geo := PaperGeometry{
		Width:         req.Paper.Width,
		Height:        req.Paper.Height,
		GridPitch:     req.GridPitch,
		Resolution:    req.Resolution,
		Padding:       req.Padding,
		Columns:       columns,
		Rows:          rows,
		DataRows:      dataRows,
		XMax:          req.Paper.Width * SecondsPerDivision / req.GridPitch,
		YMax:          req.Paper.Height * MillivoltsPerDiv / req.GridPitch,
		WindowSeconds: window,
		PaperSeconds:  req.PaperSeconds,
	}
	geo.RowHeight = geo.YMax / float64(rows+2)
	geo.XGap = math.Floor(((geo.XMax-float64(columns)*window)/2)/SecondsPerDivision+1e-9) * SecondsPerDivision
	if geo.XGap < 0 {
		return nil, &GeometryError{Reason: fmt.Sprintf("%d 列共 %.2f 秒超出纸宽 %.2f 秒", columns, float64(columns)*window, geo.XMax)}
	}

	policy := req.Policy
	if policy == nil {
		policy = ShiftedColumns(columns, window)
	}
	pulse := 0.0
	if req.CalibrationPulse {
		pulse = CalibrationSeconds
	}
	windowSamples := int(req.SampleRate * window)

	plan := &Plan{Geometry: geo, FullLead: full, SampleRate: req.SampleRate, Start: req.Start}
	for i, name := range leads {
		row, col := i/columns, i%columns
		pl := Placement{
			Lead:    name,
			Row:     row,
			Column:  col,
			Pulse:   col == 0,
			XOffset: geo.XGap + float64(col)*window,
			YOffset: geo.RowHeight/2 + float64(dataRows-row)*geo.RowHeight,
			Seconds: window,
		}
		pl.TraceX = pl.XOffset + pulse
		pl.LabelX = pl.TraceX
		pl.LabelY = pl.YOffset - LabelOffset - 0.2
		pl.SampleStart = req.Start + policy.Samples(col, req.SampleRate)
		pl.SampleEnd = pl.SampleStart + windowSamples
		pl.PixelX, pl.PixelY = geo.ToPixel(pl.TraceX, pl.YOffset)
		plan.Placements = append(plan.Placements, pl)
	}

	if full != "" {
		pl := Placement{
			Lead:        full,
			Row:         dataRows,
			Full:        true,
			Pulse:       true,
			XOffset:     geo.XGap,
			YOffset:     geo.RowHeight/2 - LabelOffset + FullLeadLift,
			TraceX:      geo.XGap + pulse,
			LabelX:      geo.XGap,
			LabelY:      geo.RowHeight/2 - LabelOffset,
			SampleStart: req.Start,
			SampleEnd:   req.Start + int(req.SampleRate*req.PaperSeconds),
			Seconds:     req.PaperSeconds,
		}
		pl.PixelX, pl.PixelY = geo.ToPixel(pl.TraceX, pl.YOffset)
		plan.Placements = append(plan.Placements, pl)
	}
	return plan, nil
}

// orderLeads 在导联集合恰好为标准 12 导联时采用 order 的顺序，否则保持原顺序。
func orderLeads(leads, order []signal.LeadName) []signal.LeadName {
	if len(leads) != 12 || len(order) != 12 {
		return append([]signal.LeadName(nil), leads...)
	}
	for _, name := range order {
		if signal.IndexOf(leads, name) < 0 {
			return append([]signal.LeadName(nil), leads...)
		}
	}
	return append([]signal.LeadName(nil), order...)
}
