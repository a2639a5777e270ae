package provenance

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// Dimension 为带单位的尺寸，单位固定为 px。
type Dimension struct {
	Val  int    `json:"val"`
	Unit string `json:"unit"`
}

// Corners 以 "0".."3" 为键内联到包围盒条目中（左下、右下、右上、左上）。
type Corners struct {
	BL [2]int `json:"0"`
	BR [2]int `json:"1"`
	TR [2]int `json:"2"`
	TL [2]int `json:"3"`
}

// TextBox 是注释文件中的文本包围盒。
type TextBox struct {
	Corners
	LeadName string `json:"lead_name"`
	Kind     Kind   `json:"kind,omitempty"`
	Order    int    `json:"order"`
}

// LeadBox 是注释文件中的波形包围盒。
type LeadBox struct {
	Corners
	LeadName      string       `json:"lead_name"`
	StartSample   int          `json:"start_sample"`
	EndSample     int          `json:"end_sample"`
	PlottedPixels [][2]float64 `json:"plotted_pixels,omitempty"`
	Order         int          `json:"order"`
}

// Params 记录生成该图像时使用的参数，便于复现。
type Params struct {
	Seed             uint64  `json:"seed"`
	Resolution       int     `json:"resolution"`
	PadInches        float64 `json:"pad_inches"`
	Columns          int     `json:"columns"`
	FullMode         string  `json:"full_mode,omitempty"`
	GridColour       string  `json:"grid_colour,omitempty"`
	CalibrationPulse bool    `json:"calibration_pulse"`
	PrintHeader      bool    `json:"print_header"`
	Rotate           float64 `json:"rotate,omitempty"`
	Crop             float64 `json:"crop,omitempty"`
	Noise            float64 `json:"noise,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
	CreaseAngle      float64 `json:"crease_angle,omitempty"`
	CreasesVertical  int     `json:"num_creases_vertically,omitempty"`
	CreasesHoriz     int     `json:"num_creases_horizontally,omitempty"`
	Wrinkles         bool    `json:"wrinkles,omitempty"`
	OutOfFrame       int     `json:"out_of_frame_points,omitempty"`
}

// Annotation 为每张图像的 JSON 注释文件。
type Annotation struct {
	Width     Dimension `json:"width"`
	Height    Dimension `json:"height"`
	XGrid     float64   `json:"x_grid"`
	YGrid     float64   `json:"y_grid"`
	TextBoxes []TextBox `json:"text_bounding_box"`
	LeadBoxes []LeadBox `json:"lead_bounding_box"`
	Params    *Params   `json:"params,omitempty"`
}

// NewAnnotation 由溯源记录构造注释。withPixels 控制是否写出逐样本像素轨迹。
func NewAnnotation(width, height int, xGrid, yGrid float64, records []Record, withPixels bool) *Annotation {
	a := &Annotation{
		Width:     Dimension{Val: width, Unit: "px"},
		Height:    Dimension{Val: height, Unit: "px"},
		XGrid:     xGrid,
		YGrid:     yGrid,
		TextBoxes: []TextBox{},
		LeadBoxes: []LeadBox{},
	}
	for i, r := range records {
		switch r.Kind {
		case KindWaveform:
			lb := LeadBox{Corners: toCorners(r.Box), LeadName: r.Label, StartSample: r.StartSample, EndSample: r.EndSample, Order: i}
			if withPixels {
				lb.PlottedPixels = make([][2]float64, len(r.Points))
				for i, p := range r.Points {
					lb.PlottedPixels[i] = [2]float64{round2(p.X), round2(p.Y)}
				}
			}
			a.LeadBoxes = append(a.LeadBoxes, lb)
		default:
			a.TextBoxes = append(a.TextBoxes, TextBox{Corners: toCorners(r.Box), LeadName: r.Label, Kind: r.Kind, Order: i})
		}
	}
	return a
}

// Records 将注释还原为溯源记录，供几何变换重新投影。
// 记录按 order 恢复为绘制顺序；缺少 order 的旧文件为波形在前、文本在后。
func (a *Annotation) Records() []Record {
	out := make([]Record, 0, len(a.TextBoxes)+len(a.LeadBoxes))
	order := make([]int, 0, cap(out))
	for _, lb := range a.LeadBoxes {
		r := Record{Kind: KindWaveform, Label: lb.LeadName, Box: fromCorners(lb.Corners), StartSample: lb.StartSample, EndSample: lb.EndSample}
		for _, p := range lb.PlottedPixels {
			r.Points = append(r.Points, Point{X: p[0], Y: p[1]})
		}
		out = append(out, r)
		order = append(order, lb.Order)
	}
	for _, tb := range a.TextBoxes {
		kind := tb.Kind
		if kind == "" {
			kind = KindLabel
		}
		out = append(out, Record{Kind: kind, Label: tb.LeadName, Box: fromCorners(tb.Corners)})
		order = append(order, tb.Order)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return order[idx[i]] < order[idx[j]] })
	sorted := make([]Record, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// WriteFile 将注释写为缩进 JSON。
func (a *Annotation) WriteFile(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化注释失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入注释 %s 失败: %w", path, err)
	}
	return nil
}

// ReadAnnotation 读取注释文件。
func ReadAnnotation(path string) (*Annotation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取注释 %s 失败: %w", path, err)
	}
	var a Annotation
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("解析注释 %s 失败: %w", path, err)
	}
	return &a, nil
}

func toCorners(b BoundingBox) Corners {
	pt := func(p Point) [2]int { return [2]int{int(math.Round(p.X)), int(math.Round(p.Y))} }
	return Corners{BL: pt(b[BottomLeft]), BR: pt(b[BottomRight]), TR: pt(b[TopRight]), TL: pt(b[TopLeft])}
}

func fromCorners(c Corners) BoundingBox {
	pt := func(p [2]int) Point { return Point{X: float64(p[0]), Y: float64(p[1])} }
	return BoundingBox{BottomLeft: pt(c.BL), BottomRight: pt(c.BR), TopRight: pt(c.TR), TopLeft: pt(c.TL)}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
