package layout

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ByLCY/ecgpaper/signal"
)

// Request 汇总布局所需的输入：信号元数据与版式选项。
type Request struct {
	Leads      []signal.LeadName
	SampleRate float64
	Duration   float64 // 记录总时长（秒）
	Start      int     // 本页在记录中的起始样本

	// Columns 为 -1 时自动推断：2 导联 1 列，其余 4 列。
	Columns int
	// FullLead 为节律条导联，空串表示不绘制。
	FullLead signal.LeadName
	Fallback FullModeFallback
	// Rand 仅在 Fallback 为 FallbackRandom 时使用，为空时退化为 FallbackFirst。
	Rand *rand.Rand

	Paper        PaperSize
	Resolution   int
	Padding      float64 // 英寸
	PaperSeconds float64 // 默认 10 秒
	GridPitch    float64 // 默认 5mm

	// CalibrationPulse 控制每行第一列是否预留定标脉冲的位置。
	CalibrationPulse bool
	// Order12 为 12 导联时的绘制顺序（按行优先）。
	Order12 []signal.LeadName
	Policy  ColumnTimeOffsetPolicy
}

// CanonicalOrder12 为 12 导联 4×3 版式的默认顺序，按行优先排列。
var CanonicalOrder12 = []signal.LeadName{
	signal.LeadI, signal.LeadAVR, signal.LeadV1, signal.LeadV4,
	signal.LeadII, signal.LeadAVL, signal.LeadV2, signal.LeadV5,
	signal.LeadIII, signal.LeadAVF, signal.LeadV3, signal.LeadV6,
}

// FullModeFallback 决定节律条导联不在记录中时的替代策略。
type FullModeFallback string

const (
	FallbackFirst  FullModeFallback = "first"
	FallbackRandom FullModeFallback = "random"
	FallbackNone   FullModeFallback = "none"
)

// ParseFallback 解析配置中的替代策略，空串视为 first。
func ParseFallback(s string) (FullModeFallback, error) {
	switch f := FullModeFallback(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FallbackFirst, nil
	case FallbackFirst, FallbackRandom, FallbackNone:
		return f, nil
	default:
		return "", fmt.Errorf("未知的节律条替代策略: %q", s)
	}
}

// ResolveFullLead 返回实际使用的节律条导联。requested 为空或 "None" 时返回空串。
func ResolveFullLead(requested signal.LeadName, leads []signal.LeadName, fallback FullModeFallback, rng *rand.Rand) signal.LeadName {
	if requested == "" || strings.EqualFold(string(requested), "none") || len(leads) == 0 {
		return ""
	}
	if signal.IndexOf(leads, requested) >= 0 {
		return requested
	}
	switch fallback {
	case FallbackNone:
		return ""
	case FallbackRandom:
		if rng != nil {
			return leads[rng.IntN(len(leads))]
		}
	}
	return leads[0]
}

func (r Request) withDefaults() Request {
	if r.PaperSeconds <= 0 {
		r.PaperSeconds = MinDuration
	}
	if r.GridPitch <= 0 {
		r.GridPitch = DefaultGridPitch
	}
	if r.Paper.Width <= 0 || r.Paper.Height <= 0 {
		r.Paper = DefaultPaper
	}
	if r.Resolution <= 0 {
		r.Resolution = 200
	}
	if r.Fallback == "" {
		r.Fallback = FallbackFirst
	}
	if len(r.Order12) == 0 {
		r.Order12 = CanonicalOrder12
	}
	return r
}
