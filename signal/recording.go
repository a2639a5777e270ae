package signal

import (
	"errors"
	"fmt"
)

// DefaultGain 为头文件未给出 ADC 增益时使用的值（WFDB 约定 200 adu/mV）。
const DefaultGain = 200.0

// ErrShortRecording 表示记录时长不足以排出一整页。
var ErrShortRecording = errors.New("recording too short")

// Recording 保存一条多导联记录的原始 ADC 数据与头信息。
// Samples[i] 与 Leads[i]、Gains[i]、Baselines[i] 一一对应。
type Recording struct {
	Name       string
	SampleRate float64
	Leads      []LeadName
	Gains      []float64
	Baselines  []float64
	Units      []string
	Samples    [][]float64
	Comments   []string
	BaseDate   string
	BaseTime   string
}

// Validate 检查各导联数组长度是否一致。
func (r *Recording) Validate() error {
	if r == nil {
		return fmt.Errorf("记录为空")
	}
	if r.SampleRate <= 0 {
		return fmt.Errorf("记录 %s 的采样率无效: %g", r.Name, r.SampleRate)
	}
	if len(r.Leads) == 0 {
		return fmt.Errorf("记录 %s 不包含任何导联", r.Name)
	}
	if len(r.Samples) != len(r.Leads) {
		return fmt.Errorf("记录 %s 的导联数(%d)与信号通道数(%d)不一致", r.Name, len(r.Leads), len(r.Samples))
	}
	return nil
}

// Len 返回各导联中最短的样本数。
func (r *Recording) Len() int {
	if r == nil || len(r.Samples) == 0 {
		return 0
	}
	n := len(r.Samples[0])
	for _, s := range r.Samples[1:] {
		if len(s) < n {
			n = len(s)
		}
	}
	return n
}

// Duration 返回记录时长（秒）。
func (r *Recording) Duration() float64 {
	if r == nil || r.SampleRate <= 0 {
		return 0
	}
	return float64(r.Len()) / r.SampleRate
}

// Physical 将 [start,end) 区间的 ADC 值换算为毫伏。区间会被裁剪到记录范围内。
func (r *Recording) Physical(name LeadName, start, end int) ([]float64, bool) {
	idx := IndexOf(r.Leads, name)
	if idx < 0 {
		return nil, false
	}
	raw := r.Samples[idx]
	if start < 0 {
		start = 0
	}
	if end > len(raw) {
		end = len(raw)
	}
	if start >= end {
		return []float64{}, true
	}
	gain := DefaultGain
	if idx < len(r.Gains) && r.Gains[idx] > 0 {
		gain = r.Gains[idx]
	}
	baseline := 0.0
	if idx < len(r.Baselines) {
		baseline = r.Baselines[idx]
	}
	out := make([]float64, end-start)
	for i, v := range raw[start:end] {
		out[i] = (v - baseline) / gain
	}
	return out, true
}

// FrameStarts 返回每一页的起始样本下标。
// startIndex >= 0 时只生成一页；否则从 0 开始按 pageSeconds 步进，直到剩余数据不足一页。
func FrameStarts(r *Recording, pageSeconds float64, startIndex int) ([]int, error) {
	if pageSeconds <= 0 {
		return nil, fmt.Errorf("页长必须为正数: %g", pageSeconds)
	}
	step := int(r.SampleRate * pageSeconds)
	if step <= 0 {
		return nil, fmt.Errorf("记录 %s 的页长换算为 0 个样本", r.Name)
	}
	total := r.Len()
	if startIndex >= 0 {
		if total-startIndex < step {
			return nil, fmt.Errorf("记录 %s 自样本 %d 起不足 %g 秒: %w", r.Name, startIndex, pageSeconds, ErrShortRecording)
		}
		return []int{startIndex}, nil
	}
	var starts []int
	for start := 0; total-start >= step; start += step {
		starts = append(starts, start)
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("记录 %s 仅 %.2f 秒: %w", r.Name, r.Duration(), ErrShortRecording)
	}
	return starts, nil
}
