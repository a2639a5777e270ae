package signal

import "fmt"

// Window 描述某个导联在记录中需要截取的样本区间 [Start, End)。
// Full 为 true 时表示节律条（整页长度）导联。
type Window struct {
	Lead  LeadName
	Start int
	End   int
	Full  bool
}

// Lead 是截取并去均值后的导联数据（单位 mV）。
type Lead struct {
	Name    LeadName
	Start   int
	End     int
	Samples []float64
}

// Frame 为一页图像所需的全部信号：按绘制顺序排列的分格导联，以及可选的节律条导联。
type Frame struct {
	Start      int
	SampleRate float64
	Leads      []Lead
	Full       *Lead
}

// Extract 按窗口列表从记录中截取信号。记录中不存在的导联会被静默跳过。
func Extract(r *Recording, start int, windows []Window) (*Frame, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	frame := &Frame{Start: start, SampleRate: r.SampleRate}
	for _, w := range windows {
		samples, ok := r.Physical(w.Lead, w.Start, w.End)
		if !ok {
			continue
		}
		center(samples)
		lead := Lead{Name: w.Lead, Start: w.Start, End: w.Start + len(samples), Samples: samples}
		if w.Full {
			l := lead
			frame.Full = &l
			continue
		}
		frame.Leads = append(frame.Leads, lead)
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	return frame, nil
}

// Validate 检查分格导联的样本数是否一致（节律条导联不受此约束）。
func (f *Frame) Validate() error {
	if len(f.Leads) == 0 {
		return nil
	}
	n := len(f.Leads[0].Samples)
	for _, l := range f.Leads[1:] {
		if len(l.Samples) != n {
			return fmt.Errorf("导联 %s 样本数 %d 与 %s 的 %d 不一致", l.Name, len(l.Samples), f.Leads[0].Name, n)
		}
	}
	return nil
}

// Lookup 查找分格导联。
func (f *Frame) Lookup(name LeadName) (Lead, bool) {
	for _, l := range f.Leads {
		if l.Name == name {
			return l, true
		}
	}
	return Lead{}, false
}

func center(xs []float64) {
	if len(xs) == 0 {
		return
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(len(xs))
	for i := range xs {
		xs[i] -= mean
	}
}
