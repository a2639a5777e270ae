package layout

import (
	"fmt"

	"github.com/ByLCY/ecgpaper/signal"
)

// InsufficientDurationError 表示记录时长不足一页。该错误可与 signal.ErrShortRecording 匹配。
type InsufficientDurationError struct {
	Duration float64
	Required float64
}

func (e *InsufficientDurationError) Error() string {
	return fmt.Sprintf("记录时长 %.2f 秒，不足 %.2f 秒", e.Duration, e.Required)
}

func (e *InsufficientDurationError) Unwrap() error { return signal.ErrShortRecording }

// GeometryError 表示无法在纸面上排布导联。
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string { return "布局失败: " + e.Reason }
