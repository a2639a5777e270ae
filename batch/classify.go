package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ByLCY/ecgpaper/header"
	"github.com/ByLCY/ecgpaper/layout"
	"github.com/ByLCY/ecgpaper/signal"
)

// Code 为失败的分类码，写入结果库。
type Code string

const (
	CodeNone     Code = ""
	CodeInput    Code = "input"
	CodeGeometry Code = "geometry"
	CodeIO       Code = "io"
	CodeCanceled Code = "canceled"
	CodeUnknown  Code = "unknown"
)

// PanicError 包装处理单条记录时恢复的 panic。
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("处理记录时发生 panic: %v", e.Value) }

// Classify 将错误映射为分类码。panic 归为 CodeUnknown。
func Classify(err error) Code {
	if err == nil {
		return CodeNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCanceled
	}
	if errors.Is(err, signal.ErrShortRecording) || errors.Is(err, header.ErrUnsupportedFormat) {
		return CodeInput
	}
	var ge *layout.GeometryError
	if errors.As(err, &ge) {
		return CodeGeometry
	}
	var pe *os.PathError
	if errors.As(err, &pe) {
		return CodeIO
	}
	return CodeUnknown
}
