// Package batch 以有界并发批量处理记录，逐条隔离失败。
package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/ByLCY/ecgpaper/ledger"
	"github.com/ByLCY/ecgpaper/pipeline"
)

// Runner 处理单条记录，*pipeline.Generator 即实现。
type Runner interface {
	Run(ctx context.Context, task pipeline.Task) (*pipeline.Result, error)
}

// Recorder 保存每条记录的处理结果，*ledger.Ledger 即实现。
type Recorder interface {
	Add(e ledger.Entry) error
}

// Outcome 为一条记录的处理结果。
type Outcome struct {
	Task     pipeline.Task
	Result   *pipeline.Result
	Err      error
	Code     Code
	Duration time.Duration
}

// Status 返回写入结果库的状态。输入类错误视为跳过。
func (o Outcome) Status() ledger.Status {
	switch {
	case o.Err == nil:
		return ledger.StatusDone
	case o.Code == CodeInput:
		return ledger.StatusSkipped
	default:
		return ledger.StatusFailed
	}
}

// Pool 为有界的工作池。
type Pool struct {
	runner   Runner
	workers  int
	logger   *slog.Logger
	recorder Recorder
	runID    string
}

// Option 配置 Pool。
type Option func(*Pool)

// WithWorkers 设置并发数，小于 1 时取 runtime.NumCPU()。
func WithWorkers(n int) Option {
	return func(p *Pool) { p.workers = n }
}

// WithLogger 指定日志输出。
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// WithRecorder 把每条结果写入 r，runID 区分不同批次。
func WithRecorder(r Recorder, runID string) Option {
	return func(p *Pool) {
		p.recorder = r
		p.runID = runID
	}
}

// New 创建工作池。
func New(runner Runner, opts ...Option) *Pool {
	p := &Pool{runner: runner, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(p)
	}
	if p.workers < 1 {
		p.workers = runtime.NumCPU()
	}
	return p
}

// Run 处理全部任务，按完成顺序返回结果。单条失败不影响其他任务，不重试。
// ctx 取消后尚未开始的任务以 CodeCanceled 结束。
func (p *Pool) Run(ctx context.Context, tasks []pipeline.Task) []Outcome {
	out := make(chan Outcome, len(tasks))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	p.logger.Info("batch starting", "tasks", len(tasks), "workers", p.workers)
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			out <- Outcome{Task: task, Err: ctx.Err(), Code: CodeCanceled}
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(task pipeline.Task) {
			defer wg.Done()
			defer func() { <-sem }()
			out <- p.process(ctx, task)
		}(task)
	}
	wg.Wait()
	close(out)

	results := make([]Outcome, 0, len(tasks))
	counts := map[ledger.Status]int{}
	for o := range out {
		counts[o.Status()]++
		p.record(o)
		results = append(results, o)
	}
	p.logger.Info("batch finished",
		"done", counts[ledger.StatusDone],
		"skipped", counts[ledger.StatusSkipped],
		"failed", counts[ledger.StatusFailed],
	)
	return results
}

func (p *Pool) process(ctx context.Context, task pipeline.Task) Outcome {
	start := time.Now()
	res, err := p.safeRun(ctx, task)
	o := Outcome{Task: task, Result: res, Err: err, Code: Classify(err), Duration: time.Since(start)}
	switch {
	case err == nil:
		p.logger.Info("record processed", "path", task.HeaderPath, "pages", res.Pages, "duration", o.Duration)
	case o.Code == CodeInput:
		p.logger.Warn("record skipped", "path", task.HeaderPath, "error", err)
	default:
		p.logger.Error("record failed", "path", task.HeaderPath, "code", string(o.Code), "error", err)
	}
	return o
}

// safeRun 把 Runner 中的 panic 转为 *PanicError，避免波及其他任务。
func (p *Pool) safeRun(ctx context.Context, task pipeline.Task) (res *pipeline.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("record panic recovered",
				"path", task.HeaderPath,
				"panic", r,
				"stack", string(debug.Stack()))
			res, err = nil, &PanicError{Value: r}
		}
	}()
	return p.runner.Run(ctx, task)
}

func (p *Pool) record(o Outcome) {
	if p.recorder == nil {
		return
	}
	e := ledger.Entry{
		RunID:    p.runID,
		Path:     o.Task.HeaderPath,
		Status:   o.Status(),
		Code:     string(o.Code),
		Duration: o.Duration,
	}
	if o.Result != nil {
		e.Record = o.Result.Record
		e.Pages = o.Result.Pages
		e.OutOfFrame = o.Result.OutOfFrame
	}
	if e.Record == "" {
		e.Record = recordName(o.Task.HeaderPath)
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	if err := p.recorder.Add(e); err != nil {
		p.logger.Error("ledger write failed", "path", o.Task.HeaderPath, "error", err)
	}
}

func recordName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
