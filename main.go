package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ByLCY/ecgpaper/batch"
	"github.com/ByLCY/ecgpaper/config"
	"github.com/ByLCY/ecgpaper/header"
	"github.com/ByLCY/ecgpaper/ledger"
	"github.com/ByLCY/ecgpaper/pipeline"
)

type options struct {
	input, output, configPath string
	ledgerPath, debugDir      string
	seed                      int64
	workers                   int
	pdf, jsonLog              bool
}

func main() {
	var o options
	flag.StringVar(&o.input, "in", "", "WFDB 头文件（.hea）或包含头文件的目录")
	flag.StringVar(&o.output, "out", "output", "图像与标注输出目录")
	flag.StringVar(&o.configPath, "config", "", "YAML 配置文件路径")
	flag.Int64Var(&o.seed, "seed", -1, "随机种子，覆盖配置文件（负数表示不覆盖）")
	flag.IntVar(&o.workers, "workers", 0, "并发数，覆盖配置文件（0 表示不覆盖）")
	flag.StringVar(&o.ledgerPath, "ledger", "", "批处理结果库（SQLite）路径")
	flag.StringVar(&o.debugDir, "debug", "", "布局调试 JSON 输出目录")
	flag.BoolVar(&o.pdf, "pdf", false, "同时输出矢量 PDF")
	flag.BoolVar(&o.jsonLog, "json-log", false, "以 JSON 格式输出日志")
	flag.Parse()

	if o.input == "" {
		log.Fatalf("必须指定 -in")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed, err := run(ctx, o, newLogger(o.jsonLog))
	if err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	if failed > 0 {
		fmt.Printf("完成，%d 条记录未能生成\n", failed)
		os.Exit(1)
	}
	fmt.Printf("已生成：%s\n", o.output)
}

func newLogger(jsonLog bool) *slog.Logger {
	if jsonLog {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// run 加载配置，查找记录并交给工作池。返回失败（不含跳过）的记录数。
func run(ctx context.Context, o options, logger *slog.Logger) (int, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(o.configPath); err != nil {
			return 0, err
		}
	}
	if o.seed >= 0 {
		cfg.Seed = uint64(o.seed)
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.pdf {
		cfg.Output.PDF = true
	}
	if o.ledgerPath != "" {
		cfg.Output.Ledger = o.ledgerPath
	}

	paths, err := header.FindHeaders(o.input)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("%s 中没有 .hea 文件", o.input)
	}

	genOpts := []pipeline.Option{pipeline.WithLogger(logger)}
	if o.debugDir != "" {
		if err := os.MkdirAll(o.debugDir, 0o755); err != nil {
			return 0, fmt.Errorf("创建调试目录失败: %w", err)
		}
		genOpts = append(genOpts, pipeline.WithDebugDir(o.debugDir))
	}
	gen, err := pipeline.New(cfg, genOpts...)
	if err != nil {
		return 0, err
	}

	poolOpts := []batch.Option{batch.WithWorkers(cfg.Workers), batch.WithLogger(logger)}
	if cfg.Output.Ledger != "" {
		l, err := ledger.Open(cfg.Output.Ledger)
		if err != nil {
			return 0, err
		}
		defer l.Close()
		poolOpts = append(poolOpts, batch.WithRecorder(l, time.Now().UTC().Format("20060102T150405Z")))
	}

	tasks := make([]pipeline.Task, len(paths))
	for i, p := range paths {
		tasks[i] = pipeline.Task{Index: i, HeaderPath: p, OutDir: o.output}
	}
	failed := 0
	for _, out := range batch.New(gen, poolOpts...).Run(ctx, tasks) {
		if out.Status() == ledger.StatusFailed {
			failed++
		}
	}
	return failed, nil
}
