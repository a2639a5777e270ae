package pipeline

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/ByLCY/ecgpaper/augment"
	"github.com/ByLCY/ecgpaper/binding"
	"github.com/ByLCY/ecgpaper/config"
	"github.com/ByLCY/ecgpaper/creases"
	"github.com/ByLCY/ecgpaper/header"
	"github.com/ByLCY/ecgpaper/layout"
	"github.com/ByLCY/ecgpaper/provenance"
	"github.com/ByLCY/ecgpaper/renderer"
	canvasrenderer "github.com/ByLCY/ecgpaper/renderer/canvas"
	"github.com/ByLCY/ecgpaper/signal"
	"github.com/ByLCY/ecgpaper/texture"
	"github.com/ByLCY/ecgpaper/transform"
)

// Generator 把一条记录渲染为若干页纸质心电图。可被多个 goroutine 并发使用。
type Generator struct {
	cfg      *config.Config
	logger   *slog.Logger
	wrinkles []*texture.Image
	debugDir string
}

// Option 配置 Generator。
type Option func(*Generator)

// WithLogger 指定日志输出。
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithDebugDir 在该目录下为每页写出布局调试 JSON。
func WithDebugDir(dir string) Option {
	return func(g *Generator) { g.debugDir = dir }
}

// WithWrinkleTextures 直接提供褶皱样本纹理（替代 wrinkle_dir）。
func WithWrinkleTextures(tex ...*texture.Image) Option {
	return func(g *Generator) { g.wrinkles = append(g.wrinkles, tex...) }
}

// New 创建生成器，并加载配置中的褶皱样本纹理。
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Generator{cfg: cfg, logger: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(g)
	}
	if cfg.Creases.WrinkleDir != "" {
		tex, err := LoadTextures(cfg.Creases.WrinkleDir)
		if err != nil {
			return nil, err
		}
		g.wrinkles = append(g.wrinkles, tex...)
	}
	return g, nil
}

// Page 为一页生成结果。
type Page struct {
	Name       string
	Image      *image.RGBA
	Records    []provenance.Record
	Annotation *provenance.Annotation
	Plan       *layout.Plan
	Params     Params
	PDF        []byte
}

// Task 为一条待处理记录。
type Task struct {
	Index      int
	HeaderPath string
	OutDir     string
}

// Result 汇总一条记录的输出。
type Result struct {
	Record     string
	Files      []string
	Pages      int
	OutOfFrame int
}

// RNG 返回任务专属的随机源，由全局种子与任务序号共同决定。
func RNG(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(index)))
}

// Run 读取记录并生成全部页面，写入 task.OutDir。
func (g *Generator) Run(ctx context.Context, task Task) (*Result, error) {
	h, rec, err := header.Load(task.HeaderPath)
	if err != nil {
		return nil, err
	}
	starts, err := signal.FrameStarts(rec, g.cfg.Layout.PaperSeconds, g.cfg.Layout.StartIndex)
	if err != nil {
		return nil, err
	}
	rng := RNG(g.cfg.Seed, task.Index)
	res := &Result{Record: rec.Name}
	for i, start := range starts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		name := fmt.Sprintf("%s-%d", rec.Name, i)
		page, err := g.Render(rec, h.Attributes(), start, name, rng)
		if err != nil {
			return res, fmt.Errorf("%s: %w", name, err)
		}
		files, err := g.Write(page, task.OutDir)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, files...)
		res.Pages++
		res.OutOfFrame += page.Annotation.Params.OutOfFrame
		g.logger.Info("page generated",
			"record", rec.Name,
			"page", i,
			"start", start,
			"width", page.Image.Bounds().Dx(),
			"height", page.Image.Bounds().Dy(),
			"records", len(page.Records),
			"out_of_frame", page.Annotation.Params.OutOfFrame,
		)
	}
	return res, nil
}

// Render 生成一页：布局、绘制、折痕与褶皱、几何畸变、噪声与色温，并同步更新溯源记录。
func (g *Generator) Render(rec *signal.Recording, attrs map[string]string, start int, name string, rng *rand.Rand) (*Page, error) {
	cfg := g.cfg
	params, err := Sample(cfg, len(g.wrinkles), rng)
	if err != nil {
		return nil, err
	}
	paper, err := cfg.Paper()
	if err != nil {
		return nil, err
	}
	fallback, err := layout.ParseFallback(cfg.Layout.FullFallback)
	if err != nil {
		return nil, err
	}
	req := layout.Request{
		Leads:            rec.Leads,
		SampleRate:       rec.SampleRate,
		Duration:         float64(rec.Len()-start) / rec.SampleRate,
		Start:            start,
		Columns:          cfg.Layout.Columns,
		FullLead:         signal.Standardize(cfg.Layout.FullMode),
		Fallback:         fallback,
		Rand:             rng,
		Paper:            paper,
		Resolution:       params.Resolution,
		Padding:          params.Padding,
		PaperSeconds:     cfg.Layout.PaperSeconds,
		CalibrationPulse: params.CalibrationPulse,
		Order12:          cfg.Order12(),
	}
	if cfg.Layout.AlignColumns {
		cols := req.Columns
		if cols <= 0 {
			cols = layout.InferColumns(len(rec.Leads))
		}
		req.Policy = layout.AlignedColumns(cols)
	}
	plan, err := layout.Build(req)
	if err != nil {
		return nil, err
	}
	if g.debugDir != "" {
		if err := layout.WriteDebugJSON(plan, filepath.Join(g.debugDir, name+".plan.json")); err != nil {
			return nil, err
		}
	}
	frame, err := signal.Extract(rec, start, plan.Windows())
	if err != nil {
		return nil, err
	}

	w, h := plan.Geometry.ImageSize()
	surface, err := canvasrenderer.New(canvasrenderer.Options{
		Width:      w,
		Height:     h,
		Resolution: params.Resolution,
		FontPath:   cfg.Render.FontPath,
	})
	if err != nil {
		return nil, err
	}
	opts := renderer.Options{
		Palette:          params.Palette,
		ShowGrid:         params.ShowGrid,
		ShowLabels:       *cfg.Render.ShowLabels,
		LabelBoxes:       cfg.Render.LabelBoxes,
		CalibrationPulse: params.CalibrationPulse,
		ShowLegend:       *cfg.Render.ShowLegend,
		FontSizePt:       cfg.Render.FontSizePt,
		LineWidthPt:      cfg.Render.LineWidthPt,
	}
	if params.PrintHeader {
		opts.Header = binding.HeaderLines(cfg.Render.HeaderTemplate, attrs, rng)
	}
	tracker := provenance.NewTracker()
	if err := renderer.Draw(plan, frame, opts, surface, tracker); err != nil {
		return nil, err
	}

	page := &Page{Name: name, Plan: plan, Params: params}
	if cfg.Output.PDF {
		pdf, err := surface.PDF(name)
		if err != nil {
			return nil, err
		}
		page.PDF = pdf
	}

	img := surface.Rasterize()
	records := tracker.All()
	if params.Creases {
		if img, err = creases.Apply(img, params.CreaseOpts); err != nil {
			return nil, fmt.Errorf("绘制折痕失败: %w", err)
		}
	}
	if params.Wrinkles {
		tex, err := creases.WrinkleTexture(g.wrinkles[params.WrinkleIndex], rng)
		if err != nil {
			return nil, fmt.Errorf("生成褶皱纹理失败: %w", err)
		}
		if img, err = creases.ApplyWrinkles(img, tex); err != nil {
			return nil, err
		}
	}
	outOfFrame := 0
	if params.Augment {
		tr, err := transform.Apply(img, records, params.Transform)
		if err != nil {
			return nil, fmt.Errorf("几何畸变失败: %w", err)
		}
		img, records, outOfFrame = tr.Image, tr.Records, tr.OutOfFrame
		img = augment.Noise(img, params.Noise, rng)
		img = augment.Temperature(img, params.Temperature)
	}

	dots := plan.Geometry.DotsPerDivision()
	ann := provenance.NewAnnotation(img.Bounds().Dx(), img.Bounds().Dy(), dots, dots, records, cfg.Output.PlottedPixels)
	ann.Params = &provenance.Params{
		Seed:             cfg.Seed,
		Resolution:       params.Resolution,
		PadInches:        params.Padding,
		Columns:          plan.Geometry.Columns,
		FullMode:         string(plan.FullLead),
		GridColour:       params.Palette.Name,
		CalibrationPulse: params.CalibrationPulse,
		PrintHeader:      params.PrintHeader,
		Rotate:           params.Transform.Angle,
		Crop:             params.Transform.Crop,
		Noise:            params.Noise,
		Temperature:      params.Temperature,
		Wrinkles:         params.Wrinkles,
		OutOfFrame:       outOfFrame,
	}
	if params.Creases {
		ann.Params.CreaseAngle = float64(params.CreaseOpts.Angle)
		ann.Params.CreasesVertical = params.CreaseOpts.Vertical
		ann.Params.CreasesHoriz = params.CreaseOpts.Horizontal
	}
	page.Image = img
	page.Records = records
	page.Annotation = ann
	return page, nil
}

// LoadTextures 读取目录下全部可解码的图像（png、jpeg、bmp、tiff），按文件名排序。
func LoadTextures(dir string) ([]*texture.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取纹理目录 %s 失败: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var out []*texture.Image
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("读取纹理 %s 失败: %w", path, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			continue
		}
		out = append(out, texture.FromImage(img))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("纹理目录 %s 中没有可用图像", dir)
	}
	return out, nil
}
