// Package config 读取生成器的 YAML 配置并补齐默认值。
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/ecgpaper/layout"
	"github.com/ByLCY/ecgpaper/signal"
)

// Config 为一次批量生成的全部参数。
type Config struct {
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`

	Layout  LayoutConfig  `yaml:"layout"`
	Render  RenderConfig  `yaml:"render"`
	Augment AugmentConfig `yaml:"augment"`
	Creases CreaseConfig  `yaml:"creases"`
	Output  OutputConfig  `yaml:"output"`
}

// LayoutConfig 对应版面规划参数。
type LayoutConfig struct {
	Paper        string   `yaml:"paper"`  // A0..A4、letter；为空时用 width/height
	Width        string   `yaml:"width"`  // 如 "11in"、"297mm"
	Height       string   `yaml:"height"` // 同上
	Columns      int      `yaml:"columns"`
	FullMode     string   `yaml:"full_mode"`
	FullFallback string   `yaml:"full_fallback"` // first | random | none
	PaperSeconds float64  `yaml:"paper_seconds"`
	StartIndex   int      `yaml:"start_index"` // -1 表示按页遍历整条记录
	LeadOrder12  []string `yaml:"lead_order_12"`
	AlignColumns bool     `yaml:"align_columns"` // 各列取同一时间窗

	Resolution       int     `yaml:"resolution"`
	RandomResolution bool    `yaml:"random_resolution"`
	PadInches        float64 `yaml:"pad_inches"`
	RandomPadding    bool    `yaml:"random_padding"`
}

// RenderConfig 控制绘制元素。
type RenderConfig struct {
	GridColour      string   `yaml:"grid_colour"` // bw | standard | colourN | random
	RandomBW        float64  `yaml:"random_bw"`
	GridPresent     float64  `yaml:"random_grid_present"`
	CalibrationProb float64  `yaml:"random_dc"`
	PrintHeaderProb float64  `yaml:"random_print_header"`
	HeaderTemplate  []string `yaml:"header_template"`
	LabelBoxes      bool     `yaml:"label_boxes"`
	ShowLabels      *bool    `yaml:"show_labels"`
	ShowLegend      *bool    `yaml:"show_legend"`
	FontPath        string   `yaml:"font"`
	FontSizePt      float64  `yaml:"font_size"`
	LineWidthPt     float64  `yaml:"line_width"`
}

// AugmentConfig 控制成像后的几何与色彩扰动。
type AugmentConfig struct {
	Probability   float64 `yaml:"probability"`
	Rotate        int     `yaml:"rotate"` // 最大旋转角（度）
	Noise         int     `yaml:"noise"`
	Crop          float64 `yaml:"crop"`
	Temperature   float64 `yaml:"temperature"` // >0 时固定色温，否则随机冷暖
	Deterministic bool    `yaml:"deterministic"`
}

// CreaseConfig 控制折痕与褶皱。
type CreaseConfig struct {
	Probability   float64 `yaml:"probability"`
	Angle         int     `yaml:"crease_angle"`
	Vertical      int     `yaml:"num_creases_vertically"`
	Horizontal    int     `yaml:"num_creases_horizontally"`
	Deterministic bool    `yaml:"deterministic"`
	WrinkleProb   float64 `yaml:"wrinkle_probability"`
	WrinkleDir    string  `yaml:"wrinkle_dir"` // 褶皱样本纹理目录
}

// OutputConfig 控制输出内容。
type OutputConfig struct {
	Boxes         bool   `yaml:"boxes"`          // 写出 lead/text 包围盒 txt
	PlottedPixels bool   `yaml:"plotted_pixels"` // 注释中写出逐样本像素
	PDF           bool   `yaml:"pdf"`
	Ledger        string `yaml:"ledger"` // sqlite 路径，空则不记录
}

// Default 返回全部取默认值的配置。
func Default() *Config {
	c := base()
	c.applyDefaults()
	return &c
}

// LoadFile 读取 YAML 配置文件。
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置，文件中未出现的字段保留默认值。
func Parse(data []byte) (*Config, error) {
	cfg := base()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// base 为零值即合法的字段预置默认值，解析时可被显式覆盖。
func base() Config {
	var c Config
	c.Layout.StartIndex = -1
	c.Render.GridPresent = 1
	c.Augment.Rotate = 25
	c.Augment.Noise = 50
	c.Augment.Crop = 0.01
	c.Creases.Angle = 90
	c.Creases.Vertical = 10
	c.Creases.Horizontal = 10
	return c
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Layout.Columns == 0 {
		c.Layout.Columns = -1
	}
	if c.Layout.FullMode == "" {
		c.Layout.FullMode = "II"
	}
	if c.Layout.FullFallback == "" {
		c.Layout.FullFallback = string(layout.FallbackFirst)
	}
	if c.Layout.PaperSeconds <= 0 {
		c.Layout.PaperSeconds = layout.MinDuration
	}
	if c.Layout.Resolution <= 0 {
		c.Layout.Resolution = 200
	}
	if c.Render.GridColour == "" {
		c.Render.GridColour = "standard"
	}
	if c.Render.ShowLabels == nil {
		c.Render.ShowLabels = boolPtr(true)
	}
	if c.Render.ShowLegend == nil {
		c.Render.ShowLegend = boolPtr(true)
	}
}

// Validate 检查取值范围。
func (c *Config) Validate() error {
	if _, err := layout.ParseFallback(c.Layout.FullFallback); err != nil {
		return err
	}
	if c.Augment.Crop < 0 || c.Augment.Crop >= 0.5 {
		return fmt.Errorf("augment.crop 超出范围 [0, 0.5): %v", c.Augment.Crop)
	}
	for name, p := range map[string]float64{
		"render.random_bw":            c.Render.RandomBW,
		"render.random_grid_present":  c.Render.GridPresent,
		"render.random_dc":            c.Render.CalibrationProb,
		"render.random_print_header":  c.Render.PrintHeaderProb,
		"augment.probability":         c.Augment.Probability,
		"creases.probability":         c.Creases.Probability,
		"creases.wrinkle_probability": c.Creases.WrinkleProb,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s 必须位于 [0,1]: %v", name, p)
		}
	}
	if c.Creases.Angle < 0 || c.Creases.Angle > 180 {
		return fmt.Errorf("creases.crease_angle 超出范围 [0, 180]: %d", c.Creases.Angle)
	}
	if c.Creases.Vertical < 0 || c.Creases.Horizontal < 0 || c.Augment.Rotate < 0 || c.Augment.Noise < 0 {
		return fmt.Errorf("折痕条数、旋转角与噪声不能为负")
	}
	if len(c.Layout.LeadOrder12) > 0 {
		if len(c.Layout.LeadOrder12) != 12 {
			return fmt.Errorf("layout.lead_order_12 需要 12 个导联，实际 %d", len(c.Layout.LeadOrder12))
		}
		seen := map[signal.LeadName]bool{}
		for _, raw := range c.Layout.LeadOrder12 {
			name := signal.Standardize(raw)
			if !name.Valid() {
				return fmt.Errorf("layout.lead_order_12 含空导联名")
			}
			if seen[name] {
				return fmt.Errorf("layout.lead_order_12 中导联 %s 重复", name)
			}
			seen[name] = true
		}
	}
	return nil
}

// Paper 返回配置的纸张尺寸。
func (c *Config) Paper() (layout.PaperSize, error) {
	if c.Layout.Paper != "" {
		return layout.LookupPaper(c.Layout.Paper)
	}
	if c.Layout.Width != "" || c.Layout.Height != "" {
		return layout.CustomPaper(c.Layout.Width, c.Layout.Height)
	}
	return layout.DefaultPaper, nil
}

// Order12 返回 12 导联的绘制顺序。
func (c *Config) Order12() []signal.LeadName {
	if len(c.Layout.LeadOrder12) == 0 {
		return layout.CanonicalOrder12
	}
	return signal.StandardizeAll(c.Layout.LeadOrder12)
}

func boolPtr(b bool) *bool { return &b }
