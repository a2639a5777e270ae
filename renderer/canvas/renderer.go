package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/ecgpaper/fonts"
	"github.com/ByLCY/ecgpaper/layout"
	"github.com/ByLCY/ecgpaper/provenance"
	"github.com/ByLCY/ecgpaper/renderer"
)

// Renderer 基于 github.com/tdewolff/canvas 实现 renderer.Surface。
// 对外坐标为像素，内部按 dpmm 换算为毫米绘制，栅格化时再按同一 dpmm 还原为像素。
type Renderer struct {
	c    *canvas.Canvas
	ctx  *canvas.Context
	dpmm float64

	fontPath string

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var _ renderer.Surface = (*Renderer)(nil)

// Options 配置画布。
type Options struct {
	Width      int // 像素
	Height     int // 像素
	Resolution int // dpi
	// FontPath 指定标签字体文件；为空或读取失败时使用内置字体。
	FontPath string
}

// New 创建给定像素尺寸的画布。
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Resolution <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %dx%d@%ddpi", opts.Width, opts.Height, opts.Resolution)
	}
	dpmm := float64(opts.Resolution) / 25.4
	c := canvas.New(float64(opts.Width)/dpmm, float64(opts.Height)/dpmm)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与图像保持左上角为原点
	return &Renderer{
		c:        c,
		ctx:      ctx,
		dpmm:     dpmm,
		fontPath: opts.FontPath,
		families: map[string]*canvas.FontFamily{},
	}, nil
}

// Fill 用纯色填充整张画布。
func (r *Renderer) Fill(col color.Color) {
	r.ctx.SetStrokeColor(canvas.Transparent)
	r.ctx.SetFillColor(col)
	r.ctx.DrawPath(0, 0, canvas.Rectangle(r.c.W, r.c.H))
}

// Line 绘制一条直线（网格线），不返回范围。
func (r *Renderer) Line(x1, y1, x2, y2 float64, st renderer.Stroke) {
	p := &canvas.Path{}
	p.MoveTo(r.mm(x1), r.mm(y1))
	p.LineTo(r.mm(x2), r.mm(y2))
	r.ctx.SetFillColor(canvas.Transparent)
	r.ctx.SetStrokeColor(st.Color)
	r.ctx.SetStrokeWidth(r.mm(st.Width))
	r.ctx.SetStrokeCapper(canvas.ButtCap)
	r.ctx.DrawPath(0, 0, p)
}

// Polyline 以圆头圆角绘制折线，返回描边后的真实外轮廓范围。
func (r *Renderer) Polyline(pts []provenance.Point, st renderer.Stroke) renderer.Drawable {
	if len(pts) == 0 {
		return renderer.BoxDrawable{}
	}
	p := &canvas.Path{}
	p.MoveTo(r.mm(pts[0].X), r.mm(pts[0].Y))
	for _, pt := range pts[1:] {
		p.LineTo(r.mm(pt.X), r.mm(pt.Y))
	}
	width := r.mm(st.Width)
	r.ctx.SetFillColor(canvas.Transparent)
	r.ctx.SetStrokeColor(st.Color)
	r.ctx.SetStrokeWidth(width)
	r.ctx.SetStrokeCapper(canvas.RoundCap)
	r.ctx.SetStrokeJoiner(canvas.RoundJoin)
	r.ctx.DrawPath(0, 0, p)

	b := p.Stroke(width, canvas.RoundCap, canvas.RoundJoin, canvas.Tolerance).Bounds()
	return renderer.BoxDrawable(provenance.BoxFromRect(b.X0*r.dpmm, b.Y0*r.dpmm, b.X1*r.dpmm, b.Y1*r.dpmm))
}

// Text 以左对齐方式在基线处绘制单行文本，返回字形实际占据的范围。
func (r *Renderer) Text(x, baseline float64, s string, st renderer.TextStyle) (renderer.Drawable, error) {
	name := fonts.Regular
	if st.Mono {
		name = fonts.Mono
	}
	family, err := r.ensureFontFamily(name)
	if err != nil {
		return nil, err
	}
	// 字号：像素 → mm → pt
	face := family.Face(r.mm(st.Size)*layout.MmToPt, st.Color, canvas.FontRegular, canvas.FontNormal)
	text := canvas.NewTextLine(face, s, canvas.Left)
	xm, ym := r.mm(x), r.mm(baseline)
	r.ctx.DrawText(xm, ym, text)

	// 取字形轮廓范围；纯空白文本没有轮廓，退回排版框。
	// 文本内部坐标 y 轴向上，这里翻转到画布的 y 向下坐标。
	b := text.OutlineBounds()
	if b.X1 <= b.X0 || b.Y1 <= b.Y0 {
		b = text.Bounds()
	}
	box := provenance.BoxFromRect(
		(xm+b.X0)*r.dpmm, (ym-b.Y1)*r.dpmm,
		(xm+b.X1)*r.dpmm, (ym-b.Y0)*r.dpmm,
	)
	return renderer.BoxDrawable(box), nil
}

// Rasterize 以创建时的分辨率栅格化画布。
func (r *Renderer) Rasterize() *image.RGBA {
	return rasterizer.Draw(r.c, canvas.DPMM(r.dpmm), canvas.DefaultColorSpace)
}

// PDF 将画布导出为单页 PDF。
func (r *Renderer) PDF(title string) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, r.c.W, r.c.H, nil)
	writer.SetInfo(title, "", "", "", "ecgpaper")
	r.c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) mm(px float64) float64 { return px / r.dpmm }

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[name]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily("ecgpaper-" + name)
	if err := r.loadFontIntoFamily(family, name); err != nil {
		return nil, err
	}
	r.families[name] = family
	return family, nil
}

// loadFontIntoFamily 优先使用配置的字体文件，失败时退回内置字体。
func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, name string) error {
	if r.fontPath != "" && name == fonts.Regular {
		if data, err := os.ReadFile(r.fontPath); err == nil {
			if err := family.LoadFont(data, 0, canvas.FontRegular); err == nil {
				return nil
			}
		}
	}
	data, err := fonts.Load(name)
	if err != nil {
		return err
	}
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	return nil
}
