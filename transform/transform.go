package transform

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"

	"github.com/ByLCY/ecgpaper/provenance"
)

// Options 描述几何畸变参数。
type Options struct {
	// Angle 为旋转角（度），正值为屏幕上的逆时针方向。
	Angle float64
	// Crop 为每条边裁去的比例，取值 [0, 0.5)。
	Crop float64
	// Fill 为旋转后露出区域的填充色，零值为黑色。
	Fill color.RGBA
}

// Result 为畸变后的图像与同步重投影后的溯源记录。
type Result struct {
	Image   *image.RGBA
	Records []provenance.Record
	// Offset 为裁剪掉的左、上边距（像素）。
	Offset image.Point
	// OutOfFrame 为重投影后落在图像外的点数（包围盒角点与轨迹点）。
	OutOfFrame int
}

// Center 返回旋转中心：宽高各取一半（整数）。
func Center(w, h int) image.Point {
	return image.Point{X: w / 2, Y: h / 2}
}

// Affine 返回绕 center 旋转 angle 度的 2×3 仿射矩阵，与 OpenCV 的 getRotationMatrix2D 一致。
func Affine(angle float64, center image.Point) *mat.Dense {
	r := angle * math.Pi / 180
	c, s := math.Cos(r), math.Sin(r)
	cx, cy := float64(center.X), float64(center.Y)
	return mat.NewDense(2, 3, []float64{
		c, s, (1-c)*cx - s*cy,
		-s, c, s*cx + (1-c)*cy,
	})
}

// Project 用 2×3 仿射矩阵变换一组点。
func Project(m *mat.Dense, pts []provenance.Point) []provenance.Point {
	if len(pts) == 0 {
		return nil
	}
	hom := mat.NewDense(3, len(pts), nil)
	for i, p := range pts {
		hom.Set(0, i, p.X)
		hom.Set(1, i, p.Y)
		hom.Set(2, i, 1)
	}
	var res mat.Dense
	res.Mul(m, hom)
	out := make([]provenance.Point, len(pts))
	for i := range out {
		out[i] = provenance.Point{X: res.At(0, i), Y: res.At(1, i)}
	}
	return out
}

// CropMargins 返回按比例裁剪时左右与上下各自裁去的像素数。
func CropMargins(w, h int, frac float64) (dx, dy int) {
	return int(math.Round(frac * float64(w))), int(math.Round(frac * float64(h)))
}

// Apply 旋转并裁剪图像，同时用同一个旋转中心与角度重投影全部记录，
// 再减去裁剪偏移。记录中落到画面外的点保留原值并计数。
func Apply(img *image.RGBA, records []provenance.Record, opts Options) (*Result, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("图像为空")
	}
	if opts.Crop < 0 || opts.Crop >= 0.5 {
		return nil, fmt.Errorf("裁剪比例无效: %v", opts.Crop)
	}
	dx, dy := CropMargins(w, h, opts.Crop)
	outW, outH := w-2*dx, h-2*dy
	if outW <= 0 || outH <= 0 {
		return nil, fmt.Errorf("裁剪后图像为空: %dx%d", outW, outH)
	}

	raster, err := warp(img, opts, image.Rect(dx, dy, dx+outW, dy+outH))
	if err != nil {
		return nil, err
	}

	m := Affine(opts.Angle, Center(w, h))
	res := &Result{Image: raster, Offset: image.Point{X: dx, Y: dy}}
	res.Records = make([]provenance.Record, len(records))
	for i, r := range records {
		r = r.Clone()
		pts := make([]provenance.Point, 0, 4+len(r.Points))
		pts = append(pts, r.Box[:]...)
		pts = append(pts, r.Points...)
		pts = Project(m, pts)
		for k := range pts {
			pts[k].X -= float64(dx)
			pts[k].Y -= float64(dy)
			if pts[k].X < 0 || pts[k].Y < 0 || pts[k].X >= float64(outW) || pts[k].Y >= float64(outH) {
				res.OutOfFrame++
			}
		}
		copy(r.Box[:], pts[:4])
		if len(r.Points) > 0 {
			r.Points = pts[4:]
		}
		res.Records[i] = r
	}
	return res, nil
}

// warp 用 OpenCV 旋转图像并截取 crop 区域。
func warp(img *image.RGBA, opts Options, crop image.Rectangle) (*image.RGBA, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		pix = append(pix, img.Pix[off:off+w*4]...)
	}
	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, pix)
	if err != nil {
		return nil, fmt.Errorf("转换图像失败: %w", err)
	}
	defer src.Close()
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(src, &bgr, gocv.ColorRGBAToBGR)

	rotated := gocv.NewMat()
	defer rotated.Close()
	if opts.Angle != 0 {
		rot := gocv.GetRotationMatrix2D(Center(w, h), opts.Angle, 1.0)
		defer rot.Close()
		gocv.WarpAffineWithParams(bgr, &rotated, rot, image.Point{X: w, Y: h},
			gocv.InterpolationLinear, gocv.BorderConstant, opts.Fill)
	} else {
		bgr.CopyTo(&rotated)
	}

	region := rotated.Region(crop)
	defer region.Close()
	cropped := region.Clone()
	defer cropped.Close()

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(cropped, &rgba, gocv.ColorBGRToRGBA)
	data := rgba.ToBytes()
	if len(data) != crop.Dx()*crop.Dy()*4 {
		return nil, fmt.Errorf("读取图像数据失败: 期望 %d 字节，实际 %d", crop.Dx()*crop.Dy()*4, len(data))
	}
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	copy(out.Pix, data)
	return out, nil
}
