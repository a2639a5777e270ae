package texture

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Overlap 返回块边长 block 对应的重叠宽度（block/6）。
func Overlap(block int) int {
	return block / 6
}

// OutputSize 返回 n 个块拼接后的边长。
func OutputSize(block, n int) int {
	return n*block - (n-1)*Overlap(block)
}

// Quilt 以 block×block 的块对 src 做图像缝合，生成 blocksHigh×blocksWide 个块的纹理。
// 块按光栅顺序放置：每块在 src 中穷举搜索重叠区平方误差最小的候选，
// 再沿最小代价接缝与已有内容拼合。rng 非空时第一块随机取样，否则取左上角。
func Quilt(src *Image, block, blocksHigh, blocksWide int, rng *rand.Rand) (*Image, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	if block <= 0 || blocksHigh <= 0 || blocksWide <= 0 {
		return nil, fmt.Errorf("块参数无效: block=%d, 块数=%dx%d", block, blocksHigh, blocksWide)
	}
	if src.W < block || src.H < block {
		return nil, fmt.Errorf("纹理 %dx%d 小于块尺寸 %d", src.W, src.H, block)
	}
	overlap := Overlap(block)
	out := New(OutputSize(block, blocksWide), OutputSize(block, blocksHigh), src.C)

	for i := 0; i < blocksHigh; i++ {
		for j := 0; j < blocksWide; j++ {
			y := i * (block - overlap)
			x := j * (block - overlap)
			var patch *Image
			if i == 0 && j == 0 {
				patch = firstPatch(src, block, rng)
			} else {
				patch = bestPatch(src, block, overlap, out, y, x)
				patch = cutPatch(patch, overlap, out, y, x)
			}
			out.paste(patch, x, y)
		}
	}
	return out, nil
}

func firstPatch(src *Image, block int, rng *rand.Rand) *Image {
	if rng == nil {
		return src.sub(0, 0, block, block)
	}
	px := rng.IntN(src.W - block + 1)
	py := rng.IntN(src.H - block + 1)
	return src.sub(px, py, block, block)
}

// overlapError 计算候选块 (px,py) 放在输出 (x,y) 处时重叠区的平方误差，
// 左侧与上方重叠相加，再减去两者共同覆盖的角块。
func overlapError(src *Image, px, py, block, overlap int, out *Image, x, y int) float64 {
	var e float64
	if x > 0 {
		e += regionSSD(src, px, py, out, x, y, overlap, block)
	}
	if y > 0 {
		e += regionSSD(src, px, py, out, x, y, block, overlap)
	}
	if x > 0 && y > 0 {
		e -= regionSSD(src, px, py, out, x, y, overlap, overlap)
	}
	return e
}

func regionSSD(src *Image, px, py int, out *Image, x, y, w, h int) float64 {
	var sum float64
	for r := 0; r < h; r++ {
		si := src.offset(px, py+r)
		oi := out.offset(x, y+r)
		for k := 0; k < w*src.C; k++ {
			d := src.Pix[si+k] - out.Pix[oi+k]
			sum += d * d
		}
	}
	return sum
}

// bestPatch 穷举 src 中所有候选位置，误差相同时取扫描顺序中的第一个。
func bestPatch(src *Image, block, overlap int, out *Image, y, x int) *Image {
	best := math.Inf(1)
	bx, by := 0, 0
	for py := 0; py+block <= src.H; py++ {
		for px := 0; px+block <= src.W; px++ {
			e := overlapError(src, px, py, block, overlap, out, x, y)
			if e < best {
				best, bx, by = e, px, py
			}
		}
	}
	return src.sub(bx, by, block, block)
}

// cutPatch 沿左侧与上方重叠区的最小代价接缝，把接缝外侧替换为已有输出。
func cutPatch(patch *Image, overlap int, out *Image, y, x int) *Image {
	patch = &Image{W: patch.W, H: patch.H, C: patch.C, Pix: append([]float64(nil), patch.Pix...)}
	keep := make([][]bool, patch.H)
	for i := range keep {
		keep[i] = make([]bool, patch.W)
	}
	if x > 0 && overlap > 0 {
		errs := make([][]float64, patch.H)
		for i := 0; i < patch.H; i++ {
			errs[i] = make([]float64, overlap)
			for j := 0; j < overlap; j++ {
				errs[i][j] = pixelSSD(patch, j, i, out, x+j, y+i)
			}
		}
		for i, j := range MinCutPath(errs) {
			for k := 0; k < j; k++ {
				keep[i][k] = true
			}
		}
	}
	if y > 0 && overlap > 0 {
		// 转置后同样自顶向下求接缝，path[j] 即第 j 列的分界行。
		errs := make([][]float64, patch.W)
		for j := 0; j < patch.W; j++ {
			errs[j] = make([]float64, overlap)
			for i := 0; i < overlap; i++ {
				errs[j][i] = pixelSSD(patch, j, i, out, x+j, y+i)
			}
		}
		for j, i := range MinCutPath(errs) {
			for k := 0; k < i; k++ {
				keep[k][j] = true
			}
		}
	}
	for i := 0; i < patch.H; i++ {
		for j := 0; j < patch.W; j++ {
			if !keep[i][j] {
				continue
			}
			for c := 0; c < patch.C; c++ {
				patch.Set(j, i, c, out.At(x+j, y+i, c))
			}
		}
	}
	return patch
}

func pixelSSD(a *Image, ax, ay int, b *Image, bx, by int) float64 {
	ai := a.offset(ax, ay)
	bi := b.offset(bx, by)
	var sum float64
	for c := 0; c < a.C; c++ {
		d := a.Pix[ai+c] - b.Pix[bi+c]
		sum += d * d
	}
	return sum
}
