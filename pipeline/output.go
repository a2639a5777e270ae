package pipeline

import (
	"bufio"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/ByLCY/ecgpaper/provenance"
)

// Write 把一页写入 dir：<name>.png、<name>.json，按配置写出
// lead_bounding_box/<name>.txt、text_bounding_box/<name>.txt 与 <name>.pdf。返回写出的文件。
func (g *Generator) Write(page *Page, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录 %s 失败: %w", dir, err)
	}
	var files []string

	imgPath := filepath.Join(dir, page.Name+".png")
	if err := writePNG(imgPath, page); err != nil {
		return nil, err
	}
	files = append(files, imgPath)

	annPath := filepath.Join(dir, page.Name+".json")
	if err := page.Annotation.WriteFile(annPath); err != nil {
		return nil, err
	}
	files = append(files, annPath)

	if g.cfg.Output.Boxes {
		leadPath := filepath.Join(dir, "lead_bounding_box", page.Name+".txt")
		if err := provenance.WriteBoxFile(leadPath, provenance.Of(page.Records, provenance.KindWaveform)); err != nil {
			return nil, err
		}
		textPath := filepath.Join(dir, "text_bounding_box", page.Name+".txt")
		var text []provenance.Record
		for _, r := range page.Records {
			if r.Kind != provenance.KindWaveform {
				text = append(text, r)
			}
		}
		if err := provenance.WriteBoxFile(textPath, text); err != nil {
			return nil, err
		}
		files = append(files, leadPath, textPath)
	}

	if len(page.PDF) > 0 {
		pdfPath := filepath.Join(dir, page.Name+".pdf")
		if err := os.WriteFile(pdfPath, page.PDF, 0o644); err != nil {
			return nil, fmt.Errorf("写入 PDF %s 失败: %w", pdfPath, err)
		}
		files = append(files, pdfPath)
	}
	return files, nil
}

func writePNG(path string, page *Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("写入图像 %s 失败: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := png.Encode(w, page.Image); err != nil {
		f.Close()
		return fmt.Errorf("编码图像 %s 失败: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("写入图像 %s 失败: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("写入图像 %s 失败: %w", path, err)
	}
	return nil
}
