package provenance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WriteBoxes 以 "x1,y1,x2,y2,label" 每行一个的格式写出包围盒（取各记录的轴对齐外接矩形）。
func WriteBoxes(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	for _, r := range records {
		x0, y0, x1, y1 := r.Box.Rect()
		row := []string{
			strconv.Itoa(int(math.Round(x0))),
			strconv.Itoa(int(math.Round(y0))),
			strconv.Itoa(int(math.Round(x1))),
			strconv.Itoa(int(math.Round(y1))),
			r.Label,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("写入包围盒失败: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadBoxes 读取 WriteBoxes 生成的文件，kind 指定还原后记录的类型。
func ReadBoxes(r io.Reader, kind Kind) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true
	var out []Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 行包围盒格式错误: %w", line, err)
		}
		var v [4]float64
		for i := range v {
			f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("第 %d 行坐标无效 %q: %w", line, row[i], err)
			}
			v[i] = f
		}
		out = append(out, Record{Kind: kind, Label: row[4], Box: BoxFromRect(v[0], v[1], v[2], v[3])})
	}
}

// WriteBoxFile 是 WriteBoxes 的文件版本。
func WriteBoxFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建包围盒文件 %s 失败: %w", path, err)
	}
	if err := WriteBoxes(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
