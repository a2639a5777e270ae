package header

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/ecgpaper/signal"
)

// ErrUnsupportedFormat 表示样本文件的存储格式暂不支持（目前仅支持格式 16）。
var ErrUnsupportedFormat = errors.New("unsupported sample format")

// ReadFormat16 读取 WFDB 格式 16 的样本：nsig 路交织的小端 16 位有符号整数。
// 返回 [信号][样本]，末尾不完整的一帧会被丢弃。
func ReadFormat16(r io.Reader, nsig int) ([][]float64, error) {
	if nsig <= 0 {
		return nil, fmt.Errorf("信号数无效: %d", nsig)
	}
	br := bufio.NewReader(r)
	out := make([][]float64, nsig)
	frame := make([]int16, nsig)
	for {
		err := binary.Read(br, binary.LittleEndian, frame)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("读取样本失败: %w", err)
		}
		for i, v := range frame {
			out[i] = append(out[i], float64(v))
		}
	}
}

// Recording 组合头信息与原始样本，得到带增益与基线信息的记录。
func (h *Header) Recording(samples [][]float64) (*signal.Recording, error) {
	if len(samples) != len(h.Channels) {
		return nil, fmt.Errorf("记录 %s 有 %d 个通道，样本为 %d 路", h.Record, len(h.Channels), len(samples))
	}
	rec := &signal.Recording{
		Name:       h.Record,
		SampleRate: h.SampleRate,
		Leads:      signal.StandardizeAll(h.LeadNames()),
		Samples:    samples,
		Comments:   append([]string(nil), h.Comments...),
		BaseDate:   h.BaseDate,
		BaseTime:   h.BaseTime,
	}
	for _, ch := range h.Channels {
		rec.Gains = append(rec.Gains, ch.Gain)
		rec.Baselines = append(rec.Baselines, float64(ch.Baseline))
		rec.Units = append(rec.Units, ch.Units)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load 读取 .hea 头文件及其引用的样本文件（与头文件位于同一目录）。
func Load(headerPath string) (*Header, *signal.Recording, error) {
	h, err := ReadFile(headerPath)
	if err != nil {
		return nil, nil, err
	}
	if len(h.Channels) == 0 {
		return nil, nil, fmt.Errorf("记录 %s 不包含信号", h.Record)
	}
	dataFile := h.Channels[0].File
	for _, ch := range h.Channels {
		if ch.File != dataFile {
			return nil, nil, fmt.Errorf("记录 %s 的信号分布在多个文件中: %w", h.Record, ErrUnsupportedFormat)
		}
		if ch.Format != 16 {
			return nil, nil, fmt.Errorf("记录 %s 使用格式 %d: %w", h.Record, ch.Format, ErrUnsupportedFormat)
		}
	}
	path := filepath.Join(filepath.Dir(headerPath), dataFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("读取样本文件 %s 失败: %w", path, err)
	}
	defer f.Close()
	samples, err := ReadFormat16(f, len(h.Channels))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if h.Samples > 0 {
		for i := range samples {
			if len(samples[i]) > h.Samples {
				samples[i] = samples[i][:h.Samples]
			}
		}
	}
	rec, err := h.Recording(samples)
	if err != nil {
		return nil, nil, err
	}
	return h, rec, nil
}

// FindHeaders 返回目录下（递归）全部 .hea 文件，按路径排序。path 本身为文件时直接返回。
func FindHeaders(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("读取输入 %s 失败: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var out []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".hea") {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("遍历目录 %s 失败: %w", path, err)
	}
	return out, nil
}
