package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths and paper sizes.

// Unit represents the original unit of a length value as written in config.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as inches
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	MmToIn = 1.0 / 25.4
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values are inches.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value * 25.4
	}
}

func (l Length) ToIN() float64 { return l.ToMM() * MmToIn }

// ParseRawLengthStr parses a length string such as "11in" or "297mm", preserving its unit.
func ParseRawLengthStr(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// PaperSize 为横向放置的纸张尺寸（英寸）。
type PaperSize struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultPaper 为 11×8.5 英寸横向心电图纸。
var DefaultPaper = PaperSize{Name: "default", Width: 11, Height: 8.5}

var paperSizes = map[string]PaperSize{
	"a0":     {Name: "A0", Width: 46.8, Height: 33.1},
	"a1":     {Name: "A1", Width: 23.39, Height: 33.1},
	"a2":     {Name: "A2", Width: 23.39, Height: 16.54},
	"a3":     {Name: "A3", Width: 16.54, Height: 11.69},
	"a4":     {Name: "A4", Width: 11.69, Height: 8.27},
	"letter": {Name: "letter", Width: 11, Height: 8.5},
}

// LookupPaper 按名称查找纸张，空串返回默认纸张。
func LookupPaper(name string) (PaperSize, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "default" {
		return DefaultPaper, nil
	}
	if p, ok := paperSizes[key]; ok {
		return p, nil
	}
	names := make([]string, 0, len(paperSizes))
	for k := range paperSizes {
		names = append(names, k)
	}
	sort.Strings(names)
	return PaperSize{}, fmt.Errorf("未知纸张 %q，可选: %s", name, strings.Join(names, ", "))
}

// CustomPaper 用任意单位的宽高字符串构造纸张。
func CustomPaper(width, height string) (PaperSize, error) {
	w, err := ParseRawLengthStr(width)
	if err != nil {
		return PaperSize{}, err
	}
	h, err := ParseRawLengthStr(height)
	if err != nil {
		return PaperSize{}, err
	}
	if w.ToIN() <= 0 || h.ToIN() <= 0 {
		return PaperSize{}, fmt.Errorf("纸张尺寸必须为正数: %s × %s", width, height)
	}
	return PaperSize{Name: "custom", Width: w.ToIN(), Height: h.ToIN()}, nil
}
