package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 11, 14.4, 72, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthConversions 覆盖 Length 到 mm/in 的换算；无单位数值按英寸处理。
func TestLengthConversions(t *testing.T) {
	if got := (Length{Value: 1, Unit: UnitIN}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("1in 转 mm 期望 25.4，实际 %g", got)
	}
	if got := (Length{Value: 2.54, Unit: UnitCM}).ToIN(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("2.54cm 转 in 期望 1，实际 %g", got)
	}
	if got := (Length{Value: 8.5}).ToIN(); math.Abs(got-8.5) > 1e-9 {
		t.Fatalf("无单位 8.5 期望按英寸解释，实际 %g", got)
	}
}

// TestParseRawLengthStr 验证带单位字符串的解析与错误返回。
func TestParseRawLengthStr(t *testing.T) {
	l, err := ParseRawLengthStr(" 297MM ")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if l.Unit != UnitMM || l.Value != 297 {
		t.Fatalf("解析结果错误: %+v", l)
	}
	if _, err := ParseRawLengthStr("abc"); err == nil {
		t.Fatalf("非法长度应返回错误")
	}
}

// TestLookupPaper 验证预置纸张为横向，且未知名称报错。
func TestLookupPaper(t *testing.T) {
	p, err := LookupPaper("A4")
	if err != nil {
		t.Fatalf("查找 A4 失败: %v", err)
	}
	if p.Width <= p.Height {
		t.Fatalf("纸张应为横向: %+v", p)
	}
	if p, _ := LookupPaper(""); p != DefaultPaper {
		t.Fatalf("空名称应返回默认纸张，实际 %+v", p)
	}
	if _, err := LookupPaper("B5"); err == nil {
		t.Fatalf("未知纸张应返回错误")
	}
	c, err := CustomPaper("279.4mm", "8.5in")
	if err != nil {
		t.Fatalf("自定义纸张失败: %v", err)
	}
	if math.Abs(c.Width-11) > 1e-9 || math.Abs(c.Height-8.5) > 1e-9 {
		t.Fatalf("自定义纸张尺寸错误: %+v", c)
	}
}
