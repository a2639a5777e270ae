package header

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// WFDB 头文件按行组织：记录行、每个信号一行、以 # 开头的注释。
// 行内字段以空白分隔，gain 字段另有一套小语法 "gain(baseline)/units"。

var (
	headerLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `#[^\n]*`},
		{Name: "Newline", Pattern: `\n`},
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Field", Pattern: `[^\s#]+`},
	})

	fileParser = participle.MustBuild[File](
		participle.Lexer(headerLexer),
		participle.Elide("Whitespace"),
	)

	gainLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Punct", Pattern: `[()/]`},
		{Name: "Unit", Pattern: `[^\s()/]+`},
	})

	gainParser = participle.MustBuild[GainSpec](participle.Lexer(gainLexer))
)

// File 是头文件的语法树。
type File struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Lines []*Line        `parser:"Newline* ( @@ Newline* )*"`
}

// Line 为一行：注释或若干字段。
type Line struct {
	Comment  *string  `parser:"  @Comment"`
	Fields   []string `parser:"| @Field+"`
	Trailing *string  `parser:"  @Comment?"`
}

// GainSpec 对应 "200(0)/mV" 形式的增益字段。
type GainSpec struct {
	Gain     float64 `parser:"@Number"`
	Baseline *int    `parser:"( '(' @Number ')' )?"`
	Units    string  `parser:"( '/' @(Unit | Number) )?"`
}

// Header 为解析后的头信息。
type Header struct {
	Record     string
	Segments   int
	Signals    int
	SampleRate float64
	Samples    int
	BaseTime   string
	BaseDate   string
	Channels   []Channel
	Comments   []string
}

// Channel 为一个信号通道的描述。
type Channel struct {
	File        string
	Format      int
	Gain        float64
	Baseline    int
	Units       string
	ADCRes      int
	ADCZero     int
	InitValue   int
	Checksum    int
	BlockSize   int
	Description string
}

// Parse 从 io.Reader 解析头文件。
func Parse(r io.Reader) (*Header, error) {
	f, err := fileParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("解析头文件失败: %w", err)
	}
	return fromAST(f)
}

// ParseString 解析头文件内容。
func ParseString(input string) (*Header, error) {
	return Parse(strings.NewReader(input))
}

// ReadFile 读取并解析 .hea 文件。
func ReadFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取头文件 %s 失败: %w", path, err)
	}
	defer f.Close()
	h, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

func fromAST(f *File) (*Header, error) {
	h := &Header{}
	seenRecord := false
	for _, ln := range f.Lines {
		if ln.Comment != nil {
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(*ln.Comment, "#")))
			continue
		}
		if !seenRecord {
			if err := h.parseRecordLine(ln.Fields); err != nil {
				return nil, err
			}
			seenRecord = true
			continue
		}
		ch, err := parseSignalLine(ln.Fields)
		if err != nil {
			return nil, fmt.Errorf("信号行 %d: %w", len(h.Channels)+1, err)
		}
		h.Channels = append(h.Channels, ch)
	}
	if !seenRecord {
		return nil, fmt.Errorf("头文件缺少记录行")
	}
	if len(h.Channels) != h.Signals {
		return nil, fmt.Errorf("记录 %s 声明 %d 个信号，实际 %d 行", h.Record, h.Signals, len(h.Channels))
	}
	return h, nil
}

// parseRecordLine 解析 "name[/segs] nsig [fs[/cf[(bc)]] [nsamp [time [date]]]]"。
func (h *Header) parseRecordLine(fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("记录行字段不足: %q", strings.Join(fields, " "))
	}
	name, segs, hasSegs := strings.Cut(fields[0], "/")
	h.Record = name
	if hasSegs {
		n, err := strconv.Atoi(segs)
		if err != nil {
			return fmt.Errorf("分段数无效 %q: %w", segs, err)
		}
		h.Segments = n
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("信号数无效 %q: %w", fields[1], err)
	}
	h.Signals = n
	h.SampleRate = 250
	if len(fields) > 2 {
		fs, _, _ := strings.Cut(fields[2], "/")
		v, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return fmt.Errorf("采样率无效 %q: %w", fields[2], err)
		}
		h.SampleRate = v
	}
	if len(fields) > 3 {
		v, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("样本数无效 %q: %w", fields[3], err)
		}
		h.Samples = v
	}
	if len(fields) > 4 {
		h.BaseTime = fields[4]
	}
	if len(fields) > 5 {
		h.BaseDate = fields[5]
	}
	return nil
}

// parseSignalLine 解析 "file format [gain[(base)][/units] [res [zero [init [checksum [block [desc]]]]]]]"。
func parseSignalLine(fields []string) (Channel, error) {
	if len(fields) < 2 {
		return Channel{}, fmt.Errorf("字段不足: %q", strings.Join(fields, " "))
	}
	ch := Channel{File: fields[0], Units: "mV"}
	format, err := leadingInt(fields[1])
	if err != nil {
		return Channel{}, fmt.Errorf("格式字段无效 %q: %w", fields[1], err)
	}
	ch.Format = format

	baselineSet := false
	if len(fields) > 2 {
		g, err := gainParser.ParseString("", fields[2])
		if err != nil {
			return Channel{}, fmt.Errorf("增益字段无效 %q: %w", fields[2], err)
		}
		ch.Gain = g.Gain
		if g.Baseline != nil {
			ch.Baseline = *g.Baseline
			baselineSet = true
		}
		if g.Units != "" {
			ch.Units = g.Units
		}
	}
	ints := []*int{&ch.ADCRes, &ch.ADCZero, &ch.InitValue, &ch.Checksum, &ch.BlockSize}
	i := 3
	for ; i < len(fields) && i-3 < len(ints); i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			break
		}
		*ints[i-3] = v
	}
	if i < len(fields) {
		ch.Description = strings.Join(fields[i:], " ")
	}
	if !baselineSet {
		ch.Baseline = ch.ADCZero
	}
	return ch, nil
}

func leadingInt(s string) (int, error) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.Atoi(s[:end])
}

// Attributes 把 "Key: value" 形式的注释整理为键值表，并补充记录名、日期与时间。
func (h *Header) Attributes() map[string]string {
	attrs := map[string]string{
		"Name": h.Record,
		"Date": h.BaseDate,
		"Time": h.BaseTime,
	}
	for _, c := range h.Comments {
		key, val, ok := strings.Cut(c, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" {
			continue
		}
		if strings.EqualFold(val, "unknown") {
			val = ""
		}
		attrs[key] = val
	}
	return attrs
}

// LeadNames 返回各通道的描述（即导联名）。
func (h *Header) LeadNames() []string {
	out := make([]string, len(h.Channels))
	for i, ch := range h.Channels {
		out[i] = ch.Description
	}
	return out
}
