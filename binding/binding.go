package binding

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultHeader 为打印在心电图左上角的患者信息模板，每项一行。
var DefaultHeader = []string{
	"Date:${Date}     ${Time}",
	"Name:${Name}    Height:${Height}",
	"Sex:${Sex}           Weight:${Weight}",
	"Age:${Age}",
}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "July", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// HeaderLines 用患者属性填充模板，返回待打印的各行。
// 缺失的 Date 与 Age 由 rng 随机补齐，其余缺失项留空。
func HeaderLines(template []string, attrs map[string]string, rng *rand.Rand) []string {
	if len(template) == 0 {
		template = DefaultHeader
	}
	data := make(map[string]any, len(attrs)+6)
	for _, key := range []string{"Date", "Time", "Name", "Sex", "Height", "Weight", "Age"} {
		data[key] = ""
	}
	for k, v := range attrs {
		data[k] = v
	}
	if s, _ := data["Date"].(string); s == "" && rng != nil {
		data["Date"] = fmt.Sprintf("%d %s %d", rng.IntN(31)+1, months[rng.IntN(len(months))], rng.IntN(24))
	}
	if s, _ := data["Age"].(string); s == "" && rng != nil {
		data["Age"] = strconv.Itoa(rng.IntN(71) + 10)
	}
	out := make([]string, 0, len(template))
	for _, line := range template {
		out = append(out, Interpolate(line, data))
	}
	return out
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name, rest, ok := strings.Cut(segment, "[")
	if !ok {
		return segment, nil
	}
	var indexes []string
	rest = "[" + rest
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
