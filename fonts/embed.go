package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称。
const (
	Regular = "regular"
	Bold    = "bold"
	Mono    = "mono"
)

// Load 返回内置字体的 TTF 字节，name 可写为 "embed:regular" 或直接 "regular"。
func Load(name string) ([]byte, error) {
	switch strings.ToLower(strings.TrimPrefix(name, "embed:")) {
	case Regular, "":
		return goregular.TTF, nil
	case Bold:
		return gobold.TTF, nil
	case Mono:
		return gomono.TTF, nil
	default:
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
}
