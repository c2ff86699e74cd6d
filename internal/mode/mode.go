// Package mode 保存全局唯一的形态（树 / 散开）和照片列表
package mode

import "fmt"

// Mode 两种排列之一，零值为 Tree
type Mode int

const (
	Tree Mode = iota
	Scattered
)

func (m Mode) String() string {
	if m == Scattered {
		return "scattered"
	}
	return "tree"
}

// Toggle 返回另一种形态
func (m Mode) Toggle() Mode {
	if m == Tree {
		return Scattered
	}
	return Tree
}

// ParseMode 只接受 "tree" 和 "scattered"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "tree":
		return Tree, nil
	case "scattered":
		return Scattered, nil
	}
	return Tree, fmt.Errorf("unknown mode %q (want tree or scattered)", s)
}

// MarshalText / UnmarshalText 让配置文件可以直接写 mode = "scattered"
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
