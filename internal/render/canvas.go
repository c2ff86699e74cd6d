package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// cell 一个字符格：实体层（深度测试）+ 发光层（加色叠加）
type cell struct {
	ch    rune
	fg    colorful.Color
	bg    colorful.Color
	depth float64
	solid bool

	glow      colorful.Color
	glowDepth float64
}

// Canvas 带深度缓冲的字符画布
type Canvas struct {
	w, h  int
	cells []cell
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

// Resize 尺寸变化时重新分配
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == c.w && h == c.h && c.cells != nil {
		return
	}
	c.w, c.h = w, h
	c.cells = make([]cell, w*h)
}

// Clear 全部填成背景
func (c *Canvas) Clear(bg colorful.Color) {
	for i := range c.cells {
		c.cells[i] = cell{ch: ' ', bg: bg, depth: math.Inf(1), glowDepth: math.Inf(1)}
	}
}

// cellOf 屏幕坐标所在的格子。向下取整，-0.5 落在第 -1 格而不是第 0 格
func cellOf(v float64) int {
	return int(math.Floor(v))
}

func (c *Canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Background 只改背景色，不参与深度测试（天空）
func (c *Canvas) Background(x, y int, bg colorful.Color) {
	if cl := c.at(x, y); cl != nil {
		cl.bg = bg
	}
}

// BackgroundRune 背景层的字符，只在没有实体时可见
func (c *Canvas) BackgroundRune(x, y int, ch rune, fg colorful.Color) {
	if cl := c.at(x, y); cl != nil && !cl.solid {
		cl.ch = ch
		cl.fg = fg
	}
}

// Plot 深度测试后写入字符，背景保持不变
func (c *Canvas) Plot(x, y int, depth float64, ch rune, fg colorful.Color) bool {
	cl := c.at(x, y)
	if cl == nil || depth >= cl.depth {
		return false
	}
	cl.ch, cl.fg, cl.depth, cl.solid = ch, fg, depth, true
	return true
}

// Fill 深度测试后写入字符和背景色（相框、内芯）
func (c *Canvas) Fill(x, y int, depth float64, ch rune, fg, bg colorful.Color) bool {
	if !c.Plot(x, y, depth, ch, fg) {
		return false
	}
	c.cells[y*c.w+x].bg = bg
	return true
}

// Glow 加色叠加；被更近的实体挡住时丢弃
func (c *Canvas) Glow(x, y int, depth float64, col colorful.Color) {
	cl := c.at(x, y)
	if cl == nil || depth >= cl.depth {
		return
	}
	cl.glow = add(cl.glow, col)
	cl.glowDepth = math.Min(cl.glowDepth, depth)
}

// DepthAt 该格实体深度，空格返回 +Inf
func (c *Canvas) DepthAt(x, y int) float64 {
	if cl := c.at(x, y); cl != nil {
		return cl.depth
	}
	return math.Inf(1)
}

// Text 在最上层写字（HUD），返回结束时的 x
func (c *Canvas) Text(x, y int, s string, fg colorful.Color, bg *colorful.Color) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cl := c.at(x, y); cl != nil {
			cl.ch, cl.fg, cl.depth, cl.solid = r, fg, math.Inf(-1), true
			cl.glow = colorful.Color{}
			if bg != nil {
				cl.bg = *bg
			}
			// 宽字符占两格，第二格清空
			if w == 2 {
				if next := c.at(x+1, y); next != nil {
					next.ch, next.depth, next.solid = 0, math.Inf(-1), true
					next.glow = colorful.Color{}
					if bg != nil {
						next.bg = *bg
					}
				}
			}
		}
		x += w
	}
	return x
}

// 发光强度对应的字符
var glowRamp = []rune{'.', '·', '+', '*', '✶'}

func glowRune(intensity float64) rune {
	switch {
	case intensity < 0.04:
		return 0
	case intensity < 0.12:
		return glowRamp[0]
	case intensity < 0.25:
		return glowRamp[1]
	case intensity < 0.45:
		return glowRamp[2]
	case intensity < 0.8:
		return glowRamp[3]
	}
	return glowRamp[4]
}

// resolve 计算单格最终的字符和颜色
func (cl *cell) resolve() (rune, colorful.Color, colorful.Color) {
	bg := cl.bg
	if cl.glowDepth < cl.depth {
		if ch := glowRune(luminance(cl.glow)); ch != 0 {
			return ch, fog(cl.glow, cl.glowDepth), bg
		}
		// 太暗画不出字符，只把背景提亮一点
		bg = add(bg, scale(cl.glow, 0.3))
	}
	if cl.solid && !math.IsInf(cl.depth, -1) && !math.IsInf(cl.depth, 1) {
		return cl.ch, fog(cl.fg, cl.depth), bg
	}
	return cl.ch, cl.fg, bg
}

// Flush 写到屏幕
func (c *Canvas) Flush(screen tcell.Screen) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := &c.cells[y*c.w+x]
			if cl.ch == 0 && cl.solid {
				// 宽字符的第二格
				continue
			}
			ch, fg, bg := cl.resolve()
			if ch == 0 {
				ch = ' '
			}
			st := tcell.StyleDefault.Foreground(tcellColor(fg)).Background(tcellColor(bg))
			screen.SetContent(x, y, ch, nil, st)
		}
	}
}
