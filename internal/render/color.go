package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// 背景与雾
var (
	Background = colorful.Color{R: 1.0 / 255, G: 5.0 / 255, B: 2.0 / 255}
	fogNear    = 5.0
	fogFar     = 20.0
)

// tcellColor colorful → tcell 真彩色
func tcellColor(c colorful.Color) tcell.Color {
	c = c.Clamped()
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// scale 亮度缩放，不做截断
func scale(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}

// add 加色混合（发光粒子叠加）
func add(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B}
}

// fog 按深度向背景色靠拢
func fog(c colorful.Color, depth float64) colorful.Color {
	f := (depth - fogNear) / (fogFar - fogNear)
	f = math.Max(0, math.Min(1, f))
	return c.Clamped().BlendRgb(Background, f)
}

// rainbow 按色相取饱和色
func rainbow(hue float64) colorful.Color {
	return colorful.Hsv(math.Mod(hue, 360), 1, 1)
}

// luminance 粗略亮度
func luminance(c colorful.Color) float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}
