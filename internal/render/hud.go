package render

import (
	"unicode/utf8"

	"github.com/AisuKyobu/xmas-morph/internal/blessing"
	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/AisuKyobu/xmas-morph/internal/morph"
	"github.com/AisuKyobu/xmas-morph/internal/scene"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// HUD 文案
const (
	Title        = "Sunny's Magical Tree 💗"
	Subtitle     = "Merry Christmas 🎄"
	BlessButton  = "✦ RECEIVE A BLESSING [b]"
	PhotoButton  = "📷 UPLOAD PHOTOS [p]"
	HelpLine     = "space toggle · b blessing · p photos · q quit"
	footerLine   = "INTERACTIVE 3D EXPERIENCE"
	SettlingHint = "settling…"

	knobTrack    = 6   // 开关轨道宽度
	knobDuration = 0.5 // 秒

	// 落定提示按 60 帧/秒估算：最慢的元素剩下不到 10% 的距离就算落定
	settleFrame = 1.0 / 60
	settleEps   = 0.1
)

var (
	hudGold    = colorful.Color{R: 251.0 / 255, G: 191.0 / 255, B: 36.0 / 255}
	hudCream   = colorful.Color{R: 254.0 / 255, G: 243.0 / 255, B: 199.0 / 255}
	hudEmerald = colorful.Color{R: 16.0 / 255, G: 185.0 / 255, B: 129.0 / 255}
	hudDim     = colorful.Color{R: 6.0 / 255, G: 95.0 / 255, B: 70.0 / 255}
	hudPanel   = colorful.Color{R: 0.02, G: 0.03, B: 0.02}
)

// HUDState 每帧由主循环填好
type HUDState struct {
	Mode     mode.Mode
	Blessing *blessing.Panel

	// PromptLabel 非空表示正在输入
	PromptLabel string
	Prompt      string
	// Status 一行短提示（照片加载结果等）
	Status string
}

// HUD 文字层；开关圆钮的位置用补间动画
type HUD struct {
	knob    float64 // 0 = TREE, 1 = CHAOS
	tween   *gween.Tween
	current mode.Mode
	primed  bool

	settle float64 // 距离落定还剩的秒数
}

// Knob 当前圆钮位置
func (h *HUD) Knob() float64 {
	return h.knob
}

// Settling 切换后元素还在飞行中
func (h *HUD) Settling() bool {
	return h.settle > 0
}

// SettleTime 一次切换从开始到落定的秒数
func SettleTime() float64 {
	return float64(morph.Steps(scene.SlowestRate(), settleFrame, settleEps)) * settleFrame
}

// Update 模式变化时从当前位置重新补间
func (h *HUD) Update(m mode.Mode, dt float64) {
	target := 0.0
	if m == mode.Scattered {
		target = 1
	}
	if !h.primed {
		h.knob, h.current, h.primed = target, m, true
		return
	}
	if m != h.current {
		h.current = m
		h.tween = gween.New(float32(h.knob), float32(target), knobDuration, ease.OutCubic)
		h.settle = SettleTime()
	}
	h.settle = max(0, h.settle-dt)
	if h.tween == nil {
		return
	}
	v, done := h.tween.Update(float32(dt))
	h.knob = float64(v)
	if done {
		h.knob = target
		h.tween = nil
	}
}

// Draw 把 HUD 写在画布最上层
func (h *HUD) Draw(c *Canvas, st HUDState) {
	w, ht := c.Size()
	if w <= 0 || ht <= 0 {
		return
	}

	c.Text(2, 1, Title, hudGold, nil)
	c.Text(2, 2, Subtitle, hudEmerald, nil)

	h.drawToggle(c, w, st.Mode)
	if h.Settling() {
		c.Text(w-2-runewidth.StringWidth(SettlingHint), 2, SettlingHint, hudDim, nil)
	}

	// 左下：祝福面板
	left := 2
	bottom := ht - 2
	panelWidth := min(46, w-4)
	var p blessing.Panel
	if st.Blessing != nil {
		p = *st.Blessing
	}
	switch {
	case st.PromptLabel != "":
		bg := hudPanel
		c.Text(left, bottom-1, st.PromptLabel, hudCream, &bg)
		c.Text(left, bottom, "> "+clip(st.Prompt, panelWidth-3)+"_", hudGold, &bg)
	case p.State() == blessing.Pending:
		c.Text(left, bottom, "✦ "+p.Guest()+" ...", hudGold, nil)
	case p.State() == blessing.Resolved:
		lines := blessing.Wrap("\""+p.Text()+"\"", panelWidth-2)
		top := bottom - len(lines)
		if top < 4 {
			lines = lines[:max(0, len(lines)-(4-top))]
			top = 4
		}
		bg := hudPanel
		c.Text(left, top-1, "A GIFT FOR "+p.Guest()+"  [x]", hudEmerald, &bg)
		for i, line := range lines {
			c.Text(left, top+i, " "+line, hudCream, &bg)
		}
	default:
		c.Text(left, bottom, BlessButton, hudCream, nil)
	}

	// 右下：上传照片 + 页脚
	c.Text(w-2-runewidth.StringWidth(PhotoButton), bottom-1, PhotoButton, hudCream, nil)
	c.Text(w-2-runewidth.StringWidth(footerLine), bottom, footerLine, hudDim, nil)

	if st.Status != "" {
		c.Text(w-2-runewidth.StringWidth(st.Status), bottom-2, st.Status, hudEmerald, nil)
	}
	c.Text((w-runewidth.StringWidth(HelpLine))/2, ht-1, HelpLine, hudDim, nil)
}

// drawToggle 右上角 "TREE (●     ) CHAOS"
func (h *HUD) drawToggle(c *Canvas, w int, m mode.Mode) {
	label := func(on bool, active colorful.Color) colorful.Color {
		if on {
			return active
		}
		return hudDim
	}
	total := len("TREE") + 1 + knobTrack + 2 + 1 + len("CHAOS")
	x := w - 2 - total
	x = c.Text(x, 1, "TREE ", label(m == mode.Tree, hudGold), nil)
	x = c.Text(x, 1, "(", hudDim, nil)

	pos := int(h.knob*float64(knobTrack-1) + 0.5)
	knobColor := hudGold.BlendRgb(hudEmerald, h.knob)
	for i := 0; i < knobTrack; i++ {
		if i == pos {
			c.Text(x+i, 1, "●", knobColor, nil)
		} else {
			c.Text(x+i, 1, "─", hudDim, nil)
		}
	}
	x += knobTrack
	x = c.Text(x, 1, ") ", hudDim, nil)
	c.Text(x, 1, "CHAOS", label(m == mode.Scattered, hudEmerald), nil)
}

// clip 按显示宽度截尾，保留末尾（正在输入的部分）
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	for runewidth.StringWidth(s) > width {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}
