package render

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// --- 天空配置 ---

const (
	SkyStarCount    = 24  // 背景星星数量
	SkyGlowRadius   = 2   // 星星周围微弱光晕的半径（格子单位）
	SkyTwinkleSpeed = 1.2 // 闪烁速度
)

// skyGlowTint 光晕提亮的方向（偏冷的蓝绿）
var skyGlowTint = colorful.Color{R: 40.0 / 255, G: 60.0 / 255, B: 70.0 / 255}

// SkyStar 天空中的一个小星星
type SkyStar struct {
	X, Y  int     // 屏幕坐标
	Phase float64 // 相位用于闪烁差异化
	Speed float64 // 个别闪烁速度微差
}

// Sky 背景星空，屏幕尺寸变化时重新撒星
type Sky struct {
	Stars []SkyStar
	w, h  int
	rng   *rand.Rand
}

func NewSky(rng *rand.Rand) *Sky {
	return &Sky{rng: rng}
}

// Layout 尺寸未变时保持原来的星星
func (s *Sky) Layout(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	s.w, s.h = w, h
	s.Stars = s.Stars[:0]
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i < SkyStarCount; i++ {
		s.Stars = append(s.Stars, SkyStar{
			X:     s.rng.IntN(w),
			Y:     s.rng.IntN(h),
			Phase: s.rng.Float64() * 2 * math.Pi,
			Speed: 0.8 + s.rng.Float64()*0.8,
		})
	}
}

// Brightness 0.4 ~ 1.0 之间的正弦闪烁
func (st SkyStar) Brightness(t float64) float64 {
	phase := st.Phase + t*st.Speed*SkyTwinkleSpeed
	return 0.4 + 0.6*(0.5*(1+math.Sin(phase)))
}

// Draw 先画光晕（只提亮背景），再画星星本体
func (s *Sky) Draw(c *Canvas, t float64) {
	for _, st := range s.Stars {
		brightness := st.Brightness(t)
		for dy := -SkyGlowRadius; dy <= SkyGlowRadius; dy++ {
			for dx := -SkyGlowRadius; dx <= SkyGlowRadius; dx++ {
				dist := math.Hypot(float64(dx), float64(dy))
				if dist > SkyGlowRadius {
					continue
				}
				// 距离越近亮度越高
				f := (1.0 - dist/SkyGlowRadius) * brightness * 0.6
				c.Background(st.X+dx, st.Y+dy, skyBgColor(f))
			}
		}

		v := (200 + brightness*55) / 255
		c.BackgroundRune(st.X, st.Y, '.', colorful.Color{R: v, G: v, B: v})
	}
}

// skyBgColor 根据亮度生成天空背景颜色（基底加上亮度）
func skyBgColor(brightness float64) colorful.Color {
	return add(Background, scale(skyGlowTint, brightness)).Clamped()
}
