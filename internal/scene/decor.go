package scene

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/morph"
	"github.com/golang/geo/r3"
)

// StarTopper 树顶的主角星
type StarTopper struct {
	Element
	Yaw float64
}

// NewStarTopper 从散开位置起步
func NewStarTopper() *StarTopper {
	scatter := r3.Vector{Y: 8}
	return &StarTopper{Element: Element{
		Category:   Topper,
		TreePos:    r3.Vector{Y: 3.4},
		ScatterPos: scatter,
		Current:    scatter,
		Scale:      0.35,
		Color:      Cream,
		Weight:     1,
	}}
}

func (s *StarTopper) Update(tree bool, dt float64) {
	s.Current = morph.Vector(s.Current, s.Target(tree), 1.5, dt)
	s.Yaw = wrapAngle(s.Yaw + dt*0.5)
}

// Append 上下漂浮只是显示偏移
func (s *StarTopper) Append(out []Sprite, elapsed float64, xf transform) []Sprite {
	p := s.Current
	p.Y += math.Sin(elapsed*0.5) * 0.04
	return append(out, Sprite{
		Category: Topper,
		Pos:      xf.apply(p),
		Rotation: r3.Vector{Z: math.Sin(elapsed) * 0.1, Y: s.Yaw},
		Scale:    s.Scale,
		Color:    s.Color,
		Alpha:    1,
	})
}

// Core 深色内芯圆锥，用来遮挡背面的粒子；散开时缩小隐藏
type Core struct {
	Scale float64
	Yaw   float64
}

// 内芯尺寸：底半径 2，高 7，中心在组内 y=-0.5
const (
	CoreRadius = 2.0
	CoreHeight = 7.0
	coreCenter = -0.5
)

func (c *Core) Update(tree bool, dt float64) {
	target := 0.1
	if tree {
		target = 1
		c.Yaw = wrapAngle(c.Yaw + dt*0.05)
	}
	c.Scale = morph.Scalar(c.Scale, target, 1, dt)
}

func (c *Core) Append(out []Sprite, xf transform) []Sprite {
	return append(out, Sprite{
		Category: InnerCore,
		Pos:      xf.apply(r3.Vector{Y: coreCenter}),
		Rotation: r3.Vector{Y: c.Yaw + xf.yaw},
		Scale:    c.Scale,
		Color:    CoreGreen,
		Alpha:    1,
	})
}

// Sparkles 环境金色闪点：树形时 100 个、范围 8，散开时 300 个、范围 18
type Sparkles struct {
	seeds  []r3.Vector
	phases []float64
	Extent float64
	Count  int
}

const maxSparkles = 300

func NewSparkles(rng *rand.Rand) *Sparkles {
	s := &Sparkles{
		seeds:  make([]r3.Vector, maxSparkles),
		phases: make([]float64, maxSparkles),
		Extent: 8,
		Count:  100,
	}
	for i := range s.seeds {
		s.seeds[i] = r3.Vector{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5, Z: rng.Float64() - 0.5}
		s.phases[i] = rng.Float64() * 2 * math.Pi
	}
	return s
}

func (s *Sparkles) Update(tree bool, dt float64) {
	extent := 18.0
	s.Count = maxSparkles
	if tree {
		extent = 8
		s.Count = 100
	}
	s.Extent = morph.Scalar(s.Extent, extent, 1, dt)
}

func (s *Sparkles) Append(out []Sprite, elapsed float64, xf transform) []Sprite {
	const speed = 0.4
	for i := 0; i < s.Count; i++ {
		ph := s.phases[i]
		drift := r3.Vector{
			X: math.Sin(elapsed*speed+ph) * 0.15,
			Y: math.Sin(elapsed*speed*0.7+ph*1.3) * 0.15,
			Z: math.Cos(elapsed*speed+ph) * 0.15,
		}
		p := s.seeds[i].Mul(s.Extent).Add(drift)
		out = append(out, Sprite{
			Category: Sparkle,
			Pos:      xf.apply(p),
			Scale:    0.04,
			Color:    Gold,
			Alpha:    0.6 * (0.5 + 0.5*math.Sin(elapsed*3+ph)),
			Index:    i,
		})
	}
	return out
}
