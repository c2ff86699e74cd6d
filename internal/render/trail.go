package render

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// 拖尾粒子参数：初始生命更长、衰减更慢，轨迹更明显
const (
	ParticleInitialLife = 1.2
	ParticleLifeDecay   = 1.25 // 每秒
	// 星星在前方时额外多生成的粒子数
	ParticleFrontExtra = 1
	// 星星移动超过这个距离（格）才生成粒子
	trailMinMove = 0.3
)

// Particle 拖尾粒子，位置为屏幕坐标
type Particle struct {
	X, Y   float64
	VX, VY float64
	Depth  float64
	Life   float64 // 生命值，降到 0 消失
	Color  colorful.Color
}

// Trail 树顶星飞行时留下的彩虹拖尾
type Trail struct {
	Particles []Particle
	rng       *rand.Rand

	lastX, lastY float64
	primed       bool
}

func NewTrail(rng *rand.Rand) *Trail {
	return &Trail{rng: rng}
}

// Follow 记录星星的屏幕位置；移动了才撒粒子
func (t *Trail) Follow(x, y, depth float64, front bool, color colorful.Color) {
	moved := !t.primed || abs(x-t.lastX)+abs(y-t.lastY) > trailMinMove
	t.lastX, t.lastY, t.primed = x, y, true
	if !moved {
		return
	}

	count := t.rng.IntN(3) + 2
	if front {
		count += ParticleFrontExtra
	}
	for i := 0; i < count; i++ {
		// 随机散布一点点
		offsetX := (t.rng.Float64() - 0.5) * 2.0
		offsetY := (t.rng.Float64() - 0.5) * 1.0

		t.Particles = append(t.Particles, Particle{
			X:     x + offsetX,
			Y:     y + offsetY,
			VX:    (t.rng.Float64() - 0.5) * 5,
			VY:    t.rng.Float64() * 5, // 稍微向下飘落
			Depth: depth,
			Life:  ParticleInitialLife,
			Color: color,
		})
	}
}

// Update 移动粒子并剔除寿命耗尽的
func (t *Trail) Update(dt float64) {
	alive := t.Particles[:0]
	for _, p := range t.Particles {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		p.Life -= ParticleLifeDecay * dt
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	t.Particles = alive
}

// Draw 粒子总是发光的
func (t *Trail) Draw(c *Canvas) {
	for _, p := range t.Particles {
		k := min(p.Life/ParticleInitialLife, 1)
		c.Glow(cellOf(p.X), cellOf(p.Y), p.Depth, scale(p.Color, k*0.6))
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
