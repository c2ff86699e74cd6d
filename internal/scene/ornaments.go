package scene

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/layout"
	"github.com/AisuKyobu/xmas-morph/internal/morph"
	"github.com/golang/geo/r3"
)

// OrnamentPool 一种实例化装饰（盒子、球或小星星）
type OrnamentPool struct {
	Params   Params
	Elements []Element
}

// NewOrnamentPool firstID 让三个池子的 ID 全局连续
func NewOrnamentPool(p Params, firstID int, rng *rand.Rand) *OrnamentPool {
	pairs := layout.Generate(p.Count, p.Tree, p.Scatter, rng)
	pool := &OrnamentPool{Params: p, Elements: make([]Element, len(pairs))}
	for i, pair := range pairs {
		pool.Elements[i] = Element{
			ID:         firstID + i,
			Category:   p.Category,
			TreePos:    pair.Tree,
			ScatterPos: pair.Scatter,
			Current:    pair.Scatter,
			Scale:      p.Scale,
			Rotation:   r3.Vector{X: rng.Float64() * math.Pi, Y: rng.Float64() * math.Pi},
			Color:      p.Palette.Pick(rng),
			Weight:     p.weight(rng),
			Random:     rng.Float64(),
		}
	}
	return pool
}

// Update 每个元素按 Weight×Rate 的速度逼近目标
func (o *OrnamentPool) Update(tree bool, dt float64) {
	for i := range o.Elements {
		e := &o.Elements[i]
		e.Current = morph.Vector(e.Current, e.Target(tree), e.Weight*o.Params.Rate, dt)
	}
}

// Append 树形时缓慢公转，散开时按重量自旋；旋转只由时间算出，不累积
func (o *OrnamentPool) Append(out []Sprite, tree bool, elapsed float64, xf transform) []Sprite {
	for i := range o.Elements {
		e := &o.Elements[i]

		rot := r3.Vector{X: e.Rotation.X, Y: elapsed*0.2 + float64(e.ID), Z: e.Rotation.Z}
		if !tree {
			rot = r3.Vector{X: elapsed * e.Weight, Y: elapsed * e.Weight, Z: elapsed}
		}

		out = append(out, Sprite{
			Category: e.Category,
			Pos:      xf.apply(e.Current),
			Rotation: rot,
			Scale:    e.Scale,
			Color:    e.Color,
			Alpha:    1,
			Index:    e.ID,
		})
	}
	return out
}
