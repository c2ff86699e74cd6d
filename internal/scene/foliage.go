package scene

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/layout"
	"github.com/AisuKyobu/xmas-morph/internal/morph"
)

// FoliagePool 点状粒子树叶。
// 整个池子共用一个形变系数（0 = 散开，1 = 树），每个粒子的 Current 都是两个目标的线性插值。
type FoliagePool struct {
	Params   Params
	Elements []Element
	// Morph 形变系数
	Morph float64
}

// NewFoliagePool 生成粒子；初始系数为 0，开场时从散开状态聚拢
func NewFoliagePool(p Params, rng *rand.Rand) *FoliagePool {
	pairs := layout.Generate(p.Count, p.Tree, p.Scatter, rng)
	pool := &FoliagePool{Params: p, Elements: make([]Element, len(pairs))}
	for i, pair := range pairs {
		pool.Elements[i] = Element{
			ID:         i,
			Category:   Foliage,
			TreePos:    pair.Tree,
			ScatterPos: pair.Scatter,
			Current:    pair.Scatter,
			Scale:      p.Scale,
			Random:     rng.Float64(),
		}
	}
	return pool
}

// Update 推进形变系数并刷新每个粒子的位置
func (f *FoliagePool) Update(tree bool, dt float64) {
	target := 0.0
	if tree {
		target = 1
	}
	f.Morph = morph.Scalar(f.Morph, target, f.Params.Rate, dt)

	for i := range f.Elements {
		e := &f.Elements[i]
		e.Current = morph.Lerp(e.ScatterPos, e.TreePos, f.Morph)
	}
}

// Append 追加精灵：摆动幅度散开时大、成树时小；少数粒子带金色高光
func (f *FoliagePool) Append(out []Sprite, elapsed float64, xf transform) []Sprite {
	wind := 0.1 + (0.02-0.1)*f.Morph
	for i := range f.Elements {
		e := &f.Elements[i]

		sway := math.Sin(elapsed*2+e.Random*10) * wind
		p := e.Current
		p.X += sway
		p.Z += sway

		out = append(out, Sprite{
			Category: Foliage,
			Pos:      xf.apply(p),
			Scale:    1 + e.Random,
			Color:    Emerald.BlendRgb(Gold, math.Pow(e.Random, 8)*0.5),
			Alpha:    0.8 + 0.2*math.Sin(elapsed+e.Random*10),
			Index:    e.ID,
		})
	}
	return out
}
