package layout

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// Pair 一个元素的两个目标位置
type Pair struct {
	Tree    r3.Vector
	Scatter r3.Vector
}

// Generate 生成 n 组位置；n <= 0 时返回空切片
func Generate(n int, tree, scatter Sampler, rng *rand.Rand) []Pair {
	if n <= 0 {
		return []Pair{}
	}
	out := make([]Pair, n)
	for i := range out {
		out[i] = Pair{Tree: tree.Sample(rng), Scatter: scatter.Sample(rng)}
	}
	return out
}

// Spiral 照片沿螺旋线绕树上升，位置完全由序号决定
type Spiral struct {
	Count  int
	Bottom float64 // 第一张的高度
	Rise   float64 // 总上升高度
	Cone   Cone    // 参考圆锥，决定各高度的半径
	Offset float64 // 在锥面外再推出去一点
	Turns  float64 // 总圈数
}

// At 返回第 i 张照片的位置和朝外的偏航角
func (s Spiral) At(i int) (r3.Vector, float64) {
	if s.Count <= 0 {
		return r3.Vector{}, 0
	}
	t := float64(i) / float64(s.Count)
	y := s.Bottom + s.Rise*t
	radius := s.Cone.RadiusAt(y) + s.Offset
	angle := t * s.Turns * 2 * math.Pi

	pos := r3.Vector{X: math.Cos(angle) * radius, Y: y, Z: math.Sin(angle) * radius}
	return pos, -angle + math.Pi/2
}
