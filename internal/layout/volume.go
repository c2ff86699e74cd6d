// Package layout 负责为每个元素生成两套固定目标位置：
// 树形（圆锥体内）和散开（球壳上）。
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r3"
)

// Band 闭区间 [Min, Max]
type Band struct {
	Min, Max float64
}

// Contains 判断 v 是否落在区间内
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Lerp 把 0..1 映射到区间
func (b Band) Lerp(u float64) float64 {
	return b.Min + (b.Max-b.Min)*u
}

// Cone 竖直圆锥：底面在 Bottom，高度 Height，半径随高度线性收缩到顶点 0
type Cone struct {
	Bottom     float64
	Height     float64
	BaseRadius float64
}

// RadiusAt 返回高度 y 处的最大半径
func (c Cone) RadiusAt(y float64) float64 {
	if c.Height <= 0 {
		return 0
	}
	rel := (y - c.Bottom) / c.Height
	rel = math.Max(0, math.Min(1, rel))
	return c.BaseRadius * (1 - rel)
}

// Contains 判断点是否在圆锥体内（带一点浮点容差）
func (c Cone) Contains(p r3.Vector) bool {
	if p.Y < c.Bottom-1e-9 || p.Y > c.Bottom+c.Height+1e-9 {
		return false
	}
	return math.Hypot(p.X, p.Z) <= c.RadiusAt(p.Y)+1e-9
}

// Sampler 从随机源取一个点
type Sampler interface {
	Sample(rng *rand.Rand) r3.Vector
}

// TreeVolume 在圆锥内按高度带取点。
// Inner 是内环占该高度半径的比例：0 表示实心圆盘，接近 1 表示贴近锥面。
type TreeVolume struct {
	Cone    Cone
	Heights Band
	Inner   float64
}

// Sample 高度均匀；半径用平方根变换保证圆环内面积密度均匀
func (v TreeVolume) Sample(rng *rand.Rand) r3.Vector {
	y := v.Heights.Lerp(rng.Float64())
	maxR := v.Cone.RadiusAt(y)

	in2 := v.Inner * v.Inner
	r := maxR * math.Sqrt(in2+rng.Float64()*(1-in2))
	theta := rng.Float64() * 2 * math.Pi

	return r3.Vector{X: r * math.Cos(theta), Y: y, Z: r * math.Sin(theta)}
}

// Shell 球壳，半径在 Radius 区间内
type Shell struct {
	Radius Band
}

// Sample 极角用反余弦采样，避免在两极聚集
func (s Shell) Sample(rng *rand.Rand) r3.Vector {
	r := s.Radius.Lerp(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)

	return r3.Vector{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r * math.Sin(phi) * math.Sin(theta),
		Z: r * math.Cos(phi),
	}
}

// Contains 判断点到原点的距离是否在壳内
func (s Shell) Contains(p r3.Vector) bool {
	d := p.Norm()
	return d >= s.Radius.Min-1e-9 && d <= s.Radius.Max+1e-9
}
