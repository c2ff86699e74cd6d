// Package morph 提供按帧时长缩放的指数平滑：
// current ← current + (target − current) × min(1, speed × dt)
package morph

import (
	"math"

	"github.com/golang/geo/r3"
)

// Factor 单步插值系数，限制在 [0, 1]
func Factor(speed, dt float64) float64 {
	return math.Max(0, math.Min(1, speed*dt))
}

// Scalar 标量平滑
func Scalar(cur, target, speed, dt float64) float64 {
	return cur + (target-cur)*Factor(speed, dt)
}

// Vector 向量平滑，结果总在 cur 与 target 的连线上
func Vector(cur, target r3.Vector, speed, dt float64) r3.Vector {
	return cur.Add(target.Sub(cur).Mul(Factor(speed, dt)))
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b r3.Vector, t float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(t))
}

// Steps 距离从 1 缩小到 eps 以内所需的帧数。
// 每帧剩余 (1-k)，所以 n = ceil(ln(eps)/ln(1-k))，k 越小帧数越多（约 1/k）。
func Steps(speed, dt, eps float64) int {
	k := Factor(speed, dt)
	switch {
	case eps >= 1:
		return 0
	case k >= 1:
		return 1
	case k <= 0 || eps <= 0:
		return math.MaxInt
	}
	return int(math.Ceil(math.Log(eps) / math.Log(1-k)))
}
