package scene

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

// Element 一个粒子、装饰或照片框。
// TreePos / ScatterPos 生成后不再改变；Current 只由该元素自己的更新步骤写入。
type Element struct {
	ID       int
	Category Category

	TreePos    r3.Vector
	ScatterPos r3.Vector
	Current    r3.Vector

	Scale    float64
	Rotation r3.Vector // 欧拉角 (x, y, z)
	Color    colorful.Color

	// Weight 越大收拢越快（速度 = Weight × Rate）
	Weight float64
	// Random 0..1 的相位种子，用于摆动和闪烁
	Random float64
}

// Target 当前形态对应的目标位置
func (e *Element) Target(tree bool) r3.Vector {
	if tree {
		return e.TreePos
	}
	return e.ScatterPos
}

// Sprite 交给渲染器的一帧快照，位置已是世界坐标
type Sprite struct {
	Category Category
	Pos      r3.Vector
	Rotation r3.Vector
	Scale    float64
	Color    colorful.Color
	Alpha    float64
	// Index 照片序号，其他类别为元素 ID
	Index int
}

// rotateY 绕 y 轴旋转
func rotateY(v r3.Vector, yaw float64) r3.Vector {
	s, c := math.Sincos(yaw)
	return r3.Vector{X: v.X*c + v.Z*s, Y: v.Y, Z: -v.X*s + v.Z*c}
}

// wrapAngle 归一到 [-π, π)
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
