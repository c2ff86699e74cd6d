package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/golang/geo/r3"
)

// 相机：位于 (0, 2, 8) 看向原点，竖直视角 45°，绕 y 轴自动旋转
const (
	fovY       = 45 * math.Pi / 180
	nearClip   = 0.1
	cellAspect = 2.0 // 终端字符高约为宽的两倍

	// autoRotate 1.0 对应每 60 秒转一圈
	treeRotateSpeed    = 0.5
	scatterRotateSpeed = 0.2
)

var cameraHome = r3.Vector{X: 0, Y: 2, Z: 8}

// Camera 旋转速度在两种形态间用弹簧过渡
type Camera struct {
	Azimuth float64

	speed    float64
	velocity float64
	spring   harmonica.Spring

	right, up, forward r3.Vector
	focal              float64
}

// NewCamera fps 决定弹簧的时间步长
func NewCamera(fps int) *Camera {
	c := &Camera{
		speed:  treeRotateSpeed,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		focal:  1 / math.Tan(fovY/2),
	}
	c.forward = cameraHome.Mul(-1).Normalize()
	c.right = c.forward.Cross(r3.Vector{Y: 1}).Normalize()
	c.up = c.right.Cross(c.forward)
	return c
}

// Speed 当前自动旋转速度
func (c *Camera) Speed() float64 {
	return c.speed
}

// Update 弹簧把速度推向目标，再按速度转动方位角
func (c *Camera) Update(tree bool, dt float64) {
	target := scatterRotateSpeed
	if tree {
		target = treeRotateSpeed
	}
	c.speed, c.velocity = c.spring.Update(c.speed, c.velocity, target)
	c.Azimuth = math.Mod(c.Azimuth+dt*c.speed*2*math.Pi/60, 2*math.Pi)
}

// Projection 投影结果：屏幕坐标（字符格）和视线深度
type Projection struct {
	X, Y  float64
	Depth float64
	// PixelsPerUnit 该深度处一个世界单位在竖直方向占的格数
	PixelsPerUnit float64
}

// Project 把世界坐标投到 w×h 的字符网格；在相机后面时 ok 为 false
func (c *Camera) Project(p r3.Vector, w, h int) (Projection, bool) {
	// 相机绕 y 转 Azimuth，等价于把世界反向转
	s, co := math.Sincos(-c.Azimuth)
	p = r3.Vector{X: p.X*co + p.Z*s, Y: p.Y, Z: -p.X*s + p.Z*co}

	d := p.Sub(cameraHome)
	z := d.Dot(c.forward)
	if z < nearClip || w <= 0 || h <= 0 {
		return Projection{}, false
	}

	aspect := float64(w) / (float64(h) * cellAspect)
	ndcX := d.Dot(c.right) * c.focal / (z * aspect)
	ndcY := d.Dot(c.up) * c.focal / z

	return Projection{
		X:             (1 + ndcX) / 2 * float64(w),
		Y:             (1 - ndcY) / 2 * float64(h),
		Depth:         z,
		PixelsPerUnit: c.focal / z * float64(h) / 2,
	}, true
}

// Facing 平面法线（由偏航角给出）朝向相机的程度，1 为正对
func (c *Camera) Facing(yaw float64) float64 {
	return math.Cos(yaw - c.Azimuth)
}
