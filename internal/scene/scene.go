// Package scene 保存所有可见元素的状态，并在每帧把它们推向当前形态的目标。
//
// 调用顺序固定为 Update(dt) 然后 Sprites()，都在主循环的同一个 goroutine 里执行。
package scene

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/AisuKyobu/xmas-morph/internal/morph"
	"github.com/golang/geo/r3"
)

// ModeSource 场景只读取形态和照片列表，不写
type ModeSource interface {
	Mode() mode.Mode
	Photos() []string
	Generation() uint64
}

// sceneOffset 整个树组在世界坐标里下移 0.5
const sceneOffset = -0.5

// transform 组变换：先绕 y 轴转，再整体平移
type transform struct {
	yaw     float64
	offsetY float64
}

func (t transform) apply(p r3.Vector) r3.Vector {
	p = rotateY(p, t.yaw)
	p.Y += t.offsetY
	return p
}

// Options 场景构造参数
type Options struct {
	FoliageCount int
	Seed         uint64
}

// Scene 所有元素池
type Scene struct {
	src ModeSource
	opt Options

	Foliage   *FoliagePool
	Ornaments []*OrnamentPool
	Photos    *PhotoPool
	Star      *StarTopper
	Core      *Core
	Sparkles  *Sparkles

	photoGen uint64
	photoRng *rand.Rand

	groupY   float64
	groupYaw float64
	elapsed  float64
}

// New 每个类别用独立的随机源，互不复用
func New(src ModeSource, opt Options) *Scene {
	s := &Scene{
		src:      src,
		opt:      opt,
		Star:     NewStarTopper(),
		Core:     &Core{Scale: 0.1},
		photoRng: categoryRand(opt.Seed, PhotoFrame),
	}

	s.Foliage = NewFoliagePool(FoliageParams(opt.FoliageCount), categoryRand(opt.Seed, Foliage))

	nextID := 0
	for _, p := range OrnamentParams() {
		pool := NewOrnamentPool(p, nextID, categoryRand(opt.Seed, p.Category))
		nextID += len(pool.Elements)
		s.Ornaments = append(s.Ornaments, pool)
	}

	s.Sparkles = NewSparkles(categoryRand(opt.Seed, Sparkle))
	s.rebuildPhotos()
	return s
}

func categoryRand(seed uint64, c Category) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(c)+1))
}

func (s *Scene) rebuildPhotos() {
	s.Photos = s.Photos.Replace(PhotoParams(), s.src.Photos(), s.photoRng)
	s.photoGen = s.src.Generation()
}

// Elapsed 场景运行的总秒数
func (s *Scene) Elapsed() float64 {
	return s.elapsed
}

// Update 推进一帧。目标每帧重新按形态选择，所以中途切换会平滑改向。
func (s *Scene) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt
	tree := s.src.Mode() == mode.Tree

	if s.src.Generation() != s.photoGen {
		s.rebuildPhotos()
	}

	s.Foliage.Update(tree, dt)
	for _, o := range s.Ornaments {
		o.Update(tree, dt)
	}
	s.Photos.Update(tree, dt, s.elapsed)
	s.Star.Update(tree, dt)
	s.Core.Update(tree, dt)
	s.Sparkles.Update(tree, dt)

	s.updateGroup(tree, dt)
}

// updateGroup 树形时整体轻轻上下浮动、左右摆；散开时缓慢漂转。
// 两种形态之间都用平滑过渡，整组不会跳变。
func (s *Scene) updateGroup(tree bool, dt float64) {
	t := s.elapsed
	if tree {
		s.groupY = morph.Scalar(s.groupY, math.Sin(t*0.5)*0.1-0.5, 2, dt)
		s.groupYaw = approachAngle(s.groupYaw, math.Sin(t*0.1)*0.05, 2, dt)
		return
	}
	s.groupY = morph.Scalar(s.groupY, 0, 2, dt)
	s.groupYaw = wrapAngle(s.groupYaw + dt*0.06)
}

func (s *Scene) transform() transform {
	return transform{yaw: s.groupYaw, offsetY: s.groupY + sceneOffset}
}

// Sprites 把本帧所有元素追加到 buf 并返回
func (s *Scene) Sprites(buf []Sprite) []Sprite {
	tree := s.src.Mode() == mode.Tree
	xf := s.transform()

	buf = s.Core.Append(buf, xf)
	buf = s.Foliage.Append(buf, s.elapsed, xf)
	for _, o := range s.Ornaments {
		buf = o.Append(buf, tree, s.elapsed, xf)
	}
	buf = s.Photos.Append(buf, xf)
	buf = s.Star.Append(buf, s.elapsed, xf)
	buf = s.Sparkles.Append(buf, s.elapsed, xf)
	return buf
}

// StarPosition 树顶星的世界坐标，渲染器用它做点光源
func (s *Scene) StarPosition() r3.Vector {
	return s.transform().apply(s.Star.Current)
}

// Count 元素总数（不含装饰闪点和内芯）
func (s *Scene) Count() int {
	n := len(s.Foliage.Elements) + len(s.Photos.Photos) + 1
	for _, o := range s.Ornaments {
		n += len(o.Elements)
	}
	return n
}
