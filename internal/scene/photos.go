package scene

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/morph"
	"github.com/golang/geo/r3"
)

// Photo 照片框：螺旋线上的树形位置 + 球壳上的散开位置
type Photo struct {
	Element
	Ref          string
	TreeRotation r3.Vector
	CurScale     float64
}

// PhotoPool 照片框集合，照片列表变化时整体重建
type PhotoPool struct {
	Params Params
	Photos []Photo
}

// photoKey 同一序号上的同一张照片视为同一个实例
type photoKey struct {
	ref   string
	index int
}

// NewPhotoPool 新建的照片从散开位置、零尺寸飞入
func NewPhotoPool(p Params, refs []string, rng *rand.Rand) *PhotoPool {
	return (*PhotoPool)(nil).Replace(p, refs, rng)
}

// Replace 按新列表重建。(照片, 序号) 没变的实例保留散开位置、当前位置、旋转和尺寸，
// 只把树形姿态换成新螺旋线上的位置；其余的新建。
func (p *PhotoPool) Replace(params Params, refs []string, rng *rand.Rand) *PhotoPool {
	kept := map[photoKey]*Photo{}
	if p != nil {
		for i := range p.Photos {
			ph := &p.Photos[i]
			kept[photoKey{ph.Ref, ph.ID}] = ph
		}
	}

	spiral := photoSpiral(len(refs))
	next := &PhotoPool{Params: params, Photos: make([]Photo, len(refs))}
	for i, ref := range refs {
		pos, yaw := spiral.At(i)

		if old, ok := kept[photoKey{ref, i}]; ok {
			ph := *old
			ph.TreePos = pos
			ph.TreeRotation.Y = yaw
			next.Photos[i] = ph
			continue
		}

		scatter := params.Scatter.Sample(rng)
		tilt := (rng.Float64() - 0.5) * 0.2
		next.Photos[i] = Photo{
			Element: Element{
				ID:         i,
				Category:   PhotoFrame,
				TreePos:    pos,
				ScatterPos: scatter,
				Current:    scatter,
				Scale:      params.Scale,
				Color:      params.Palette.Pick(rng),
				Weight:     1,
				Random:     rng.Float64(),
			},
			Ref:          ref,
			TreeRotation: r3.Vector{Y: yaw, Z: tilt},
		}
	}
	return next
}

// Update 位置和尺寸以速率 2 逼近；树形时旋转以速率 1 回正并带轻微晃动，散开时自由翻转
func (p *PhotoPool) Update(tree bool, dt, elapsed float64) {
	rate := p.Params.Rate
	for i := range p.Photos {
		ph := &p.Photos[i]
		ph.Current = morph.Vector(ph.Current, ph.Target(tree), rate, dt)

		if tree {
			idx := float64(i)
			want := r3.Vector{
				X: ph.TreeRotation.X + math.Sin(elapsed+idx)*0.05,
				Y: ph.TreeRotation.Y + math.Cos(elapsed*0.5+idx)*0.05,
				Z: ph.TreeRotation.Z,
			}
			ph.Rotation = r3.Vector{
				X: approachAngle(ph.Rotation.X, want.X, 1, dt),
				Y: approachAngle(ph.Rotation.Y, want.Y, 1, dt),
				Z: approachAngle(ph.Rotation.Z, want.Z, 1, dt),
			}
		} else {
			ph.Rotation.X = wrapAngle(ph.Rotation.X + dt*0.2)
			ph.Rotation.Y = wrapAngle(ph.Rotation.Y + dt*0.3)
		}

		want := ph.Scale
		if !tree {
			want *= 1.5
		}
		ph.CurScale = morph.Scalar(ph.CurScale, want, rate, dt)
	}
}

// Append 追加照片精灵，Index 为照片序号
func (p *PhotoPool) Append(out []Sprite, xf transform) []Sprite {
	for i := range p.Photos {
		ph := &p.Photos[i]
		rot := ph.Rotation
		rot.Y += xf.yaw
		out = append(out, Sprite{
			Category: PhotoFrame,
			Pos:      xf.apply(ph.Current),
			Rotation: rot,
			Scale:    ph.CurScale,
			Color:    ph.Color,
			Alpha:    1,
			Index:    i,
		})
	}
	return out
}

// approachAngle 沿最短弧逼近目标角
func approachAngle(cur, target, speed, dt float64) float64 {
	diff := wrapAngle(target - cur)
	return wrapAngle(cur + diff*morph.Factor(speed, dt))
}
