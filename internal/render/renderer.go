package render

import (
	"math"
	"math/rand/v2"

	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/AisuKyobu/xmas-morph/internal/photo"
	"github.com/AisuKyobu/xmas-morph/internal/scene"
	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// LightRadius 树顶星照亮的范围（世界单位）
	LightRadius = 6.0
	lightGain   = 2.0

	// 相框在世界里的尺寸（乘以元素缩放）
	frameWidth  = 1.0
	frameHeight = 1.2
	frameBorder = 0.08

	starHueSpeed = 20 // 度/秒
)

var (
	frameGold   = colorful.Color{R: 1, G: 215.0 / 255, B: 0}
	frameBack   = colorful.Color{R: 0.55, G: 0.42, B: 0.08}
	placeholder = colorful.Color{R: 0.18, G: 0.16, B: 0.12}
)

// Renderer 把场景快照画到 tcell 屏幕
type Renderer struct {
	Camera *Camera
	HUD    *HUD

	canvas *Canvas
	sky    *Sky
	trail  *Trail

	thumbs   map[int]*photo.Thumbnail
	thumbGen uint64
}

func New(fps int, seed uint64) *Renderer {
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	return &Renderer{
		Camera: NewCamera(fps),
		HUD:    &HUD{},
		canvas: NewCanvas(0, 0),
		sky:    NewSky(rng),
		trail:  NewTrail(rng),
		thumbs: make(map[int]*photo.Thumbnail),
	}
}

// ResetThumbnails 照片列表换代时丢弃旧缩略图；同一序号上照片没变的保留
func (r *Renderer) ResetThumbnails(gen uint64, refs []string) {
	if gen == r.thumbGen {
		return
	}
	r.thumbGen = gen
	for i, t := range r.thumbs {
		if i >= len(refs) || refs[i] != t.Ref {
			delete(r.thumbs, i)
		}
	}
}

// SetThumbnail 过期代次的结果直接忽略
func (r *Renderer) SetThumbnail(gen uint64, index int, t *photo.Thumbnail) bool {
	if gen != r.thumbGen || t == nil {
		return false
	}
	r.thumbs[index] = t
	return true
}

// Thumbnail 已加载的缩略图，没有时为 nil
func (r *Renderer) Thumbnail(index int) *photo.Thumbnail {
	return r.thumbs[index]
}

// Canvas 最近一帧的画布（测试用）
func (r *Renderer) Canvas() *Canvas {
	return r.canvas
}

// Frame 画一帧。sprites 顺序：内芯、叶子、装饰、照片、树顶星、闪点
func (r *Renderer) Frame(screen tcell.Screen, sprites []scene.Sprite, star r3.Vector, hud HUDState, dt, elapsed float64) {
	w, h := screen.Size()
	r.canvas.Resize(w, h)
	r.canvas.Clear(Background)
	r.sky.Layout(w, h)

	r.Camera.Update(hud.Mode == mode.Tree, dt)
	r.HUD.Update(hud.Mode, dt)
	r.trail.Update(dt)

	r.sky.Draw(r.canvas, elapsed)

	starColor := rainbow(elapsed * starHueSpeed)
	for i := range sprites {
		sp := &sprites[i]
		switch sp.Category {
		case scene.InnerCore:
			r.drawCore(sp)
		case scene.BoxOrnament, scene.SphereOrnament, scene.StarOrnament:
			r.drawOrnament(sp, star, starColor, elapsed)
		case scene.PhotoFrame:
			r.drawPhoto(sp, star, starColor)
		case scene.Topper:
			r.drawTopper(sp, starColor)
		}
	}
	// 发光层最后画，这样深度测试能看到所有实体
	for i := range sprites {
		sp := &sprites[i]
		switch sp.Category {
		case scene.Foliage:
			r.glowPoint(sp.Pos, lit(sp.Color, sp.Pos, star, starColor), sp.Alpha*0.45)
		case scene.Sparkle:
			r.glowPoint(sp.Pos, sp.Color, sp.Alpha*0.5)
		}
	}
	r.trail.Draw(r.canvas)

	r.HUD.Draw(r.canvas, hud)
	r.canvas.Flush(screen)
}

// lit 距离星星越近越亮（平方反比衰减），超出范围不变
func lit(c colorful.Color, p, star r3.Vector, starColor colorful.Color) colorful.Color {
	d := p.Distance(star)
	if d >= LightRadius {
		return c
	}
	k := lightGain / (1 + d*d)
	// 边缘处平滑归零，避免光照边界出现断层
	k *= 1 - d/LightRadius
	return add(c, scale(starColor.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.5), k*0.5))
}

func (r *Renderer) project(p r3.Vector) (Projection, bool) {
	w, h := r.canvas.Size()
	return r.Camera.Project(p, w, h)
}

func (r *Renderer) glowPoint(p r3.Vector, c colorful.Color, alpha float64) {
	pr, ok := r.project(p)
	if !ok || alpha <= 0 {
		return
	}
	r.canvas.Glow(cellOf(pr.X), cellOf(pr.Y), pr.Depth, scale(c, alpha))
}

// drawCore 内芯圆锥的剪影，逐行按轴心深度填充
func (r *Renderer) drawCore(sp *scene.Sprite) {
	if sp.Scale < 0.15 {
		return
	}
	half := scene.CoreHeight / 2 * sp.Scale
	apex, ok1 := r.project(sp.Pos.Add(r3.Vector{Y: half}))
	base, ok2 := r.project(sp.Pos.Add(r3.Vector{Y: -half}))
	if !ok1 || !ok2 || base.Y <= apex.Y {
		return
	}
	top, bottom := int(math.Ceil(apex.Y)), cellOf(base.Y)
	for y := top; y <= bottom; y++ {
		t := (float64(y) - apex.Y) / (base.Y - apex.Y)
		axis := sp.Pos.Add(r3.Vector{Y: half - t*2*half})
		pr, ok := r.project(axis)
		if !ok {
			continue
		}
		halfWidth := t * scene.CoreRadius * sp.Scale * pr.PixelsPerUnit * cellAspect
		bg := scale(sp.Color, 0.6+0.4*t)
		for x := cellOf(pr.X - halfWidth); x <= cellOf(pr.X+halfWidth); x++ {
			r.canvas.Fill(x, y, pr.Depth, ' ', bg, fog(bg, pr.Depth))
		}
	}
}

func (r *Renderer) drawOrnament(sp *scene.Sprite, star r3.Vector, starColor colorful.Color, elapsed float64) {
	pr, ok := r.project(sp.Pos)
	if !ok {
		return
	}
	col := lit(sp.Color, sp.Pos, star, starColor)
	var ch rune
	switch sp.Category {
	case scene.BoxOrnament:
		// 绕 y 转到接近 45° 时看起来像菱形
		ch = '■'
		if q := math.Mod(math.Abs(sp.Rotation.Y), math.Pi/2); q > math.Pi/8 && q < 3*math.Pi/8 {
			ch = '◆'
		}
	case scene.SphereOrnament:
		ch = '●'
		if sp.Scale*pr.PixelsPerUnit < 0.35 {
			ch = '•'
		}
	case scene.StarOrnament:
		ch = '✦'
		if math.Sin(elapsed*3+float64(sp.Index)) < 0 {
			ch = '✧'
		}
	}

	// 近处的大装饰画成一小块
	radius := sp.Scale * pr.PixelsPerUnit
	if radius < 1 || sp.Category == scene.StarOrnament {
		r.canvas.Plot(cellOf(pr.X), cellOf(pr.Y), pr.Depth, ch, col)
		return
	}
	rx, ry := int(radius*cellAspect), int(radius)
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			if sp.Category == scene.SphereOrnament {
				nx, ny := float64(dx)/(radius*cellAspect), float64(dy)/radius
				if nx*nx+ny*ny > 1 {
					continue
				}
			}
			r.canvas.Plot(cellOf(pr.X)+dx, cellOf(pr.Y)+dy, pr.Depth, ch, col)
		}
	}
}

// drawPhoto 金色边框 + 半块字符缩略图；背面只画纸背
func (r *Renderer) drawPhoto(sp *scene.Sprite, star r3.Vector, starColor colorful.Color) {
	if sp.Scale <= 0.01 {
		return
	}
	pr, ok := r.project(sp.Pos)
	if !ok {
		return
	}
	facing := r.Camera.Facing(sp.Rotation.Y)
	hw := frameWidth / 2 * sp.Scale * pr.PixelsPerUnit * cellAspect * math.Abs(facing)
	hh := frameHeight / 2 * sp.Scale * pr.PixelsPerUnit
	gold := lit(frameGold, sp.Pos, star, starColor)

	if hw < 1.5 || hh < 1 {
		r.canvas.Plot(cellOf(pr.X), cellOf(pr.Y), pr.Depth, '▮', gold)
		return
	}

	x0, x1 := cellOf(pr.X-hw), cellOf(pr.X+hw)
	y0, y1 := cellOf(pr.Y-hh), cellOf(pr.Y+hh)
	if facing < 0 {
		back := lit(frameBack, sp.Pos, star, starColor)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				r.canvas.Fill(x, y, pr.Depth, ' ', back, fog(back, pr.Depth))
			}
		}
		return
	}

	borderX := max(1, int(frameBorder*sp.Scale*pr.PixelsPerUnit*cellAspect))
	thumb := r.thumbs[sp.Index]
	iw, ih := x1-x0+1-2*borderX, y1-y0+1-2
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if y == y0 || y == y1 || x < x0+borderX || x > x1-borderX {
				r.canvas.Fill(x, y, pr.Depth, ' ', gold, fog(gold, pr.Depth))
				continue
			}
			if thumb == nil || iw <= 0 || ih <= 0 {
				r.canvas.Fill(x, y, pr.Depth, '░', gold, fog(placeholder, pr.Depth))
				continue
			}
			// 每个字符格上下两个像素：前景是上半，背景是下半
			u := float64(x-x0-borderX) / float64(iw)
			v0 := float64(2*(y-y0-1)) / float64(2*ih)
			v1 := float64(2*(y-y0-1)+1) / float64(2*ih)
			tx := int(u * float64(thumb.Width))
			upper := thumb.At(tx, int(v0*float64(thumb.Height)))
			lower := thumb.At(tx, int(v1*float64(thumb.Height)))
			r.canvas.Fill(x, y, pr.Depth, '▀', upper, fog(lower, pr.Depth))
		}
	}
}

// drawTopper 彩虹色的 ★，带光晕和拖尾
func (r *Renderer) drawTopper(sp *scene.Sprite, starColor colorful.Color) {
	pr, ok := r.project(sp.Pos)
	if !ok {
		return
	}
	origin, _ := r.project(r3.Vector{})
	front := pr.Depth <= origin.Depth
	r.trail.Follow(pr.X, pr.Y, pr.Depth, front, starColor)

	x, y := cellOf(pr.X), cellOf(pr.Y)
	r.canvas.Plot(x, y, pr.Depth, '★', starColor)
	for dy := -1; dy <= 1; dy++ {
		for dx := -2; dx <= 2; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := math.Hypot(float64(dx)/cellAspect, float64(dy))
			r.canvas.Glow(x+dx, y+dy, pr.Depth, scale(starColor, 0.25/(1+d*d)))
		}
	}
}
