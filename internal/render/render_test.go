package render

import (
	"math"
	"testing"

	"github.com/AisuKyobu/xmas-morph/internal/blessing"
	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/AisuKyobu/xmas-morph/internal/photo"
	"github.com/AisuKyobu/xmas-morph/internal/scene"
	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestProjectOriginAtCenter(t *testing.T) {
	cam := NewCamera(25)
	p, ok := cam.Project(r3.Vector{}, 80, 24)
	if !ok {
		t.Fatal("origin should be in front of the camera")
	}
	if math.Abs(p.X-40) > 1e-6 || math.Abs(p.Y-12) > 1e-6 {
		t.Errorf("origin projected to (%.2f, %.2f), want (40, 12)", p.X, p.Y)
	}
	if want := cameraHome.Norm(); math.Abs(p.Depth-want) > 1e-6 {
		t.Errorf("depth %.3f, want %.3f", p.Depth, want)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(25)
	if _, ok := cam.Project(r3.Vector{Y: 2, Z: 20}, 80, 24); ok {
		t.Error("point behind the camera should not project")
	}
	if _, ok := cam.Project(r3.Vector{}, 0, 0); ok {
		t.Error("empty screen should not project")
	}
}

func TestProjectNearerIsLarger(t *testing.T) {
	cam := NewCamera(25)
	near, _ := cam.Project(r3.Vector{Z: 3}, 80, 24)
	far, _ := cam.Project(r3.Vector{Z: -3}, 80, 24)
	if near.PixelsPerUnit <= far.PixelsPerUnit {
		t.Errorf("near %.2f should be larger than far %.2f", near.PixelsPerUnit, far.PixelsPerUnit)
	}
	if near.Depth >= far.Depth {
		t.Errorf("near depth %.2f should be less than far depth %.2f", near.Depth, far.Depth)
	}
}

func TestCameraSpeedSettles(t *testing.T) {
	cam := NewCamera(25)
	for i := 0; i < 250; i++ {
		cam.Update(false, 0.04)
	}
	if math.Abs(cam.Speed()-scatterRotateSpeed) > 1e-3 {
		t.Errorf("scattered speed %.4f, want %.2f", cam.Speed(), scatterRotateSpeed)
	}
	before := cam.Azimuth
	cam.Update(false, 1)
	if cam.Azimuth <= before {
		t.Error("azimuth should keep advancing")
	}
}

func TestCanvasDepthTest(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Clear(Background)
	red := colorful.Color{R: 1}
	blue := colorful.Color{B: 1}

	if !c.Plot(1, 1, 5, 'a', red) {
		t.Fatal("first plot should pass")
	}
	if c.Plot(1, 1, 6, 'b', blue) {
		t.Error("farther plot should fail")
	}
	if !c.Plot(1, 1, 4, 'c', blue) {
		t.Error("nearer plot should pass")
	}
	if c.Plot(9, 9, 1, 'x', red) {
		t.Error("out of bounds plot should fail")
	}
	if got := c.DepthAt(1, 1); got != 4 {
		t.Errorf("depth %.1f, want 4", got)
	}
}

func TestCanvasGlowOccludedByNearerSolid(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Clear(Background)
	c.Plot(0, 0, 5, '#', colorful.Color{G: 1})

	bright := colorful.Color{R: 1, G: 1, B: 1}
	c.Glow(0, 0, 8, bright) // 在实体后面
	c.Glow(1, 0, 8, bright)

	if ch, _, _ := c.cells[0].resolve(); ch != '#' {
		t.Errorf("hidden glow replaced the solid: %q", ch)
	}
	if ch, _, _ := c.cells[1].resolve(); ch != glowRamp[len(glowRamp)-1] {
		t.Errorf("bright glow rune %q", ch)
	}
}

func TestNegativeCoordinatesStayOffScreen(t *testing.T) {
	for _, v := range []struct {
		in   float64
		want int
	}{{-0.5, -1}, {-1, -1}, {0, 0}, {0.9, 0}, {2.5, 2}} {
		if got := cellOf(v.in); got != v.want {
			t.Errorf("cellOf(%v) = %d, want %d", v.in, got, v.want)
		}
	}

	c := NewCanvas(3, 3)
	c.Clear(Background)
	tr := NewTrail(nil)
	tr.Particles = []Particle{
		{X: -0.5, Y: 1, Depth: 5, Life: ParticleInitialLife, Color: colorful.Color{R: 1}},
		{X: 1, Y: -0.5, Depth: 5, Life: ParticleInitialLife, Color: colorful.Color{R: 1}},
	}
	tr.Draw(c)
	for i := range c.cells {
		if c.cells[i].glow != (colorful.Color{}) {
			t.Errorf("cell %d glows from a particle left of or above the screen", i)
		}
	}
}

func TestCanvasTextOnTop(t *testing.T) {
	c := NewCanvas(10, 1)
	c.Clear(Background)
	c.Plot(0, 0, 1, '#', colorful.Color{R: 1})
	end := c.Text(0, 0, "a🎄b", colorful.Color{R: 1, G: 1, B: 1}, nil)
	if end != 4 {
		t.Errorf("end x %d, want 4", end)
	}
	if c.Plot(0, 0, 0.5, '#', colorful.Color{}) {
		t.Error("text should stay above the scene")
	}

	screen := newScreen(t, 10, 1)
	c.Flush(screen)
	if r, _, _, _ := screen.GetContent(3, 0); r != 'b' {
		t.Errorf("cell 3 = %q, want 'b'", r)
	}
}

func TestLightFalloff(t *testing.T) {
	base := colorful.Color{R: 0.1, G: 0.3, B: 0.1}
	star := r3.Vector{Y: 3}
	if got := lit(base, r3.Vector{Y: -5}, star, colorful.Color{R: 1}); got != base {
		t.Error("element outside the light radius should be unchanged")
	}
	near := lit(base, r3.Vector{Y: 2.5}, star, colorful.Color{R: 1})
	mid := lit(base, r3.Vector{Y: 0}, star, colorful.Color{R: 1})
	if luminance(near) <= luminance(mid) || luminance(mid) <= luminance(base) {
		t.Errorf("light should decay with distance: near %.3f mid %.3f base %.3f",
			luminance(near), luminance(mid), luminance(base))
	}
}

func TestHUDKnobTween(t *testing.T) {
	var h HUD
	h.Update(mode.Tree, 0)
	if h.Knob() != 0 {
		t.Fatalf("knob starts at %.2f", h.Knob())
	}

	h.Update(mode.Scattered, 0.1)
	if k := h.Knob(); k <= 0 || k >= 1 {
		t.Errorf("knob mid tween %.2f", k)
	}
	for i := 0; i < 10; i++ {
		h.Update(mode.Scattered, 0.1)
	}
	if h.Knob() != 1 {
		t.Errorf("knob after tween %.2f, want 1", h.Knob())
	}

	// 中途反向：从当前位置出发，不跳变
	h.Update(mode.Tree, 0.05)
	if k := h.Knob(); k <= 0.5 || k >= 1 {
		t.Errorf("reversed knob %.2f should still be near the right", k)
	}
}

func TestHUDSettlingHint(t *testing.T) {
	settle := SettleTime()
	// 最慢的装饰盒速度 0.4：落到 10% 以内要五六秒
	if settle < 5 || settle > 7 {
		t.Fatalf("settle time %.2fs", settle)
	}

	var h HUD
	c := NewCanvas(60, 6)
	hasHint := func() bool {
		c.Clear(Background)
		h.Draw(c, HUDState{Mode: h.current})
		w, _ := c.Size()
		x := w - 2 - len([]rune(SettlingHint))
		ch, _, _ := c.cells[2*w+x].resolve()
		return ch == 's'
	}

	h.Update(mode.Tree, 0)
	if h.Settling() || hasHint() {
		t.Fatal("no hint before the first toggle")
	}
	h.Update(mode.Scattered, 0.1)
	if !h.Settling() || !hasHint() {
		t.Fatal("hint should show right after a toggle")
	}
	for elapsed := 0.1; elapsed < settle-0.2; elapsed += 0.1 {
		h.Update(mode.Scattered, 0.1)
	}
	if !h.Settling() {
		t.Error("hint cleared before the slowest elements settle")
	}
	for i := 0; i < 5; i++ {
		h.Update(mode.Scattered, 0.1)
	}
	if h.Settling() || hasHint() {
		t.Error("hint should clear once everything has settled")
	}
}

func TestSetThumbnailIgnoresStaleGeneration(t *testing.T) {
	r := New(25, 1)
	r.ResetThumbnails(3, []string{"a.png"})
	thumb := &photo.Thumbnail{Ref: "a.png", Width: 1, Height: 1, Pixels: []colorful.Color{{R: 1}}}
	if r.SetThumbnail(2, 0, thumb) {
		t.Error("stale generation accepted")
	}
	if !r.SetThumbnail(3, 0, thumb) || r.Thumbnail(0) != thumb {
		t.Error("current generation rejected")
	}
	r.ResetThumbnails(4, []string{"a.png", "b.png"})
	if r.Thumbnail(0) != thumb {
		t.Error("thumbnail of an unchanged photo should be kept")
	}
	r.ResetThumbnails(5, []string{"b.png"})
	if r.Thumbnail(0) != nil {
		t.Error("thumbnails should be dropped when the photo changes")
	}
}

func TestFrameDrawsSceneAndHUD(t *testing.T) {
	screen := newScreen(t, 100, 32)
	ctrl := mode.NewController(mode.Tree)
	sc := scene.New(ctrl, scene.Options{FoliageCount: 300, Seed: 7})
	r := New(25, 7)

	var panel blessing.Panel
	panel.Begin("sunny")
	panel.Resolve("Joy to you.")

	var sprites []scene.Sprite
	for i := 0; i < 50; i++ {
		sc.Update(0.04)
		sprites = sc.Sprites(sprites[:0])
		r.Frame(screen, sprites, sc.StarPosition(), HUDState{Mode: ctrl.Mode(), Blessing: &panel}, 0.04, sc.Elapsed())
	}

	if ch, _, _, _ := screen.GetContent(2, 1); ch != 'S' {
		t.Errorf("title cell = %q, want 'S'", ch)
	}

	var drawn int
	w, h := screen.Size()
	for y := 4; y < h-4; y++ {
		for x := 0; x < w; x++ {
			if r.Canvas().DepthAt(x, y) < math.Inf(1) {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("no scene cells passed the depth test")
	}
}
