package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AisuKyobu/xmas-morph/internal/blessing"
	"github.com/AisuKyobu/xmas-morph/internal/chime"
	"github.com/AisuKyobu/xmas-morph/internal/config"
	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/AisuKyobu/xmas-morph/internal/photo"
	"github.com/AisuKyobu/xmas-morph/internal/render"
	"github.com/AisuKyobu/xmas-morph/internal/scene"
	"github.com/gdamore/tcell/v2"
)

const (
	// 单帧最大步长：卡顿后不让元素一步跳到目标
	maxFrameStep = 0.1
	statusTTL    = 4.0 // 秒
)

// blessingResult 后台请求完成后经事件队列送回主循环
type blessingResult struct {
	text string
}

// App 所有状态只在主循环里修改；后台任务通过 PostEvent 回传结果
type App struct {
	opts   *config.Options
	log    *slog.Logger
	screen tcell.Screen

	ctrl     *mode.Controller
	scene    *scene.Scene
	renderer *render.Renderer
	chime    *chime.Player
	loader   *photo.Loader
	fetcher  *blessing.Fetcher

	panel  blessing.Panel
	prompt Prompt

	status      string
	statusUntil float64

	sprites []scene.Sprite

	ctx      context.Context
	cancel   context.CancelFunc
	quit     chan struct{}
	quitOnce sync.Once
}

// NewApp gen 为 nil 时祝福总是返回兜底文案
func NewApp(screen tcell.Screen, opts *config.Options, log *slog.Logger, gen blessing.Generator, player *chime.Player) *App {
	if player == nil {
		player = chime.Silent()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		opts:     opts,
		log:      log,
		screen:   screen,
		ctrl:     mode.NewController(opts.Mode),
		renderer: render.New(opts.FPS, opts.Seed),
		chime:    player,
		loader:   photo.NewLoader(log),
		fetcher:  blessing.NewFetcher(gen, log, opts.Blessing.Timeout),
		ctx:      ctx,
		cancel:   cancel,
		quit:     make(chan struct{}),
	}
	a.ctrl.SetPhotos(opts.Photos)
	a.scene = scene.New(a.ctrl, scene.Options{FoliageCount: opts.Foliage, Seed: opts.Seed})

	a.ctrl.Subscribe(func(m mode.Mode) {
		a.log.Info("mode changed", "mode", m)
		a.chime.Play(m)
	})
	a.loadPhotos()
	return a
}

// Stop 可以重复调用
func (a *App) Stop() {
	a.quitOnce.Do(func() {
		a.cancel()
		close(a.quit)
	})
}

// Done 退出信号
func (a *App) Done() <-chan struct{} {
	return a.quit
}

// Run 阻塞直到 Stop
func (a *App) Run() {
	// 事件监听
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// 屏幕已关闭
				return
			}
			select {
			case events <- ev:
			case <-a.quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(a.opts.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-a.quit:
			return
		case ev := <-events:
			a.handleEvent(ev)
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxFrameStep)
			last = now
			a.tick(dt)
		}
	}
}

// tick 更新场景再画一帧
func (a *App) tick(dt float64) {
	a.scene.Update(dt)
	a.sprites = a.scene.Sprites(a.sprites[:0])

	if a.status != "" && a.scene.Elapsed() > a.statusUntil {
		a.status = ""
	}
	a.renderer.Frame(a.screen, a.sprites, a.scene.StarPosition(), a.hudState(), dt, a.scene.Elapsed())
	a.screen.Show()
}

func (a *App) hudState() render.HUDState {
	return render.HUDState{
		Mode:        a.ctrl.Mode(),
		Blessing:    &a.panel,
		PromptLabel: a.prompt.Label(),
		Prompt:      a.prompt.Text(),
		Status:      a.status,
	}
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.statusUntil = a.scene.Elapsed() + statusTTL
}

func (a *App) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.handleKey(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		a.handleResult(ev.Data())
	}
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		a.Stop()
		return
	}
	if a.prompt.Active() {
		text, kind, ok := a.prompt.Handle(ev)
		if !ok {
			return
		}
		switch kind {
		case promptBlessing:
			a.requestBlessing(text)
		case promptPhotos:
			a.replacePhotos(text)
		}
		return
	}

	if ev.Key() == tcell.KeyEscape {
		a.Stop()
		return
	}
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case 'q':
		a.Stop()
	case ' ', 't':
		a.ctrl.Toggle()
	case 'b':
		// 请求进行中不能再开
		if a.panel.State() != blessing.Pending {
			a.panel.Reset()
			a.prompt.Open(promptBlessing)
		}
	case 'x':
		if a.panel.State() == blessing.Resolved {
			a.panel.Reset()
		}
	case 'p':
		a.prompt.Open(promptPhotos)
	}
}

// requestBlessing 空白名字什么也不做
func (a *App) requestBlessing(name string) {
	if !a.panel.Begin(name) {
		return
	}
	go func() {
		text, ok := a.fetcher.Fetch(a.ctx, name)
		if !ok {
			text = blessing.Fallback
		}
		a.post(blessingResult{text: text})
	}()
}

func (a *App) replacePhotos(input string) {
	refs := splitRefs(input)
	if len(refs) == 0 {
		return
	}
	a.ctrl.SetPhotos(refs)
	a.log.Info("photos replaced", "count", len(refs), "generation", a.ctrl.Generation())
	a.setStatus("loading %d photos", len(refs))
	a.loadPhotos()
}

// loadPhotos 按当前代次异步加载缩略图
func (a *App) loadPhotos() {
	gen, refs := a.ctrl.Generation(), a.ctrl.Photos()
	a.renderer.ResetThumbnails(gen, refs)
	a.loader.LoadAll(a.ctx, gen, refs, func(r photo.Result) {
		a.post(r)
	})
}

func (a *App) handleResult(data any) {
	switch r := data.(type) {
	case blessingResult:
		a.panel.Resolve(r.text)
	case photo.Result:
		if r.Err != nil {
			if r.Generation == a.ctrl.Generation() {
				a.setStatus("photo %d unavailable", r.Index+1)
			}
			return
		}
		if !a.renderer.SetThumbnail(r.Generation, r.Index, r.Thumb) {
			a.log.Debug("stale thumbnail dropped", "index", r.Index, "generation", r.Generation)
		}
	}
}

// post 队列满时丢弃并记录
func (a *App) post(data any) {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		a.log.Warn("event dropped", "err", err)
	}
}

// splitRefs 逗号分隔，去掉空白和引号（拖拽文件进终端时常带引号）
func splitRefs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
