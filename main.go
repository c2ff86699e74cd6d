package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/AisuKyobu/xmas-morph/internal/blessing"
	"github.com/AisuKyobu/xmas-morph/internal/chime"
	"github.com/AisuKyobu/xmas-morph/internal/config"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

// cardWidth 非交互模式下卡片的最大宽度
const cardWidth = 60

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	opts, err := config.Parse(args, os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	logger, closeLog, err := openLog(opts.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer closeLog()
	logger.Info("starting", "config", opts.ConfigPath, "fps", opts.FPS, "foliage", opts.Foliage,
		"mode", opts.Mode, "photos", len(opts.Photos), "seed", opts.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := newGenerator(ctx, opts, logger)

	if opts.Bless != "" {
		return printBlessing(ctx, opts.Bless, blessing.NewFetcher(gen, logger, opts.Blessing.Timeout), os.Stdout)
	}

	// 1. 初始化 Tcell
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	// 先恢复终端再打印 panic，否则输出会被吞掉
	defer func() {
		r := recover()
		screen.Fini()
		if r != nil {
			logger.Error("panic", "value", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, debug.Stack())
			code = 1
		}
	}()

	player := chime.Silent()
	if !opts.Mute {
		player = chime.New(opts.Volume, logger)
	}
	defer player.Close()

	app := NewApp(screen, opts, logger, gen, player)

	// 监听系统信号 (Ctrl+C / SIGTERM) 以优雅退出
	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-app.Done():
		}
	}()

	app.Run()
	logger.Info("bye")
	return 0
}

// openLog 终端被 tcell 占用，日志只能写文件
func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" || path == "-" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}

// newGenerator 没有密钥或创建失败时返回 nil，祝福退回兜底文案
func newGenerator(ctx context.Context, opts *config.Options, log *slog.Logger) blessing.Generator {
	g, err := blessing.NewGeminiGenerator(ctx, opts.Blessing.APIKey, opts.Blessing.Model)
	if err != nil {
		log.Warn("blessing generator unavailable", "err", err)
		return nil
	}
	return g
}

// printBlessing 非交互模式：打印一张卡片
func printBlessing(ctx context.Context, name string, f *blessing.Fetcher, out *os.File) int {
	text, ok := f.Fetch(ctx, name)
	if !ok {
		fmt.Fprintln(os.Stderr, "name must not be empty")
		return 2
	}
	width := cardWidth
	if fd := int(out.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			width = min(width, w-4)
		}
	}
	fmt.Fprintln(out, blessing.Card(name, text, width))
	return 0
}
