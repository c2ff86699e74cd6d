// Package blessing 调用外部文本生成服务为来宾写一句祝福，失败时返回固定的兜底句子
package blessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fallback 生成失败时显示的固定句子
const Fallback = "May the golden glow of the season illuminate your path with eternal prosperity."

// Generator 文本生成的边界
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse 服务返回了空文本
var ErrEmptyResponse = errors.New("blessing: empty response")

const promptTemplate = `
You are the spirit of the "Arix Signature Christmas Tree", a symbol of ultimate luxury, elegance, and timeless beauty.
Write a short, poetic, and highly sophisticated holiday blessing for a guest named "%s".

Tone: Aristocratic, warm, magical, opulent. Use words like "golden", "emerald", "eternal", "prosperity".
Length: Maximum 2 sentences.
Output: Just the text of the blessing.
`

// Prompt 用来宾名字填充提示词
func Prompt(name string) string {
	return fmt.Sprintf(promptTemplate, name)
}

// Fetcher 没有重试、没有排队；一次调用对应一次请求
type Fetcher struct {
	gen     Generator
	log     *slog.Logger
	timeout time.Duration
}

// NewFetcher timeout <= 0 表示不设超时
func NewFetcher(gen Generator, log *slog.Logger, timeout time.Duration) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{gen: gen, log: log, timeout: timeout}
}

// Fetch 名字只有空白时不发请求，返回 ok=false。
// 其他情况总是返回可显示的文本：出错或结果为空时是 Fallback。
func (f *Fetcher) Fetch(ctx context.Context, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	id := uuid.New()
	log := f.log.With("request_id", id.String(), "guest", name)
	log.Info("blessing requested")

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := f.generate(ctx, name)
	if err != nil {
		log.Error("blessing generation failed", "err", err, "elapsed", time.Since(start))
		return Fallback, true
	}

	log.Info("blessing received", "chars", len(text), "elapsed", time.Since(start))
	return text, true
}

func (f *Fetcher) generate(ctx context.Context, name string) (string, error) {
	if f.gen == nil {
		return "", errors.New("blessing: no generator configured")
	}
	text, err := f.gen.Generate(ctx, Prompt(name))
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
