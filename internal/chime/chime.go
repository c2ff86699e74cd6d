// Package chime 切换形态时播放一声铃音
package chime

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SampleRate 采样率
const SampleRate = beep.SampleRate(44100)

// 音高：成树时上行五度，散开时下行
var intervals = map[mode.Mode][2]float64{
	mode.Tree:      {659.25, 987.77},
	mode.Scattered: {987.77, 659.25},
}

// Player 初始化失败时退化为静音
type Player struct {
	enabled bool
	volume  float64
	log     *slog.Logger
}

// Silent 不播放声音的 Player，用于 -mute 和测试
func Silent() *Player {
	return &Player{}
}

// New 初始化扬声器；失败只记日志，程序照常运行
func New(volume float64, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	p := &Player{volume: volume, log: log}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		log.Warn("audio initialization failed, chime disabled", "err", err)
		return p
	}
	p.enabled = true
	return p
}

// Enabled 是否真的会出声
func (p *Player) Enabled() bool {
	return p.enabled
}

// Play 播放对应形态的铃音，不阻塞
func (p *Player) Play(m mode.Mode) {
	if !p.enabled {
		return
	}
	s, err := Bell(m, p.volume)
	if err != nil {
		p.log.Warn("chime synthesis failed", "err", err)
		return
	}
	speaker.Play(s)
}

// Close 释放音频设备
func (p *Player) Close() {
	if p.enabled {
		speaker.Close()
		p.enabled = false
	}
}

// Bell 两个音符先后响起，每个音符由基音和一个泛音叠加，再乘以指数衰减包络
func Bell(m mode.Mode, volume float64) (beep.Streamer, error) {
	notes := intervals[m]
	first, err := note(notes[0], 180*time.Millisecond, volume)
	if err != nil {
		return nil, err
	}
	second, err := note(notes[1], 420*time.Millisecond, volume)
	if err != nil {
		return nil, err
	}
	return beep.Seq(first, second), nil
}

func note(freq float64, d time.Duration, volume float64) (beep.Streamer, error) {
	fundamental, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("sine %v Hz: %w", freq, err)
	}
	overtone, err := generators.SineTone(SampleRate, freq*2.76)
	if err != nil {
		return nil, fmt.Errorf("sine %v Hz: %w", freq*2.76, err)
	}

	n := SampleRate.N(d)
	mixed := beep.Take(n, beep.Mix(
		gain(beep.Take(n, fundamental), 0.6),
		gain(beep.Take(n, overtone), 0.25),
	))
	return decay(mixed, n, volume), nil
}

func gain(s beep.Streamer, g float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			samples[i][0] *= g
			samples[i][1] *= g
		}
		return n, ok
	})
}

// decay 指数衰减包络，total 个采样后降到约 -40dB
func decay(s beep.Streamer, total int, volume float64) beep.Streamer {
	pos := 0
	k := math.Log(100) / float64(max(total, 1))
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			env := volume * math.Exp(-k*float64(pos))
			samples[i][0] *= env
			samples[i][1] *= env
			pos++
		}
		return n, ok
	})
}
