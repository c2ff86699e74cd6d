package chime

import (
	"math"
	"testing"
	"time"

	"github.com/AisuKyobu/xmas-morph/internal/mode"
)

func TestBellLengthAndAmplitude(t *testing.T) {
	for _, m := range []mode.Mode{mode.Tree, mode.Scattered} {
		s, err := Bell(m, 0.5)
		if err != nil {
			t.Fatalf("Bell(%v): %v", m, err)
		}

		buf := make([][2]float64, 512)
		total := 0
		peak := 0.0
		for {
			n, ok := s.Stream(buf)
			for _, smp := range buf[:n] {
				peak = math.Max(peak, math.Abs(smp[0]))
			}
			total += n
			if !ok {
				break
			}
		}

		want := SampleRate.N(180*time.Millisecond) + SampleRate.N(420*time.Millisecond)
		if total != want {
			t.Errorf("%v: %d samples, want %d", m, total, want)
		}
		if peak == 0 || peak > 0.5*0.85+1e-9 {
			t.Errorf("%v: peak %v out of range", m, peak)
		}
	}
}

func TestSilentPlayerIsNoop(t *testing.T) {
	p := Silent()
	if p.Enabled() {
		t.Fatal("silent player reports enabled")
	}
	p.Play(mode.Scattered)
	p.Close()
}
