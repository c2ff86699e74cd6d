package layout

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestTreeVolumeStaysInsideCone(t *testing.T) {
	tests := []struct {
		name string
		vol  TreeVolume
	}{
		{"foliage", TreeVolume{Cone: Cone{Bottom: -3.5, Height: 7, BaseRadius: 2.5}, Heights: Band{-3.5, 3.5}}},
		{"ornament", TreeVolume{Cone: Cone{Bottom: -3.5, Height: 6.5, BaseRadius: 2.88}, Heights: Band{-3.2, 3.0}, Inner: 0.8 / 1.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewPCG(1, 2))
			for i := 0; i < 5000; i++ {
				p := tt.vol.Sample(rng)
				if !tt.vol.Heights.Contains(p.Y) {
					t.Fatalf("height %v outside %v", p.Y, tt.vol.Heights)
				}
				r := math.Hypot(p.X, p.Z)
				if limit := tt.vol.Cone.RadiusAt(p.Y); r > limit+1e-9 {
					t.Fatalf("radius %v exceeds %v at y=%v", r, limit, p.Y)
				}
				if r < tt.vol.Inner*tt.vol.Cone.RadiusAt(p.Y)-1e-9 {
					t.Fatalf("radius %v inside inner ring at y=%v", r, p.Y)
				}
			}
		})
	}
}

func TestTreeVolumeAreaDensity(t *testing.T) {
	// 面积均匀时，落在半径一半以内的比例约为 1/4
	vol := TreeVolume{Cone: Cone{Bottom: 0, Height: 1, BaseRadius: 1}, Heights: Band{0, 0}}
	rng := rand.New(rand.NewPCG(7, 7))

	inner := 0
	const n = 20000
	for i := 0; i < n; i++ {
		p := vol.Sample(rng)
		if math.Hypot(p.X, p.Z) < 0.5 {
			inner++
		}
	}
	frac := float64(inner) / n
	if frac < 0.22 || frac > 0.28 {
		t.Fatalf("inner fraction = %.3f, want about 0.25", frac)
	}
}

func TestShellStaysInsideBand(t *testing.T) {
	shell := Shell{Radius: Band{6, 10}}
	rng := rand.New(rand.NewPCG(3, 4))

	var zSum float64
	for i := 0; i < 5000; i++ {
		p := shell.Sample(rng)
		if !shell.Contains(p) {
			t.Fatalf("distance %v outside %v", p.Norm(), shell.Radius)
		}
		zSum += p.Z
	}
	// 极角采样均匀时 z 的均值接近 0
	if mean := zSum / 5000; math.Abs(mean) > 0.5 {
		t.Fatalf("z mean = %v, sphere sampling looks biased", mean)
	}
}

func TestGenerateCount(t *testing.T) {
	tree := TreeVolume{Cone: Cone{Bottom: -3.5, Height: 7, BaseRadius: 2.5}, Heights: Band{-3.5, 3.5}}
	shell := Shell{Radius: Band{6, 10}}
	rng := rand.New(rand.NewPCG(5, 6))

	for _, n := range []int{-3, 0, 1, 250} {
		got := Generate(n, tree, shell, rng)
		want := n
		if want < 0 {
			want = 0
		}
		if len(got) != want {
			t.Errorf("Generate(%d) returned %d pairs", n, len(got))
		}
	}
}

func TestSpiralDeterministic(t *testing.T) {
	s := Spiral{Count: 6, Bottom: -2.5, Rise: 5.5, Cone: Cone{Bottom: -3.5, Height: 7, BaseRadius: 2.5}, Offset: 0.6, Turns: 2}

	prevY := math.Inf(-1)
	for i := 0; i < s.Count; i++ {
		a, yawA := s.At(i)
		b, yawB := s.At(i)
		if a != b || yawA != yawB {
			t.Fatalf("At(%d) not deterministic", i)
		}
		if a.Y <= prevY {
			t.Fatalf("At(%d).Y = %v, spiral must rise", i, a.Y)
		}
		prevY = a.Y

		wantR := s.Cone.RadiusAt(a.Y) + s.Offset
		if r := math.Hypot(a.X, a.Z); math.Abs(r-wantR) > 1e-9 {
			t.Fatalf("At(%d) radius = %v, want %v", i, r, wantR)
		}
	}

	first, yaw := s.At(0)
	if first.Y != -2.5 || math.Abs(yaw-math.Pi/2) > 1e-12 {
		t.Fatalf("At(0) = %v yaw %v", first, yaw)
	}
}

func TestConeRadiusClamped(t *testing.T) {
	c := Cone{Bottom: -3.5, Height: 6.5, BaseRadius: 2.4}
	if r := c.RadiusAt(3.3); r != 0 {
		t.Errorf("above apex radius = %v, want 0", r)
	}
	if r := c.RadiusAt(-10); r != 2.4 {
		t.Errorf("below base radius = %v, want 2.4", r)
	}
}
