package mode

import (
	"slices"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"tree", Tree, false},
		{"scattered", Scattered, false},
		{"chaos", Tree, true},
		{"", Tree, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestControllerStartsAsTreeWithDefaults(t *testing.T) {
	c := NewController(Tree)
	if c.Mode() != Tree {
		t.Fatalf("initial mode = %v", c.Mode())
	}
	if !slices.Equal(c.Photos(), DefaultPhotos) {
		t.Fatalf("initial photos = %v", c.Photos())
	}
}

func TestSetPhotosEmptyFallsBackToDefaults(t *testing.T) {
	c := NewController(Tree)
	c.SetPhotos([]string{"a.png", "b.jpg"})
	gen := c.Generation()

	c.SetPhotos(nil)
	if !slices.Equal(c.Photos(), DefaultPhotos) {
		t.Fatalf("photos after empty set = %v", c.Photos())
	}
	if c.Generation() != gen+1 {
		t.Fatalf("generation = %d, want %d", c.Generation(), gen+1)
	}

	c.SetPhotos([]string{})
	if len(c.Photos()) != len(DefaultPhotos) {
		t.Fatal("empty slice should also fall back")
	}
}

func TestPhotosReturnsCopy(t *testing.T) {
	c := NewController(Tree)
	refs := []string{"a.png"}
	c.SetPhotos(refs)
	refs[0] = "mutated"

	got := c.Photos()
	got[0] = "also mutated"
	if c.Photos()[0] != "a.png" {
		t.Fatalf("controller list was aliased: %v", c.Photos())
	}
}

func TestSetModeNotifiesOnChangeOnly(t *testing.T) {
	c := NewController(Tree)
	var seen []Mode
	c.Subscribe(func(m Mode) { seen = append(seen, m) })

	c.SetMode(Tree)
	c.Toggle()
	c.SetMode(Scattered)
	c.Toggle()
	c.SetMode(Mode(42))

	want := []Mode{Scattered, Tree}
	if !slices.Equal(seen, want) {
		t.Fatalf("notifications = %v, want %v", seen, want)
	}
	if c.Mode() != Tree {
		t.Fatalf("invalid value overwrote mode: %v", c.Mode())
	}
}

func TestModeTextRoundTrip(t *testing.T) {
	var m Mode
	if err := m.UnmarshalText([]byte("scattered")); err != nil || m != Scattered {
		t.Fatalf("UnmarshalText = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatal("expected error for bogus mode")
	}
}
