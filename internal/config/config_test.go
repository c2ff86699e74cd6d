package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/AisuKyobu/xmas-morph/internal/mode"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDefaults(t *testing.T) {
	opts, err := Parse([]string{"-config", writeConfig(t, "")}, noEnv, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Default()
	if opts.FPS != want.FPS || opts.Foliage != want.Foliage || opts.Mode != mode.Tree {
		t.Fatalf("defaults = %+v", opts.Config)
	}
	if opts.Foliage != 1500 {
		t.Fatalf("foliage = %d, want 1500", opts.Foliage)
	}
	if opts.Blessing.Model != "gemini-2.5-flash" {
		t.Fatalf("model = %q", opts.Blessing.Model)
	}
}

func TestParseFileThenFlags(t *testing.T) {
	path := writeConfig(t, `
fps = 30
foliage = 800
mode = "scattered"
photos = ["a.png"]

[blessing]
api_key = "from-file"
timeout = "5s"
`)

	opts, err := Parse([]string{"-config", path, "-fps", "60", "b.png", "c.png"}, noEnv, io.Discard)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if opts.FPS != 60 {
		t.Errorf("fps = %d, flag should win", opts.FPS)
	}
	if opts.Foliage != 800 || opts.Mode != mode.Scattered {
		t.Errorf("file values lost: %+v", opts.Config)
	}
	if !slices.Equal(opts.Photos, []string{"a.png", "b.png", "c.png"}) {
		t.Errorf("photos = %v", opts.Photos)
	}
	if opts.Blessing.APIKey != "from-file" || opts.Blessing.Timeout != 5*time.Second {
		t.Errorf("blessing = %+v", opts.Blessing)
	}
}

func TestParseAPIKeyFromEnv(t *testing.T) {
	env := func(k string) string {
		if k == "API_KEY" {
			return "from-env"
		}
		return ""
	}
	opts, err := Parse([]string{"-config", writeConfig(t, "")}, env, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Blessing.APIKey != "from-env" {
		t.Fatalf("api key = %q", opts.Blessing.APIKey)
	}

	opts, err = Parse([]string{"-config", writeConfig(t, ""), "-api-key", "flag"}, env, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Blessing.APIKey != "flag" {
		t.Fatalf("flag should override env, got %q", opts.Blessing.APIKey)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := [][]string{
		{"-mode", "chaos"},
		{"-fps", "0"},
		{"-foliage", "-5"},
	}
	for _, args := range tests {
		args = append([]string{"-config", writeConfig(t, "")}, args...)
		if _, err := Parse(args, noEnv, io.Discard); err == nil {
			t.Errorf("Parse(%v) should fail", args)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	cfg := Default()
	if err := Load(writeConfig(t, "colour = \"red\"\n"), &cfg); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a.png, ,b.jpg ,")
	if !slices.Equal(got, []string{"a.png", "b.jpg"}) {
		t.Fatalf("splitList = %v", got)
	}
}
