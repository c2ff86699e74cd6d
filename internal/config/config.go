// Package config 汇总默认值、可选的 TOML 配置文件和命令行参数
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AisuKyobu/xmas-morph/internal/mode"
	"github.com/BurntSushi/toml"
)

// Config 运行参数
type Config struct {
	FPS     int       `toml:"fps"`
	Foliage int       `toml:"foliage"`
	Mode    mode.Mode `toml:"mode"`
	Photos  []string  `toml:"photos"`
	Mute    bool      `toml:"mute"`
	Volume  float64   `toml:"volume"`
	Seed    uint64    `toml:"seed"`
	LogFile string    `toml:"log_file"`

	Blessing Blessing `toml:"blessing"`
}

// Blessing 文本生成服务的设置
type Blessing struct {
	APIKey  string        `toml:"api_key"`
	Model   string        `toml:"model"`
	Timeout time.Duration `toml:"timeout"`
}

// Default 默认值
func Default() Config {
	return Config{
		FPS: 25,
		// 终端里一个粒子占一格，4000 会糊成一片，默认少一些
		Foliage: 1500,
		Mode:    mode.Tree,
		Volume:  0.4,
		LogFile: filepath.Join(os.TempDir(), "xmas-morph.log"),
		Blessing: Blessing{
			Model:   "gemini-2.5-flash",
			Timeout: 30 * time.Second,
		},
	}
}

// Options 解析结果：配置加上只对本次运行有意义的参数
type Options struct {
	Config
	ConfigPath string
	// Bless 非空时只打印一张祝福卡片然后退出
	Bless string
}

// Validate 检查取值范围
func (c Config) Validate() error {
	var errs []error
	if c.FPS < 1 || c.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps %d out of range 1..120", c.FPS))
	}
	if c.Foliage < 0 {
		errs = append(errs, fmt.Errorf("foliage %d must not be negative", c.Foliage))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %v out of range 0..1", c.Volume))
	}
	return errors.Join(errs...)
}

// Load 把 TOML 文件叠加到 cfg 上，文件里没写的字段保持原值
func Load(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// DefaultPath 用户配置目录下的 xmas-morph/config.toml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xmas-morph", "config.toml")
}

// Parse 优先级：默认值 < 配置文件 < 环境变量（仅密钥）< 命令行参数
func Parse(args []string, getenv func(string) string, stderr io.Writer) (*Options, error) {
	fs := flag.NewFlagSet("xmas-morph", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "path to a TOML config file")
		fps        = fs.Int("fps", 0, "frames per second")
		foliage    = fs.Int("foliage", 0, "number of foliage particles")
		modeName   = fs.String("mode", "", "initial mode: tree or scattered")
		photos     = fs.String("photos", "", "comma separated photo paths or URLs")
		mute       = fs.Bool("mute", false, "disable the toggle chime")
		seed       = fs.Uint64("seed", 0, "random seed (0 = time based)")
		bless      = fs.String("bless", "", "print a blessing for NAME and exit")
		apiKey     = fs.String("api-key", "", "Gemini API key (default $GEMINI_API_KEY or $API_KEY)")
		logFile    = fs.String("log", "", "log file path")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &Options{Config: Default()}

	path := *configPath
	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		if err := Load(path, &opts.Config); err != nil {
			return nil, err
		}
		opts.ConfigPath = path
	}

	if opts.Blessing.APIKey == "" {
		for _, k := range []string{"GEMINI_API_KEY", "API_KEY"} {
			if v := getenv(k); v != "" {
				opts.Blessing.APIKey = v
				break
			}
		}
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			opts.FPS = *fps
		case "foliage":
			opts.Foliage = *foliage
		case "mode":
			m, err := mode.ParseMode(*modeName)
			if err != nil {
				flagErr = err
				return
			}
			opts.Mode = m
		case "photos":
			opts.Photos = splitList(*photos)
		case "mute":
			opts.Mute = *mute
		case "seed":
			opts.Seed = *seed
		case "bless":
			opts.Bless = *bless
		case "api-key":
			opts.Blessing.APIKey = *apiKey
		case "log":
			opts.LogFile = *logFile
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}

	// 位置参数也当作照片
	if rest := fs.Args(); len(rest) > 0 {
		opts.Photos = append(opts.Photos, rest...)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
