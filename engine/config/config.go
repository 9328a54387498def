// Package config loads the game configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	// Icon is a PNG path relative to the assets directory. Empty means no icon.
	Icon string `toml:"icon"`
}

type Log struct {
	Level string `toml:"level"`
}

type Audio struct {
	Enabled    bool    `toml:"enabled"`
	BGM        string  `toml:"bgm"`
	Gain       float64 `toml:"gain"`
	RaceGain   float64 `toml:"race_gain"`
	SampleRate int     `toml:"sample_rate"`
}

type Game struct {
	WinTarget  float32   `toml:"win_target"`
	LeftColor  []float32 `toml:"left_color"`
	RightColor []float32 `toml:"right_color"`
}

type Config struct {
	Window Window `toml:"window"`
	Log    Log    `toml:"log"`
	Audio  Audio  `toml:"audio"`
	Game   Game   `toml:"game"`
}

const (
	MinWinTarget = 100
	MaxWinTarget = 1000
)

func Default() Config {
	return Config{
		Window: Window{Title: "Click", Width: 1600, Height: 900, VSync: true},
		Log:    Log{Level: "info"},
		Audio: Audio{
			Enabled:    true,
			BGM:        "audio/bgm.wav",
			Gain:       0.5,
			RaceGain:   0.8,
			SampleRate: 44100,
		},
		Game: Game{
			WinTarget:  MinWinTarget,
			LeftColor:  []float32{0, 0, 0.75},
			RightColor: []float32{0.75, 0, 0},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Audio.Gain < 0 || c.Audio.RaceGain < 0 {
		return errors.New("audio gain must not be negative")
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("invalid audio sample rate %d", c.Audio.SampleRate)
	}
	if c.Game.WinTarget < MinWinTarget || c.Game.WinTarget > MaxWinTarget {
		return fmt.Errorf("win target %v out of range [%d, %d]", c.Game.WinTarget, MinWinTarget, MaxWinTarget)
	}
	return nil
}
