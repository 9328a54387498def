package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"runtime"

	"github.com/hubastard/clickrace/engine/assets"
	"github.com/hubastard/clickrace/engine/audio"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/config"
	"github.com/hubastard/clickrace/engine/core"
	glbackend "github.com/hubastard/clickrace/engine/gfx/gl"
	"github.com/hubastard/clickrace/engine/logx"
	"github.com/hubastard/clickrace/engine/platform"
	"github.com/hubastard/clickrace/engine/profiler"
	"github.com/hubastard/clickrace/game"
)

// glfw and GL calls must stay on the main thread.
func init() { runtime.LockOSThread() }

func main() {
	configPath := flag.String("config", "clickrace.toml", "path to the TOML config file")
	logLevel := flag.String("log-level", "", "log level: trace, debug, info, warn or error")
	winTarget := flag.Float64("win-target", 0, "progress needed to win a race (overrides the config)")
	flag.Parse()

	if err := run(*configPath, *logLevel, float32(*winTarget)); err != nil {
		fmt.Fprintln(os.Stderr, "clickrace:", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string, winTarget float32) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if winTarget != 0 {
		cfg.Game.WinTarget = winTarget
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logx.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logx.New(os.Stderr, level)
	logx.SetLogger(log)
	profiler.Init(1 << 12)

	am, err := assets.NewManager()
	if err != nil {
		return err
	}

	var icon image.Image
	if cfg.Window.Icon != "" {
		if icon, err = am.LoadImage(cfg.Window.Icon); err != nil {
			log.Warn("window icon not loaded", "err", err)
			icon = nil
		}
	}
	win, err := platform.NewGLFWWindow(cfg.Window, icon)
	if err != nil {
		return err
	}
	defer win.Close()

	var player *audio.Player
	if cfg.Audio.Enabled {
		if player, err = audio.New(cfg.Audio.SampleRate); err != nil {
			log.Warn("audio disabled", "err", err)
			player = nil
		}
	}

	d := core.NewDriver(win, core.Options{
		NewSurface: glbackend.NewSurfaceFactory(am),
		ClearColor: colors.DarkGray,
		Audio:      player,
	})
	d.Engine().Resources.Register(core.ResourceInvertColor, glbackend.NewInvertColorFactory(am))
	d.Engine().Resources.Register(core.ResourcePointSprites, glbackend.NewPointSpritesFactory(am))

	menu := game.NewMainMenu(game.SettingsFrom(cfg.Game), game.NewMusic(cfg.Audio.Gain, cfg.Audio.RaceGain))
	if player != nil && cfg.Audio.BGM != "" {
		go loadMusic(d, am, menu, cfg.Audio.BGM)
	}

	return d.Run(menu)
}

// loadMusic decodes the background track off the loop and hands it over.
func loadMusic(d *core.Driver, am *assets.Manager, menu *game.MainMenu, rel string) {
	f, err := am.Open(rel)
	if err != nil {
		logx.Logger().Warn("background music not found", "path", rel, "err", err)
		return
	}
	clip, err := audio.Decode(f)
	if err != nil {
		logx.Logger().Warn("background music not decoded", "path", rel, "err", err)
		return
	}
	d.Post(func(e *core.Engine) { menu.SetMusic(e, clip) })
}
