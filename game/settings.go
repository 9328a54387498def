// Package game holds the click race screens.
package game

import (
	"github.com/hubastard/clickrace/engine/audio"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/config"
	"github.com/hubastard/clickrace/engine/logx"
)

// Settings is what the menu hands to a race.
type Settings struct {
	WinTarget   float32
	Left, Right colors.Color
}

// SettingsFrom reads the race defaults from cfg, falling back to the first
// two palette colors when a configured color is malformed.
func SettingsFrom(cfg config.Game) Settings {
	s := Settings{WinTarget: cfg.WinTarget, Left: colors.Palette[0], Right: colors.Palette[1]}
	if c, ok := colors.FromSlice(cfg.LeftColor); ok {
		s.Left = c
	}
	if c, ok := colors.FromSlice(cfg.RightColor); ok {
		s.Right = c
	}
	if s.WinTarget < config.MinWinTarget || s.WinTarget > config.MaxWinTarget {
		s.WinTarget = config.MinWinTarget
	}
	return s
}

// Music is the looping background track shared by the screens. Every
// method is a no-op until Attach got a player and a clip.
type Music struct {
	player   *audio.Player
	handle   audio.Handle
	gain     float64
	raceGain float64
	racing   bool
}

func NewMusic(gain, raceGain float64) *Music {
	return &Music{gain: gain, raceGain: raceGain}
}

// Attach starts clip looping on p. A second Attach replaces the track.
func (m *Music) Attach(p *audio.Player, clip *audio.Buffer) {
	if p == nil || clip == nil {
		return
	}
	if m.player != nil {
		m.player.Stop(m.handle)
	}
	m.player = p
	m.handle = p.PlayLooping(clip)
	m.apply()
	logx.Logger().Info("background music started", "length", clip.Duration())
}

// Racing switches between the menu and the race gain.
func (m *Music) Racing(on bool) {
	m.racing = on
	m.apply()
}

// Playing reports whether a track is attached and still going.
func (m *Music) Playing() bool {
	return m.player != nil && m.player.Playing(m.handle)
}

func (m *Music) apply() {
	if m.player == nil {
		return
	}
	g := m.gain
	if m.racing {
		g = m.raceGain
	}
	m.player.SetGain(m.handle, g)
}
