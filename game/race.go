package game

import (
	"time"

	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/logx"
	"github.com/hubastard/clickrace/engine/profiler"
	"github.com/hubastard/clickrace/engine/scratch"
	"github.com/hubastard/clickrace/engine/ui"
)

const (
	// countdown is how long the Ready/Get/Set phase lasts.
	countdown   = 3 * time.Second
	// goShown is when the "Go" banner is gone.
	goShown     = 4 * time.Second
	// sampleEvery is the clicks-per-second sampling window.
	sampleEvery = 250 * time.Millisecond

	leftKey  = core.KeyA
	rightKey = core.Key6

	splitWidth = 8
)

type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "Left"
	case SideRight:
		return "Right"
	}
	return "None"
}

// clickLog keeps the press times of one player.
type clickLog struct {
	times []time.Time
}

func (c *clickLog) add(t time.Time) { c.times = append(c.times, t) }

// cps drops presses at or before from and returns the remaining count per
// second of [from, now].
func (c *clickLog) cps(from, now time.Time) float32 {
	i := 0
	for i < len(c.times) && !c.times[i].After(from) {
		i++
	}
	c.times = c.times[i:]
	sec := now.Sub(from).Seconds()
	if sec <= 0 {
		return 0
	}
	return float32(float64(len(c.times)) / sec)
}

// tugOfWar turns press rates into a moving split. A faster left player
// accelerates progress upwards, a faster right player downwards.
type tugOfWar struct {
	target      float32
	left, right clickLog
	windowStart time.Time
	accel       float32
	progress    float32
}

func newTugOfWar(target float32) *tugOfWar {
	return &tugOfWar{target: target}
}

func (t *tugOfWar) press(s Side, at time.Time) {
	switch s {
	case SideLeft:
		t.left.add(at)
	case SideRight:
		t.right.add(at)
	}
}

// step advances the race by dt seconds and reports the winner, if any.
func (t *tugOfWar) step(now time.Time, dt float32) Side {
	if t.windowStart.IsZero() {
		t.windowStart = now
	}
	if now.Sub(t.windowStart) >= sampleEvery {
		t.accel += t.left.cps(t.windowStart, now) - t.right.cps(t.windowStart, now)
		t.windowStart = now
	}
	t.progress += dt * t.accel
	switch {
	case t.progress >= t.target:
		return SideLeft
	case t.progress <= -t.target:
		return SideRight
	}
	return SideNone
}

// split is the x position dividing the two colors on a screen of width w.
func (t *tugOfWar) split(w float32) float32 {
	mid := w / 2 * (1 + t.progress/t.target)
	return min(max(mid, 0), w)
}

// countdownBanner builds the banner shown at elapsed into w and returns it
// with its opacity. An empty text means no banner.
func countdownBanner(elapsed time.Duration, w scratch.Builder) (string, float32) {
	left := (countdown - elapsed).Seconds()
	switch {
	case elapsed <= time.Second:
		return w.S("Ready ").F(left, 2).View(), 1
	case elapsed <= 2*time.Second:
		return w.S("Get ").F(left, 2).View(), 1
	case elapsed <= countdown:
		return w.S("Set ").F(left, 2).View(), 1
	case elapsed <= 3500*time.Millisecond:
		return "Go", 1
	case elapsed <= goShown:
		return "Go", float32((goShown - elapsed).Seconds() / 0.5)
	}
	return "", 0
}

var bannerColor = colors.FromRGB8(255, 0, 9)

// ClickRace is the two player screen: A against 6.
type ClickRace struct {
	core.BaseState

	settings Settings
	music    *Music

	started time.Time
	tug     *tugOfWar
	// presses seen since the last frame
	pending map[Side]int
	held    core.KeySet

	racing bool
	mid    float32
	height float32
}

func NewClickRace(s Settings, m *Music) *ClickRace {
	return &ClickRace{
		settings: s,
		music:    m,
		tug:      newTugOfWar(s.WinTarget),
		pending:  map[Side]int{},
		held:     core.KeySet{},
	}
}

func (c *ClickRace) Start(e *core.Engine) {
	c.started = e.Now()
	if c.music != nil {
		c.music.Racing(true)
	}
	logx.Logger().Info("race started", "win_target", c.settings.WinTarget)
}

func (c *ClickRace) Stop(e *core.Engine) {
	if c.music != nil {
		c.music.Racing(false)
	}
}

func (c *ClickRace) Update(e *core.Engine) (core.Transition, core.LoopState) {
	if e.Input.IsPressed(core.KeyEscape) {
		return core.Pop(), core.PollRender
	}
	return core.None(), core.PollRender
}

func (c *ClickRace) OnEvent(e *core.Engine, ev core.StateEvent) {
	switch ev.Kind {
	case core.EventWindow:
		k, ok := ev.Window.(core.EventKey)
		if !ok || k.Repeat || k.Synthetic {
			return
		}
		if !k.Down {
			c.held.Remove(k.Key)
			return
		}
		if c.held.Has(k.Key) {
			return
		}
		c.held.Add(k.Key)
		switch k.Key {
		case leftKey:
			c.pending[SideLeft]++
		case rightKey:
			c.pending[SideRight]++
		}
	case core.EventPostUIRender:
		c.drawSplit(e)
	}
}

func (c *ClickRace) Render(e *core.Engine, ctx *ui.Ctx) core.Transition {
	defer profiler.Start("ClickRace.Render")()

	now := e.Now()
	elapsed := now.Sub(c.started)
	w, h := ctx.Size()
	c.height = h

	if elapsed > countdown {
		for side, n := range c.pending {
			for i := 0; i < n; i++ {
				c.tug.press(side, now)
			}
		}
		winner := c.tug.step(now, float32(e.DT))
		c.mid = c.tug.split(w)
		c.racing = true

		ctx.Rect(0, 0, c.mid, h, c.settings.Left.WithAlpha(0.5))
		ctx.Rect(c.mid, 0, w-c.mid, h, c.settings.Right.WithAlpha(0.5))
		if _, ok := core.Lookup[core.EffectRenderer](e.Resources, core.ResourceInvertColor); !ok {
			ctx.Rect(c.mid-splitWidth/2, 0, splitWidth, h, colors.White)
		}

		if winner != SideNone {
			col := c.settings.Left
			if winner == SideRight {
				col = c.settings.Right
			}
			logx.Logger().Info("race finished", "winner", winner, "elapsed", elapsed-countdown)
			clear(c.pending)
			return core.Switch(NewResult(winner, col))
		}
	}
	clear(c.pending)

	if text, alpha := countdownBanner(elapsed, ctx.Text()); text != "" {
		ctx.LabelCentered(w/2, h/2, text, h/6, bannerColor.WithAlpha(alpha))
	}
	return core.None()
}

// drawSplit inverts the colors under the split line.
func (c *ClickRace) drawSplit(e *core.Engine) {
	if !c.racing {
		return
	}
	s, ok := e.Surface()
	if !ok {
		return
	}
	fx, ok := core.Lookup[core.EffectRenderer](e.Resources, core.ResourceInvertColor)
	if !ok {
		return
	}
	line := core.Rect{X: c.mid - splitWidth/2, W: splitWidth, H: c.height}
	if err := fx.Render(s, []core.Rect{line}); err != nil {
		logx.Logger().Warn("split line effect failed", "err", err)
	}
}
