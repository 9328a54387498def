package game

import (
	"github.com/hubastard/clickrace/engine/audio"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/config"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/ui"
)

// widget ids
const (
	idTarget = iota + 10
	idStart
	idLeft
	idRight
)

var menuBackground = colors.Color{0.125, 0.125, 0.125, 1}

// MainMenu is the bootstrap screen. It picks the race settings and starts
// the background music.
type MainMenu struct {
	core.BaseState

	settings Settings
	music    *Music
}

func NewMainMenu(s Settings, m *Music) *MainMenu {
	if m == nil {
		m = NewMusic(1, 1)
	}
	return &MainMenu{settings: s, music: m}
}

func (m *MainMenu) Settings() Settings { return m.settings }

// SetMusic starts clip on the engine player. Call it on the loop goroutine.
func (m *MainMenu) SetMusic(e *core.Engine, clip *audio.Buffer) {
	m.music.Attach(e.Audio, clip)
}

func (m *MainMenu) race() core.Transition {
	return core.Push(NewClickRace(m.settings, m.music))
}

func (m *MainMenu) Update(e *core.Engine) (core.Transition, core.LoopState) {
	in := e.Input
	switch {
	case in.IsPressed(core.KeyEscape):
		return core.Exit(), core.PollRender
	case in.IsPressed(core.KeyS):
		in.ConsumePressedAny()
		return core.Push(NewSoloClick()), core.PollRender
	case in.IsPressed(core.KeyEnter):
		return m.race(), core.PollRender
	}
	return core.None(), core.PollRender
}

// ShadowRender paints the background, also behind the other screens.
func (m *MainMenu) ShadowRender(e *core.Engine, ctx *ui.Ctx) {
	w, h := ctx.Size()
	ctx.Rect(0, 0, w, h, menuBackground)
}

func (m *MainMenu) Render(e *core.Engine, ctx *ui.Ctx) core.Transition {
	w, h := ctx.Size()
	rowH := h / 10
	col := ui.Column{X: w / 4, Y: h / 6, W: w / 2, Gap: rowH / 3, Align: ui.AlignCenter}

	x, y, rw, rh := col.Row(0, rowH)
	ctx.LabelCentered(x+rw/2, y+rh/2, "Click Race", rh, colors.White)

	x, y, rw, rh = col.Row(0, rowH/2)
	ctx.Label(x, y, ctx.Text().S("Win Target: ").F(float64(m.settings.WinTarget), 0).View(), rh, colors.White)
	x, y, rw, rh = col.Row(0, rowH/2)
	ctx.Slider(ui.SliderProps{
		ID: idTarget, X: x, Y: y, W: rw, H: rh,
		Min: config.MinWinTarget, Max: config.MaxWinTarget, Step: 10,
	}, &m.settings.WinTarget)

	x, y, rw, rh = col.Row(0, rowH/2)
	half := rw / 2
	ctx.Label(x, y, "Left Color (A)", rh*0.8, colors.White)
	ctx.Label(x+half, y, "Right Color (6)", rh*0.8, colors.White)
	x, y, _, rh = col.Row(0, rowH)
	if ctx.Swatch(ui.SwatchProps{ID: idLeft, X: x, Y: y, W: half * 0.8, H: rh, Color: m.settings.Left}) {
		m.settings.Left = nextColor(m.settings.Left)
	}
	if ctx.Swatch(ui.SwatchProps{ID: idRight, X: x + half, Y: y, W: half * 0.8, H: rh, Color: m.settings.Right}) {
		m.settings.Right = nextColor(m.settings.Right)
	}

	x, y, rw, rh = col.Row(w/4, rowH*1.5)
	if ctx.Button(ui.ButtonProps{
		ID: idStart, X: x, Y: y, W: rw, H: rh,
		Text: "Start", TextCol: colors.White, Bg: colors.Gray,
	}) {
		return m.race()
	}

	ctx.LabelCentered(w/2, h*0.92, "Enter: race   S: solo   Escape: quit", h/30, colors.Gray)
	return core.None()
}

// nextColor returns the palette entry after c, or the first one when c is
// not in the palette.
func nextColor(c colors.Color) colors.Color {
	for i, p := range colors.Palette {
		if p == c {
			return colors.Palette[(i+1)%len(colors.Palette)]
		}
	}
	return colors.Palette[0]
}
