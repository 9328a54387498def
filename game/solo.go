package game

import (
	"time"

	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/logx"
	"github.com/hubastard/clickrace/engine/ui"
)

const (
	cpsWindow  = time.Second
	rippleLife = 500 * time.Millisecond
	rippleSize = 160
	soloRedraw = 50 * time.Millisecond
)

type ripple struct {
	x, y float32
	at   time.Time
}

// SoloClick counts Space and left-button presses and shows the rate over
// the last second. Clicks leave a fading ripple.
type SoloClick struct {
	core.BaseState

	total   int
	recent  []time.Time
	ripples []ripple
	held    core.KeySet
	px, py  float32
}

func NewSoloClick() *SoloClick {
	return &SoloClick{held: core.KeySet{}}
}

func (s *SoloClick) Total() int { return s.total }

// CPS is the number of presses in the second before now.
func (s *SoloClick) CPS(now time.Time) int {
	i := 0
	for i < len(s.recent) && now.Sub(s.recent[i]) > cpsWindow {
		i++
	}
	s.recent = s.recent[i:]
	return len(s.recent)
}

func (s *SoloClick) Stop(e *core.Engine) {
	logx.Logger().Info("solo click finished", "presses", s.total)
}

func (s *SoloClick) Update(e *core.Engine) (core.Transition, core.LoopState) {
	if e.Input.IsPressed(core.KeyEscape) {
		return core.Pop(), core.WaitRender
	}
	// the rate decays without input, so keep redrawing
	return core.None(), core.WaitFor(soloRedraw, true)
}

func (s *SoloClick) OnEvent(e *core.Engine, ev core.StateEvent) {
	switch ev.Kind {
	case core.EventWindow:
		switch w := ev.Window.(type) {
		case core.EventMouseMove:
			s.px, s.py = float32(w.X), float32(w.Y)
		case core.EventKey:
			if w.Key == core.KeySpace && !w.Repeat && !w.Synthetic {
				s.edge(e, w.Key, w.Down, false)
			}
		case core.EventMouseButton:
			if w.Button == core.KeyMouseLeft {
				s.edge(e, w.Button, w.Down, true)
			}
		}
	case core.EventPostUIRender:
		s.drawRipples(e)
	}
}

func (s *SoloClick) edge(e *core.Engine, k core.Key, down, withRipple bool) {
	if !down {
		s.held.Remove(k)
		return
	}
	if s.held.Has(k) {
		return
	}
	s.held.Add(k)
	now := e.Now()
	s.total++
	s.recent = append(s.recent, now)
	if withRipple {
		s.ripples = append(s.ripples, ripple{x: s.px, y: s.py, at: now})
	}
}

func (s *SoloClick) Render(e *core.Engine, ctx *ui.Ctx) core.Transition {
	w, h := ctx.Size()
	now := e.Now()
	ctx.Rect(0, 0, w, h, colors.DarkGray)
	ctx.LabelCentered(w/2, h*0.35, ctx.Text().I(s.total).View(), h/5, colors.White)
	ctx.LabelCentered(w/2, h*0.6, ctx.Text().I(s.CPS(now)).S(" clicks/s").View(), h/12, colors.Yellow)
	ctx.LabelCentered(w/2, h*0.85, "Space or click. Escape to leave.", h/30, colors.Gray)
	return core.None()
}

// liveRipples drops finished ripples and returns the rest as growing
// squares with their opacity.
func (s *SoloClick) liveRipples(now time.Time) ([]core.Rect, []float32) {
	kept := s.ripples[:0]
	var rects []core.Rect
	var alphas []float32
	for _, r := range s.ripples {
		age := now.Sub(r.at)
		if age >= rippleLife {
			continue
		}
		kept = append(kept, r)
		t := float32(age) / float32(rippleLife)
		size := rippleSize * t
		rects = append(rects, core.Rect{X: r.x - size/2, Y: r.y - size/2, W: size, H: size})
		alphas = append(alphas, 1-t)
	}
	s.ripples = kept
	return rects, alphas
}

type pointSprites interface {
	core.EffectRenderer
	SetColor(c colors.Color)
}

func (s *SoloClick) drawRipples(e *core.Engine) {
	rects, alphas := s.liveRipples(e.Now())
	if len(rects) == 0 {
		return
	}
	surf, ok := e.Surface()
	if !ok {
		return
	}
	fx, ok := core.Lookup[pointSprites](e.Resources, core.ResourcePointSprites)
	if !ok {
		return
	}
	for i, r := range rects {
		fx.SetColor(colors.Cyan.WithAlpha(alphas[i]))
		if err := fx.Render(surf, []core.Rect{r}); err != nil {
			logx.Logger().Warn("ripple effect failed", "err", err)
			return
		}
	}
}
