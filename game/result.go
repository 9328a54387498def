package game

import (
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/ui"
)

const idBack = 1

// Result announces the winner until a key or click returns to the menu.
type Result struct {
	core.BaseState
	winner Side
	color  colors.Color
}

func NewResult(winner Side, col colors.Color) *Result {
	return &Result{winner: winner, color: col}
}

func (r *Result) Winner() Side { return r.winner }

func (r *Result) Update(e *core.Engine) (core.Transition, core.LoopState) {
	if e.Input.IsPressed(core.KeyEnter) || e.Input.IsPressed(core.KeyEscape) {
		return core.Pop(), core.WaitRender
	}
	return core.None(), core.WaitRender
}

func (r *Result) Render(e *core.Engine, ctx *ui.Ctx) core.Transition {
	w, h := ctx.Size()
	ctx.Rect(0, 0, w, h, r.color.WithAlpha(0.6))
	ctx.LabelCentered(w/2, h*0.4, ctx.Text().S(r.winner.String()).S(" wins!").View(), h/6, colors.White)

	bw, bh := w/4, h/10
	if ctx.Button(ui.ButtonProps{
		ID: idBack, X: (w - bw) / 2, Y: h * 0.6, W: bw, H: bh,
		Text: "Back", TextCol: colors.White, Bg: colors.DarkGray,
	}) {
		return core.Pop()
	}
	return core.None()
}
