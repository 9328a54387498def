package core

import "github.com/hubastard/clickrace/engine/ui"

// GameState is one layer of interactive behavior on the state stack.
//
// Only the top state's Update and Render produce transitions; every state,
// including the top, gets ShadowUpdate and ShadowRender for background work.
// Embed BaseState to get no-op defaults.
type GameState interface {
	Start(e *Engine)
	Update(e *Engine) (Transition, LoopState)
	ShadowUpdate(e *Engine) LoopState
	Render(e *Engine, ctx *ui.Ctx) Transition
	ShadowRender(e *Engine, ctx *ui.Ctx)
	OnEvent(e *Engine, ev StateEvent)
	Stop(e *Engine)
}

// BaseState implements every GameState hook as a no-op.
type BaseState struct{}

func (BaseState) Start(*Engine) {}

// Update asks for a redraw and then waits for input.
func (BaseState) Update(*Engine) (Transition, LoopState) { return None(), WaitRender }

func (BaseState) ShadowUpdate(*Engine) LoopState     { return WaitIdle }
func (BaseState) Render(*Engine, *ui.Ctx) Transition { return None() }
func (BaseState) ShadowRender(*Engine, *ui.Ctx)      {}
func (BaseState) OnEvent(*Engine, StateEvent)        {}
func (BaseState) Stop(*Engine)                       {}

type TransitionKind int

const (
	TransNone TransitionKind = iota
	TransPush
	TransPop
	TransSwitch
	TransReplace
	TransExit
	TransBatch
)

func (k TransitionKind) String() string {
	switch k {
	case TransNone:
		return "None"
	case TransPush:
		return "Push"
	case TransPop:
		return "Pop"
	case TransSwitch:
		return "Switch"
	case TransReplace:
		return "Replace"
	case TransExit:
		return "Exit"
	case TransBatch:
		return "Batch"
	}
	return "Unknown"
}

// Transition is a request to mutate the state stack.
type Transition struct {
	Kind  TransitionKind
	State GameState    // Push, Switch, Replace
	Batch []Transition // Batch
}

func None() Transition { return Transition{} }

// Push starts s and puts it on top. The previous top keeps running in the
// shadow passes.
func Push(s GameState) Transition { return Transition{Kind: TransPush, State: s} }

// Pop stops and removes the top state.
func Pop() Transition { return Transition{Kind: TransPop} }

// Switch stops the top state and puts s in its place without calling
// s.Start. Use Replace when the new state needs Start.
func Switch(s GameState) Transition { return Transition{Kind: TransSwitch, State: s} }

// Replace stops the top state, starts s and puts it in its place.
func Replace(s GameState) Transition { return Transition{Kind: TransReplace, State: s} }

// Exit stops every state top to bottom and ends the loop.
func Exit() Transition { return Transition{Kind: TransExit} }

// Batch applies ts in order within the same phase, so no tick observes the
// intermediate stacks.
func Batch(ts ...Transition) Transition { return Transition{Kind: TransBatch, Batch: ts} }
