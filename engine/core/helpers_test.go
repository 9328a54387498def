package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/ui"
)

type fakeWindow struct {
	queue   [][]Event
	waits   []WaitPolicy
	cursors []ui.Cursor
	wakes   int
	w, h    int
}

func newFakeWindow(batches ...[]Event) *fakeWindow {
	return &fakeWindow{queue: batches, w: 800, h: 600}
}

func (w *fakeWindow) WaitEvents(p WaitPolicy) []Event {
	w.waits = append(w.waits, p)
	if len(w.queue) == 0 {
		return []Event{EventCloseRequested{}}
	}
	evs := w.queue[0]
	w.queue = w.queue[1:]
	return evs
}

func (w *fakeWindow) FramebufferSize() (int, int) { return w.w, w.h }
func (w *fakeWindow) SetTitle(string)             {}
func (w *fakeWindow) SetCursor(c ui.Cursor)       { w.cursors = append(w.cursors, c) }
func (w *fakeWindow) Close()                      {}
func (w *fakeWindow) Wake()                       { w.wakes++ }

type fakeSurface struct {
	id         int
	win        Window
	w, h       int
	seq        uint64
	inFlight   bool
	acquireErr error
	presentErr error
	clears     []colors.Color
	drawn      [][]ui.Primitive
	presents   int
	resizes    int
	destroyed  bool
}

func (s *fakeSurface) Resize(w, h int) {
	if w == 0 || h == 0 {
		return
	}
	s.w, s.h = w, h
	s.resizes++
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) AcquireFrame() (Frame, error) {
	if s.acquireErr != nil {
		return Frame{}, s.acquireErr
	}
	if s.win != nil {
		if fw, fh := s.win.FramebufferSize(); fw <= 0 || fh <= 0 {
			return Frame{}, ErrSurfaceMinimized
		}
	}
	if s.inFlight {
		return Frame{}, ErrFrameInFlight
	}
	s.seq++
	s.inFlight = true
	return Frame{Seq: s.seq, Width: s.w, Height: s.h}, nil
}

func (s *fakeSurface) Clear(c colors.Color) { s.clears = append(s.clears, c) }

func (s *fakeSurface) DrawUI(prims []ui.Primitive) error {
	frame := make([]ui.Primitive, len(prims))
	for i, p := range prims {
		// label text aliases the frame arena
		p.Text = strings.Clone(p.Text)
		frame[i] = p
	}
	s.drawn = append(s.drawn, frame)
	return nil
}

func (s *fakeSurface) Present(f Frame) error {
	if !s.inFlight || f.Seq != s.seq {
		return ErrFrameConsumed
	}
	s.inFlight = false
	if s.presentErr != nil {
		return s.presentErr
	}
	s.presents++
	return nil
}

func (s *fakeSurface) Destroy() { s.destroyed = true }

// gpu hands out fakeSurfaces and can be told to fail.
type gpu struct {
	fail     bool
	surfaces []*fakeSurface
}

func (g *gpu) factory(win Window) (Surface, error) {
	if g.fail {
		return nil, ErrNoAdapter
	}
	w, h := win.FramebufferSize()
	s := &fakeSurface{id: len(g.surfaces) + 1, win: win, w: w, h: h}
	g.surfaces = append(g.surfaces, s)
	return s, nil
}

func (g *gpu) last() *fakeSurface {
	if len(g.surfaces) == 0 {
		return nil
	}
	return g.surfaces[len(g.surfaces)-1]
}

// recState records every hook call into a shared log.
type recState struct {
	name string
	log  *[]string

	update       func(e *Engine) (Transition, LoopState)
	shadowUpdate func(e *Engine) LoopState
	render       func(e *Engine, ctx *ui.Ctx) Transition
	events       []StateEventKind
}

func newRec(name string, log *[]string) *recState {
	return &recState{name: name, log: log}
}

func (s *recState) rec(hook string) { *s.log = append(*s.log, s.name+"."+hook) }

func (s *recState) Start(*Engine) { s.rec("start") }
func (s *recState) Stop(*Engine)  { s.rec("stop") }

func (s *recState) Update(e *Engine) (Transition, LoopState) {
	s.rec("update")
	if s.update != nil {
		return s.update(e)
	}
	return None(), WaitIdle
}

func (s *recState) ShadowUpdate(e *Engine) LoopState {
	s.rec("shadowUpdate")
	if s.shadowUpdate != nil {
		return s.shadowUpdate(e)
	}
	return WaitIdle
}

func (s *recState) Render(e *Engine, ctx *ui.Ctx) Transition {
	s.rec("render")
	if s.render != nil {
		return s.render(e, ctx)
	}
	return None()
}

func (s *recState) ShadowRender(*Engine, *ui.Ctx) { s.rec("shadowRender") }

func (s *recState) OnEvent(_ *Engine, ev StateEvent) { s.events = append(s.events, ev.Kind) }

// once returns t on the first call and None afterwards.
func once(t Transition, ls LoopState) func(*Engine) (Transition, LoopState) {
	done := false
	return func(*Engine) (Transition, LoopState) {
		if done {
			return None(), ls
		}
		done = true
		return t, ls
	}
}

type fakeClock struct{ t time.Time }

func newClock() *fakeClock { return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)} }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// counter is a registry resource that knows which build it came from.
type counter struct {
	gen      int
	released bool
}

func (c *counter) Release() { c.released = true }

func (c *counter) String() string { return fmt.Sprintf("counter#%d", c.gen) }

func names(states []GameState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = s.(*recState).name
	}
	return out
}
