package core

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/hubastard/clickrace/engine/audio"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/logx"
	"github.com/hubastard/clickrace/engine/profiler"
	"github.com/hubastard/clickrace/engine/ui"
)

// ErrEmptyStack is returned when a transition needs a state and the stack
// has none. It is a programming error and ends the loop.
var ErrEmptyStack = errors.New("state stack is empty")

// Options configures a Driver.
type Options struct {
	// NewSurface creates the GPU surface. Nil runs without a GPU.
	NewSurface SurfaceFactory
	ClearColor colors.Color
	Audio      *audio.Player
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Driver owns the window, the state stack and the per-frame sequence:
// input bake, logic update, UI build + render, submit, present.
type Driver struct {
	eng     *Engine
	stack   StateStack
	running bool
	opts    Options

	pressed  KeySet
	released KeySet
	// platform asked for a frame during this tick
	systemRedraw bool
	lastRender   time.Time

	posts chan func(*Engine)
}

func NewDriver(win Window, opts Options) *Driver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	d := &Driver{
		opts:     opts,
		pressed:  KeySet{},
		released: KeySet{},
		posts:    make(chan func(*Engine), 16),
	}
	d.eng = &Engine{
		Window: win,
		Input:  NewInput(),
		UI:     ui.New(ui.ApproxMeasurer{}),
		Audio:  opts.Audio,
		start:  opts.Now(),
		now:    opts.Now,
	}
	d.eng.Resources = NewRegistry(func() Surface { return d.eng.surface })
	return d
}

func (d *Driver) Engine() *Engine { return d.eng }
func (d *Driver) Running() bool   { return d.running }

// States returns the stack bottom to top.
func (d *Driver) States() []GameState { return d.stack.Snapshot() }

// Post queues f to run on the loop goroutine at the start of the next tick.
// It is the only way other goroutines may touch engine or state data.
func (d *Driver) Post(f func(*Engine)) {
	d.posts <- f
	if w, ok := d.eng.Window.(waker); ok {
		w.Wake()
	}
}

// Start starts the bootstrap state and then creates the surface, so the
// state sees the first EventGPUAvailable.
func (d *Driver) Start(initial GameState) error {
	if initial == nil {
		return errors.New("driver: nil initial state")
	}
	d.running = true
	initial.Start(d.eng)
	d.stack.Push(initial)
	d.createSurface()
	return nil
}

// Run drives the loop until the stack exits. Graphics contexts need the
// main OS thread, so Run must be called from it.
func (d *Driver) Run(initial GameState) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := d.Start(initial); err != nil {
		return err
	}
	defer d.shutdown()

	wait := WaitPolicy{Kind: Poll}
	for d.running {
		events := d.eng.Window.WaitEvents(wait)
		var err error
		if wait, err = d.Tick(events); err != nil {
			return err
		}
	}
	return nil
}

// Tick runs one loop iteration over a batch of platform events and returns
// how the caller should wait for the next batch.
func (d *Driver) Tick(events []Event) (WaitPolicy, error) {
	d.drainPosts()

	for _, ev := range events {
		if err := d.handleEvent(ev); err != nil {
			return d.abort(err)
		}
	}

	// events cleared
	if len(d.pressed) > 0 || len(d.released) > 0 {
		logx.Trace("process input", "pressed", keyList(d.pressed), "released", keyList(d.released))
		d.eng.Input.Process(d.pressed, d.released)
		clear(d.pressed)
		clear(d.released)
	}

	if !d.running {
		return WaitPolicy{}, nil
	}

	ls, err := d.loopOnce()
	if err != nil {
		return d.abort(err)
	}

	if d.running && (ls.Render || d.systemRedraw) {
		if err := d.renderOnce(); err != nil {
			return d.abort(err)
		}
	}
	d.systemRedraw = false
	return ls.Wait, nil
}

func (d *Driver) abort(err error) (WaitPolicy, error) {
	logx.Logger().Error("state stack invariant violated, stopping", "err", err)
	d.running = false
	return WaitPolicy{}, err
}

func (d *Driver) drainPosts() {
	for {
		select {
		case f := <-d.posts:
			f(d.eng)
		default:
			return
		}
	}
}

func (d *Driver) handleEvent(ev Event) error {
	d.broadcast(StateEvent{Kind: EventWindow, Window: ev})

	switch e := ev.(type) {
	case EventCloseRequested:
		if d.running {
			return d.apply(Exit())
		}
	case EventResize:
		if e.W <= 0 || e.H <= 0 {
			return nil
		}
		if s := d.eng.surface; s != nil {
			s.Resize(e.W, e.H)
			d.gpuAvailable()
		}
	case EventKey:
		if e.Synthetic || e.Repeat || e.Key == KeyUnknown {
			return nil
		}
		d.accumulate(e.Key, e.Down)
	case EventMouseButton:
		d.accumulate(e.Button, e.Down)
	case EventMouseMove:
		d.eng.Input.SetPointer(float32(e.X), float32(e.Y))
	case EventTouch:
		x, y := float32(e.X), float32(e.Y)
		d.eng.Input.SetTouch(e.ID, x, y, e.Phase)
		d.eng.Input.SetPointer(x, y)
		switch e.Phase {
		case TouchStarted:
			d.accumulate(KeyMouseLeft, true)
		case TouchEnded, TouchCancelled:
			d.accumulate(KeyMouseLeft, false)
		}
	case EventRedrawRequested:
		d.systemRedraw = true
	case EventSuspended:
		d.teardownSurface()
	case EventResumed:
		if d.eng.surface == nil {
			logx.Logger().Info("gpu not found, trying to init")
			d.createSurface()
		}
	}
	return nil
}

func (d *Driver) accumulate(k Key, down bool) {
	if down {
		d.pressed.Add(k)
		// released and pressed again inside one window: still held
		d.released.Remove(k)
		return
	}
	d.released.Add(k)
}

// loopOnce is the logic phase: swap input, shadow-update every state, update
// the top one and apply its transition.
func (d *Driver) loopOnce() (LoopState, error) {
	defer profiler.Start("frame.logic")()

	d.eng.Input.SwapFrame()

	ls := WaitIdle
	d.stack.Each(func(g GameState) {
		ls = ls.Merge(g.ShadowUpdate(d.eng))
	})
	top, ok := d.stack.Top()
	if !ok {
		return ls, nil
	}
	t, l := top.Update(d.eng)
	ls = ls.Merge(l)
	return ls, d.apply(t)
}

func (d *Driver) renderOnce() error {
	s := d.eng.surface
	if s == nil {
		return nil
	}
	defer profiler.Start("frame.render")()

	frame, err := s.AcquireFrame()
	if errors.Is(err, ErrSurfaceMinimized) {
		logx.Trace("zero-sized framebuffer, frame skipped")
		return nil
	}
	if err != nil {
		logx.Logger().Warn("acquire frame failed, recreating surface", "err", err)
		d.teardownSurface()
		d.createSurface()
		return nil
	}

	now := d.opts.Now()
	d.eng.DT = 0
	if !d.lastRender.IsZero() {
		d.eng.DT = now.Sub(d.lastRender).Seconds()
	}

	s.Clear(d.opts.ClearColor)
	w, h := s.Size()
	d.eng.UI.BeginFrame(d.uiInput(), float32(w), float32(h))
	err = d.renderTick()
	prims, out := d.eng.UI.EndFrame()
	if err != nil {
		return err
	}

	if err := s.DrawUI(prims); err != nil {
		logx.Logger().Warn("ui draw failed", "err", err)
	}
	d.broadcast(StateEvent{Kind: EventPostUIRender})

	if err := s.Present(frame); err != nil {
		logx.Logger().Warn("present failed, recreating surface", "err", err)
		d.teardownSurface()
		d.createSurface()
		return nil
	}
	d.lastRender = now
	d.eng.Window.SetCursor(out.Cursor)
	return nil
}

// renderTick runs inside the UI build: shadow-render every state, render the
// top one and apply its transition before the frame is submitted.
func (d *Driver) renderTick() error {
	ctx := d.eng.UI
	d.stack.Each(func(g GameState) {
		g.ShadowRender(d.eng, ctx)
	})
	top, ok := d.stack.Top()
	if !ok {
		return nil
	}
	return d.apply(top.Render(d.eng, ctx))
}

func (d *Driver) uiInput() ui.Input {
	in := d.eng.Input
	x, y := in.Pointer()
	return ui.Input{
		MouseX:        x,
		MouseY:        y,
		MouseDown:     in.IsHeld(KeyMouseLeft),
		MousePressed:  in.IsPressed(KeyMouseLeft),
		MouseReleased: in.Released(KeyMouseLeft),
	}
}

// apply mutates the stack right away. A stack left empty without Exit
// also ends the loop.
func (d *Driver) apply(t Transition) error {
	if err := d.applyOne(t); err != nil {
		return err
	}
	if d.running && d.stack.Empty() {
		logx.Logger().Info("last state popped, stopping")
		d.running = false
	}
	return nil
}

func (d *Driver) applyOne(t Transition) error {
	switch t.Kind {
	case TransNone:
		return nil
	case TransPush:
		if t.State == nil {
			return fmt.Errorf("push: nil state")
		}
		t.State.Start(d.eng)
		d.stack.Push(t.State)
	case TransPop:
		top, ok := d.stack.Top()
		if !ok {
			return fmt.Errorf("pop: %w", ErrEmptyStack)
		}
		top.Stop(d.eng)
		d.stack.Pop()
	case TransSwitch, TransReplace:
		if t.State == nil {
			return fmt.Errorf("%s: nil state", t.Kind)
		}
		top, ok := d.stack.Top()
		if !ok {
			return fmt.Errorf("%s: %w", t.Kind, ErrEmptyStack)
		}
		top.Stop(d.eng)
		if t.Kind == TransReplace {
			t.State.Start(d.eng)
		}
		d.stack.ReplaceTop(t.State)
	case TransExit:
		if d.stack.Empty() {
			return fmt.Errorf("exit: %w", ErrEmptyStack)
		}
		for {
			top, ok := d.stack.Top()
			if !ok {
				break
			}
			top.Stop(d.eng)
			d.stack.Pop()
		}
		d.running = false
	case TransBatch:
		for _, sub := range t.Batch {
			if err := d.applyOne(sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown transition kind %d", int(t.Kind))
	}
	logx.Logger().Debug("transition applied", "kind", t.Kind, "depth", d.stack.Len())
	return nil
}

// broadcast delivers ev to every state, bottom to top.
func (d *Driver) broadcast(ev StateEvent) {
	d.stack.Each(func(g GameState) {
		g.OnEvent(d.eng, ev)
	})
}

func (d *Driver) createSurface() {
	if d.opts.NewSurface == nil {
		return
	}
	s, err := d.opts.NewSurface(d.eng.Window)
	if err != nil {
		logx.Logger().Warn("gpu init failed, running without gpu", "err", err)
		return
	}
	d.eng.surface = s
	if m, ok := s.(ui.Measurer); ok {
		d.eng.UI.SetMeasurer(m)
	}
	d.gpuAvailable()
}

func (d *Driver) teardownSurface() {
	if d.eng.surface == nil {
		return
	}
	d.eng.Resources.Clear()
	d.eng.surface.Destroy()
	d.eng.surface = nil
	d.eng.UI.SetMeasurer(ui.ApproxMeasurer{})
	d.broadcast(StateEvent{Kind: EventGPULost})
}

// gpuAvailable drops registry values built against the old surface state
// and tells every state to fetch again.
func (d *Driver) gpuAvailable() {
	d.eng.Resources.Clear()
	d.broadcast(StateEvent{Kind: EventGPUAvailable})
}

func (d *Driver) shutdown() {
	for {
		top, ok := d.stack.Top()
		if !ok {
			break
		}
		top.Stop(d.eng)
		d.stack.Pop()
	}
	d.teardownSurface()
	profiler.Report()
	logx.Logger().Info("engine exit")
}

func keyList(s KeySet) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out
}
