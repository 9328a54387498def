package core

import (
	"time"

	"github.com/hubastard/clickrace/engine/audio"
	"github.com/hubastard/clickrace/engine/ui"
)

// Window is the platform window and its event source.
type Window interface {
	// WaitEvents blocks as the policy says and returns the events gathered.
	WaitEvents(p WaitPolicy) []Event
	FramebufferSize() (int, int)
	SetTitle(title string)
	SetCursor(c ui.Cursor)
	Close()
}

// waker is implemented by windows that can interrupt a blocking WaitEvents
// from another goroutine.
type waker interface {
	Wake()
}

// Engine exposes the per-window services to the states.
type Engine struct {
	Window    Window
	Input     *Input
	UI        *ui.Ctx
	Resources *Registry
	// Audio is nil when no output device could be opened.
	Audio *audio.Player
	// DT is the time in seconds since the previous rendered frame.
	DT float64

	surface Surface
	start   time.Time
	now     func() time.Time
}

// Surface returns the GPU surface, if there is one right now. Never keep it
// across an EventGPUAvailable or EventGPULost.
func (e *Engine) Surface() (Surface, bool) {
	return e.surface, e.surface != nil
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) Uptime() time.Duration { return e.now().Sub(e.start) }
