package core

import (
	"errors"

	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/ui"
)

var (
	// ErrNoAdapter means no usable GPU context could be created for the window.
	ErrNoAdapter        = errors.New("gpu: no usable adapter")
	// ErrSurfaceLost means the presentable target is gone; recreate the surface.
	ErrSurfaceLost      = errors.New("gpu: surface lost")
	// ErrSurfaceOutdated means the target no longer matches the window; recreate the surface.
	ErrSurfaceOutdated  = errors.New("gpu: surface outdated")
	// ErrSurfaceMinimized means the window has no drawable area right now.
	// Skip the frame and keep the surface.
	ErrSurfaceMinimized = errors.New("gpu: surface has zero size")
	// ErrFrameInFlight means a frame was acquired and not presented yet.
	ErrFrameInFlight    = errors.New("gpu: frame already acquired")
	// ErrFrameConsumed means the frame was already presented or is stale.
	ErrFrameConsumed    = errors.New("gpu: frame already presented")
)

// Frame is the token for one acquired presentable image.
type Frame struct {
	Seq           uint64
	Width, Height int
}

// Surface owns the GPU device, the presentable surface and the off-screen
// screens that renderers draw into. Any error from it is recovered by
// destroying and recreating the whole surface, never by retrying inside.
type Surface interface {
	// Resize reconfigures the surface. Zero sizes are ignored.
	Resize(width, height int)
	Size() (width, height int)
	AcquireFrame() (Frame, error)
	// Clear fills the main screen.
	Clear(c colors.Color)
	// DrawUI paints UI primitives into the main screen.
	DrawUI(prims []ui.Primitive) error
	// Present shows the main screen and consumes the frame.
	Present(f Frame) error
	Destroy()
}

// SurfaceFactory creates a surface for a window.
type SurfaceFactory func(Window) (Surface, error)

// ScreenSet is a pair of off-screen targets. Exactly one is main (the one
// presented); the other is free for ping-pong effects.
type ScreenSet[T any] struct {
	screens [2]T
	main    int
}

func NewScreenSet[T any](a, b T) *ScreenSet[T] {
	return &ScreenSet[T]{screens: [2]T{a, b}}
}

// Main returns the screen that will be presented.
func (s *ScreenSet[T]) Main() T { return s.screens[s.main] }

// Back returns the screen free for effects.
func (s *ScreenSet[T]) Back() T { return s.screens[1-s.main] }

// Swap makes the back screen main.
func (s *ScreenSet[T]) Swap() { s.main = 1 - s.main }

// Each visits both screens.
func (s *ScreenSet[T]) Each(f func(T)) {
	f(s.screens[0])
	f(s.screens[1])
}
