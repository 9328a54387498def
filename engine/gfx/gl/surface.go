// Package glbackend implements the GPU surface on OpenGL 3.3 core.
package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/clickrace/engine/assets"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/gfx/renderer2d"
	"github.com/hubastard/clickrace/engine/logx"
	"github.com/hubastard/clickrace/engine/scene"
	"github.com/hubastard/clickrace/engine/text"
	"github.com/hubastard/clickrace/engine/ui"
)

// Window is a core.Window that owns a GL context.
type Window interface {
	core.Window
	MakeContextCurrent()
	SwapBuffers()
}

// fontAtlasPx is the rasterisation size of the UI font.
const fontAtlasPx = 48

// frameGate hands out frame tokens: one in flight at a time, each
// presented at most once.
type frameGate struct {
	seq      uint64
	inFlight bool
}

func (g *frameGate) acquire(w, h int) (core.Frame, error) {
	if g.inFlight {
		return core.Frame{}, core.ErrFrameInFlight
	}
	if w <= 0 || h <= 0 {
		return core.Frame{}, core.ErrSurfaceMinimized
	}
	g.seq++
	g.inFlight = true
	return core.Frame{Seq: g.seq, Width: w, Height: h}, nil
}

func (g *frameGate) present(f core.Frame) error {
	if !g.inFlight || f.Seq != g.seq {
		return core.ErrFrameConsumed
	}
	g.inFlight = false
	return nil
}

// Surface draws into two off-screen screens and presents the main one to
// the window. It also measures UI text with its font.
type Surface struct {
	win     Window
	backend *Backend
	r2d     *renderer2d.Renderer2D
	font    *text.Font
	screens *core.ScreenSet[*Screen]
	cam     *scene.ScreenCamera2D
	gate    frameGate
	w, h    int
}

// NewSurfaceFactory returns the factory the driver uses to (re)create the
// surface. Shader overrides are looked up in m, which may be nil.
func NewSurfaceFactory(m *assets.Manager) core.SurfaceFactory {
	return func(w core.Window) (core.Surface, error) {
		gw, ok := w.(Window)
		if !ok {
			return nil, fmt.Errorf("%w: window %T has no GL context", core.ErrNoAdapter, w)
		}
		return NewSurface(gw, m)
	}
}

func NewSurface(win Window, m *assets.Manager) (*Surface, error) {
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoAdapter, err)
	}
	logx.Logger().Info("gl context ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	w, h := win.FramebufferSize()
	if w <= 0 || h <= 0 {
		// minimized at creation; the first resize fixes it
		w, h = 1, 1
	}
	s := &Surface{win: win, w: w, h: h, cam: scene.NewScreenCamera2D(w, h)}

	var err error
	if s.backend, err = newBackend(m); err != nil {
		return nil, err
	}
	if s.r2d, err = renderer2d.New(s.backend, 0); err != nil {
		s.Destroy()
		return nil, err
	}
	if s.font, err = text.Default(s.backend, fontAtlasPx); err != nil {
		s.Destroy()
		return nil, err
	}
	a, err := newScreen(w, h)
	if err != nil {
		s.Destroy()
		return nil, err
	}
	b, err := newScreen(w, h)
	if err != nil {
		a.Delete()
		s.Destroy()
		return nil, err
	}
	s.screens = core.NewScreenSet(a, b)
	return s, nil
}

func (s *Surface) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	s.w, s.h = w, h
	s.screens.Each(func(sc *Screen) { sc.Resize(w, h) })
	s.cam.SetViewportPixels(w, h)
	logx.Logger().Debug("surface resized", "width", w, "height", h)
}

func (s *Surface) Size() (int, int) { return s.w, s.h }

// framebufferState compares the window framebuffer fw x fh with the size
// the surface was configured for.
func framebufferState(fw, fh, w, h int) error {
	switch {
	case fw <= 0 || fh <= 0:
		return core.ErrSurfaceMinimized
	case fw != w || fh != h:
		return core.ErrSurfaceOutdated
	}
	return nil
}

func (s *Surface) AcquireFrame() (core.Frame, error) {
	fw, fh := s.win.FramebufferSize()
	if err := framebufferState(fw, fh, s.w, s.h); err != nil {
		return core.Frame{}, err
	}
	f, err := s.gate.acquire(s.w, s.h)
	if err != nil {
		return f, err
	}
	main := s.screens.Main()
	if !main.Complete() {
		s.gate.inFlight = false
		return core.Frame{}, core.ErrSurfaceLost
	}
	main.Bind()
	return f, nil
}

func (s *Surface) Clear(c colors.Color) {
	s.screens.Main().Bind()
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (s *Surface) DrawUI(prims []ui.Primitive) error {
	s.screens.Main().Bind()
	s.r2d.BeginScene(s.cam.VP())
	for _, p := range prims {
		switch p.Kind {
		case ui.PrimRect:
			s.r2d.DrawRect(p.X, p.Y, p.W, p.H, p.Color)
		case ui.PrimText:
			text.DrawText(s.r2d, s.font, p.X, p.Y, p.Text, p.Size, p.Color)
		}
	}
	return s.r2d.EndScene()
}

func (s *Surface) Present(f core.Frame) error {
	if err := s.gate.present(f); err != nil {
		return err
	}
	blit(s.screens.Main(), nil, s.w, s.h)
	s.win.SwapBuffers()
	if e := gl.GetError(); e == gl.OUT_OF_MEMORY {
		return core.ErrSurfaceLost
	}
	return nil
}

func (s *Surface) Destroy() {
	if s.screens != nil {
		s.screens.Each(func(sc *Screen) { sc.Delete() })
		s.screens = nil
	}
	if s.font != nil {
		s.backend.DeleteTexture(s.font.Texture)
		s.font.Close()
		s.font = nil
	}
	if s.r2d != nil {
		s.r2d.Release()
		s.r2d = nil
	}
	if s.backend != nil {
		s.backend.Release()
		s.backend = nil
	}
	logx.Logger().Debug("surface destroyed")
}

// Measure implements ui.Measurer with the surface font.
func (s *Surface) Measure(str string, size float32) (w, h float32) {
	return text.MeasureText(s.font, str, size)
}

// Screens exposes the off-screen pair to effects.
func (s *Surface) Screens() *core.ScreenSet[*Screen] { return s.screens }

// VP is the pixel-space projection of the current size.
func (s *Surface) VP() [16]float32 { return s.cam.VP() }

var (
	_ core.Surface = (*Surface)(nil)
	_ ui.Measurer  = (*Surface)(nil)
)
