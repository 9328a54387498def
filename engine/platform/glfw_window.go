package platform

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hubastard/clickrace/engine/config"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/logx"
	"github.com/hubastard/clickrace/engine/ui"
)

// GLFWWindow implements core.Window. Callbacks queue events that
// WaitEvents hands to the driver in one batch.
type GLFWWindow struct {
	w      *glfw.Window
	events []core.Event

	hand   *glfw.Cursor
	cursor ui.Cursor
}

// NewGLFWWindow must be called on the main thread before any GL calls.
// icon may be nil.
func NewGLFWWindow(cfg config.Window, icon image.Image) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// GL 3.3 core profile (Mac requires forward-compatible flag).
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 0)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	if icon != nil {
		win.SetIcon([]image.Image{icon})
	}

	gw := &GLFWWindow{w: win}

	// Callbacks -> translate to core.Event
	win.SetCloseCallback(func(w *glfw.Window) {
		// the state stack decides when to close
		w.SetShouldClose(false)
		gw.emit(core.EventCloseRequested{})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gw.emit(core.EventResize{W: w, H: h})
	})
	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		ww, wh := w.GetSize()
		fw, fh := w.GetFramebufferSize()
		x, y = scalePointer(x, y, ww, wh, fw, fh)
		gw.emit(core.EventMouseMove{X: x, Y: y})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		k := translateButton(b)
		if k == core.KeyUnknown {
			return
		}
		gw.emit(core.EventMouseButton{Button: k, Down: action != glfw.Release, Mods: translateMods(mods)})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		gw.emit(core.EventKey{
			Key:    translateKey(key),
			Down:   action != glfw.Release,
			Repeat: action == glfw.Repeat,
			Mods:   translateMods(mods),
		})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		gw.emit(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			gw.emit(core.EventSuspended{})
		} else {
			gw.emit(core.EventResumed{})
		}
	})
	win.SetRefreshCallback(func(*glfw.Window) {
		gw.emit(core.EventRedrawRequested{})
	})

	w, h := win.GetFramebufferSize()
	logx.Logger().Info("window created", "title", cfg.Title, "width", w, "height", h, "vsync", cfg.VSync)
	return gw, nil
}

func (g *GLFWWindow) emit(ev core.Event) {
	g.events = append(g.events, ev)
}

// WaitEvents blocks as p says and returns the events gathered meanwhile.
func (g *GLFWWindow) WaitEvents(p core.WaitPolicy) []core.Event {
	switch p.Kind {
	case core.Poll:
		glfw.PollEvents()
	case core.WaitUntil:
		if d := p.Timeout(time.Now()); d > 0 {
			glfw.WaitEventsTimeout(d.Seconds())
		} else {
			glfw.PollEvents()
		}
	default:
		glfw.WaitEvents()
	}
	evs := g.events
	g.events = nil
	return evs
}

// Wake interrupts a blocking WaitEvents. Safe from any goroutine.
func (g *GLFWWindow) Wake() { glfw.PostEmptyEvent() }

func (g *GLFWWindow) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) SetTitle(t string)           { g.w.SetTitle(t) }
func (g *GLFWWindow) MakeContextCurrent()         { g.w.MakeContextCurrent() }
func (g *GLFWWindow) SwapBuffers()                { g.w.SwapBuffers() }

func (g *GLFWWindow) SetCursor(c ui.Cursor) {
	if c == g.cursor {
		return
	}
	g.cursor = c
	switch c {
	case ui.CursorHand:
		if g.hand == nil {
			g.hand = glfw.CreateStandardCursor(glfw.HandCursor)
		}
		g.w.SetCursor(g.hand)
	default:
		g.w.SetCursor(nil)
	}
}

func (g *GLFWWindow) Close() {
	if g.hand != nil {
		g.hand.Destroy()
	}
	g.w.Destroy()
	glfw.Terminate()
}

// scalePointer maps window coordinates to framebuffer pixels.
func scalePointer(x, y float64, ww, wh, fw, fh int) (float64, float64) {
	if ww > 0 && wh > 0 {
		x *= float64(fw) / float64(ww)
		y *= float64(fh) / float64(wh)
	}
	return x, y
}

var namedKeys = map[glfw.Key]core.Key{
	glfw.KeyEscape:    core.KeyEscape,
	glfw.KeyEnter:     core.KeyEnter,
	glfw.KeyKPEnter:   core.KeyEnter,
	glfw.KeySpace:     core.KeySpace,
	glfw.KeyTab:       core.KeyTab,
	glfw.KeyBackspace: core.KeyBackspace,
	glfw.KeyLeft:      core.KeyLeft,
	glfw.KeyRight:     core.KeyRight,
	glfw.KeyUp:        core.KeyUp,
	glfw.KeyDown:      core.KeyDown,
	glfw.KeyF11:       core.KeyF11,
}

func translateKey(k glfw.Key) core.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return core.KeyA + core.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return core.Key0 + core.Key(k-glfw.Key0)
	case k >= glfw.KeyKP0 && k <= glfw.KeyKP9:
		return core.Key0 + core.Key(k-glfw.KeyKP0)
	}
	if ck, ok := namedKeys[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

func translateButton(b glfw.MouseButton) core.Key {
	switch b {
	case glfw.MouseButtonLeft:
		return core.KeyMouseLeft
	case glfw.MouseButtonRight:
		return core.KeyMouseRight
	}
	return core.KeyUnknown
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
