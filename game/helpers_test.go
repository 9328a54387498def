package game

import (
	"strings"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/clickrace/engine/audio"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/core"
	"github.com/hubastard/clickrace/engine/ui"
)

type stubWindow struct{}

func (stubWindow) WaitEvents(core.WaitPolicy) []core.Event { return nil }
func (stubWindow) FramebufferSize() (int, int)             { return 800, 600 }
func (stubWindow) SetTitle(string)                         {}
func (stubWindow) SetCursor(ui.Cursor)                     {}
func (stubWindow) Close()                                  {}

type stubSurface struct {
	seq   uint64
	drawn [][]ui.Primitive
}

func (s *stubSurface) Resize(int, int)          {}
func (s *stubSurface) Size() (int, int)         { return 800, 600 }
func (s *stubSurface) Clear(colors.Color)       {}
func (s *stubSurface) Destroy()                 {}
func (s *stubSurface) Present(core.Frame) error { return nil }

func (s *stubSurface) AcquireFrame() (core.Frame, error) {
	s.seq++
	return core.Frame{Seq: s.seq, Width: 800, Height: 600}, nil
}

func (s *stubSurface) DrawUI(prims []ui.Primitive) error {
	frame := make([]ui.Primitive, len(prims))
	for i, p := range prims {
		// label text aliases the frame arena
		p.Text = strings.Clone(p.Text)
		frame[i] = p
	}
	s.drawn = append(s.drawn, frame)
	return nil
}

// lastTexts returns the labels of the latest frame.
func (s *stubSurface) lastTexts() []string {
	if len(s.drawn) == 0 {
		return nil
	}
	var out []string
	for _, p := range s.drawn[len(s.drawn)-1] {
		if p.Kind == ui.PrimText {
			out = append(out, p.Text)
		}
	}
	return out
}

type stubEffect struct {
	calls    [][]core.Rect
	colors   []colors.Color
	released bool
}

func (f *stubEffect) Render(_ core.Surface, items []core.Rect) error {
	f.calls = append(f.calls, append([]core.Rect(nil), items...))
	return nil
}
func (f *stubEffect) Release()                { f.released = true }
func (f *stubEffect) SetColor(c colors.Color) { f.colors = append(f.colors, c) }

type sink struct{}

func (sink) Play(...beep.Streamer) {}
func (sink) Lock()                 {}
func (sink) Unlock()               {}

func silence() *audio.Buffer {
	f := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	return audio.FromStreamer(f, beep.Take(800, beep.Silence(-1)))
}

type harness struct {
	d       *core.Driver
	surface *stubSurface
	invert  *stubEffect
	sprites *stubEffect
	now     time.Time
}

func newHarness(t *testing.T, initial core.GameState, player *audio.Player) *harness {
	t.Helper()
	h := &harness{
		surface: &stubSurface{},
		invert:  &stubEffect{},
		sprites: &stubEffect{},
		now:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	h.d = core.NewDriver(stubWindow{}, core.Options{
		NewSurface: func(core.Window) (core.Surface, error) { return h.surface, nil },
		Audio:      player,
		Now:        func() time.Time { return h.now },
	})
	res := h.d.Engine().Resources
	res.Register(core.ResourceInvertColor, func(core.Surface) (core.Resource, error) { return h.invert, nil })
	res.Register(core.ResourcePointSprites, func(core.Surface) (core.Resource, error) { return h.sprites, nil })
	require.NoError(t, h.d.Start(initial))
	return h
}

func (h *harness) tick(t *testing.T, evs ...core.Event) {
	t.Helper()
	_, err := h.d.Tick(evs)
	require.NoError(t, err)
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func (h *harness) top() core.GameState {
	s := h.d.States()
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

func press(k core.Key) []core.Event {
	return []core.Event{core.EventKey{Key: k, Down: true}, core.EventKey{Key: k}}
}

func presses(k core.Key, n int) []core.Event {
	var out []core.Event
	for i := 0; i < n; i++ {
		out = append(out, press(k)...)
	}
	return out
}

func click() []core.Event {
	return []core.Event{
		core.EventMouseButton{Button: core.KeyMouseLeft, Down: true},
		core.EventMouseButton{Button: core.KeyMouseLeft},
	}
}
