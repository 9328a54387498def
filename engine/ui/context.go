package ui

import (
	"unicode/utf8"

	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/scratch"
)

// Input is the pointer state for one UI frame.
type Input struct {
	MouseX, MouseY float32
	MouseDown      bool
	MousePressed   bool
	MouseReleased  bool
}

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorHand
)

// Output is what the UI asks of the platform after a frame.
type Output struct {
	Cursor Cursor
}

type PrimitiveKind int

const (
	PrimRect PrimitiveKind = iota
	PrimText
)

// Primitive is one tessellation-ready draw item in screen pixels, top-left
// origin. Text uses X, Y as its top-left corner and Size as the pixel height.
type Primitive struct {
	Kind       PrimitiveKind
	X, Y, W, H float32
	Color      colors.Color
	Text       string
	Size       float32
}

// Measurer reports the on-screen size of text.
type Measurer interface {
	Measure(text string, size float32) (w, h float32)
}

// ApproxMeasurer estimates text size without a font, for frames built
// before any font atlas exists.
type ApproxMeasurer struct{}

func (ApproxMeasurer) Measure(text string, size float32) (float32, float32) {
	return float32(utf8.RuneCountInString(text)) * size * 0.5, size
}

type widgetState struct {
	hot    bool
	active bool
}

// ===== Immediate-UI context =====

// Ctx collects the primitives of one frame. Widgets keep hot/active state
// by id across frames.
type Ctx struct {
	m     Measurer
	in    Input
	w, h  float32
	prims []Primitive
	state map[int]widgetState
	out   Output
	text  *scratch.Buffer
}

func New(m Measurer) *Ctx {
	if m == nil {
		m = ApproxMeasurer{}
	}
	return &Ctx{
		m:     m,
		prims: make([]Primitive, 0, 256),
		state: make(map[int]widgetState, 32),
		text:  scratch.New(4096),
	}
}

func (c *Ctx) SetMeasurer(m Measurer) {
	if m == nil {
		m = ApproxMeasurer{}
	}
	c.m = m
}

func (c *Ctx) Measure(text string, size float32) (w, h float32) {
	return c.m.Measure(text, size)
}

// BeginFrame resets the primitive list for a frame of the given size.
func (c *Ctx) BeginFrame(in Input, w, h float32) {
	c.in = in
	c.w, c.h = w, h
	c.prims = c.prims[:0]
	c.out = Output{}
	c.text.Reset()
}

// Text starts a label string in the frame arena. It is valid until the
// next BeginFrame, which covers drawing the frame.
func (c *Ctx) Text() scratch.Builder { return c.text.Begin() }

// EndFrame returns the frame's primitives, valid until the next BeginFrame.
func (c *Ctx) EndFrame() ([]Primitive, Output) {
	return c.prims, c.out
}

// Size is the frame size passed to BeginFrame.
func (c *Ctx) Size() (w, h float32) { return c.w, c.h }

func (c *Ctx) Input() Input { return c.in }

// Hovered reports whether the pointer is inside the rectangle.
func (c *Ctx) Hovered(x, y, w, h float32) bool {
	return c.in.MouseX >= x && c.in.MouseX <= x+w && c.in.MouseY >= y && c.in.MouseY <= y+h
}

// Rect draws a filled rectangle.
func (c *Ctx) Rect(x, y, w, h float32, col colors.Color) {
	if col[3] <= 0 || w <= 0 || h <= 0 {
		return
	}
	c.prims = append(c.prims, Primitive{Kind: PrimRect, X: x, Y: y, W: w, H: h, Color: col})
}

// Label draws text with its top-left corner at (x, y).
func (c *Ctx) Label(x, y float32, text string, size float32, col colors.Color) {
	if text == "" {
		return
	}
	w, h := c.m.Measure(text, size)
	if col.IsZero() {
		col = colors.White
	}
	c.prims = append(c.prims, Primitive{Kind: PrimText, X: x, Y: y, W: w, H: h, Color: col, Text: text, Size: size})
}

// LabelCentered draws text centered on (cx, cy).
func (c *Ctx) LabelCentered(cx, cy float32, text string, size float32, col colors.Color) {
	w, h := c.m.Measure(text, size)
	c.Label(cx-w*0.5, cy-h*0.5, text, size, col)
}
