package text

import (
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/gfx/renderer2d"
)

// DrawText draws s with its top-left corner at (x, y), scaled to size
// pixels. Positive Y goes downward.
func DrawText(r2d *renderer2d.Renderer2D, f *Font, x, y float32, s string, size float32, color colors.Color) {
	scale := f.scale(size)
	penX := x
	baseY := y + f.Ascent*scale
	var prev rune = -1

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += LineHeight(f) * scale
			prev = -1
			continue
		}
		g, ok := f.Glyphs[r]
		if !ok {
			penX += f.fallbackAdvance() * scale
			prev = r
			continue
		}
		if prev >= 0 {
			penX += f.kern(prev, r) * scale
		}
		if g.W > 0 && g.H > 0 {
			left := penX + g.BearingX*scale
			top := baseY - g.BearingY*scale
			w, h := float32(g.W)*scale, float32(g.H)*scale
			r2d.DrawSubTexQuad(left+w*0.5, top+h*0.5, w, h, g.Sub, color, 0)
		}
		penX += g.Advance * scale
		prev = r
	}
}

// MeasureText returns the size of s drawn at size pixels.
func MeasureText(f *Font, s string, size float32) (width, height float32) {
	var lineW float32
	var prev rune = -1
	lineH := LineHeight(f)
	height = lineH

	for _, r := range s {
		if r == '\n' {
			width = max(width, lineW)
			lineW = 0
			height += lineH
			prev = -1
			continue
		}
		g, ok := f.Glyphs[r]
		if !ok {
			lineW += f.fallbackAdvance()
			prev = r
			continue
		}
		if prev >= 0 {
			lineW += f.kern(prev, r)
		}
		lineW += g.Advance
		prev = r
	}
	width = max(width, lineW)
	scale := f.scale(size)
	return width * scale, height * scale
}

// Measurer adapts a Font to the UI text measuring interface.
type Measurer struct{ Font *Font }

func (m Measurer) Measure(s string, size float32) (w, h float32) {
	return MeasureText(m.Font, s, size)
}

// Baseline-to-top distance (useful to position text by top-left).
func BaselineToTop(f *Font) float32    { return f.Ascent }
func BaselineToBottom(f *Font) float32 { return -f.Descent }
func LineHeight(f *Font) float32       { return f.Ascent - f.Descent + f.LineGap }

// scale maps a requested pixel size to the atlas size. Sizes are line
// heights, not em sizes.
func (f *Font) scale(size float32) float32 {
	if size <= 0 {
		return 1
	}
	return size / LineHeight(f)
}

func (f *Font) fallbackAdvance() float32 {
	if sp, ok := f.Glyphs[' ']; ok {
		return sp.Advance
	}
	return f.SizePx * 0.5
}

func (f *Font) kern(a, b rune) float32 {
	if f.Face == nil {
		return 0
	}
	return float32(f.Face.Kern(a, b)) / 64.0
}
