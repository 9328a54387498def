package colors

type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Magenta     = Color{1, 0, 1, 1}
	Cyan        = Color{0, 1, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	Transparent = Color{}
)

// Palette is the set of player colors the menu cycles through.
var Palette = []Color{
	{0, 0, 0.75, 1},
	{0.75, 0, 0, 1},
	{0, 0.6, 0.2, 1},
	{0.85, 0.55, 0, 1},
	{0.55, 0, 0.7, 1},
	{0, 0.6, 0.7, 1},
}

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Scale multiplies the RGB channels by f, keeping alpha.
func (c Color) Scale(f float32) Color {
	for i := 0; i < 3; i++ {
		c[i] = clamp01(c[i] * f)
	}
	return c
}

// Invert returns the RGB complement, keeping alpha.
func (c Color) Invert() Color {
	return Color{1 - c[0], 1 - c[1], 1 - c[2], c[3]}
}

// IsZero reports whether every channel is zero.
func (c Color) IsZero() bool { return c == Color{} }

// FromRGB8 builds an opaque color from 8-bit channels.
func FromRGB8(r, g, b uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// FromSlice builds a color from a 3 or 4 element slice, as stored in config files.
func FromSlice(v []float32) (Color, bool) {
	switch len(v) {
	case 3:
		return Color{clamp01(v[0]), clamp01(v[1]), clamp01(v[2]), 1}, true
	case 4:
		return Color{clamp01(v[0]), clamp01(v[1]), clamp01(v[2]), clamp01(v[3])}, true
	}
	return Color{}, false
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
