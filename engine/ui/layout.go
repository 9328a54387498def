package ui

type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// Place positions an item of size inside [start, start+avail).
func Place(a Align, start, avail, size float32) float32 {
	switch a {
	case AlignCenter:
		return start + (avail-size)*0.5
	case AlignEnd:
		return start + avail - size
	}
	return start
}

// Column hands out rows top to bottom inside a box of width W.
type Column struct {
	X, Y, W float32
	Gap     float32
	Align   Align

	cursor float32
}

// Row reserves the next row of height h and width w (0 fills the column).
func (c *Column) Row(w, h float32) (x, y, rw, rh float32) {
	if w <= 0 || w > c.W {
		w = c.W
	}
	x = Place(c.Align, c.X, c.W, w)
	y = c.Y + c.cursor
	c.cursor += h + c.Gap
	return x, y, w, h
}

// Height is the space used so far, without the trailing gap.
func (c *Column) Height() float32 {
	if c.cursor == 0 {
		return 0
	}
	return c.cursor - c.Gap
}
