package ui

import "github.com/hubastard/clickrace/engine/colors"

// ===== Button =====

type ButtonProps struct {
	ID         int
	X, Y, W, H float32
	Text       string
	FontSize   float32
	TextCol    colors.Color
	Bg         colors.Color
}

// Button draws a button and reports a click: pressed inside, then released
// while still inside.
func (c *Ctx) Button(p ButtonProps) (clicked bool) {
	st, clicked := c.interact(p.ID, p.X, p.Y, p.W, p.H)

	// simple visual feedback
	bg := p.Bg
	if st.active {
		bg = bg.Scale(0.85)
	} else if st.hot {
		bg = bg.Scale(1.15)
	}
	c.Rect(p.X, p.Y, p.W, p.H, bg)

	size := p.FontSize
	if size <= 0 {
		size = p.H * 0.5
	}
	c.LabelCentered(p.X+p.W*0.5, p.Y+p.H*0.5, p.Text, size, p.TextCol)
	return clicked
}

// ===== Swatch =====

type SwatchProps struct {
	ID         int
	X, Y, W, H float32
	Color      colors.Color
	// Selected draws a frame around the swatch.
	Selected bool
}

// Swatch draws a clickable color block.
func (c *Ctx) Swatch(p SwatchProps) (clicked bool) {
	st, clicked := c.interact(p.ID, p.X, p.Y, p.W, p.H)
	if p.Selected || st.hot {
		const border = 4
		c.Rect(p.X-border, p.Y-border, p.W+2*border, p.H+2*border, colors.White)
	}
	c.Rect(p.X, p.Y, p.W, p.H, p.Color)
	return clicked
}

// ===== Slider =====

type SliderProps struct {
	ID         int
	X, Y, W, H float32
	Min, Max   float32
	// Step snaps the value when positive.
	Step     float32
	FontSize float32
	Track    colors.Color
	Fill     colors.Color
}

// Slider draws a horizontal slider over *v and reports whether it changed.
// Dragging keeps going while the button is held, even outside the track.
func (c *Ctx) Slider(p SliderProps, v *float32) (changed bool) {
	hot := c.Hovered(p.X, p.Y, p.W, p.H)
	st := c.state[p.ID]
	if c.in.MousePressed && hot {
		st.active = true
	}
	if st.active && (c.in.MouseDown || c.in.MousePressed) && p.W > 0 && p.Max > p.Min {
		t := clamp01((c.in.MouseX - p.X) / p.W)
		nv := p.Min + t*(p.Max-p.Min)
		if p.Step > 0 {
			nv = p.Min + float32(int((nv-p.Min)/p.Step+0.5))*p.Step
			nv = clamp(nv, p.Min, p.Max)
		}
		if nv != *v {
			*v = nv
			changed = true
		}
	}
	if c.in.MouseReleased || !c.in.MouseDown && !c.in.MousePressed {
		st.active = false
	}
	st.hot = hot
	c.state[p.ID] = st
	if hot || st.active {
		c.out.Cursor = CursorHand
	}

	track := p.Track
	if track.IsZero() {
		track = colors.DarkGray
	}
	fill := p.Fill
	if fill.IsZero() {
		fill = colors.Gray
	}
	t := float32(0)
	if p.Max > p.Min {
		t = clamp01((*v - p.Min) / (p.Max - p.Min))
	}
	c.Rect(p.X, p.Y, p.W, p.H, track)
	c.Rect(p.X, p.Y, p.W*t, p.H, fill)
	knob := p.H * 0.5
	c.Rect(p.X+p.W*t-knob*0.5, p.Y-knob*0.25, knob, p.H+knob*0.5, colors.White)

	size := p.FontSize
	if size <= 0 {
		size = p.H * 0.6
	}
	c.LabelCentered(p.X+p.W*0.5, p.Y+p.H*0.5, c.Text().F(float64(*v), 0).View(), size, colors.Black)
	return changed
}

// interact runs the shared hot/active logic for clickable widgets.
func (c *Ctx) interact(id int, x, y, w, h float32) (widgetState, bool) {
	hot := c.Hovered(x, y, w, h)
	st := c.state[id]

	// active = mouse down started inside
	if c.in.MousePressed && hot {
		st.active = true
	}
	clicked := false
	if c.in.MouseReleased {
		if st.active && hot {
			clicked = true
		}
		st.active = false
	}
	st.hot = hot
	c.state[id] = st
	if hot {
		c.out.Cursor = CursorHand
	}
	return st, clicked
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float32) float32 { return clamp(v, 0, 1) }
