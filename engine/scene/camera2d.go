// Package scene holds the screen-space projection used by the 2D passes.
package scene

// ScreenCamera2D maps screen pixels (top-left origin, Y down) to clip space.
type ScreenCamera2D struct {
	Width, Height float32
	vp            [16]float32
	dirty         bool
}

func NewScreenCamera2D(width, height int) *ScreenCamera2D {
	c := &ScreenCamera2D{}
	c.SetViewportPixels(width, height)
	return c
}

func (c *ScreenCamera2D) SetViewportPixels(w, h int) {
	c.Width, c.Height = float32(w), float32(h)
	c.dirty = true
}

func (c *ScreenCamera2D) VP() [16]float32 {
	if c.dirty {
		c.recalculate()
	}
	return c.vp
}

func (c *ScreenCamera2D) recalculate() {
	w, h := max(c.Width, 1), max(c.Height, 1)
	// centered ortho; top is -h/2 so Y grows downward
	proj := ortho(-w*0.5, w*0.5, h*0.5, -h*0.5, -1, 1)
	c.vp = mul(proj, translate(-w*0.5, -h*0.5, 0))
	c.dirty = false
}

// Project maps a screen point to normalized device coordinates.
func (c *ScreenCamera2D) Project(x, y float32) (nx, ny float32) {
	m := c.VP()
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// column-major, GLSL-style

func translate(x, y, z float32) [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}

// mul returns a·b; element (row i, col j) lives at [i+4*j].
func mul(a, b [16]float32) [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i+4*j] = a[i+0]*b[0+4*j] + a[i+4]*b[1+4*j] + a[i+8]*b[2+4*j] + a[i+12]*b[3+4*j]
		}
	}
	return out
}
