package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/clickrace/engine/assets"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/core"
)

// quadFloats is pos2 local2 per vertex, six vertices per rect.
const quadFloats = 4 * 6

// rectVertices appends two triangles covering r. The local coordinates run
// from -1 to 1 across the rect.
func rectVertices(dst []float32, r core.Rect) []float32 {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	return append(dst,
		x0, y0, -1, -1,
		x1, y0, 1, -1,
		x1, y1, 1, 1,
		x0, y0, -1, -1,
		x1, y1, 1, 1,
		x0, y1, -1, 1,
	)
}

// quadProgram draws unindexed rects with one effect shader.
type quadProgram struct {
	program  uint32
	vao, vbo uint32
	vcap     int
	uVP      int32
	verts    []float32
}

func newQuadProgram(m *assets.Manager, fragName, fragBuiltin string) (*quadProgram, error) {
	prog, err := makeProgram(
		loadSource(m, "effect.vert", effectVertexSource),
		loadSource(m, fragName, fragBuiltin),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fragName, err)
	}
	q := &quadProgram{program: prog, uVP: uniformLocation(prog, "uVP")}
	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)
	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.BindVertexArray(0)
	if err := checkError("effect program init"); err != nil {
		q.Release()
		return nil, err
	}
	return q, nil
}

// use binds the program with the surface projection.
func (q *quadProgram) use(vp [16]float32) {
	gl.UseProgram(q.program)
	gl.UniformMatrix4fv(q.uVP, 1, false, &vp[0])
}

func (q *quadProgram) draw(items []core.Rect) error {
	q.verts = q.verts[:0]
	for _, r := range items {
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		q.verts = rectVertices(q.verts, r)
	}
	if len(q.verts) == 0 {
		return nil
	}
	gl.BindVertexArray(q.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	if n := len(q.verts); n > q.vcap {
		gl.BufferData(gl.ARRAY_BUFFER, n*4, gl.Ptr(q.verts), gl.DYNAMIC_DRAW)
		q.vcap = n
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, gl.Ptr(q.verts))
	}
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(q.verts)/4))
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return checkError("effect draw")
}

func (q *quadProgram) Release() {
	if q.vbo != 0 {
		gl.DeleteBuffers(1, &q.vbo)
		q.vbo = 0
	}
	if q.vao != 0 {
		gl.DeleteVertexArrays(1, &q.vao)
		q.vao = 0
	}
	if q.program != 0 {
		gl.DeleteProgram(q.program)
		q.program = 0
	}
}

func glSurface(s core.Surface) (*Surface, error) {
	gs, ok := s.(*Surface)
	if !ok || gs.screens == nil {
		return nil, fmt.Errorf("effect: surface %T is not a live GL surface", s)
	}
	return gs, nil
}

// InvertColor inverts the colors of the main screen inside each rect. It
// copies main into the back screen, draws the inverted rects there while
// sampling the old main, then swaps the two.
type InvertColor struct {
	q       *quadProgram
	uScreen int32
	uSize   int32
}

func NewInvertColorFactory(m *assets.Manager) core.ResourceFactory {
	return func(s core.Surface) (core.Resource, error) {
		if _, err := glSurface(s); err != nil {
			return nil, err
		}
		q, err := newQuadProgram(m, "invert.frag", invertFragmentSource)
		if err != nil {
			return nil, err
		}
		return &InvertColor{
			q:       q,
			uScreen: uniformLocation(q.program, "uScreen"),
			uSize:   uniformLocation(q.program, "uSize"),
		}, nil
	}
}

func (ic *InvertColor) Render(s core.Surface, items []core.Rect) error {
	if len(items) == 0 {
		return nil
	}
	gs, err := glSurface(s)
	if err != nil {
		return err
	}
	src, dst := gs.screens.Main(), gs.screens.Back()
	w, h := src.Size()
	blit(src, dst, w, h)

	dst.Bind()
	gl.Disable(gl.BLEND)
	ic.q.use(gs.VP())
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, src.Texture())
	gl.Uniform1i(ic.uScreen, 0)
	gl.Uniform2f(ic.uSize, float32(w), float32(h))
	if err := ic.q.draw(items); err != nil {
		return err
	}
	gs.screens.Swap()
	gs.screens.Main().Bind()
	return nil
}

func (ic *InvertColor) Release() { ic.q.Release() }

// PointSprites draws soft discs inscribed in each rect, blended over the
// main screen.
type PointSprites struct {
	q      *quadProgram
	uColor int32
	color  colors.Color
}

func NewPointSpritesFactory(m *assets.Manager) core.ResourceFactory {
	return func(s core.Surface) (core.Resource, error) {
		if _, err := glSurface(s); err != nil {
			return nil, err
		}
		q, err := newQuadProgram(m, "sprite.frag", spriteFragmentSource)
		if err != nil {
			return nil, err
		}
		return &PointSprites{q: q, uColor: uniformLocation(q.program, "uColor"), color: colors.White}, nil
	}
}

// SetColor sets the disc color for the following Render calls.
func (ps *PointSprites) SetColor(c colors.Color) { ps.color = c }

func (ps *PointSprites) Render(s core.Surface, items []core.Rect) error {
	if len(items) == 0 {
		return nil
	}
	gs, err := glSurface(s)
	if err != nil {
		return err
	}
	gs.screens.Main().Bind()
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	ps.q.use(gs.VP())
	gl.Uniform4f(ps.uColor, ps.color[0], ps.color[1], ps.color[2], ps.color[3])
	return ps.q.draw(items)
}

func (ps *PointSprites) Release() { ps.q.Release() }

var (
	_ core.EffectRenderer = (*InvertColor)(nil)
	_ core.EffectRenderer = (*PointSprites)(nil)
)
