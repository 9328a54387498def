package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/clickrace/engine/assets"
	"github.com/hubastard/clickrace/engine/colors"
	"github.com/hubastard/clickrace/engine/gfx/renderer2d"
)

type glTexture struct {
	id   uint32
	w, h int
}

func (t *glTexture) Size() (int, int) { return t.w, t.h }

// Backend draws renderer2d batches with one shader program and one
// dynamic vertex/index buffer pair.
type Backend struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32
	vcap    int // floats
	icap    int // indices

	uVP  int32
	locs map[string]int32
}

func newBackend(m *assets.Manager) (*Backend, error) {
	prog, err := makeProgram(
		loadSource(m, "batch.vert", batchVertexSource),
		loadSource(m, "batch.frag", batchFragmentSource),
	)
	if err != nil {
		return nil, err
	}
	b := &Backend{program: prog, locs: map[string]int32{}}
	b.uVP = uniformLocation(prog, "uVP")

	// sampler slot i reads texture unit i
	units := make([]int32, renderer2d.MaxTexSlots)
	for i := range units {
		units[i] = int32(i)
	}
	gl.UseProgram(prog)
	gl.Uniform1iv(uniformLocation(prog, "uTex"), int32(len(units)), &units[0])
	gl.UseProgram(0)

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)

	// pos2 color4 uv2 texIndex1
	const stride = renderer2d.VertexStride * 4
	attribs := []struct {
		loc, size uint32
		offset    uintptr
	}{
		{0, 2, 0},
		{1, 4, 2 * 4},
		{2, 2, 6 * 4},
		{3, 1, 8 * 4},
	}
	for _, a := range attribs {
		gl.EnableVertexAttribArray(a.loc)
		gl.VertexAttribPointerWithOffset(a.loc, int32(a.size), gl.FLOAT, false, stride, a.offset)
	}
	gl.BindVertexArray(0)

	if err := checkError("batch backend init"); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

func (b *Backend) CreateTexture(d renderer2d.TextureDesc) (renderer2d.Texture, error) {
	if d.Width <= 0 || d.Height <= 0 || len(d.Pixels) < d.Width*d.Height*4 {
		return nil, fmt.Errorf("create texture: bad size %dx%d with %d bytes", d.Width, d.Height, len(d.Pixels))
	}
	t := &glTexture{w: d.Width, h: d.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	filter := int32(gl.NEAREST)
	if d.Filter == renderer2d.FilterLinear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(d.Width), int32(d.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(d.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := checkError("create texture"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

func (b *Backend) DeleteTexture(t renderer2d.Texture) {
	if gt, ok := t.(*glTexture); ok && gt.id != 0 {
		gl.DeleteTextures(1, &gt.id)
		gt.id = 0
	}
}

func (b *Backend) Submit(batch renderer2d.Batch) error {
	if len(batch.Indices) == 0 {
		return nil
	}
	gl.UseProgram(b.program)
	gl.UniformMatrix4fv(b.uVP, 1, false, &batch.VP[0])
	for name, v := range batch.Uniforms {
		b.setUniform(name, v)
	}
	for i, t := range batch.Textures {
		gt, ok := t.(*glTexture)
		if !ok {
			return fmt.Errorf("submit: foreign texture %T in slot %d", t, i)
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, gt.id)
	}

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if n := len(batch.Vertices); n > b.vcap {
		gl.BufferData(gl.ARRAY_BUFFER, n*4, gl.Ptr(batch.Vertices), gl.DYNAMIC_DRAW)
		b.vcap = n
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, gl.Ptr(batch.Vertices))
	}
	if n := len(batch.Indices); n > b.icap {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, n*4, gl.Ptr(batch.Indices), gl.DYNAMIC_DRAW)
		b.icap = n
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, n*4, gl.Ptr(batch.Indices))
	}
	gl.DrawElements(gl.TRIANGLES, int32(len(batch.Indices)), gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return checkError("submit batch")
}

func (b *Backend) setUniform(name string, v any) {
	loc, ok := b.locs[name]
	if !ok {
		loc = uniformLocation(b.program, name)
		b.locs[name] = loc
	}
	if loc < 0 {
		return
	}
	switch x := v.(type) {
	case float32:
		gl.Uniform1f(loc, x)
	case int32:
		gl.Uniform1i(loc, x)
	case [2]float32:
		gl.Uniform2f(loc, x[0], x[1])
	case [4]float32:
		gl.Uniform4f(loc, x[0], x[1], x[2], x[3])
	case colors.Color:
		gl.Uniform4f(loc, x[0], x[1], x[2], x[3])
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &x[0])
	}
}

func (b *Backend) Release() {
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.program != 0 {
		gl.DeleteProgram(b.program)
		b.program = 0
	}
}
