package renderer2d

import (
	"math"

	"github.com/hubastard/clickrace/engine/colors"
)

// Max textures per batch (common GL limit is 16)
const MaxTexSlots = 16

// Vertex: pos2 + color4 + uv2 + texIndex1 => 9 floats
const (
	VertexStride = 9
	vertsPerQuad = 4
	indsPerQuad  = 6
)

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls    int
	QuadCount    int
	TextureCount int
}

// TotalVertexCount reports vertices submitted this frame.
func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }

// TotalIndexCount reports indices submitted this frame.
func (s Statistics) TotalIndexCount() int { return s.QuadCount * indsPerQuad }

// Renderer2D batches quads on the CPU and submits them to a Backend.
type Renderer2D struct {
	b      Backend
	white  Texture // 1x1 white (slot 0)
	texArr [MaxTexSlots]Texture
	texCnt int

	verts     []float32
	inds      []uint32
	quadCount int
	maxQuads  int

	vp            [16]float32
	stats         Statistics
	extraUniforms map[string]any
	err           error
}

// New creates the renderer and its white texture.
func New(b Backend, maxQuads int) (*Renderer2D, error) {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	white, err := b.CreateTexture(TextureDesc{
		Width: 1, Height: 1,
		Pixels: []byte{255, 255, 255, 255},
		Filter: FilterNearest,
	})
	if err != nil {
		return nil, err
	}
	rd := &Renderer2D{
		b:        b,
		white:    white,
		maxQuads: maxQuads,
		verts:    make([]float32, 0, maxQuads*vertsPerQuad*VertexStride),
		inds:     make([]uint32, 0, maxQuads*indsPerQuad),
	}
	rd.resetBatch()
	return rd, nil
}

// Release frees the white texture.
func (rd *Renderer2D) Release() {
	if rd.white != nil {
		rd.b.DeleteTexture(rd.white)
		rd.white = nil
	}
}

func (rd *Renderer2D) BeginScene(vp [16]float32) {
	rd.vp = vp
	rd.stats = Statistics{}
	rd.err = nil
	rd.resetBatch()
}

// EndScene flushes the pending batch and returns the first submit error
// of the scene.
func (rd *Renderer2D) EndScene() error {
	rd.flush()
	return rd.err
}

// Stats returns the current frame statistics snapshot.
func (rd *Renderer2D) Stats() Statistics { return rd.stats }

// SetUniform queues an additional uniform to be sent on every draw call.
// The uniform persists until overwritten; call with nil to remove.
func (rd *Renderer2D) SetUniform(name string, value any) {
	if rd.extraUniforms == nil {
		rd.extraUniforms = make(map[string]any)
	}
	if value == nil {
		delete(rd.extraUniforms, name)
		return
	}
	rd.extraUniforms[name] = value
}

// DrawQuad draws a solid color quad centered at (x, y).
func (rd *Renderer2D) DrawQuad(x, y, w, h float32, color colors.Color, rotationRad float32) {
	rd.ensureQuadCapacity()
	rd.drawQuadInternal(x, y, w, h, color, rotationRad, rd.texSlot(rd.white), 0, 0, 1, 1)
}

// DrawRect draws a solid color quad from its top-left corner.
func (rd *Renderer2D) DrawRect(x, y, w, h float32, color colors.Color) {
	rd.DrawQuad(x+w*0.5, y+h*0.5, w, h, color, 0)
}

// DrawTexturedQuadUV draws a textured sub-rect (UV rect: u0,v0 -> u1,v1) centered at (x, y).
func (rd *Renderer2D) DrawTexturedQuadUV(x, y, w, h float32, tex Texture, tint colors.Color, rotationRad float32, u0, v0, u1, v1 float32) {
	rd.ensureQuadCapacity()
	slot := rd.texSlot(tex)
	rd.drawQuadInternal(x, y, w, h, tint, rotationRad, slot, u0, v0, u1, v1)
}

// DrawSubTexQuad draws a quad using a SubTexture2D.
func (rd *Renderer2D) DrawSubTexQuad(x, y, w, h float32, sub SubTexture2D, tint colors.Color, rotationRad float32) {
	rd.DrawTexturedQuadUV(x, y, w, h, sub.Texture, tint, rotationRad, sub.U0, sub.V0, sub.U1, sub.V1)
}

// --- internals ---

func (rd *Renderer2D) texSlot(t Texture) float32 {
	for i := 0; i < rd.texCnt; i++ {
		if rd.texArr[i] == t {
			return float32(i)
		}
	}
	if rd.texCnt >= MaxTexSlots {
		// flush and reset texture bindings
		rd.flush()
	}
	rd.texArr[rd.texCnt] = t
	rd.texCnt++
	if rd.texCnt > rd.stats.TextureCount {
		rd.stats.TextureCount = rd.texCnt
	}
	return float32(rd.texCnt - 1)
}

func (rd *Renderer2D) drawQuadInternal(x, y, w, h float32, color colors.Color, rotationRad float32, texIndex float32, u0, v0, u1, v1 float32) {
	halfW := w * 0.5
	halfH := h * 0.5

	// corners (TL, TR, BL, BR) with UVs. Positive Y goes down so top is -halfH.
	corners := [4][4]float32{
		{-halfW, -halfH, u0, v0},
		{halfW, -halfH, u1, v0},
		{-halfW, halfH, u0, v1},
		{halfW, halfH, u1, v1},
	}
	c, s := float32(1), float32(0)
	if rotationRad != 0 {
		c, s = float32(math.Cos(float64(rotationRad))), float32(math.Sin(float64(rotationRad)))
	}

	startVertex := uint32(len(rd.verts) / VertexStride)
	for _, p := range corners {
		rx := p[0]*c - p[1]*s + x
		ry := p[0]*s + p[1]*c + y
		rd.verts = append(rd.verts,
			rx, ry,
			color[0], color[1], color[2], color[3],
			p[2], p[3],
			texIndex,
		)
	}
	rd.inds = append(rd.inds,
		startVertex+0, startVertex+2, startVertex+1,
		startVertex+1, startVertex+2, startVertex+3,
	)
	rd.quadCount++
	rd.stats.QuadCount++
}

func (rd *Renderer2D) flush() {
	if rd.quadCount == 0 {
		return
	}
	err := rd.b.Submit(Batch{
		Vertices: rd.verts,
		Indices:  rd.inds,
		Textures: rd.texArr[:rd.texCnt],
		VP:       rd.vp,
		Uniforms: rd.extraUniforms,
	})
	if err != nil && rd.err == nil {
		rd.err = err
	}
	rd.stats.DrawCalls++
	rd.resetBatch()
}

func (rd *Renderer2D) resetBatch() {
	rd.verts = rd.verts[:0]
	rd.inds = rd.inds[:0]
	rd.quadCount = 0
	for i := range rd.texArr {
		rd.texArr[i] = nil
	}
	rd.texArr[0] = rd.white
	rd.texCnt = 1
}

func (rd *Renderer2D) ensureQuadCapacity() {
	if rd.quadCount >= rd.maxQuads {
		rd.flush()
	}
}
