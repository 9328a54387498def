package renderer2d

// Texture is a backend texture handle.
type Texture interface {
	Size() (w, h int)
}

type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// TextureDesc describes tightly packed RGBA8 pixels, top-left origin.
type TextureDesc struct {
	Width, Height int
	Pixels        []byte
	Filter        Filter
}

// Batch is one draw call worth of quads. Textures[i] is bound to sampler
// slot i; vertices carry the slot index.
type Batch struct {
	Vertices []float32
	Indices  []uint32
	Textures []Texture
	VP       [16]float32
	Uniforms map[string]any
}

// Backend is the GPU side of the renderer.
type Backend interface {
	CreateTexture(desc TextureDesc) (Texture, error)
	DeleteTexture(t Texture)
	Submit(b Batch) error
}
