package text

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/clickrace/engine/gfx/renderer2d"
)

// TextureCreator uploads the atlas. renderer2d.Backend satisfies it.
type TextureCreator interface {
	CreateTexture(desc renderer2d.TextureDesc) (renderer2d.Texture, error)
}

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to glyph top
	W, H     int     // glyph bitmap size
	Sub      renderer2d.SubTexture2D
}

// Font is a glyph atlas rendered at SizePx. Drawing at other sizes scales it.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Texture                  renderer2d.Texture
	AtlasW, AtlasH           int
	Face                     font.Face
}

func (f *Font) Close() {
	if f != nil && f.Face != nil {
		_ = f.Face.Close()
		f.Face = nil
	}
}

// Default builds an atlas of the Go Regular font.
func Default(tc TextureCreator, sizePx float32) (*Font, error) {
	return LoadTTF(tc, goregular.TTF, sizePx)
}

// LoadTTF builds a white glyph atlas (alpha coverage) for Latin-1 and
// uploads it as an RGBA texture.
func LoadTTF(tc TextureCreator, ttf []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	// Metrics in pixels
	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	measure := make([]meas, 0, 224)
	for r := rune(32); r <= rune(255); r++ {
		br, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r:   r,
			w:   (br.Max.X - br.Min.X).Ceil(),
			h:   (br.Max.Y - br.Min.Y).Ceil(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Floor()),
			by:  float32(-br.Min.Y.Floor()),
		})
	}

	// Shelf packer. Start with 256^2 and grow until everything fits.
	const padding = 2
	atlasSize := 256
	var pos map[rune]image.Point
	for {
		x, y, rowH := padding, padding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))
		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if g.w+padding*2 > atlasSize || g.h+padding*2 > atlasSize {
				fits = false
				break
			}
			if x+g.w+padding > atlasSize {
				x = padding
				y += rowH + padding
				rowH = 0
			}
			if y+g.h+padding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + padding
			rowH = max(rowH, g.h)
		}
		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > 4096 {
			_ = face.Close()
			return nil, fmt.Errorf("font atlas too large (>%d)", 4096)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	for _, g := range measure {
		p, ok := pos[g.r]
		if !ok {
			continue
		}
		// the dot sits on the baseline, shifted left by the bearing
		drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
		drawer.DrawString(string(g.r))
	}
	tex, err := tc.CreateTexture(renderer2d.TextureDesc{
		Width: atlasSize, Height: atlasSize,
		Pixels: dst.Pix,
		Filter: renderer2d.FilterLinear,
	})
	if err != nil {
		_ = face.Close()
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}

	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gly := Glyph{
			Rune: g.r, Advance: g.adv,
			BearingX: g.bx, BearingY: g.by,
			W: g.w, H: g.h,
		}
		if p, ok := pos[g.r]; ok {
			gly.Sub = renderer2d.FromPixels(tex, p.X, p.Y, g.w, g.h)
		}
		glyphs[g.r] = gly
	}

	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Texture: tex,
		AtlasW:  atlasSize, AtlasH: atlasSize,
		Face:    face,
	}, nil
}
