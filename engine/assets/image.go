package assets

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// LoadImage decodes a PNG asset.
func (m *Manager) LoadImage(rel string) (image.Image, error) {
	f, err := m.Open(rel)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode png %q: %w", rel, err)
	}
	return img, nil
}

// LoadRGBA returns width, height, and tightly packed RGBA8 pixels
// (row-major, top-left origin).
func (m *Manager) LoadRGBA(rel string) (w, h int, rgba []byte, err error) {
	img, err := m.LoadImage(rel)
	if err != nil {
		return 0, 0, nil, err
	}
	w, h, rgba = Pack(img)
	return w, h, rgba, nil
}

// Pack repacks img into tight RGBA rows (stride == 4*w).
func Pack(img image.Image) (w, h int, rgba []byte) {
	m := ToRGBA(img)
	w, h = m.Bounds().Dx(), m.Bounds().Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], m.Pix[y*m.Stride:y*m.Stride+w*4])
	}
	return w, h, out
}

// ToRGBA converts img to *image.RGBA with a zero origin.
func ToRGBA(img image.Image) *image.RGBA {
	if m, ok := img.(*image.RGBA); ok && m.Rect.Min == (image.Point{}) {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
