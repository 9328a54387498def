package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// Screen is an off-screen render target: a framebuffer with one RGBA
// color texture.
type Screen struct {
	fbo  uint32
	tex  uint32
	w, h int
}

func newScreen(w, h int) (*Screen, error) {
	s := &Screen{}
	gl.GenFramebuffers(1, &s.fbo)
	gl.GenTextures(1, &s.tex)
	s.allocate(w, h)
	if !s.Complete() {
		s.Delete()
		return nil, fmt.Errorf("screen %dx%d: framebuffer incomplete", w, h)
	}
	return s, nil
}

func (s *Screen) allocate(w, h int) {
	s.w, s.h = w, h
	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, s.tex, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Resize reallocates the color texture. Zero sizes are ignored.
func (s *Screen) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == s.w && h == s.h) {
		return
	}
	s.allocate(w, h)
}

func (s *Screen) Size() (int, int) { return s.w, s.h }

// Texture is the GL name of the color texture.
func (s *Screen) Texture() uint32 { return s.tex }

func (s *Screen) Complete() bool {
	if s.fbo == 0 {
		return false
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return status == gl.FRAMEBUFFER_COMPLETE
}

// Bind makes s the draw target with a full viewport.
func (s *Screen) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.Viewport(0, 0, int32(s.w), int32(s.h))
}

func (s *Screen) Delete() {
	if s.tex != 0 {
		gl.DeleteTextures(1, &s.tex)
		s.tex = 0
	}
	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
		s.fbo = 0
	}
}

// blit copies src into dst. A nil dst is the window's default framebuffer
// of size w x h.
func blit(src, dst *Screen, w, h int) {
	var dstFBO uint32
	dw, dh := w, h
	if dst != nil {
		dstFBO = dst.fbo
		dw, dh = dst.w, dst.h
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dstFBO)
	gl.BlitFramebuffer(0, 0, int32(src.w), int32(src.h), 0, 0, int32(dw), int32(dh), gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}
