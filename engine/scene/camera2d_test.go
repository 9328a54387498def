package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertNDC(t *testing.T, c *ScreenCamera2D, x, y, wantX, wantY float32) {
	t.Helper()
	nx, ny := c.Project(x, y)
	assert.InDelta(t, wantX, nx, 1e-5, "x for (%v,%v)", x, y)
	assert.InDelta(t, wantY, ny, 1e-5, "y for (%v,%v)", x, y)
}

func TestScreenCameraCorners(t *testing.T) {
	c := NewScreenCamera2D(800, 600)
	assertNDC(t, c, 0, 0, -1, 1)
	assertNDC(t, c, 800, 600, 1, -1)
	assertNDC(t, c, 400, 300, 0, 0)
}

func TestScreenCameraResize(t *testing.T) {
	c := NewScreenCamera2D(800, 600)
	c.SetViewportPixels(400, 200)
	assertNDC(t, c, 400, 200, 1, -1)
}

func TestScreenCameraZeroSize(t *testing.T) {
	c := NewScreenCamera2D(0, 0)
	for _, v := range c.VP() {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0))
	}
}

func TestMulOrder(t *testing.T) {
	// translate then scale differs from scale then translate
	id := translate(0, 0, 0)
	tr := translate(2, 0, 0)
	assert.Equal(t, tr, mul(id, tr))

	sc := [16]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	m := mul(sc, tr) // scale(translate(p))
	assert.Equal(t, float32(4), m[12])
	m = mul(tr, sc) // translate(scale(p))
	assert.Equal(t, float32(2), m[12])
}
