package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/hubastard/clickrace/engine/core"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		in   glfw.Key
		want core.Key
	}{
		{glfw.KeyA, core.KeyA},
		{glfw.KeyS, core.KeyS},
		{glfw.KeyZ, core.KeyZ},
		{glfw.Key0, core.Key0},
		{glfw.Key6, core.Key6},
		{glfw.KeyKP6, core.Key6},
		{glfw.KeyEscape, core.KeyEscape},
		{glfw.KeyKPEnter, core.KeyEnter},
		{glfw.KeyF11, core.KeyF11},
		{glfw.KeyF1, core.KeyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, translateKey(tt.in))
		})
	}
}

func TestTranslateButton(t *testing.T) {
	assert.Equal(t, core.KeyMouseLeft, translateButton(glfw.MouseButtonLeft))
	assert.Equal(t, core.KeyMouseRight, translateButton(glfw.MouseButtonRight))
	assert.Equal(t, core.KeyUnknown, translateButton(glfw.MouseButtonMiddle))
}

func TestTranslateMods(t *testing.T) {
	assert.Equal(t, core.ModNone, translateMods(0))
	assert.Equal(t, core.ModShift|core.ModSuper, translateMods(glfw.ModShift|glfw.ModSuper))
}

func TestScalePointer(t *testing.T) {
	x, y := scalePointer(100, 50, 800, 600, 1600, 1200)
	assert.Equal(t, [2]float64{200, 100}, [2]float64{x, y})

	// minimized windows report zero size
	x, y = scalePointer(3, 4, 0, 0, 0, 0)
	assert.Equal(t, [2]float64{3, 4}, [2]float64{x, y})
}
