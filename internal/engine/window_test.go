package engine

import (
	"testing"

	"globe/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTitleBarColorFollowsClearColor(t *testing.T) {
	assert.Equal(t, uint32(0x00000000), colorRef(renderer.ClearColor))
	assert.True(t, isDark(renderer.ClearColor))

	// COLORREF is blue-green-red from the high byte down.
	assert.Equal(t, uint32(0x00336699), colorRef(mgl32.Vec4{0.6, 0.4, 0.2, 1}))
	assert.Equal(t, uint32(0x00FF00FF), colorRef(mgl32.Vec4{2, -1, 1, 1}), "channels are clamped")
	assert.False(t, isDark(mgl32.Vec4{1, 1, 1, 1}))
}
