//go:build !windows

package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// MatchTitleBar is a no-op outside Windows; the window manager owns decorations.
func MatchTitleBar(*glfw.Window, mgl32.Vec4) {}
