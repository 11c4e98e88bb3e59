// camera.go
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the fixed viewer at the origin looking down -Z. Only the aspect
// ratio changes at runtime, following the host surface.
type Camera struct {
	Projection  mgl32.Mat4
	Fov         float32 // vertical, degrees
	Near        float32
	Far         float32
	AspectRatio float32
}

func NewDefaultCamera(width, height int32) *Camera {
	camera := Camera{
		Fov:         25.0,
		Near:        0.1,
		Far:         100.0,
		AspectRatio: aspect(width, height),
	}
	camera.UpdateProjection()
	return &camera
}

func (c *Camera) UpdateProjection() {
	c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

// SetViewport recomputes the projection when the surface size changed and
// reports whether it did.
func (c *Camera) SetViewport(width, height int32) bool {
	a := aspect(width, height)
	if a == c.AspectRatio {
		return false
	}
	c.AspectRatio = a
	c.UpdateProjection()
	return true
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

func aspect(width, height int32) float32 {
	if height <= 0 || width <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
