package renderer

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// RotationRate is the spin of the globe about its polar axis, in radians per second.
const RotationRate = 0.2

var (
	singleInstance = []mgl32.Vec2{{0, 0}}
	multiInstances = []mgl32.Vec2{
		{0, 0},
		{-1.5, 1.5},
		{1.5, 1.5},
		{-1.5, -1.5},
		{1.5, -1.5},
	}
)

// InstanceOffsets returns the x/y placement of every drawn sphere.
func InstanceOffsets(multi bool) []mgl32.Vec2 {
	if multi {
		return multiInstances
	}
	return singleInstance
}

// ModelView places one instance: pushed back by distance, tipped so the pole
// points up at zero tilt, then spun about its own axis.
func ModelView(offset mgl32.Vec2, distance, tiltDegrees, elapsedSeconds float32) mgl32.Mat4 {
	translate := mgl32.Translate3D(offset.X(), offset.Y(), -distance)
	tilt := mgl32.HomogRotate3DX(mgl32.DegToRad(-90 + tiltDegrees))
	spin := mgl32.HomogRotate3DZ(elapsedSeconds * RotationRate)
	return translate.Mul4(tilt).Mul4(spin)
}

// NormalMatrix is the inverse transpose of the model-view matrix.
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat4 {
	return modelView.Inv().Transpose()
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// SceneRenderer issues the draw calls of one frame.
type SceneRenderer struct {
	dev      Device
	program  *ProgramInfo
	texture  *Texture
	camera   *Camera
	uniforms *UniformCache
	width    int32
	height   int32
}

func NewSceneRenderer(dev Device, program *ProgramInfo, texture *Texture, width, height int32) *SceneRenderer {
	dev.Viewport(width, height)
	return &SceneRenderer{
		dev:      dev,
		program:  program,
		texture:  texture,
		camera:   NewDefaultCamera(width, height),
		uniforms: NewUniformCache(dev),
		width:    width,
		height:   height,
	}
}

// Render draws every active instance and returns the number of draw calls.
func (r *SceneRenderer) Render(p *Parameters, elapsed time.Duration, width, height int32) int {
	if width != r.width || height != r.height {
		r.width, r.height = width, height
		r.camera.SetViewport(width, height)
		r.dev.Viewport(width, height)
	}

	r.dev.Clear()
	mesh := p.Mesh
	if mesh == nil {
		return 0
	}

	dev, prog := r.dev, r.program
	dev.UseProgram(prog.Program)
	if r.texture != nil {
		dev.BindTexture(0, r.texture.ID())
	}

	dev.BindAttribute(prog.Attribs.Position, mesh.VertexBuffer, 3)
	dev.BindAttribute(prog.Attribs.Normal, mesh.NormalBuffer, 3)
	dev.BindAttribute(prog.Attribs.Color, mesh.ColorBuffer, 4)
	dev.BindAttribute(prog.Attribs.TexCoord, mesh.TextureBuffer, 2)
	dev.BindIndexBuffer(mesh.IndexBuffer)

	u := r.uniforms
	u.SetMatrix(prog.Uniforms.Projection, r.camera.Projection)
	u.SetFloat(prog.Uniforms.UseTexture, boolFloat(p.UseTexture))
	u.SetFloat(prog.Uniforms.Directional, boolFloat(p.Lighting == LightingDirectional))

	seconds := float32(elapsed.Seconds())
	draws := 0
	for _, offset := range InstanceOffsets(p.MultiInstance) {
		mv := ModelView(offset, p.CameraDistance, p.TiltAngle, seconds)
		u.SetMatrix(prog.Uniforms.ModelView, mv)
		u.SetMatrix(prog.Uniforms.Normal, NormalMatrix(mv))
		dev.DrawTriangles(int32(mesh.IndexCount))
		draws++
	}
	return draws
}
