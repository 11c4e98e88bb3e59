package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ClearColor is the background the globe is drawn over.
var ClearColor = mgl32.Vec4{0, 0, 0, 1}

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// TextureFilter selects how a texture is sampled after an image upload.
type TextureFilter int

const (
	// FilterMipmap samples a generated mip chain with repeat addressing.
	FilterMipmap TextureFilter = iota
	// FilterLinearClamp disables mip filtering and clamps addressing to edges.
	FilterLinearClamp
)

// Device is the subset of the graphics API the renderer drives. Locations of -1
// mean "not present" and every Device implementation must ignore them.
type Device interface {
	NewArrayBuffer(data []float32) (uint32, error)
	NewIndexBuffer(data []uint32) (uint32, error)
	DeleteBuffer(id uint32)

	CompileShader(stage ShaderStage, source string) (id uint32, infoLog string, ok bool)
	DeleteShader(id uint32)
	LinkProgram(vertex, fragment uint32) (id uint32, infoLog string, ok bool)
	DeleteProgram(id uint32)
	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	UseProgram(program uint32)

	NewTexture() uint32
	TexImage2D(texture uint32, width, height int, pixels []uint8)
	SetTextureFilter(texture uint32, filter TextureFilter)
	BindTexture(unit int, texture uint32)
	DeleteTexture(id uint32)

	BindAttribute(location int32, buffer uint32, components int32)
	BindIndexBuffer(buffer uint32)
	UniformMatrix4(location int32, m mgl32.Mat4)
	Uniform1f(location int32, v float32)
	Uniform1i(location int32, v int32)

	Viewport(width, height int32)
	Clear()
	DrawTriangles(indexCount int32)
}
