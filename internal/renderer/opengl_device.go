package renderer

import (
	"errors"
	"fmt"
	"strings"

	"globe/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrBufferAllocation = errors.New("buffer allocation failed")

// OpenGLDevice implements Device on an OpenGL 4.1 core context. It must only be
// used from the goroutine that owns the context.
type OpenGLDevice struct {
	vao uint32
}

// NewOpenGLDevice loads the GL entry points for the current context and sets
// the fixed pipeline state: depth test with LEQUAL and ClearColor.
func NewOpenGLDevice() (*OpenGLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl init: %w", err)
	}
	logger.Log.Info("OpenGL initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	dev := &OpenGLDevice{}
	// Core profile rejects attribute setup without a bound vertex array.
	gl.GenVertexArrays(1, &dev.vao)
	gl.BindVertexArray(dev.vao)

	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return dev, nil
}

func (d *OpenGLDevice) NewArrayBuffer(data []float32) (uint32, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty vertex data", ErrBufferAllocation)
	}
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, ErrBufferAllocation
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("%w: gl error 0x%x", ErrBufferAllocation, code)
	}
	return id, nil
}

func (d *OpenGLDevice) NewIndexBuffer(data []uint32) (uint32, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty index data", ErrBufferAllocation)
	}
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, ErrBufferAllocation
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("%w: gl error 0x%x", ErrBufferAllocation, code)
	}
	return id, nil
}

func (d *OpenGLDevice) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (d *OpenGLDevice) CompileShader(stage ShaderStage, source string) (uint32, string, bool) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return shader, strings.TrimRight(log, "\x00"), false
	}
	return shader, "", true
}

func (d *OpenGLDevice) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (d *OpenGLDevice) LinkProgram(vertex, fragment uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	var log string
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log = strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		log = strings.TrimRight(log, "\x00")
	}
	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)
	return program, log, status != gl.FALSE
}

func (d *OpenGLDevice) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (d *OpenGLDevice) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *OpenGLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *OpenGLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *OpenGLDevice) NewTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (d *OpenGLDevice) TexImage2D(texture uint32, width, height int, pixels []uint8) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (d *OpenGLDevice) SetTextureFilter(texture uint32, filter TextureFilter) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	switch filter {
	case FilterMipmap:
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	case FilterLinearClamp:
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
}

func (d *OpenGLDevice) BindTexture(unit int, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *OpenGLDevice) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *OpenGLDevice) BindAttribute(location int32, buffer uint32, components int32) {
	if location == -1 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.VertexAttribPointer(uint32(location), components, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(uint32(location))
}

func (d *OpenGLDevice) BindIndexBuffer(buffer uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buffer)
}

func (d *OpenGLDevice) UniformMatrix4(location int32, m mgl32.Mat4) {
	if location == -1 {
		return
	}
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *OpenGLDevice) Uniform1f(location int32, v float32) {
	if location == -1 {
		return
	}
	gl.Uniform1f(location, v)
}

func (d *OpenGLDevice) Uniform1i(location int32, v int32) {
	if location == -1 {
		return
	}
	gl.Uniform1i(location, v)
}

func (d *OpenGLDevice) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (d *OpenGLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *OpenGLDevice) DrawTriangles(indexCount int32) {
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
}

// Cleanup releases the vertex array created in NewOpenGLDevice.
func (d *OpenGLDevice) Cleanup() {
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
}
