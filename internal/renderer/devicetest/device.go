// Package devicetest provides an in-memory renderer.Device that records every
// call, for tests that cannot create a GL context.
package devicetest

import (
	"errors"

	"globe/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrInjected = errors.New("injected buffer failure")

type Buffer struct {
	Floats  []float32
	Indices []uint32
}

type Texture struct {
	Width   int
	Height  int
	Pix     []uint8
	Filter  renderer.TextureFilter
	Uploads int
}

// Draw is a snapshot of the state visible to one DrawTriangles call.
type Draw struct {
	IndexCount  int32
	Program     uint32
	Texture     uint32
	Texels      []uint8
	ModelView   mgl32.Mat4
	Normal      mgl32.Mat4
	Projection  mgl32.Mat4
	UseTexture  float32
	Directional float32
	Attribs     map[int32]uint32
	IndexBuffer uint32
}

type Device struct {
	// Injected failures.
	CompileLogs  map[renderer.ShaderStage]string
	LinkLog      string
	FailBufferAt int // 1-based allocation number that fails; 0 disables
	MissingNames map[string]bool

	Buffers        map[uint32]Buffer
	DeletedBuffers []uint32
	Shaders        map[uint32]renderer.ShaderStage
	DeletedShaders []uint32
	Programs       map[uint32]bool
	Textures       map[uint32]*Texture
	Draws          []Draw
	Clears         int
	ViewportW      int32
	ViewportH      int32
	Uniforms       map[int32]any

	nextID      uint32
	allocations int
	program     uint32
	texture     uint32
	attribs     map[int32]uint32
	indexBuffer uint32
	locations   map[string]int32
}

func New() *Device {
	return &Device{
		CompileLogs:  map[renderer.ShaderStage]string{},
		MissingNames: map[string]bool{},
		Buffers:      map[uint32]Buffer{},
		Shaders:      map[uint32]renderer.ShaderStage{},
		Programs:     map[uint32]bool{},
		Textures:     map[uint32]*Texture{},
		Uniforms:     map[int32]any{},
		attribs:      map[int32]uint32{},
		locations:    map[string]int32{},
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) allocate() error {
	d.allocations++
	if d.FailBufferAt > 0 && d.allocations == d.FailBufferAt {
		return ErrInjected
	}
	return nil
}

func (d *Device) NewArrayBuffer(data []float32) (uint32, error) {
	if err := d.allocate(); err != nil {
		return 0, err
	}
	id := d.id()
	d.Buffers[id] = Buffer{Floats: append([]float32(nil), data...)}
	return id, nil
}

func (d *Device) NewIndexBuffer(data []uint32) (uint32, error) {
	if err := d.allocate(); err != nil {
		return 0, err
	}
	id := d.id()
	d.Buffers[id] = Buffer{Indices: append([]uint32(nil), data...)}
	return id, nil
}

func (d *Device) DeleteBuffer(id uint32) {
	delete(d.Buffers, id)
	d.DeletedBuffers = append(d.DeletedBuffers, id)
}

func (d *Device) CompileShader(stage renderer.ShaderStage, _ string) (uint32, string, bool) {
	id := d.id()
	d.Shaders[id] = stage
	if log, ok := d.CompileLogs[stage]; ok {
		return id, log, false
	}
	return id, "", true
}

func (d *Device) DeleteShader(id uint32) {
	delete(d.Shaders, id)
	d.DeletedShaders = append(d.DeletedShaders, id)
}

func (d *Device) LinkProgram(_, _ uint32) (uint32, string, bool) {
	id := d.id()
	d.Programs[id] = true
	if d.LinkLog != "" {
		return id, d.LinkLog, false
	}
	return id, "", true
}

func (d *Device) DeleteProgram(id uint32) {
	delete(d.Programs, id)
}

// location hands out stable, distinct locations per name; names listed in
// MissingNames resolve to -1.
func (d *Device) location(name string) int32 {
	if d.MissingNames[name] {
		return -1
	}
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	loc := int32(len(d.locations))
	d.locations[name] = loc
	return loc
}

func (d *Device) AttribLocation(_ uint32, name string) int32 {
	return d.location("attrib:" + name)
}

func (d *Device) UniformLocation(_ uint32, name string) int32 {
	return d.location(name)
}

// Location returns the location previously handed out for a uniform name.
func (d *Device) Location(name string) int32 {
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) UseProgram(program uint32) {
	d.program = program
}

func (d *Device) NewTexture() uint32 {
	id := d.id()
	d.Textures[id] = &Texture{}
	return id
}

func (d *Device) TexImage2D(texture uint32, width, height int, pixels []uint8) {
	t := d.Textures[texture]
	t.Width, t.Height = width, height
	t.Pix = append([]uint8(nil), pixels...)
	t.Uploads++
}

func (d *Device) SetTextureFilter(texture uint32, filter renderer.TextureFilter) {
	d.Textures[texture].Filter = filter
}

func (d *Device) BindTexture(_ int, texture uint32) {
	d.texture = texture
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.Textures, id)
}

func (d *Device) BindAttribute(location int32, buffer uint32, _ int32) {
	if location == -1 {
		return
	}
	d.attribs[location] = buffer
}

func (d *Device) BindIndexBuffer(buffer uint32) {
	d.indexBuffer = buffer
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	if location == -1 {
		return
	}
	d.Uniforms[location] = m
}

func (d *Device) Uniform1f(location int32, v float32) {
	if location == -1 {
		return
	}
	d.Uniforms[location] = v
}

func (d *Device) Uniform1i(location int32, v int32) {
	if location == -1 {
		return
	}
	d.Uniforms[location] = v
}

func (d *Device) Viewport(width, height int32) {
	d.ViewportW, d.ViewportH = width, height
}

func (d *Device) Clear() {
	d.Clears++
}

func (d *Device) mat(name string) mgl32.Mat4 {
	m, _ := d.Uniforms[d.Location(name)].(mgl32.Mat4)
	return m
}

func (d *Device) float(name string) float32 {
	f, _ := d.Uniforms[d.Location(name)].(float32)
	return f
}

func (d *Device) DrawTriangles(indexCount int32) {
	draw := Draw{
		IndexCount:  indexCount,
		Program:     d.program,
		Texture:     d.texture,
		ModelView:   d.mat("uModelViewMatrix"),
		Normal:      d.mat("uNormalMatrix"),
		Projection:  d.mat("uProjectionMatrix"),
		UseTexture:  d.float("uUseTexture"),
		Directional: d.float("uDirectionalLighting"),
		Attribs:     map[int32]uint32{},
		IndexBuffer: d.indexBuffer,
	}
	for k, v := range d.attribs {
		draw.Attribs[k] = v
	}
	if t, ok := d.Textures[d.texture]; ok {
		draw.Texels = append([]uint8(nil), t.Pix...)
	}
	d.Draws = append(d.Draws, draw)
}

// Reset forgets recorded draws and clears, keeping GPU objects.
func (d *Device) Reset() {
	d.Draws = nil
	d.Clears = 0
}

var _ renderer.Device = (*Device)(nil)
