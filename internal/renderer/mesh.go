package renderer

import (
	"fmt"

	"globe/internal/logger"

	"go.uber.org/zap"
)

// Mesh owns the five GPU buffers of an uploaded sphere.
type Mesh struct {
	VertexBuffer  uint32
	NormalBuffer  uint32
	TextureBuffer uint32
	ColorBuffer   uint32
	IndexBuffer   uint32
	VertexCount   int
	IndexCount    int
	Resolution    int

	dev      Device
	released bool
}

// UploadMesh copies a sphere into new GPU buffers. Either all five buffers are
// created or none are.
func UploadMesh(dev Device, data *SphereData) (*Mesh, error) {
	m := &Mesh{
		VertexCount: data.VertexCount(),
		IndexCount:  data.IndexCount(),
		Resolution:  data.Resolution,
		dev:         dev,
	}

	var unwind Unwind
	arrays := []struct {
		name string
		dst  *uint32
		src  []float32
	}{
		{"position", &m.VertexBuffer, data.Positions},
		{"normal", &m.NormalBuffer, data.Normals},
		{"texcoord", &m.TextureBuffer, data.TextureCoords},
		{"color", &m.ColorBuffer, data.Colors},
	}
	for _, a := range arrays {
		id, err := dev.NewArrayBuffer(a.src)
		if err != nil {
			unwind.Unwind()
			return nil, fmt.Errorf("upload %s buffer: %w", a.name, err)
		}
		*a.dst = id
		unwind.Add(func() { dev.DeleteBuffer(id) })
	}

	id, err := dev.NewIndexBuffer(data.Indices)
	if err != nil {
		unwind.Unwind()
		return nil, fmt.Errorf("upload index buffer: %w", err)
	}
	m.IndexBuffer = id
	unwind.Discard()
	return m, nil
}

// BuildMesh generates and uploads a sphere at resolution r.
func BuildMesh(dev Device, r int) (*Mesh, error) {
	data, err := GenerateSphere(r)
	if err != nil {
		return nil, err
	}
	m, err := UploadMesh(dev, data)
	if err != nil {
		return nil, err
	}
	logger.Log.Debug("Sphere mesh built",
		zap.Int("resolution", r),
		zap.Int("vertices", m.VertexCount),
		zap.Int("indices", m.IndexCount))
	return m, nil
}

// Release deletes the buffers. Calling it more than once is a no-op.
func (m *Mesh) Release() {
	if m == nil || m.released {
		return
	}
	m.released = true
	for _, id := range []uint32{m.VertexBuffer, m.NormalBuffer, m.TextureBuffer, m.ColorBuffer, m.IndexBuffer} {
		m.dev.DeleteBuffer(id)
	}
}
