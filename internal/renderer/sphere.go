package renderer

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

var ErrInvalidResolution = errors.New("mesh resolution must be at least 1")

var (
	frontColor = [4]float32{0.0, 1.0, 0.0, 1.0}
	backColor  = [4]float32{0.0, 0.0, 1.0, 1.0}
)

// SphereData is the CPU side of a unit sphere mesh. Every grid point appears
// twice: the even vertex belongs to the front-winding index set and the odd
// vertex to the back-winding one, so the sphere shades correctly with face
// culling disabled.
type SphereData struct {
	Resolution    int
	Positions     []float32 // 3 per vertex
	Normals       []float32 // 3 per vertex, equal to Positions
	TextureCoords []float32 // 2 per vertex
	Colors        []float32 // 4 per vertex
	Indices       []uint32
}

func (s *SphereData) VertexCount() int {
	return len(s.Positions) / 3
}

func (s *SphereData) IndexCount() int {
	return len(s.Indices)
}

// SphereCounts returns the vertex and index counts GenerateSphere produces for r.
func SphereCounts(r int) (vertices, indices int) {
	return 2 * (r + 1) * (r + 1), 12 * r * r
}

// GenerateSphere builds an r×r longitude/latitude grid on the unit sphere with
// an equirectangular texture mapping.
func GenerateSphere(r int) (*SphereData, error) {
	if r < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, r)
	}
	nVerts, nIdx := SphereCounts(r)
	s := &SphereData{
		Resolution:    r,
		Positions:     make([]float32, 0, nVerts*3),
		Normals:       make([]float32, 0, nVerts*3),
		TextureCoords: make([]float32, 0, nVerts*2),
		Colors:        make([]float32, 0, nVerts*4),
		Indices:       make([]uint32, 0, nIdx),
	}

	fr := float32(r)
	for j := 0; j <= r; j++ {
		lat := math32.Pi * float32(j) / fr
		sinLat, cosLat := math32.Sincos(lat)
		for i := 0; i <= r; i++ {
			long := 2 * math32.Pi * float32(i) / fr
			sinLong, cosLong := math32.Sincos(long)

			x, y, z := cosLong*sinLat, sinLong*sinLat, cosLat
			u, v := float32(i)/fr, float32(j)/fr
			for _, c := range [2][4]float32{frontColor, backColor} {
				s.Positions = append(s.Positions, x, y, z)
				s.Normals = append(s.Normals, x, y, z)
				s.TextureCoords = append(s.TextureCoords, u, v)
				s.Colors = append(s.Colors, c[:]...)
			}
		}
	}

	row := uint32(r + 1)
	grid := func(i, j int) uint32 { return uint32(j)*row + uint32(i) }
	for j := 0; j < r; j++ {
		for i := 0; i < r; i++ {
			a, b := grid(i, j), grid(i+1, j)
			c, d := grid(i, j+1), grid(i+1, j+1)

			s.Indices = append(s.Indices,
				2*c, 2*a, 2*b,
				2*c, 2*b, 2*d,
			)
			s.Indices = append(s.Indices,
				2*c+1, 2*b+1, 2*a+1,
				2*c+1, 2*d+1, 2*b+1,
			)
		}
	}
	return s, nil
}
