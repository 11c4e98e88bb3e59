package renderer

import (
	"errors"
	"math"
	"testing"
)

func TestGenerateSphereCounts(t *testing.T) {
	for r := 1; r <= 75; r++ {
		s, err := GenerateSphere(r)
		if err != nil {
			t.Fatalf("r=%d: %v", r, err)
		}
		wantV, wantI := SphereCounts(r)
		if s.VertexCount() != wantV || wantV != 2*(r+1)*(r+1) {
			t.Errorf("r=%d: got %d vertices, want %d", r, s.VertexCount(), wantV)
		}
		if s.IndexCount() != wantI || wantI != 12*r*r {
			t.Errorf("r=%d: got %d indices, want %d", r, s.IndexCount(), wantI)
		}
		if len(s.Normals) != len(s.Positions) {
			t.Errorf("r=%d: normal buffer length mismatch", r)
		}
		if len(s.TextureCoords) != 2*wantV || len(s.Colors) != 4*wantV {
			t.Errorf("r=%d: attribute buffer lengths mismatch", r)
		}
		for k, idx := range s.Indices {
			if int(idx) >= wantV {
				t.Fatalf("r=%d: index %d = %d out of range", r, k, idx)
			}
		}
	}
}

func TestGenerateSphereOnUnitSphere(t *testing.T) {
	s, err := GenerateSphere(30)
	if err != nil {
		t.Fatal(err)
	}
	for v := 0; v < s.VertexCount(); v++ {
		x, y, z := s.Positions[3*v], s.Positions[3*v+1], s.Positions[3*v+2]
		l := math.Sqrt(float64(x*x + y*y + z*z))
		if math.Abs(l-1) > 1e-5 {
			t.Fatalf("vertex %d has length %f", v, l)
		}
		for c := 0; c < 3; c++ {
			if s.Normals[3*v+c] != s.Positions[3*v+c] {
				t.Fatalf("vertex %d normal differs from position", v)
			}
		}
	}
}

func TestGenerateSphereDeterministic(t *testing.T) {
	a, _ := GenerateSphere(17)
	b, _ := GenerateSphere(17)

	if len(a.Positions) != len(b.Positions) || len(a.Indices) != len(b.Indices) {
		t.Fatal("regenerated sphere differs in size")
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Fatalf("regenerated positions differ at %d", i)
		}
	}
	for i := range a.TextureCoords {
		if a.TextureCoords[i] != b.TextureCoords[i] {
			t.Fatalf("regenerated texture coordinates differ at %d", i)
		}
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] {
			t.Fatalf("regenerated indices differ at %d", i)
		}
	}
}

func TestGenerateSphereRejectsBadResolution(t *testing.T) {
	for _, r := range []int{0, -1, -30} {
		if _, err := GenerateSphere(r); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("r=%d: expected ErrInvalidResolution, got %v", r, err)
		}
	}
}

func TestGenerateSphereTextureMapping(t *testing.T) {
	r := 4
	s, _ := GenerateSphere(r)
	// Grid point (i=3, j=1) has front vertex 2*(1*5+3).
	v := 2 * (1*(r+1) + 3)
	if u, w := s.TextureCoords[2*v], s.TextureCoords[2*v+1]; u != 0.75 || w != 0.25 {
		t.Errorf("expected (0.75, 0.25), got (%f, %f)", u, w)
	}
	if s.TextureCoords[2*(v+1)] != 0.75 {
		t.Error("back copy should share the texture coordinate")
	}
	// North pole at j=0.
	if s.Positions[2] != 1 {
		t.Errorf("expected z=1 at the first row, got %f", s.Positions[2])
	}
}

func TestGenerateSphereColorsAndWinding(t *testing.T) {
	s, _ := GenerateSphere(3)
	for v := 0; v < s.VertexCount(); v++ {
		want := frontColor
		if v%2 == 1 {
			want = backColor
		}
		for c := 0; c < 4; c++ {
			if s.Colors[4*v+c] != want[c] {
				t.Fatalf("vertex %d has wrong color", v)
			}
		}
	}

	// Each cell contributes 6 front indices (even) then 6 back indices (odd),
	// and the back triangles reverse the front winding.
	for cell := 0; cell < len(s.Indices)/12; cell++ {
		front := s.Indices[cell*12 : cell*12+6]
		back := s.Indices[cell*12+6 : cell*12+12]
		for k := 0; k < 6; k++ {
			if front[k]%2 != 0 || back[k]%2 != 1 {
				t.Fatalf("cell %d mixes copies", cell)
			}
		}
		for tri := 0; tri < 2; tri++ {
			f := front[tri*3 : tri*3+3]
			b := back[tri*3 : tri*3+3]
			if b[0] != f[0]+1 || b[1] != f[2]+1 || b[2] != f[1]+1 {
				t.Fatalf("cell %d triangle %d is not reversed: %v vs %v", cell, tri, f, b)
			}
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []int{1, 2, 4, 1024, 2048} {
		if !isPowerOfTwo(v) {
			t.Errorf("%d should be a power of two", v)
		}
	}
	for _, v := range []int{0, 3, 6, 1000, 2047} {
		if isPowerOfTwo(v) {
			t.Errorf("%d should not be a power of two", v)
		}
	}
}
