package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type Lighting int

const (
	LightingUniform Lighting = iota
	LightingDirectional
)

func (l Lighting) String() string {
	if l == LightingDirectional {
		return "directional"
	}
	return "uniform"
}

// ParseLighting accepts "uniform" or "directional", case-insensitively.
func ParseLighting(s string) (Lighting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform", "":
		return LightingUniform, nil
	case "directional":
		return LightingDirectional, nil
	}
	return LightingUniform, fmt.Errorf("unknown lighting mode %q", s)
}

// Bounds are the editable ranges of the live parameters.
type Bounds struct {
	MinResolution int
	MaxResolution int
	MinDistance   float32
	MaxDistance   float32
	MinTilt       float32
	MaxTilt       float32
}

func DefaultBounds() Bounds {
	return Bounds{
		MinResolution: 5,
		MaxResolution: 75,
		MinDistance:   2,
		MaxDistance:   30,
		MinTilt:       -90,
		MaxTilt:       90,
	}
}

// Resolution clamps r into range. Resolutions below 1 are never returned, even
// with a misconfigured lower bound.
func (b Bounds) Resolution(r int) int {
	if r < b.MinResolution {
		r = b.MinResolution
	}
	if b.MaxResolution >= b.MinResolution && r > b.MaxResolution {
		r = b.MaxResolution
	}
	if r < 1 {
		r = 1
	}
	return r
}

func (b Bounds) Distance(d float32) float32 {
	return mgl32.Clamp(d, b.MinDistance, b.MaxDistance)
}

func (b Bounds) Tilt(deg float32) float32 {
	return mgl32.Clamp(deg, b.MinTilt, b.MaxTilt)
}

// Parameters is the live configuration read by every tick. It has one writer,
// the control integration, and one reader, the render loop, on the same
// goroutine.
type Parameters struct {
	UseTexture     bool
	Lighting       Lighting
	MeshResolution int
	CameraDistance float32
	TiltAngle      float32 // degrees
	MultiInstance  bool
	Mesh           *Mesh

	Bounds Bounds
}

// Clamp forces every scalar field into Bounds.
func (p *Parameters) Clamp() {
	p.MeshResolution = p.Bounds.Resolution(p.MeshResolution)
	p.CameraDistance = p.Bounds.Distance(p.CameraDistance)
	p.TiltAngle = p.Bounds.Tilt(p.TiltAngle)
}
