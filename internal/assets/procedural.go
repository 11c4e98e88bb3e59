package assets

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
)

const (
	ProceduralScheme = "procedural:"

	ProceduralWidth  = 512
	ProceduralHeight = 256
)

var (
	deepWater    = color.RGBA{10, 30, 110, 255}
	shallowWater = color.RGBA{40, 90, 180, 255}
	lowland      = color.RGBA{60, 140, 60, 255}
	highland     = color.RGBA{130, 110, 70, 255}
	ice          = color.RGBA{235, 240, 245, 255}
)

// ParseProcedural extracts the seed from a "procedural:<seed>" location.
func ParseProcedural(location string) (int64, bool, error) {
	rest, ok := strings.CutPrefix(location, ProceduralScheme)
	if !ok {
		return 0, false, nil
	}
	seed, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("invalid procedural seed %q: %w", rest, err)
	}
	return seed, true, nil
}

// Procedural paints an equirectangular planet map. Noise is sampled on the
// unit sphere so the map wraps at the date line and pinches at the poles.
func Procedural(seed int64, width, height int) *image.RGBA {
	p := perlin.NewPerlin(2, 2, 3, seed)
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		lat := math32.Pi * (float32(y) + 0.5) / float32(height)
		sinLat, cosLat := math32.Sincos(lat)
		for x := 0; x < width; x++ {
			long := 2 * math32.Pi * (float32(x) + 0.5) / float32(width)
			sinLong, cosLong := math32.Sincos(long)

			nx, ny, nz := cosLong*sinLat, sinLong*sinLat, cosLat
			elevation := p.Noise3D(float64(nx)*1.5, float64(ny)*1.5, float64(nz)*1.5)
			img.SetRGBA(x, y, shade(elevation, math32.Abs(cosLat)))
		}
	}
	return img
}

func shade(elevation float64, polar float32) color.RGBA {
	switch {
	case polar > 0.92:
		return ice
	case elevation < -0.15:
		return deepWater
	case elevation < 0:
		return shallowWater
	case elevation < 0.2:
		return lowland
	}
	return highland
}
