package renderer

import "github.com/go-gl/mathgl/mgl32"

// UniformCache remembers the last value uploaded to each uniform location of
// one program and skips uploads that would not change it.
type UniformCache struct {
	dev      Device
	floats   map[int32]float32
	matrices map[int32]mgl32.Mat4
	uploads  int
}

func NewUniformCache(dev Device) *UniformCache {
	return &UniformCache{
		dev:      dev,
		floats:   make(map[int32]float32),
		matrices: make(map[int32]mgl32.Mat4),
	}
}

func (uc *UniformCache) SetFloat(loc int32, value float32) {
	if loc == -1 {
		return
	}
	if v, ok := uc.floats[loc]; ok && v == value {
		return
	}
	uc.floats[loc] = value
	uc.uploads++
	uc.dev.Uniform1f(loc, value)
}

func (uc *UniformCache) SetMatrix(loc int32, m mgl32.Mat4) {
	if loc == -1 {
		return
	}
	if v, ok := uc.matrices[loc]; ok && v == m {
		return
	}
	uc.matrices[loc] = m
	uc.uploads++
	uc.dev.UniformMatrix4(loc, m)
}

// Uploads counts the values actually sent to the device.
func (uc *UniformCache) Uploads() int {
	return uc.uploads
}

// Clear forgets every value (call when the program is relinked).
func (uc *UniformCache) Clear() {
	uc.floats = make(map[int32]float32)
	uc.matrices = make(map[int32]mgl32.Mat4)
}
