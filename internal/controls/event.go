// Package controls turns user input into typed parameter changes and applies
// them to the live render parameters.
package controls

import (
	"fmt"
	"math"

	"globe/internal/renderer"
)

type Field int

const (
	FieldUseTexture Field = iota
	FieldLighting
	FieldMeshResolution
	FieldCameraDistance
	FieldTiltAngle
	FieldMultiInstance
)

var fieldNames = [...]string{
	FieldUseTexture:     "useTexture",
	FieldLighting:       "lighting",
	FieldMeshResolution: "meshResolution",
	FieldCameraDistance: "cameraDistance",
	FieldTiltAngle:      "tiltAngle",
	FieldMultiInstance:  "multiInstance",
}

func (f Field) String() string {
	if f >= 0 && int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Delivery says whether a value is still being dragged or has been released.
type Delivery int

const (
	Continuous Delivery = iota
	Commit
)

func (d Delivery) String() string {
	if d == Commit {
		return "commit"
	}
	return "continuous"
}

// Event is one change notification from a control source. Only the value
// matching Field is meaningful.
type Event struct {
	Field    Field
	Delivery Delivery
	Bool     bool
	Int      int
	Float    float32
	Lighting renderer.Lighting
}

func UseTexture(on bool) Event {
	return Event{Field: FieldUseTexture, Delivery: Commit, Bool: on}
}

func SetLighting(l renderer.Lighting) Event {
	return Event{Field: FieldLighting, Delivery: Commit, Lighting: l}
}

func MultiInstance(on bool) Event {
	return Event{Field: FieldMultiInstance, Delivery: Commit, Bool: on}
}

// Resolution rounds a slider position to the nearest whole resolution.
func Resolution(value float64, d Delivery) Event {
	return Event{Field: FieldMeshResolution, Delivery: d, Int: int(math.Round(value))}
}

func Distance(v float32, d Delivery) Event {
	return Event{Field: FieldCameraDistance, Delivery: d, Float: v}
}

func Tilt(deg float32, d Delivery) Event {
	return Event{Field: FieldTiltAngle, Delivery: d, Float: deg}
}
