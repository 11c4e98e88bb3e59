package keys

import (
	"globe/internal/controls"
	"globe/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	distanceStep   = 0.5
	tiltStep       = 5
	resolutionStep = 1
)

// Keyboard maps key presses to control events:
//
//	T          toggle texture
//	L          toggle directional lighting
//	M          toggle multiple instances
//	Up/Down    move the camera closer/farther
//	Left/Right tilt
//	+/-        change mesh resolution, rebuilt when the key is released
//
// glfw delivers key callbacks from PollEvents, so the queue is filled and
// drained on the render goroutine.
type Keyboard struct {
	ctrl  *controls.Controller
	queue []controls.Event
}

func NewKeyboard(ctrl *controls.Controller) *Keyboard {
	return &Keyboard{ctrl: ctrl}
}

// Attach installs the key callback on window.
func (k *Keyboard) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		k.HandleKey(key, action)
	})
}

func (k *Keyboard) HandleKey(key glfw.Key, action glfw.Action) {
	p, pending := k.snapshot()
	held := action == glfw.Press || action == glfw.Repeat

	switch key {
	case glfw.KeyT:
		if action == glfw.Press {
			k.push(controls.UseTexture(!p.UseTexture))
		}
	case glfw.KeyL:
		if action == glfw.Press {
			k.push(controls.SetLighting(toggleLighting(p.Lighting)))
		}
	case glfw.KeyM:
		if action == glfw.Press {
			k.push(controls.MultiInstance(!p.MultiInstance))
		}
	case glfw.KeyUp:
		if held {
			k.push(controls.Distance(p.CameraDistance-distanceStep, controls.Continuous))
		}
	case glfw.KeyDown:
		if held {
			k.push(controls.Distance(p.CameraDistance+distanceStep, controls.Continuous))
		}
	case glfw.KeyLeft:
		if held {
			k.push(controls.Tilt(p.TiltAngle-tiltStep, controls.Continuous))
		}
	case glfw.KeyRight:
		if held {
			k.push(controls.Tilt(p.TiltAngle+tiltStep, controls.Continuous))
		}
	case glfw.KeyEqual, glfw.KeyKPAdd:
		k.resolution(pending, resolutionStep, action)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		k.resolution(pending, -resolutionStep, action)
	}
}

// snapshot is the live parameters with the not yet drained events applied,
// so repeated keys within one poll build on each other.
func (k *Keyboard) snapshot() (renderer.Parameters, int) {
	p := *k.ctrl.Params()
	pending := k.ctrl.Pending()
	for _, ev := range k.queue {
		switch ev.Field {
		case controls.FieldUseTexture:
			p.UseTexture = ev.Bool
		case controls.FieldLighting:
			p.Lighting = ev.Lighting
		case controls.FieldMultiInstance:
			p.MultiInstance = ev.Bool
		case controls.FieldCameraDistance:
			p.CameraDistance = p.Bounds.Distance(ev.Float)
		case controls.FieldTiltAngle:
			p.TiltAngle = p.Bounds.Tilt(ev.Float)
		case controls.FieldMeshResolution:
			pending = p.Bounds.Resolution(ev.Int)
		}
	}
	return p, pending
}

func (k *Keyboard) resolution(pending, step int, action glfw.Action) {
	if action == glfw.Release {
		k.push(controls.Resolution(float64(pending), controls.Commit))
		return
	}
	k.push(controls.Resolution(float64(pending+step), controls.Continuous))
}

func (k *Keyboard) push(ev controls.Event) {
	k.queue = append(k.queue, ev)
}

// Drain returns the queued events and empties the queue.
func (k *Keyboard) Drain() []controls.Event {
	out := k.queue
	k.queue = nil
	return out
}

func toggleLighting(l renderer.Lighting) renderer.Lighting {
	if l == renderer.LightingDirectional {
		return renderer.LightingUniform
	}
	return renderer.LightingDirectional
}
