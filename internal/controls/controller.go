package controls

import (
	"fmt"

	"globe/internal/logger"
	"globe/internal/renderer"

	"go.uber.org/zap"
)

// MeshBuilder generates and uploads a sphere of the given resolution.
type MeshBuilder func(resolution int) (*renderer.Mesh, error)

// Controller is the single writer of Parameters. It must run on the render
// goroutine, between ticks.
type Controller struct {
	params  *renderer.Parameters
	build   MeshBuilder
	pending int
}

func NewController(params *renderer.Parameters, build MeshBuilder) *Controller {
	return &Controller{params: params, build: build, pending: params.MeshResolution}
}

func (c *Controller) Params() *renderer.Parameters {
	return c.params
}

// Pending is the resolution shown while a change is in progress; it equals
// MeshResolution once committed.
func (c *Controller) Pending() int {
	return c.pending
}

// Apply updates Parameters from ev. Resolution changes rebuild the mesh only
// on Commit; a failed rebuild keeps the previous mesh.
func (c *Controller) Apply(ev Event) error {
	p := c.params
	switch ev.Field {
	case FieldUseTexture:
		p.UseTexture = ev.Bool
	case FieldLighting:
		p.Lighting = ev.Lighting
	case FieldMultiInstance:
		p.MultiInstance = ev.Bool
	case FieldCameraDistance:
		p.CameraDistance = p.Bounds.Distance(ev.Float)
	case FieldTiltAngle:
		p.TiltAngle = p.Bounds.Tilt(ev.Float)
	case FieldMeshResolution:
		r := p.Bounds.Resolution(ev.Int)
		c.pending = r
		if ev.Delivery == Commit {
			return c.rebuild(r)
		}
		return nil
	default:
		return fmt.Errorf("unknown control field %v", ev.Field)
	}
	logger.Log.Debug("Parameter changed",
		zap.Stringer("field", ev.Field),
		zap.Stringer("delivery", ev.Delivery))
	return nil
}

func (c *Controller) rebuild(r int) error {
	p := c.params
	if r == p.MeshResolution && p.Mesh != nil {
		return nil
	}

	mesh, err := c.build(r)
	if err != nil {
		c.pending = p.MeshResolution
		logger.Log.Error("Mesh rebuild failed, keeping previous mesh",
			zap.Int("resolution", r),
			zap.Int("current", p.MeshResolution),
			zap.Error(err))
		return fmt.Errorf("rebuilding mesh at resolution %d: %w", r, err)
	}

	old := p.Mesh
	p.Mesh = mesh
	p.MeshResolution = r
	old.Release()

	logger.Log.Info("Mesh rebuilt",
		zap.Int("resolution", r),
		zap.Int("vertices", mesh.VertexCount),
		zap.Int("indices", mesh.IndexCount))
	return nil
}
