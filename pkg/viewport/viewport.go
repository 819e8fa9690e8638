// Package viewport routes input events through the gizmo, picking and
// camera, applies drag results to the scene and pushes the resulting mesh,
// overlay and camera to a render sink.
//
// A drag is an explicit *gizmo.Session value: Handle takes the current
// session (nil when idle) and returns the next one.
package viewport

import (
	"errors"

	"github.com/chazu/physalis/pkg/camera"
	"github.com/chazu/physalis/pkg/gizmo"
	"github.com/chazu/physalis/pkg/logging"
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/picking"
	"github.com/chazu/physalis/pkg/render"
	"github.com/chazu/physalis/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Tool is the active editor tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolMove
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolMove:
		return "move"
	default:
		return "unknown"
	}
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(v *Viewport) { v.log = logging.OrNop(l) }
}

// WithCamera replaces the default camera controller.
func WithCamera(c *camera.Controller) Option {
	return func(v *Viewport) {
		if c != nil {
			v.cam = c
		}
	}
}

// WithReferenceLines sets the grid, axes and origin cube pushed to sinks
// that accept reference lines.
func WithReferenceLines(s render.LineSettings, vis render.PlaneVisibility) Option {
	return func(v *Viewport) {
		v.lineSettings = s
		v.planes = vis
	}
}

// Viewport is the interactive editing core. It is not safe for concurrent
// use; events are handled one at a time.
type Viewport struct {
	scene *scene.Scene
	cam   *camera.Controller
	sink  render.Sink
	log   logging.Logger

	lineSettings render.LineSettings
	planes       render.PlaneVisibility

	tool     Tool
	selected model.ObjectID
	hasSel   bool
	baseline model.Transform
}

// New returns a viewport over s that draws into sink. The sink receives the
// initial camera and reference lines immediately.
func New(s *scene.Scene, sink render.Sink, opts ...Option) *Viewport {
	v := &Viewport{
		scene:        s,
		cam:          camera.NewController(800, 600),
		sink:         sink,
		log:          logging.NewNopLogger(),
		lineSettings: render.DefaultLineSettings(),
		planes:       render.DefaultPlaneVisibility(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.pushReferenceLines()
	v.pushCamera()
	return v
}

// Scene returns the underlying scene.
func (v *Viewport) Scene() *scene.Scene { return v.scene }

// Camera returns the camera controller.
func (v *Viewport) Camera() *camera.Controller { return v.cam }

// Tool returns the active tool.
func (v *Viewport) Tool() Tool { return v.tool }

// SetTool switches tools and refreshes the overlay.
func (v *Viewport) SetTool(t Tool) {
	if v.tool == t {
		return
	}
	v.tool = t
	v.log.Debugf("tool: %s", t)
	v.pushOverlay()
	v.sink.Render()
}

// Selected returns the selected object.
func (v *Viewport) Selected() (model.ObjectID, bool) { return v.selected, v.hasSel }

// Baseline returns the transform recorded when the selection was made or
// last committed.
func (v *Viewport) Baseline() (model.Transform, bool) { return v.baseline, v.hasSel }

// Select selects id and records its current transform as the baseline.
// It returns false for an unknown id.
func (v *Viewport) Select(id model.ObjectID) bool {
	t, ok := v.scene.Transform(id)
	if !ok {
		return false
	}
	v.selected, v.hasSel, v.baseline = id, true, t
	v.pushOverlay()
	v.sink.Render()
	return true
}

// ClearSelection drops the selection and its baseline.
func (v *Viewport) ClearSelection() {
	v.selected, v.hasSel, v.baseline = 0, false, model.Transform{}
	v.pushOverlay()
	v.sink.Render()
}

// Add adds shape to the scene and refreshes the mesh.
func (v *Viewport) Add(shape model.Shape) (model.ObjectID, error) {
	id, err := v.scene.Add(shape)
	if err != nil {
		return 0, err
	}
	v.pushMesh()
	v.sink.Render()
	return id, nil
}

// AddBox adds a w x h x d box.
func (v *Viewport) AddBox(w, h, d float32) (model.ObjectID, error) {
	return v.Add(model.Box{W: w, H: h, D: d})
}

// AddCylinder adds a cylinder of radius r and height h.
func (v *Viewport) AddCylinder(r, h float32) (model.ObjectID, error) {
	return v.Add(model.Cylinder{R: r, H: h})
}

// SetTransform places id and refreshes the mesh and overlay.
func (v *Viewport) SetTransform(id model.ObjectID, t model.Transform) bool {
	if !v.scene.SetTransform(id, t) {
		return false
	}
	v.pushMesh()
	v.pushOverlay()
	v.sink.Render()
	return true
}

// Panel returns the transform panel values of the selection.
func (v *Viewport) Panel() (model.TransformPanel, bool) {
	if !v.hasSel {
		return model.TransformPanel{}, false
	}
	t, ok := v.scene.Transform(v.selected)
	if !ok {
		return model.TransformPanel{}, false
	}
	return model.PanelFromTransform(t), true
}

// ApplyPanel places the selection from panel values. The baseline is kept.
func (v *Viewport) ApplyPanel(p model.TransformPanel) bool {
	if !v.hasSel {
		return false
	}
	return v.SetTransform(v.selected, p.Transform())
}

// Commit adopts the selection's current transform as its baseline and
// returns to the select tool.
func (v *Viewport) Commit() bool {
	if !v.hasSel {
		return false
	}
	if t, ok := v.scene.Transform(v.selected); ok {
		v.baseline = t
	}
	v.SetTool(ToolSelect)
	return true
}

// Cancel restores the baseline transform and returns to the select tool.
func (v *Viewport) Cancel() bool {
	if !v.hasSel {
		return false
	}
	v.SetTransform(v.selected, v.baseline)
	v.SetTool(ToolSelect)
	return true
}

// FrameSelected eases the camera onto the selection.
func (v *Viewport) FrameSelected() bool {
	if !v.hasSel {
		return false
	}
	t, ok := v.scene.Transform(v.selected)
	if !ok {
		return false
	}
	r, _ := v.scene.BoundsRadius(v.selected)
	return v.cam.FrameTarget(t.Translation, r)
}

// SnapToFace eases the camera to look at a view cube face.
func (v *Viewport) SnapToFace(f camera.Face) bool {
	return v.cam.SnapToFace(f)
}

// ViewCubeClick snaps to the view cube face under widget pixel (x, y) of
// a size x size widget.
func (v *Viewport) ViewCubeClick(x, y, size float32) (camera.Face, bool) {
	f, ok := camera.ViewCubeFaceAt(v.cam.Camera().Rotation, size, x, y)
	if !ok {
		return 0, false
	}
	return f, v.cam.SnapToFace(f)
}

// Ray unprojects viewport pixel (x, y) through the camera.
func (v *Viewport) Ray(x, y float32) (picking.Ray, bool) {
	origin, dir, ok := v.cam.ScreenRay(x, y)
	if !ok {
		return picking.Ray{}, false
	}
	return picking.NewRay(origin, dir)
}

// PickObject returns the object under viewport pixel (x, y).
func (v *Viewport) PickObject(x, y float32) (model.ObjectID, bool) {
	r, ok := v.Ray(x, y)
	if !ok {
		return 0, false
	}
	return picking.PickObject(v.scene, r.Origin, r.Direction)
}

// PickSurface returns the surface point under viewport pixel (x, y).
func (v *Viewport) PickSurface(x, y float32) (picking.SurfaceHit, bool) {
	r, ok := v.Ray(x, y)
	if !ok {
		return picking.SurfaceHit{}, false
	}
	return picking.PickSurface(v.scene, r.Origin, r.Direction)
}

func (v *Viewport) target() (gizmo.Target, bool) {
	if !v.hasSel {
		return gizmo.Target{}, false
	}
	e, ok := v.scene.Object(v.selected)
	if !ok {
		return gizmo.Target{}, false
	}
	r, _ := v.scene.BoundsRadius(v.selected)
	box, _ := v.scene.LocalAABB(v.selected)
	return gizmo.Target{
		ID:           e.ID,
		Transform:    e.Transform,
		BoundsRadius: r,
		LocalAABB:    box,
	}, true
}

// Refresh pushes the camera, mesh and overlay and renders a frame.
func (v *Viewport) Refresh() {
	v.pushCamera()
	v.pushMesh()
	v.pushOverlay()
	v.sink.Render()
}

func (v *Viewport) pushCamera() {
	c := v.cam.Camera()
	v.sink.SetCamera(c.ViewProj(), c.Eye())
}

func (v *Viewport) pushMesh() {
	m, err := v.scene.CombinedMesh()
	if err != nil {
		if errors.Is(err, scene.ErrEmptyScene) {
			v.log.Debugf("mesh update skipped: %v", err)
		} else {
			v.log.Warnf("mesh update skipped: %v", err)
		}
		return
	}
	v.sink.SetMesh(m)
}

func (v *Viewport) pushOverlay() {
	t, ok := v.target()
	if !ok {
		v.sink.SetOverlayLines(nil)
		return
	}
	v.sink.SetOverlayLines(gizmo.Overlay(t, v.cam.Camera().Eye(), v.tool == ToolMove))
}

func (v *Viewport) pushReferenceLines() {
	rs, ok := v.sink.(render.ReferenceSink)
	if !ok {
		return
	}
	rs.SetReferenceLines(render.ReferenceLines(v.lineSettings, v.planes))
}

// eye is the camera position handed to the gizmo.
func (v *Viewport) eye() mgl32.Vec3 {
	return v.cam.Camera().Eye()
}
