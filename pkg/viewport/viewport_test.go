package viewport

import (
	"bytes"
	"testing"
	"time"

	"github.com/chazu/physalis/pkg/camera"
	"github.com/chazu/physalis/pkg/gizmo"
	"github.com/chazu/physalis/pkg/input"
	"github.com/chazu/physalis/pkg/kernel/faceted"
	"github.com/chazu/physalis/pkg/logging"
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/render"
	"github.com/chazu/physalis/pkg/scene"
	"github.com/chazu/physalis/pkg/tessellate"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	width  = 800
	height = 600
)

// newViewport looks down -Z at the origin from (0, 0, 5).
func newViewport(t *testing.T, opts ...Option) (*Viewport, *render.Recorder) {
	t.Helper()
	cam := camera.NewController(width, height)
	c := cam.Camera()
	c.Rotation = mgl32.QuatIdent()
	c.Radius = 5
	cam.SetCamera(c)

	rec := render.NewRecorder()
	sc := scene.New(tessellate.New(faceted.New()))
	v := New(sc, rec, append([]Option{WithCamera(cam)}, opts...)...)
	return v, rec
}

// project returns the viewport pixel of world point p.
func project(v *Viewport, p mgl32.Vec3) (x, y float32) {
	clip := v.Camera().Camera().ViewProj().Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
	nx, ny := clip[0]/clip[3], clip[1]/clip[3]
	return (nx + 1) / 2 * width, (1 - ny) / 2 * height
}

func click(v *Viewport, drag *gizmo.Session, x, y float32) *gizmo.Session {
	drag = v.Handle(drag, input.PointerDown{X: x, Y: y, Button: input.ButtonLeft})
	if drag != nil {
		return drag
	}
	return v.Handle(drag, input.PointerUp{X: x, Y: y, Button: input.ButtonLeft})
}

func TestNewPushesReferenceLinesAndCamera(t *testing.T) {
	v, rec := newViewport(t)
	assert.NotEmpty(t, rec.ReferenceLines())
	_, eye := rec.Camera()
	assert.InDelta(t, 5, eye[2], 1e-5)
	assert.Equal(t, ToolSelect, v.Tool())
	assert.Equal(t, 0, rec.MeshUpdates())
}

func TestClickSelectsAndMissClears(t *testing.T) {
	v, rec := newViewport(t)
	id, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.MeshUpdates())

	assert.Nil(t, click(v, nil, width/2, height/2))
	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, id, sel)
	assert.Len(t, rec.OverlayLines(), 12)

	base, ok := v.Baseline()
	require.True(t, ok)
	assert.Equal(t, model.Identity(), base)

	click(v, nil, 5, 5)
	_, ok = v.Selected()
	assert.False(t, ok)
	assert.Empty(t, rec.OverlayLines())
}

func TestToolKeys(t *testing.T) {
	v, rec := newViewport(t)
	_, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	click(v, nil, width/2, height/2)

	v.Handle(nil, input.KeyDown{Key: "m", Repeat: true})
	assert.Equal(t, ToolSelect, v.Tool())

	v.Handle(nil, input.KeyDown{Key: "M"})
	assert.Equal(t, ToolMove, v.Tool())
	assert.Len(t, rec.OverlayLines(), 12+9+3*(48+3))

	v.Handle(nil, input.KeyDown{Key: "Escape"})
	assert.Equal(t, ToolSelect, v.Tool())
	assert.Len(t, rec.OverlayLines(), 12)
}

func TestTranslateDragEndToEnd(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWriterLogger("viewport", true, &buf, &buf)
	v, rec := newViewport(t, WithLogger(log))

	id, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)

	pick, ok := v.PickObject(width/2, height/2)
	require.True(t, ok)
	assert.Equal(t, id, pick)

	click(v, nil, width/2, height/2)
	v.Handle(nil, input.KeyDown{Key: "m"})

	x, y := project(v, mgl32.Vec3{0.2, 0, 0})
	drag := v.Handle(nil, input.PointerDown{X: x, Y: y, Button: input.ButtonLeft})
	require.NotNil(t, drag)
	assert.Equal(t, gizmo.Translate, drag.Mode)
	assert.Equal(t, gizmo.AxisX, drag.Axis)
	assert.Equal(t, id, drag.Object)

	x, y = project(v, mgl32.Vec3{2.2, 0, 0})
	drag = v.Handle(drag, input.PointerMove{X: x, Y: y})
	require.NotNil(t, drag)

	tr, ok := v.Scene().Transform(id)
	require.True(t, ok)
	assert.InDelta(t, 2, tr.Translation[0], 1e-3)
	assert.InDelta(t, 0, tr.Translation[1], 1e-3)
	assert.InDelta(t, 0, tr.Translation[2], 1e-3)

	bounds := rec.Mesh().Bounds()
	assert.InDelta(t, 2, bounds.Center()[0], 1e-3)

	drag = v.Handle(drag, input.PointerUp{X: x, Y: y, Button: input.ButtonLeft})
	assert.Nil(t, drag)
	after, _ := v.Scene().Transform(id)
	assert.Equal(t, tr, after)

	assert.Contains(t, buf.String(), "begin")
	assert.Contains(t, buf.String(), "end")
}

func TestPressInSelectToolNeverStartsDrag(t *testing.T) {
	v, _ := newViewport(t)
	_, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	click(v, nil, width/2, height/2)

	x, y := project(v, mgl32.Vec3{0.2, 0, 0})
	drag := v.Handle(nil, input.PointerDown{X: x, Y: y, Button: input.ButtonLeft})
	assert.Nil(t, drag)
}

func TestPointerLeaveEndsDrag(t *testing.T) {
	v, _ := newViewport(t)
	_, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	click(v, nil, width/2, height/2)
	v.SetTool(ToolMove)

	x, y := project(v, mgl32.Vec3{0.2, 0, 0})
	drag := v.Handle(nil, input.PointerDown{X: x, Y: y, Button: input.ButtonLeft})
	require.NotNil(t, drag)
	assert.Nil(t, v.Handle(drag, input.PointerLeave{}))
}

func TestCommitAndCancel(t *testing.T) {
	v, _ := newViewport(t)
	id, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	require.True(t, v.Select(id))
	v.SetTool(ToolMove)

	moved := model.Transform{Translation: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent()}
	require.True(t, v.SetTransform(id, moved))
	require.True(t, v.Cancel())
	tr, _ := v.Scene().Transform(id)
	assert.Equal(t, mgl32.Vec3{}, tr.Translation)
	assert.Equal(t, ToolSelect, v.Tool())

	v.SetTool(ToolMove)
	v.SetTransform(id, moved)
	require.True(t, v.Commit())
	base, _ := v.Baseline()
	assert.Equal(t, moved.Translation, base.Translation)
	assert.Equal(t, ToolSelect, v.Tool())

	v.ClearSelection()
	assert.False(t, v.Commit())
	assert.False(t, v.Cancel())
}

func TestApplyPanel(t *testing.T) {
	v, _ := newViewport(t)
	id, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	assert.False(t, v.ApplyPanel(model.TransformPanel{TX: 1}))

	v.Select(id)
	require.True(t, v.ApplyPanel(model.TransformPanel{TX: 1, RYDeg: 45}))
	tr, _ := v.Scene().Transform(id)
	assert.InDelta(t, 1, tr.Translation[0], 1e-6)
	x := tr.Axis(0)
	assert.InDelta(t, -0.70710678, x[2], 1e-5)

	p, ok := v.Panel()
	require.True(t, ok)
	assert.InDelta(t, 45, p.RYDeg, 1e-2)
}

func TestFrameSelectedAnimatesOnFrameEvents(t *testing.T) {
	v, rec := newViewport(t)
	id, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)
	v.SetTransform(id, model.Transform{Translation: mgl32.Vec3{3, 0, 0}})
	v.Select(id)
	require.True(t, v.FrameSelected())

	v.Handle(nil, input.Frame{Dt: 100 * time.Millisecond})
	assert.True(t, v.Camera().Animating())
	v.Handle(nil, input.Frame{Dt: 200 * time.Millisecond})
	assert.False(t, v.Camera().Animating())

	cam := v.Camera().Camera()
	assert.InDelta(t, 3, cam.Target[0], 1e-5)
	_, eye := rec.Camera()
	assert.Equal(t, cam.Eye(), eye)
}

func TestMiddleDragMovesCamera(t *testing.T) {
	v, rec := newViewport(t)
	_, eye := rec.Camera()
	frames := rec.Frames()

	v.Handle(nil, input.PointerDown{X: 400, Y: 300, Button: input.ButtonMiddle})
	v.Handle(nil, input.PointerMove{X: 440, Y: 300})
	v.Handle(nil, input.PointerUp{X: 440, Y: 300, Button: input.ButtonMiddle})

	_, moved := rec.Camera()
	assert.NotEqual(t, eye, moved)
	assert.Greater(t, rec.Frames(), frames)

	v.Handle(nil, input.Wheel{DeltaY: -100})
	assert.InDelta(t, 4.5, v.Camera().Camera().Radius, 1e-4)
}

func TestViewCubeClick(t *testing.T) {
	v, _ := newViewport(t)
	f, ok := v.ViewCubeClick(50, 50, 100)
	require.True(t, ok)
	assert.Equal(t, camera.FacePosZ, f)

	_, ok = v.ViewCubeClick(1, 1, 100)
	assert.False(t, ok)
}

func TestPickSurfaceThroughViewport(t *testing.T) {
	v, _ := newViewport(t)
	id, err := v.AddBox(1, 1, 1)
	require.NoError(t, err)

	hit, ok := v.PickSurface(width/2, height/2)
	require.True(t, ok)
	assert.Equal(t, id, hit.ID)
	assert.InDelta(t, 0.5, hit.Point[2], 1e-3)
	assert.InDelta(t, 1, hit.Normal[2], 1e-4)
}

func TestRefreshOnEmptySceneLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWriterLogger("viewport", true, &buf, &buf)
	v, rec := newViewport(t, WithLogger(log))
	v.Refresh()
	assert.Nil(t, rec.Mesh())
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), scene.ErrEmptyScene.Error())
}
