package gizmo

import (
	"testing"

	"github.com/chazu/physalis/pkg/kernel"
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/picking"
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox(tr model.Transform) Target {
	return Target{
		ID:           1,
		Transform:    tr,
		BoundsRadius: math32.Sqrt(0.75),
		LocalAABB:    kernel.AABB{Min: mgl32.Vec3{-0.5, -0.5, -0.5}, Max: mgl32.Vec3{0.5, 0.5, 0.5}},
	}
}

func rayTo(t *testing.T, from, to mgl32.Vec3) picking.Ray {
	t.Helper()
	r, ok := picking.NewRay(from, to.Sub(from))
	require.True(t, ok)
	return r
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name         string
		base, dist   float32
		wantAxis     float32
		wantRingSize float32
	}{
		{"distance dominated", 1, 10, 1.2, 0.9},
		{"radius dominated", 10, 1, 2.5, 1.875},
		{"zero distance", 0, 0, 0.00012, 0.00009},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, ring := Dimensions(tt.base, tt.dist)
			assert.InDelta(t, tt.wantAxis, axis, 1e-6)
			assert.InDelta(t, tt.wantRingSize, ring, 1e-6)
		})
	}
}

func TestHitTranslateAndDragEndToEnd(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	target := unitBox(model.Identity())

	s, ok := Hit(target, eye, rayTo(t, eye, mgl32.Vec3{}))
	require.True(t, ok)
	assert.Equal(t, Translate, s.Mode)
	assert.Equal(t, AxisX, s.Axis, "ties go to the first axis")
	assert.InDelta(t, 0, s.StartAxisT, 1e-5)
	assert.NotEqual(t, [16]byte{}, [16]byte(s.ID))

	got, ok := s.Drag(rayTo(t, eye, mgl32.Vec3{2, 0, 0}))
	require.True(t, ok)
	assert.InDelta(t, 2, got.Translation[0], 1e-4)
	assert.InDelta(t, 0, got.Translation[1], 1e-4)
	assert.InDelta(t, 0, got.Translation[2], 1e-4)
}

func TestTranslateOffsetsStayOnAxis(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	s, ok := Hit(unitBox(model.Identity()), eye, rayTo(t, eye, mgl32.Vec3{0, 0.48, 0}))
	require.True(t, ok)
	require.Equal(t, AxisY, s.Axis)
	assert.InDelta(t, 0.48, s.StartAxisT, 1e-5)

	for _, p := range []mgl32.Vec3{{-1, -1, 0}, {0.3, 1.5, 0}, {2, 0.2, 0}, {-3, 4, 0}} {
		got, ok := s.Drag(rayTo(t, eye, p))
		require.True(t, ok)
		delta := got.Translation.Sub(s.Start.Translation)
		perp := vmath.RejectFrom(delta, s.AxisDir)
		assert.InDelta(t, 0, perp.Len(), 1e-5, "offset %v leaves the axis", delta)
		assert.InDelta(t, p[1]-0.48, delta.Dot(s.AxisDir), 1e-4)
	}
}

func TestTranslateFollowsRotatedAxis(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	// Local X points along world Y.
	tr := model.Transform{Rotation: mgl32.QuatRotate(math32.Pi/2, vmath.UnitZ)}
	s, ok := Hit(unitBox(tr), eye, rayTo(t, eye, mgl32.Vec3{0, 0.48, 0}))
	require.True(t, ok)
	require.Equal(t, AxisX, s.Axis)

	got, ok := s.Drag(rayTo(t, eye, mgl32.Vec3{0, 2, 0}))
	require.True(t, ok)
	assert.InDelta(t, 0, got.Translation[0], 1e-4)
	assert.InDelta(t, 1.52, got.Translation[1], 1e-4)
	// Rotation is carried over untouched.
	assert.InDelta(t, 1, got.Rotation.Dot(tr.Rot()), 1e-6)
}

func TestTranslateSkipsParallelRay(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	s, ok := Hit(unitBox(model.Identity()), eye, rayTo(t, eye, mgl32.Vec3{}))
	require.True(t, ok)

	parallel, ok := picking.NewRay(eye, mgl32.Vec3{1, 0, 0})
	require.True(t, ok)
	_, ok = s.Drag(parallel)
	assert.False(t, ok)
}

func TestHitRing(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	target := unitBox(model.Identity())
	_, ringR := Dimensions(target.baseRadius(), 5)
	c := ringR * math32.Sqrt(0.5)

	s, ok := Hit(target, eye, rayTo(t, eye, mgl32.Vec3{c, c, 0}))
	require.True(t, ok)
	assert.Equal(t, Rotate, s.Mode)
	assert.Equal(t, AxisZ, s.Axis)
	assert.InDelta(t, math32.Pi/4, s.StartAngle, 1e-4)

	// Drag a quarter turn around the ring.
	got, ok := s.Drag(rayTo(t, eye, mgl32.Vec3{-c, c, 0}))
	require.True(t, ok)
	x := got.Rot().Rotate(vmath.UnitX)
	assert.InDelta(t, 0, x[0], 1e-4)
	assert.InDelta(t, 1, x[1], 1e-4)

	// Updates are computed from the start transform, so repeating the same
	// ray gives the same answer.
	again, ok := s.Drag(rayTo(t, eye, mgl32.Vec3{-c, c, 0}))
	require.True(t, ok)
	assert.InDelta(t, 1, math32.Abs(again.Rotation.Dot(got.Rotation)), 1e-6)
}

func TestHitMiss(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	_, ok := Hit(unitBox(model.Identity()), eye, rayTo(t, eye, mgl32.Vec3{3, 3, 0}))
	assert.False(t, ok)
}

func ringSession(startDeg float32) *Session {
	return &Session{
		Mode:        Rotate,
		Axis:        AxisZ,
		Start:       model.Identity(),
		PlaneNormal: vmath.UnitZ,
		RingU:       vmath.UnitX,
		RingV:       vmath.UnitY,
		StartAngle:  mgl32.DegToRad(startDeg),
	}
}

func pointAt(deg float32) mgl32.Vec3 {
	a := mgl32.DegToRad(deg)
	return mgl32.Vec3{math32.Cos(a), math32.Sin(a), 0}
}

func TestRotateWrapsAcrossBranchCut(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	s := ringSession(179)

	got, ok := s.Drag(rayTo(t, eye, pointAt(-179)))
	require.True(t, ok)
	x := got.Rot().Rotate(vmath.UnitX)
	angle := math32.Atan2(x[1], x[0])
	assert.InDelta(t, mgl32.DegToRad(2), angle, 1e-3)
}

func TestRotateComposesInLocalSpace(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	s := ringSession(0)
	start := mgl32.QuatRotate(math32.Pi/2, vmath.UnitX)
	s.Start = model.Transform{Rotation: start}

	got, ok := s.Drag(rayTo(t, eye, pointAt(30)))
	require.True(t, ok)
	want := start.Mul(mgl32.QuatRotate(mgl32.DegToRad(30), vmath.UnitZ))
	assert.InDelta(t, 1, math32.Abs(got.Rotation.Dot(want)), 1e-5)
}

func TestRotateSkipsDegenerateRays(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	s := ringSession(0)

	// Through the ring center: no angle.
	_, ok := s.Drag(rayTo(t, eye, mgl32.Vec3{}))
	assert.False(t, ok)
	// Pointing away from the plane.
	away, _ := picking.NewRay(eye, mgl32.Vec3{0, 0, 1})
	_, ok = s.Drag(away)
	assert.False(t, ok)
	// Parallel to the plane.
	flat, _ := picking.NewRay(eye, mgl32.Vec3{1, 0, 0})
	_, ok = s.Drag(flat)
	assert.False(t, ok)
}

func TestOverlayLineCounts(t *testing.T) {
	eye := mgl32.Vec3{2, 3, 5}
	target := unitBox(model.Transform{Translation: mgl32.Vec3{1, 0, 0}})

	highlight := Overlay(target, eye, false)
	require.Len(t, highlight, 12)
	for _, l := range highlight {
		assert.Equal(t, HighlightColor, l.Color)
	}

	full := Overlay(target, eye, true)
	// 12 box edges, 3 axes with 2-line arrowheads, 3 rings with 3-line arrows.
	assert.Len(t, full, 12+3*3+3*(ringSegments+3))
	for _, l := range full {
		assert.True(t, vmath.FiniteVec(l.A) && vmath.FiniteVec(l.B))
	}
}

func TestOverlayRingRadius(t *testing.T) {
	eye := mgl32.Vec3{0, 0, 5}
	target := unitBox(model.Identity())
	_, ringR := Dimensions(target.baseRadius(), 5)

	lines := Overlay(target, eye, true)
	ring := lines[12+9 : 12+9+ringSegments]
	for _, l := range ring {
		assert.InDelta(t, ringR, l.A.Len(), 1e-4)
		assert.InDelta(t, ringR, l.B.Len(), 1e-4)
		assert.Equal(t, AxisColors[0], l.Color)
	}
}
