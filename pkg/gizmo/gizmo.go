// Package gizmo implements the translate/rotate manipulation widget: sizing,
// hit-testing of the axis and ring affordances, and drag updates.
//
// The widget has three states. Idle is represented by the absence of a
// Session; a Session with Mode Translate or Rotate is an active drag on
// one of the three local axes. Sessions are plain values owned by the
// caller and never refer back to the camera or the scene.
package gizmo

import (
	"github.com/chazu/physalis/pkg/kernel"
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/picking"
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Axis names one of the three local axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

var axisNames = [...]string{"x", "y", "z"}

func (a Axis) String() string {
	if a < AxisX || a > AxisZ {
		return "unknown"
	}
	return axisNames[a]
}

// Local returns the unit vector of a in object space.
func (a Axis) Local() mgl32.Vec3 {
	switch a {
	case AxisY:
		return vmath.UnitY
	case AxisZ:
		return vmath.UnitZ
	default:
		return vmath.UnitX
	}
}

// Mode is the kind of drag in progress.
type Mode int

const (
	Translate Mode = iota
	Rotate
)

func (m Mode) String() string {
	switch m {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// Sizing constants. Axis length scales with the view distance so the
// widget keeps a roughly constant size on screen.
const (
	minViewDistance   = 0.001
	minBaseRadius     = 0.25
	axisDistanceScale = 0.12
	axisRadiusScale   = 0.25
	ringAxisScale     = 0.75

	axisHitScale   = 0.18
	ringHitScale   = 0.20
	hitDistScale   = 0.015
	minHitDistance = 0.05
)

// Dimensions returns the axis length and ring radius for an object with
// the given base radius seen from dist away.
func Dimensions(baseRadius, dist float32) (axisLen, ringRadius float32) {
	dist = math32.Max(dist, minViewDistance)
	axisLen = math32.Max(dist*axisDistanceScale, baseRadius*axisRadiusScale)
	return axisLen, axisLen * ringAxisScale
}

// Target is the selected object as the gizmo sees it.
type Target struct {
	ID           model.ObjectID
	Transform    model.Transform
	BoundsRadius float32
	LocalAABB    kernel.AABB
}

// baseRadius floors the bounds radius so tiny objects still get a usable
// widget.
func (t Target) baseRadius() float32 {
	if !vmath.Finite(t.BoundsRadius) {
		return 1
	}
	return math32.Max(t.BoundsRadius, minBaseRadius)
}

// frame is the world-space widget layout for one target and eye.
type frame struct {
	origin   mgl32.Vec3
	axes     [3]mgl32.Vec3
	dist     float32
	viewDir  mgl32.Vec3 // eye towards origin
	axisLen  float32
	ringR    float32
	toCamera mgl32.Vec3
}

func newFrame(t Target, eye mgl32.Vec3) frame {
	tr := t.Transform.Sanitized()
	f := frame{origin: tr.Translation}
	for i := range f.axes {
		f.axes[i] = tr.Axis(i)
	}
	f.dist = math32.Max(eye.Sub(f.origin).Len(), minViewDistance)
	f.viewDir = vmath.NormalizeOrZero(f.origin.Sub(eye))
	f.toCamera = f.viewDir.Mul(-1)
	f.axisLen, f.ringR = Dimensions(t.baseRadius(), f.dist)
	return f
}

// ring returns the plane normal and in-plane basis of the ring around a.
// X uses (y, z), Y uses (z, x) and Z uses (x, y).
func (f frame) ring(a Axis) (n, u, v mgl32.Vec3) {
	i := int(a)
	return f.axes[i], f.axes[(i+1)%3], f.axes[(i+2)%3]
}

// Session is an active drag. It is created by Hit and discarded when the
// pointer is released.
type Session struct {
	ID     uuid.UUID
	Object model.ObjectID
	Mode   Mode
	Axis   Axis

	// Start is the object's transform when the drag began. Every update is
	// computed from it, never from the live transform.
	Start model.Transform
	// Origin is the object's world position at drag start.
	Origin mgl32.Vec3

	// Translate anchoring.
	AxisDir    mgl32.Vec3
	StartAxisT float32

	// PlaneNormal is the drag plane for Translate and the ring plane for
	// Rotate.
	PlaneNormal mgl32.Vec3

	// Rotate anchoring.
	RingU, RingV mgl32.Vec3
	StartAngle   float32
}

// Hit tests ray against the widget of t seen from eye. Axes are tried
// before rings; the closest axis within threshold wins, otherwise the
// first ring whose band contains the plane hit.
func Hit(t Target, eye mgl32.Vec3, ray picking.Ray) (*Session, bool) {
	f := newFrame(t, eye)
	if s, ok := hitAxis(t, f, ray); ok {
		return s, true
	}
	return hitRing(t, f, ray)
}

func hitAxis(t Target, f frame, ray picking.Ray) (*Session, bool) {
	threshold := math32.Max(math32.Max(f.axisLen*axisHitScale, f.dist*hitDistScale), minHitDistance)

	best := math32.Inf(1)
	bestAxis := Axis(-1)
	var bestAlong float32
	for i, dir := range f.axes {
		dist, along := ray.SegmentDistance(f.origin, f.origin.Add(dir.Mul(f.axisLen)))
		if dist < threshold && dist < best {
			best, bestAxis, bestAlong = dist, Axis(i), along
		}
	}
	if bestAxis < 0 {
		return nil, false
	}

	dir := f.axes[bestAxis]
	normal, ok := dragPlaneNormal(dir, f.viewDir)
	if !ok {
		return nil, false
	}
	s := &Session{
		ID:          uuid.New(),
		Object:      t.ID,
		Mode:        Translate,
		Axis:        bestAxis,
		Start:       t.Transform.Sanitized(),
		Origin:      f.origin,
		AxisDir:     dir,
		PlaneNormal: normal,
		StartAxisT:  bestAlong,
	}
	// Anchor on the drag plane itself so the first move does not jump.
	if axisT, ok := s.axisParam(ray); ok {
		s.StartAxisT = axisT
	}
	return s, true
}

// dragPlaneNormal returns the normal of the plane that contains dir and
// faces the viewer as much as possible.
func dragPlaneNormal(dir, viewDir mgl32.Vec3) (mgl32.Vec3, bool) {
	n := dir.Cross(viewDir).Cross(dir)
	if n.Dot(n) < 1e-10 {
		n = dir.Cross(vmath.UnitY).Cross(dir)
	}
	if n.Dot(n) < 1e-10 {
		n = dir.Cross(vmath.UnitX).Cross(dir)
	}
	return vmath.Normalize(n)
}

func hitRing(t Target, f frame, ray picking.Ray) (*Session, bool) {
	threshold := math32.Max(math32.Max(f.ringR*ringHitScale, f.dist*hitDistScale), minHitDistance)
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		n, u, v := f.ring(a)
		tHit, ok := ray.IntersectPlane(f.origin, n)
		if !ok || tHit <= 0 {
			continue
		}
		off := ray.At(tHit).Sub(f.origin)
		if math32.Abs(off.Len()-f.ringR) > threshold {
			continue
		}
		vdir, ok := vmath.Normalize(off)
		if !ok {
			continue
		}
		return &Session{
			ID:          uuid.New(),
			Object:      t.ID,
			Mode:        Rotate,
			Axis:        a,
			Start:       t.Transform.Sanitized(),
			Origin:      f.origin,
			PlaneNormal: n,
			RingU:       u,
			RingV:       v,
			StartAngle:  math32.Atan2(vdir.Dot(v), vdir.Dot(u)),
		}, true
	}
	return nil, false
}
