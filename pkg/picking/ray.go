// Package picking resolves world-space rays against the scene: a cheap
// bounding-sphere pass for object selection and an exact triangle pass
// for surface points. It also holds the ray primitives shared with the
// gizmo.
package picking

import (
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// NewRay normalizes dir. ok is false for a degenerate direction or a
// non-finite origin.
func NewRay(origin, dir mgl32.Vec3) (r Ray, ok bool) {
	d, ok := vmath.Normalize(dir)
	if !ok || !vmath.FiniteVec(origin) {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: d}, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere returns the smallest positive distance at which the ray
// enters or, when starting inside, leaves the sphere.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (t float32, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	if t = -b - sq; t > 0 {
		return t, true
	}
	if t = -b + sq; t > 0 {
		return t, true
	}
	return 0, false
}

// Triangle intersection tolerances.
const (
	parallelEpsilon = 1e-6
	hitEpsilon      = 1e-6
)

// IntersectTriangle is the Moller-Trumbore test. It returns the hit
// distance and the barycentric weights of b and c.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t, u, v float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < parallelEpsilon {
		return 0, 0, 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = e2.Dot(q) * inv
	if t <= hitEpsilon {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Hits behind the origin are accepted; callers that need a
// forward hit check t.
func (r Ray) IntersectPlane(point, normal mgl32.Vec3) (t float32, ok bool) {
	denom := normal.Dot(r.Direction)
	if math32.Abs(denom) < vmath.Epsilon {
		return 0, false
	}
	return normal.Dot(point.Sub(r.Origin)) / denom, true
}

// SegmentDistance returns the shortest distance between the ray and the
// segment from a to b, and how far along the segment (in world units from
// a) the closest point lies.
func (r Ray) SegmentDistance(a, b mgl32.Vec3) (dist, along float32) {
	u := r.Direction
	v := b.Sub(a)
	w := r.Origin.Sub(a)

	uu := u.Dot(u)
	uv := u.Dot(v)
	vv := v.Dot(v)
	uw := u.Dot(w)
	vw := v.Dot(w)
	det := uu*vv - uv*uv

	onSegment := func() float32 {
		if vv > 1e-12 {
			return vw / vv
		}
		return 0
	}

	var s, t float32
	if det > 1e-8 {
		s = (uv*vw - vv*uw) / det
		t = (uu*vw - uv*uw) / det
	} else {
		// Nearly parallel: measure from the ray origin.
		s = 0
		t = onSegment()
	}

	switch {
	case t < 0:
		t = 0
		s = -uw / uu
	case t > 1:
		t = 1
		s = (uv - uw) / uu
	}

	if s < 0 {
		s = 0
		t = mgl32.Clamp(onSegment(), 0, 1)
	}

	pr := r.At(s)
	ps := a.Add(v.Mul(t))
	return pr.Sub(ps).Len(), t * v.Len()
}
