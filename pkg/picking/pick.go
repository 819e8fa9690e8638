package picking

import (
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/scene"
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MinPickRadius is the smallest sphere radius used by PickObject, so thin
// or degenerate objects stay selectable.
const MinPickRadius = 0.05

// Source supplies the objects to pick from. *scene.Scene implements it.
type Source interface {
	Entries() []scene.Entry
}

// SurfaceHit is the nearest triangle hit found by PickSurface.
type SurfaceHit struct {
	ID       model.ObjectID
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// PickObject returns the object whose bounding sphere, centered at its
// world translation, the ray enters first. Rotation is not considered.
func PickObject(src Source, origin, dir mgl32.Vec3) (model.ObjectID, bool) {
	ray, ok := NewRay(origin, dir)
	if !ok {
		return 0, false
	}
	best := math32.Inf(1)
	var bestID model.ObjectID
	found := false
	for _, e := range src.Entries() {
		radius := math32.Max(e.BoundsRadius, MinPickRadius)
		t, hit := ray.IntersectSphere(e.Transform.Translation, radius)
		if hit && t < best {
			best, bestID, found = t, e.ID, true
		}
	}
	return bestID, found
}

// PickSurface tests the ray against every triangle of every object in
// world space and returns the closest hit.
func PickSurface(src Source, origin, dir mgl32.Vec3) (SurfaceHit, bool) {
	ray, ok := NewRay(origin, dir)
	if !ok {
		return SurfaceHit{}, false
	}

	best := SurfaceHit{Distance: math32.Inf(1)}
	found := false
	for _, e := range src.Entries() {
		m := e.Local
		if m == nil {
			continue
		}
		for i := 0; i < m.TriangleCount(); i++ {
			ia, ib, ic := m.Triangle(i)
			a := e.Transform.Apply(m.Position(ia))
			b := e.Transform.Apply(m.Position(ib))
			c := e.Transform.Apply(m.Position(ic))

			t, u, v, hit := ray.IntersectTriangle(a, b, c)
			if !hit || t >= best.Distance {
				continue
			}

			w := 1 - u - v
			local := m.Normal(ia).Mul(w).Add(m.Normal(ib).Mul(u)).Add(m.Normal(ic).Mul(v))
			n, ok := vmath.Normalize(e.Transform.ApplyDir(local))
			if !ok {
				n = vmath.NormalizeOrZero(b.Sub(a).Cross(c.Sub(a)))
			}
			best = SurfaceHit{ID: e.ID, Point: ray.At(t), Normal: n, Distance: t}
			found = true
		}
	}
	if !found {
		return SurfaceHit{}, false
	}
	return best, true
}
