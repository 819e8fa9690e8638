package picking

import (
	"testing"

	"github.com/chazu/physalis/pkg/kernel/faceted"
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/scene"
	"github.com/chazu/physalis/pkg/tessellate"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScene() *scene.Scene {
	return scene.New(tessellate.New(faceted.New()))
}

func mustRay(t *testing.T, o, d mgl32.Vec3) Ray {
	t.Helper()
	r, ok := NewRay(o, d)
	require.True(t, ok)
	return r
}

func TestNewRayRejectsDegenerate(t *testing.T) {
	_, ok := NewRay(mgl32.Vec3{}, mgl32.Vec3{})
	assert.False(t, ok)
	_, ok = NewRay(mgl32.Vec3{math32.NaN(), 0, 0}, mgl32.Vec3{0, 0, 1})
	assert.False(t, ok)

	r, ok := NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, -3})
	require.True(t, ok)
	assert.InDelta(t, 1, r.Direction.Len(), 1e-6)
}

func TestIntersectSphere(t *testing.T) {
	tests := []struct {
		name    string
		origin  mgl32.Vec3
		dir     mgl32.Vec3
		wantHit bool
		wantT   float32
	}{
		{"front", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, true, 4},
		{"inside", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, true, 1},
		{"behind", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}, false, 0},
		{"miss", mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustRay(t, tt.origin, tt.dir)
			got, hit := r.IntersectSphere(mgl32.Vec3{}, 1)
			require.Equal(t, tt.wantHit, hit)
			if hit {
				assert.InDelta(t, tt.wantT, got, 1e-5)
			}
		})
	}
}

func TestIntersectTriangleAnalyticDistance(t *testing.T) {
	a := mgl32.Vec3{-1, -1, 0.2}
	b := mgl32.Vec3{2, -0.5, -0.4}
	c := mgl32.Vec3{0.3, 1.5, 0.6}
	eye := mgl32.Vec3{0.7, -0.4, 6}

	weights := [][3]float32{{0.2, 0.3, 0.5}, {0.6, 0.2, 0.2}, {0.1, 0.1, 0.8}}
	for _, w := range weights {
		p := a.Mul(w[0]).Add(b.Mul(w[1])).Add(c.Mul(w[2]))
		r := mustRay(t, eye, p.Sub(eye))
		got, u, v, hit := r.IntersectTriangle(a, b, c)
		require.True(t, hit, "weights %v", w)
		assert.InDelta(t, p.Sub(eye).Len(), got, 1e-4)
		assert.InDelta(t, w[1], u, 1e-4)
		assert.InDelta(t, w[2], v, 1e-4)
	}
}

func TestIntersectTriangleRejects(t *testing.T) {
	a := mgl32.Vec3{-1, -1, 0}
	b := mgl32.Vec3{1, -1, 0}
	c := mgl32.Vec3{0, 1, 0}

	// Parallel to the triangle plane.
	_, _, _, hit := mustRay(t, mgl32.Vec3{0, 0, 0.5}, mgl32.Vec3{1, 0, 0}).IntersectTriangle(a, b, c)
	assert.False(t, hit)
	// Outside the edges.
	_, _, _, hit = mustRay(t, mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}).IntersectTriangle(a, b, c)
	assert.False(t, hit)
	// Behind the origin.
	_, _, _, hit = mustRay(t, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}).IntersectTriangle(a, b, c)
	assert.False(t, hit)
	// Origin on the triangle.
	_, _, _, hit = mustRay(t, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}).IntersectTriangle(a, b, c)
	assert.False(t, hit)
}

func TestIntersectPlane(t *testing.T) {
	r := mustRay(t, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	d, ok := r.IntersectPlane(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 1})
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-6)

	_, ok = r.IntersectPlane(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	assert.False(t, ok)
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name      string
		origin    mgl32.Vec3
		dir       mgl32.Vec3
		a, b      mgl32.Vec3
		wantDist  float32
		wantAlong float32
	}{
		{"through endpoint", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 0, 0},
		{"over midpoint", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 1, 0}, mgl32.Vec3{1, 1, 0}, 1, 1},
		{"parallel", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 0, 0}, 1, 0},
		{"behind origin", mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 5, 0},
		{"past end", mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, along := mustRay(t, tt.origin, tt.dir).SegmentDistance(tt.a, tt.b)
			assert.InDelta(t, tt.wantDist, dist, 1e-5)
			assert.InDelta(t, tt.wantAlong, along, 1e-5)
		})
	}
}

func TestPickObjectUnitBox(t *testing.T) {
	s := newScene()
	id, err := s.AddBox(1, 1, 1)
	require.NoError(t, err)

	got, ok := PickObject(s, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestPickObjectNearestWins(t *testing.T) {
	s := newScene()
	far, err := s.AddBox(1, 1, 1)
	require.NoError(t, err)
	near, err := s.AddBox(1, 1, 1)
	require.NoError(t, err)
	s.SetTransform(far, model.Transform{Translation: mgl32.Vec3{0, 0, -5}})
	s.SetTransform(near, model.Transform{Translation: mgl32.Vec3{0, 0, 2}})

	got, ok := PickObject(s, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.Equal(t, near, got)

	// From the other side the order flips.
	got, ok = PickObject(s, mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 0, 1})
	require.True(t, ok)
	assert.Equal(t, far, got)
}

func TestPickObjectMisses(t *testing.T) {
	s := newScene()
	_, ok := PickObject(s, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1})
	assert.False(t, ok, "empty scene")

	_, err := s.AddBox(1, 1, 1)
	require.NoError(t, err)
	_, ok = PickObject(s, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	assert.False(t, ok, "degenerate direction")
	_, ok = PickObject(s, mgl32.Vec3{5, 0, 5}, mgl32.Vec3{0, 0, -1})
	assert.False(t, ok, "ray passes beside")
}

func TestPickObjectRadiusFloor(t *testing.T) {
	s := newScene()
	id, err := s.AddBox(0.01, 0.01, 0.01)
	require.NoError(t, err)
	got, ok := PickObject(s, mgl32.Vec3{0.04, 0, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestPickSurfaceBox(t *testing.T) {
	s := newScene()
	id, err := s.AddBox(1, 1, 1)
	require.NoError(t, err)

	hit, ok := PickSurface(s, mgl32.Vec3{0.1, 0.2, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.Equal(t, id, hit.ID)
	assert.InDelta(t, 4.5, hit.Distance, 1e-5)
	assert.InDelta(t, 0.5, hit.Point[2], 1e-5)
	assert.InDelta(t, 1, hit.Normal[2], 1e-5)
}

func TestPickSurfaceRotatedNormal(t *testing.T) {
	s := newScene()
	id, err := s.AddBox(1, 2, 1)
	require.NoError(t, err)
	// Local +Y now faces world +Z.
	s.SetTransform(id, model.Transform{
		Rotation: mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{1, 0, 0}),
	})

	hit, ok := PickSurface(s, mgl32.Vec3{0.1, 0.2, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.InDelta(t, 4, hit.Distance, 1e-4)
	assert.InDelta(t, 0, hit.Normal[0], 1e-4)
	assert.InDelta(t, 0, hit.Normal[1], 1e-4)
	assert.InDelta(t, 1, hit.Normal[2], 1e-4)
}

func TestPickSurfaceNearestObject(t *testing.T) {
	s := newScene()
	back, err := s.AddBox(4, 4, 1)
	require.NoError(t, err)
	front, err := s.AddCylinder(0.5, 1)
	require.NoError(t, err)
	s.SetTransform(back, model.Transform{Translation: mgl32.Vec3{0, 0, -3}})

	hit, ok := PickSurface(s, mgl32.Vec3{0.05, 0.1, 5}, mgl32.Vec3{0, 0, -1})
	require.True(t, ok)
	assert.Equal(t, front, hit.ID)
	assert.Less(t, hit.Distance, float32(5))

	_, ok = PickSurface(s, mgl32.Vec3{10, 10, 5}, mgl32.Vec3{0, 0, -1})
	assert.False(t, ok)
}
