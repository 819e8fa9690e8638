package faceted

import (
	"testing"

	"github.com/chazu/physalis/pkg/kernel"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkOutward verifies every triangle of a convex mesh centered on the
// origin winds counter-clockwise when seen from outside.
func checkOutward(t *testing.T, m *kernel.Mesh) {
	t.Helper()
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		pa, pb, pc := m.Position(a), m.Position(b), m.Position(c)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		centroid := pa.Add(pb).Add(pc).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d winds inward: normal %v centroid %v", i, n, centroid)
		}
		if n.Dot(m.Normal(a)) <= 0 {
			t.Fatalf("triangle %d disagrees with its vertex normal", i)
		}
	}
}

func TestBoxMesh(t *testing.T) {
	k := New()
	m, err := k.ToMesh(k.Box(2, 4, 6), 0.01)
	require.NoError(t, err)

	if got := m.VertexCount(); got != 24 {
		t.Errorf("VertexCount() = %d, want 24", got)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}
	b := m.Bounds()
	assert.InDelta(t, -1, b.Min[0], 1e-6)
	assert.InDelta(t, 2, b.Max[1], 1e-6)
	assert.InDelta(t, -3, b.Min[2], 1e-6)
	assert.InDelta(t, math32.Sqrt(1+4+9), m.BoundsRadius(), 1e-5)
	checkOutward(t, m)
}

func TestCylinderMesh(t *testing.T) {
	k := New()
	s := k.Cylinder(2, 0.5, 16)
	m, err := k.ToMesh(s, 0.01)
	require.NoError(t, err)

	if got := m.TriangleCount(); got != 4*16 {
		t.Errorf("TriangleCount() = %d, want %d", got, 4*16)
	}
	if got := m.VertexCount(); got != 4*16+2 {
		t.Errorf("VertexCount() = %d, want %d", got, 4*16+2)
	}
	b := m.Bounds()
	assert.InDelta(t, -1, b.Min[1], 1e-6)
	assert.InDelta(t, 1, b.Max[1], 1e-6)
	assert.InDelta(t, 0.5, b.Max[0], 1e-6)
	checkOutward(t, m)

	min, max := s.BoundingBox()
	if min != [3]float64{-0.5, -1, -0.5} || max != [3]float64{0.5, 1, 0.5} {
		t.Errorf("BoundingBox() = %v %v", min, max)
	}
}

func TestCylinderSegmentsFromTolerance(t *testing.T) {
	k := New()
	m, err := k.ToMesh(k.Cylinder(1, 1, 0), 0.01)
	require.NoError(t, err)
	want := SegmentsFor(1, 0.01)
	if got := m.TriangleCount(); got != 4*want {
		t.Errorf("TriangleCount() = %d, want %d", got, 4*want)
	}
}

func TestSegmentsFor(t *testing.T) {
	tests := []struct {
		name              string
		radius, tolerance float64
		want              int
	}{
		{"unit radius", 1, 0.01, 23},
		{"coarse", 1, 2, minSegments},
		{"zero tolerance", 1, 0, minSegments},
		{"very fine", 100, 1e-6, maxSegments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsFor(tt.radius, tt.tolerance); got != tt.want {
				t.Errorf("SegmentsFor(%v, %v) = %d, want %d", tt.radius, tt.tolerance, got, tt.want)
			}
		})
	}
}

type foreignSolid struct{}

func (foreignSolid) BoundingBox() (min, max [3]float64) { return }

func TestToMeshRejectsForeignSolid(t *testing.T) {
	_, err := New().ToMesh(foreignSolid{}, 0.01)
	assert.Error(t, err)
}
