package kernel

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3 `json:"min"`
	Max mgl32.Vec3 `json:"max"`
}

// EmptyAABB returns a box that contains nothing; extending it with any
// point yields that point.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend returns the smallest box containing b and p.
func (b AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the edge lengths of the box.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners. Bit 0 of the index selects max X,
// bit 1 max Y and bit 2 max Z.
func (b AABB) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				out[i][axis] = b.Max[axis]
			} else {
				out[i][axis] = b.Min[axis]
			}
		}
	}
	return out
}

// Edges lists the twelve corner index pairs forming the box wireframe.
var Edges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}
