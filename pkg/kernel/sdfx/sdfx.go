// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/physalis/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// Marching cubes resolution bounds along the longest bounding box side.
const (
	minMeshCells = 16
	maxMeshCells = 200
)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// Name returns "sdfx".
func (k *SdfxKernel) Name() string { return "sdfx" }

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) (sdf.SDF3, bool) {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		return nil, false
	}
	return ss.s, true
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions, centered on the origin
// like sdf.Box3D itself.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder with the given height and radius along Y.
// sdf.Cylinder3D runs along Z, so the result is turned a quarter about X.
// The segments parameter is ignored since SDF represents smooth surfaces.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(sdf.Transform3D(s, sdf.RotateX(math.Pi/2)))
}

// cellsFor picks a marching cubes resolution so that one cell is no larger
// than tolerance along the longest side.
func cellsFor(s sdf.SDF3, tolerance float64) int {
	bb := s.BoundingBox()
	longest := math.Max(bb.Max.X-bb.Min.X, math.Max(bb.Max.Y-bb.Min.Y, bb.Max.Z-bb.Min.Z))
	if tolerance <= 0 || math.IsNaN(tolerance) {
		return maxMeshCells
	}
	cells := int(math.Ceil(longest / tolerance))
	if cells < minMeshCells {
		return minMeshCells
	}
	if cells > maxMeshCells {
		return maxMeshCells
	}
	return cells
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid, tolerance float64) (*kernel.Mesh, error) {
	sdf3, ok := unwrap(s)
	if !ok {
		return nil, fmt.Errorf("sdfx: foreign solid %T", s)
	}

	renderer := render.NewMarchingCubesUniform(cellsFor(sdf3, tolerance))
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
