// Package faceted implements the kernel.Kernel interface with exact
// planar-faced meshes built directly from primitive parameters. Boxes are
// exact; cylinders are approximated by a prism whose segment count is
// chosen so that the chord sagitta stays within the requested tolerance.
package faceted

import (
	"fmt"
	"math"

	"github.com/chazu/physalis/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*FacetedKernel)(nil)

const (
	minSegments = 8
	maxSegments = 256
)

type solidKind int

const (
	kindBox solidKind = iota
	kindCylinder
)

// facetedSolid records primitive parameters; meshing happens in ToMesh.
type facetedSolid struct {
	kind     solidKind
	size     [3]float64 // box extents
	radius   float64
	height   float64
	segments int
}

// BoundingBox returns the axis-aligned bounding box.
func (s *facetedSolid) BoundingBox() (min, max [3]float64) {
	var half [3]float64
	switch s.kind {
	case kindBox:
		half = [3]float64{s.size[0] / 2, s.size[1] / 2, s.size[2] / 2}
	case kindCylinder:
		half = [3]float64{s.radius, s.height / 2, s.radius}
	}
	return [3]float64{-half[0], -half[1], -half[2]}, half
}

// FacetedKernel implements kernel.Kernel with direct mesh construction.
type FacetedKernel struct{}

// New returns a new FacetedKernel.
func New() *FacetedKernel {
	return &FacetedKernel{}
}

// Name returns "faceted".
func (k *FacetedKernel) Name() string { return "faceted" }

// Box creates a box with the given dimensions centered on the origin.
func (k *FacetedKernel) Box(x, y, z float64) kernel.Solid {
	return &facetedSolid{kind: kindBox, size: [3]float64{x, y, z}}
}

// Cylinder creates a cylinder along Y centered on the origin. A positive
// segments value overrides the tolerance-derived count.
func (k *FacetedKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return &facetedSolid{kind: kindCylinder, radius: radius, height: height, segments: segments}
}

// ToMesh builds the triangle mesh for s.
func (k *FacetedKernel) ToMesh(s kernel.Solid, tolerance float64) (*kernel.Mesh, error) {
	fs, ok := s.(*facetedSolid)
	if !ok {
		return nil, fmt.Errorf("faceted: foreign solid %T", s)
	}
	switch fs.kind {
	case kindBox:
		return boxMesh(fs.size), nil
	case kindCylinder:
		n := fs.segments
		if n <= 0 {
			n = SegmentsFor(fs.radius, tolerance)
		}
		return cylinderMesh(fs.radius, fs.height, n), nil
	default:
		return nil, fmt.Errorf("faceted: unknown solid kind %d", fs.kind)
	}
}

// SegmentsFor returns how many sides a circle of the given radius needs so
// that no chord strays more than tolerance from the arc.
func SegmentsFor(radius, tolerance float64) int {
	if radius <= 0 || tolerance <= 0 || tolerance >= radius {
		return minSegments
	}
	half := math.Acos(1 - tolerance/radius)
	if half <= 0 {
		return maxSegments
	}
	n := int(math.Ceil(math.Pi / half))
	if n < minSegments {
		return minSegments
	}
	if n > maxSegments {
		return maxSegments
	}
	return n
}

// face describes one box side: outward normal axis n and tangent axes u, v
// with u x v = n.
type face struct {
	n, u, v int
	sign    float64
}

var boxFaces = [6]face{
	{n: 0, u: 1, v: 2, sign: 1},
	{n: 0, u: 2, v: 1, sign: -1},
	{n: 1, u: 2, v: 0, sign: 1},
	{n: 1, u: 0, v: 2, sign: -1},
	{n: 2, u: 0, v: 1, sign: 1},
	{n: 2, u: 1, v: 0, sign: -1},
}

func boxMesh(size [3]float64) *kernel.Mesh {
	half := [3]float32{float32(size[0] / 2), float32(size[1] / 2), float32(size[2] / 2)}
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 24*3),
		Normals:  make([]float32, 0, 24*3),
		Indices:  make([]uint32, 0, 36),
	}
	quad := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range boxFaces {
		base := uint32(m.VertexCount())
		var normal [3]float32
		normal[f.n] = float32(f.sign)
		for _, q := range quad {
			var p [3]float32
			p[f.n] = float32(f.sign) * half[f.n]
			p[f.u] = q[0] * half[f.u]
			p[f.v] = q[1] * half[f.v]
			m.Vertices = append(m.Vertices, p[0], p[1], p[2])
			m.Normals = append(m.Normals, normal[0], normal[1], normal[2])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

func cylinderMesh(radius, height float64, n int) *kernel.Mesh {
	r := float32(radius)
	hy := float32(height / 2)
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, (4*n+2)*3),
		Normals:  make([]float32, 0, (4*n+2)*3),
		Indices:  make([]uint32, 0, 12*n),
	}
	add := func(x, y, z, nx, ny, nz float32) uint32 {
		i := uint32(m.VertexCount())
		m.Vertices = append(m.Vertices, x, y, z)
		m.Normals = append(m.Normals, nx, ny, nz)
		return i
	}

	cos := make([]float32, n)
	sin := make([]float32, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		cos[i] = float32(math.Cos(a))
		sin[i] = float32(math.Sin(a))
	}

	// Side: bottom ring then top ring, radial normals.
	side := uint32(m.VertexCount())
	for i := 0; i < n; i++ {
		add(r*cos[i], -hy, r*sin[i], cos[i], 0, sin[i])
	}
	for i := 0; i < n; i++ {
		add(r*cos[i], hy, r*sin[i], cos[i], 0, sin[i])
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		b0, b1 := side+uint32(i), side+uint32(j)
		t0, t1 := side+uint32(n+i), side+uint32(n+j)
		m.Indices = append(m.Indices, b0, t0, b1, b1, t0, t1)
	}

	// Caps.
	top := add(0, hy, 0, 0, 1, 0)
	topRing := uint32(m.VertexCount())
	for i := 0; i < n; i++ {
		add(r*cos[i], hy, r*sin[i], 0, 1, 0)
	}
	bottom := add(0, -hy, 0, 0, -1, 0)
	bottomRing := uint32(m.VertexCount())
	for i := 0; i < n; i++ {
		add(r*cos[i], -hy, r*sin[i], 0, -1, 0)
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.Indices = append(m.Indices, top, topRing+uint32(j), topRing+uint32(i))
		m.Indices = append(m.Indices, bottom, bottomRing+uint32(i), bottomRing+uint32(j))
	}
	return m
}
