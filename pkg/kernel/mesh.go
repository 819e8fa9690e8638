package kernel

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Position returns vertex i.
func (m *Mesh) Position(i uint32) mgl32.Vec3 {
	j := int(i) * 3
	return mgl32.Vec3{m.Vertices[j], m.Vertices[j+1], m.Vertices[j+2]}
}

// Normal returns the normal of vertex i, or zero if the mesh carries no
// normals for it.
func (m *Mesh) Normal(i uint32) mgl32.Vec3 {
	j := int(i) * 3
	if j+2 >= len(m.Normals) {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{m.Normals[j], m.Normals[j+1], m.Normals[j+2]}
}

// Triangle returns the vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c uint32) {
	j := t * 3
	return m.Indices[j], m.Indices[j+1], m.Indices[j+2]
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]float32(nil), m.Vertices...),
		Normals:  append([]float32(nil), m.Normals...),
		Indices:  append([]uint32(nil), m.Indices...),
	}
}

// Append adds the geometry of other to m, rebasing its indices past the
// vertices already in m.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, idx+base)
	}
}

// Transformed returns a copy of m with every vertex rotated by rot and then
// offset by translate. Normals are rotated only.
func (m *Mesh) Transformed(translate mgl32.Vec3, rot mgl32.Quat) *Mesh {
	out := &Mesh{
		Vertices: make([]float32, len(m.Vertices)),
		Normals:  make([]float32, len(m.Normals)),
		Indices:  append([]uint32(nil), m.Indices...),
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		p := rot.Rotate(mgl32.Vec3{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]}).Add(translate)
		copy(out.Vertices[i:i+3], p[:])
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := rot.Rotate(mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]})
		copy(out.Normals[i:i+3], n[:])
	}
	return out
}

// BoundsRadius returns the largest distance from the local origin to any
// vertex.
func (m *Mesh) BoundsRadius() float32 {
	var r2 float32
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		x, y, z := m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]
		r2 = math32.Max(r2, x*x+y*y+z*z)
	}
	return math32.Sqrt(r2)
}

// Bounds returns the axis-aligned box around all vertices. An empty mesh
// yields a zero box at the origin.
func (m *Mesh) Bounds() AABB {
	if m.IsEmpty() {
		return AABB{}
	}
	b := EmptyAABB()
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		b = b.Extend(mgl32.Vec3{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]})
	}
	return b
}
