// Package kernel defines the tessellation boundary of the viewport.
// Implementations (faceted, sdfx) turn primitive solids into triangle
// meshes in the solid's own local frame. Callers never look inside a
// Solid; they only ask for its bounds or its mesh.
package kernel

// Solid is an opaque handle to a kernel solid centered on its local origin.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract tessellation interface.
type Kernel interface {
	// Name identifies the backend in logs and configuration.
	Name() string

	// Box creates a box of size x by y by z centered on the origin.
	Box(x, y, z float64) Solid
	// Cylinder creates a cylinder whose axis is local Y, centered on the
	// origin. Kernels with smooth surfaces may ignore segments.
	Cylinder(height, radius float64, segments int) Solid

	// ToMesh tessellates s. tolerance is the largest allowed deviation
	// between the mesh and the true surface.
	ToMesh(s Solid, tolerance float64) (*Mesh, error)
}
