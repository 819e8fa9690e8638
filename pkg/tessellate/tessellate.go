// Package tessellate turns primitive shape descriptors into local-space
// triangle meshes using a geometry kernel. It is the only place where the
// model's shape variants meet kernel solids.
package tessellate

import (
	"fmt"

	"github.com/chazu/physalis/pkg/kernel"
	"github.com/chazu/physalis/pkg/model"
	"github.com/pkg/errors"
)

// Tessellator produces meshes for shapes with a fixed kernel.
type Tessellator struct {
	k kernel.Kernel
}

// New returns a Tessellator backed by k.
func New(k kernel.Kernel) *Tessellator {
	return &Tessellator{k: k}
}

// Kernel returns the backing kernel.
func (t *Tessellator) Kernel() kernel.Kernel {
	return t.k
}

// Tessellate validates s and returns its mesh in local space. The mesh is
// owned by the caller.
func (t *Tessellator) Tessellate(s model.Shape, tolerance float64) (*kernel.Mesh, error) {
	return Tessellate(t.k, s, tolerance)
}

// Tessellate builds the kernel solid for s and meshes it at the given
// tolerance.
func Tessellate(k kernel.Kernel, s model.Shape, tolerance float64) (*kernel.Mesh, error) {
	if err := model.ValidateShape(s); err != nil {
		return nil, err
	}
	solid, err := solidFor(k, s)
	if err != nil {
		return nil, err
	}

	mesh, err := k.ToMesh(solid, tolerance)
	if err != nil {
		return nil, errors.Wrapf(err, "tessellate: %s ToMesh failed for %s", k.Name(), s.Kind())
	}
	if err := checkMesh(mesh); err != nil {
		return nil, errors.Wrapf(err, "tessellate: %s produced a bad %s mesh", k.Name(), s.Kind())
	}
	return mesh, nil
}

// solidFor creates the kernel solid for a primitive shape.
func solidFor(k kernel.Kernel, s model.Shape) (kernel.Solid, error) {
	switch data := s.(type) {
	case model.Box:
		return k.Box(float64(data.W), float64(data.H), float64(data.D)), nil
	case model.Cylinder:
		// Zero segments lets the kernel derive the count from tolerance.
		return k.Cylinder(float64(data.H), float64(data.R), 0), nil
	default:
		return nil, fmt.Errorf("tessellate: unsupported shape type %T", s)
	}
}

// checkMesh rejects meshes that would corrupt picking or bounds.
func checkMesh(m *kernel.Mesh) error {
	if m == nil || m.IsEmpty() {
		return errors.New("empty mesh")
	}
	if len(m.Vertices)%3 != 0 || len(m.Indices)%3 != 0 {
		return errors.Errorf("ragged arrays: %d vertex floats, %d indices", len(m.Vertices), len(m.Indices))
	}
	if len(m.Normals) != len(m.Vertices) {
		return errors.Errorf("%d normal floats for %d vertex floats", len(m.Normals), len(m.Vertices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return errors.Errorf("index %d at %d out of range for %d vertices", idx, i, n)
		}
	}
	return nil
}
