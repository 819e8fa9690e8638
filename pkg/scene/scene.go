// Package scene owns object identities, per-object local geometry and
// placements, and the lazily rebuilt combined render mesh.
//
// Local meshes are tessellated once, when an object is added, and never
// change afterwards. Every mutation clears the combined mesh; the next
// read rebuilds it from the current (local mesh, transform) pairs.
package scene

import (
	"errors"

	"github.com/chazu/physalis/pkg/kernel"
	"github.com/chazu/physalis/pkg/model"
	"github.com/samber/lo"
)

// ErrEmptyScene is returned by CombinedMesh when there are no objects.
var ErrEmptyScene = errors.New("scene: no objects")

// ErrIDsExhausted is returned by Add once the ID counter has saturated and
// its last value is in use.
var ErrIDsExhausted = errors.New("scene: object ids exhausted")

// DefaultTolerance is the tessellation tolerance used when none is given.
const DefaultTolerance = 0.01

// Tessellator produces the local mesh for a shape.
type Tessellator interface {
	Tessellate(s model.Shape, tolerance float64) (*kernel.Mesh, error)
}

// Entry is a read-only view of one object and its cached local geometry.
// Local is shared with the scene and must not be modified.
type Entry struct {
	ID           model.ObjectID
	Shape        model.Shape
	Transform    model.Transform
	Local        *kernel.Mesh
	BoundsRadius float32
	LocalAABB    kernel.AABB
}

type object struct {
	obj    model.Object
	local  *kernel.Mesh
	radius float32
	aabb   kernel.AABB
}

// Scene is the transform store. It is not safe for concurrent use.
type Scene struct {
	tess      Tessellator
	tolerance float64

	nextID  model.ObjectID
	objects []*object
	index   map[model.ObjectID]int

	combined *kernel.Mesh // nil when invalidated
	builds   int          // combined mesh rebuilds, for tests
}

// Option configures a Scene.
type Option func(*Scene)

// WithTolerance sets the tessellation tolerance for objects added later.
func WithTolerance(tol float64) Option {
	return func(s *Scene) {
		if tol > 0 {
			s.tolerance = tol
		}
	}
}

// New creates an empty scene that meshes shapes with t.
func New(t Tessellator, opts ...Option) *Scene {
	s := &Scene{
		tess:      t,
		tolerance: DefaultTolerance,
		nextID:    1,
		index:     make(map[model.ObjectID]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tolerance returns the tessellation tolerance.
func (s *Scene) Tolerance() float64 {
	return s.tolerance
}

// Add tessellates shape, stores it with the identity transform and returns
// its new ID. The scene is left unchanged if tessellation fails.
func (s *Scene) Add(shape model.Shape) (model.ObjectID, error) {
	mesh, err := s.tess.Tessellate(shape, s.tolerance)
	if err != nil {
		return 0, err
	}

	id := s.nextID
	if _, taken := s.index[id]; taken {
		return 0, ErrIDsExhausted
	}
	s.nextID = s.nextID.Next()

	s.index[id] = len(s.objects)
	s.objects = append(s.objects, &object{
		obj: model.Object{
			ID:        id,
			Shape:     shape,
			Transform: model.Identity(),
		},
		local:  mesh,
		radius: mesh.BoundsRadius(),
		aabb:   mesh.Bounds(),
	})
	s.invalidate()
	return id, nil
}

// AddBox adds a box of width w, height h and depth d.
func (s *Scene) AddBox(w, h, d float32) (model.ObjectID, error) {
	return s.Add(model.Box{W: w, H: h, D: d})
}

// AddCylinder adds a cylinder of radius r and height h.
func (s *Scene) AddCylinder(r, h float32) (model.ObjectID, error) {
	return s.Add(model.Cylinder{R: r, H: h})
}

func (s *Scene) lookup(id model.ObjectID) (*object, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.objects[i], true
}

// SetTransform replaces the transform of id. It reports false, and changes
// nothing, if id is unknown. The rotation is normalized before it is stored.
func (s *Scene) SetTransform(id model.ObjectID, t model.Transform) bool {
	o, ok := s.lookup(id)
	if !ok {
		return false
	}
	o.obj.Transform = t.Sanitized()
	s.invalidate()
	return true
}

// Transform returns the current transform of id.
func (s *Scene) Transform(id model.ObjectID) (model.Transform, bool) {
	o, ok := s.lookup(id)
	if !ok {
		return model.Transform{}, false
	}
	return o.obj.Transform, true
}

// BoundsRadius returns the largest distance from the local origin of id to
// any of its vertices.
func (s *Scene) BoundsRadius(id model.ObjectID) (float32, bool) {
	o, ok := s.lookup(id)
	if !ok {
		return 0, false
	}
	return o.radius, true
}

// LocalAABB returns the untransformed bounding box of id.
func (s *Scene) LocalAABB(id model.ObjectID) (kernel.AABB, bool) {
	o, ok := s.lookup(id)
	if !ok {
		return kernel.AABB{}, false
	}
	return o.aabb, true
}

// Object returns the object with the given id.
func (s *Scene) Object(id model.ObjectID) (model.Object, bool) {
	o, ok := s.lookup(id)
	if !ok {
		return model.Object{}, false
	}
	return o.obj, true
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// IDs returns object IDs in insertion order.
func (s *Scene) IDs() []model.ObjectID {
	return lo.Map(s.objects, func(o *object, _ int) model.ObjectID {
		return o.obj.ID
	})
}

// Objects returns a snapshot of all objects in insertion order.
func (s *Scene) Objects() []model.Object {
	return lo.Map(s.objects, func(o *object, _ int) model.Object {
		return o.obj
	})
}

// Entries returns every object with its cached local geometry.
func (s *Scene) Entries() []Entry {
	return lo.Map(s.objects, func(o *object, _ int) Entry {
		return Entry{
			ID:           o.obj.ID,
			Shape:        o.obj.Shape,
			Transform:    o.obj.Transform,
			Local:        o.local,
			BoundsRadius: o.radius,
			LocalAABB:    o.aabb,
		}
	})
}

// TriangleCount returns the total number of local triangles.
func (s *Scene) TriangleCount() int {
	return lo.SumBy(s.objects, func(o *object) int {
		return o.local.TriangleCount()
	})
}

// CombinedMesh returns every object's local mesh transformed into world
// space and concatenated in insertion order. The returned mesh is shared
// with the cache and must not be modified.
func (s *Scene) CombinedMesh() (*kernel.Mesh, error) {
	if len(s.objects) == 0 {
		return nil, ErrEmptyScene
	}
	if s.combined == nil {
		s.combined = s.rebuild()
		s.builds++
	}
	return s.combined, nil
}

func (s *Scene) rebuild() *kernel.Mesh {
	out := &kernel.Mesh{}
	for _, o := range s.objects {
		t := o.obj.Transform
		out.Append(o.local.Transformed(t.Translation, t.Rot()))
	}
	return out
}

func (s *Scene) invalidate() {
	s.combined = nil
}
