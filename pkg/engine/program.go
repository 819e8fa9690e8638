package engine

import (
	"fmt"

	"github.com/chazu/physalis/pkg/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Op is one recorded scene operation.
type Op interface {
	// Ref names the shape the operation creates or acts on.
	Ref() string
	op()
}

// AddShape adds a shape to the scene under a script-local name.
type AddShape struct {
	Name  string
	Shape model.Shape
}

// Place sets the transform of a previously added shape. Rotation is Euler
// XYZ in degrees.
type Place struct {
	Name      string
	At        mgl32.Vec3
	RotateDeg mgl32.Vec3
}

// Select selects a previously added shape.
type Select struct {
	Name string
}

func (o AddShape) Ref() string { return o.Name }
func (o Place) Ref() string    { return o.Name }
func (o Select) Ref() string   { return o.Name }

func (AddShape) op() {}
func (Place) op()    {}
func (Select) op()   {}

// Transform returns the placement as a model transform.
func (o Place) Transform() model.Transform {
	return model.TransformPanel{
		TX: o.At[0], TY: o.At[1], TZ: o.At[2],
		RXDeg: o.RotateDeg[0], RYDeg: o.RotateDeg[1], RZDeg: o.RotateDeg[2],
	}.Transform()
}

// Program is the ordered list of operations recorded by one evaluation.
type Program struct {
	Ops   []Op
	count int
}

func (p *Program) nextName(kind string) string {
	p.count++
	return fmt.Sprintf("%s-%d", kind, p.count)
}

// Shapes returns the number of AddShape operations.
func (p *Program) Shapes() int {
	n := 0
	for _, op := range p.Ops {
		if _, ok := op.(AddShape); ok {
			n++
		}
	}
	return n
}

// Target is what a Program is applied to. *viewport.Viewport implements it.
type Target interface {
	Add(shape model.Shape) (model.ObjectID, error)
	SetTransform(id model.ObjectID, t model.Transform) bool
	Select(id model.ObjectID) bool
}

// Apply runs p against t in order and returns the object ID assigned to
// each shape name. It stops at the first failing operation.
func Apply(p *Program, t Target) (map[string]model.ObjectID, error) {
	ids := make(map[string]model.ObjectID)
	if p == nil {
		return ids, nil
	}
	for i, op := range p.Ops {
		switch o := op.(type) {
		case AddShape:
			id, err := t.Add(o.Shape)
			if err != nil {
				return ids, errors.Wrapf(err, "op %d: add %s", i, o.Name)
			}
			ids[o.Name] = id
		case Place:
			id, ok := ids[o.Name]
			if !ok || !t.SetTransform(id, o.Transform()) {
				return ids, errors.Errorf("op %d: place: unknown shape %q", i, o.Name)
			}
		case Select:
			id, ok := ids[o.Name]
			if !ok || !t.Select(id) {
				return ids, errors.Errorf("op %d: select: unknown shape %q", i, o.Name)
			}
		default:
			return ids, errors.Errorf("op %d: unsupported operation %T", i, op)
		}
	}
	return ids, nil
}
