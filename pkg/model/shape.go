package model

import (
	"errors"
	"fmt"

	"github.com/chazu/physalis/pkg/vmath"
)

// ErrInvalidShape is returned for shapes with non-positive or non-finite
// dimensions.
var ErrInvalidShape = errors.New("invalid shape")

// ShapeKind distinguishes between primitive shapes.
type ShapeKind int

const (
	ShapeBox      ShapeKind = iota // rectangular solid
	ShapeCylinder                  // cylindrical solid
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	default:
		return "unknown"
	}
}

// Shape is the interface for kind-specific primitive parameters.
// New primitives are added by implementing it in this package.
type Shape interface {
	Kind() ShapeKind
	shape() // marker method restricting implementations to this package
}

// Box is a rectangular solid centered on its local origin: W along X,
// H along Y, D along Z.
type Box struct {
	W float32 `json:"w"`
	H float32 `json:"h"`
	D float32 `json:"d"`
}

func (Box) Kind() ShapeKind { return ShapeBox }
func (Box) shape()          {}

// Cylinder is a cylinder of radius R and height H whose axis is the local
// Y axis, centered on its local origin.
type Cylinder struct {
	R float32 `json:"r"`
	H float32 `json:"h"`
}

func (Cylinder) Kind() ShapeKind { return ShapeCylinder }
func (Cylinder) shape()          {}

// ValidateShape checks that every dimension of s is positive and finite.
func ValidateShape(s Shape) error {
	switch v := s.(type) {
	case Box:
		return checkDims("box", []dim{{"width", v.W}, {"height", v.H}, {"depth", v.D}})
	case Cylinder:
		return checkDims("cylinder", []dim{{"radius", v.R}, {"height", v.H}})
	case nil:
		return fmt.Errorf("%w: nil shape", ErrInvalidShape)
	default:
		return fmt.Errorf("%w: unsupported shape type %T", ErrInvalidShape, s)
	}
}

type dim struct {
	name  string
	value float32
}

func checkDims(kind string, dims []dim) error {
	for _, d := range dims {
		if !vmath.Finite(d.value) || d.value <= 0 {
			return fmt.Errorf("%w: %s %s is %.4f, must be positive", ErrInvalidShape, kind, d.name, d.value)
		}
	}
	return nil
}
