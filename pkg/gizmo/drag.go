package gizmo

import (
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/picking"
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
)

// Drag computes the object's transform for the current ray. ok is false
// when the ray is degenerate for this frame; the caller keeps the previous
// transform.
func (s *Session) Drag(ray picking.Ray) (model.Transform, bool) {
	switch s.Mode {
	case Translate:
		return s.dragTranslate(ray)
	case Rotate:
		return s.dragRotate(ray)
	default:
		return model.Transform{}, false
	}
}

// axisParam intersects ray with the drag plane and returns the position of
// the hit along the axis, measured from the start origin.
func (s *Session) axisParam(ray picking.Ray) (float32, bool) {
	t, ok := ray.IntersectPlane(s.Origin, s.PlaneNormal)
	if !ok {
		return 0, false
	}
	axisT := s.AxisDir.Dot(ray.At(t).Sub(s.Origin))
	if !vmath.Finite(axisT) {
		return 0, false
	}
	return axisT, true
}

func (s *Session) dragTranslate(ray picking.Ray) (model.Transform, bool) {
	axisT, ok := s.axisParam(ray)
	if !ok {
		return model.Transform{}, false
	}
	out := s.Start
	out.Translation = s.Start.Translation.Add(s.AxisDir.Mul(axisT - s.StartAxisT))
	return out, true
}

// Angle returns the ring angle of ray's hit on the ring plane.
func (s *Session) Angle(ray picking.Ray) (float32, bool) {
	t, ok := ray.IntersectPlane(s.Origin, s.PlaneNormal)
	if !ok || t <= 0 {
		return 0, false
	}
	vdir, ok := vmath.Normalize(ray.At(t).Sub(s.Origin))
	if !ok {
		return 0, false
	}
	return math32.Atan2(vdir.Dot(s.RingV), vdir.Dot(s.RingU)), true
}

func (s *Session) dragRotate(ray picking.Ray) (model.Transform, bool) {
	angle, ok := s.Angle(ray)
	if !ok {
		return model.Transform{}, false
	}
	delta := vmath.WrapAngle(angle - s.StartAngle)
	q := s.Start.Rot().Mul(vmath.AxisAngle(s.Axis.Local(), delta))

	out := s.Start
	out.Rotation = vmath.SanitizeQuat(q)
	return out, true
}
