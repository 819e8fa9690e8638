// Package vmath holds the small numeric helpers shared by the picking,
// gizmo and camera packages. Every helper here either returns a usable value
// or reports that the input was degenerate; none of them panic or produce
// NaN for finite input.
package vmath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for parallel and near-zero tests.
const Epsilon = 1e-6

// Tau is a full turn in radians.
const Tau = 2 * math32.Pi

var (
	UnitX = mgl32.Vec3{1, 0, 0}
	UnitY = mgl32.Vec3{0, 1, 0}
	UnitZ = mgl32.Vec3{0, 0, 1}
)

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// FiniteVec reports whether all components of v are finite.
func FiniteVec(v mgl32.Vec3) bool {
	return Finite(v[0]) && Finite(v[1]) && Finite(v[2])
}

// Normalize returns v scaled to unit length. ok is false when v is too
// short (or not finite) to have a direction.
func Normalize(v mgl32.Vec3) (n mgl32.Vec3, ok bool) {
	if !FiniteVec(v) {
		return mgl32.Vec3{}, false
	}
	l := v.Len()
	if l < Epsilon {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// NormalizeOrZero is Normalize without the flag.
func NormalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	n, _ := Normalize(v)
	return n
}

// SanitizeQuat renormalizes q and falls back to identity when q is
// non-finite or too close to zero to carry a rotation.
func SanitizeQuat(q mgl32.Quat) mgl32.Quat {
	if !Finite(q.W) || !FiniteVec(q.V) {
		return mgl32.QuatIdent()
	}
	l := q.Len()
	if !Finite(l) || l < Epsilon {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: q.W / l, V: q.V.Mul(1 / l)}
}

// AxisAngle builds a rotation of angle radians around axis. The axis does
// not need to be normalized; a degenerate axis yields identity.
func AxisAngle(axis mgl32.Vec3, angle float32) mgl32.Quat {
	n, ok := Normalize(axis)
	if !ok || !Finite(angle) {
		return mgl32.QuatIdent()
	}
	return SanitizeQuat(mgl32.QuatRotate(angle, n))
}

// WrapAngle maps a into (-pi, pi].
func WrapAngle(a float32) float32 {
	if !Finite(a) {
		return 0
	}
	a = math32.Mod(a+math32.Pi, Tau)
	if a <= 0 {
		a += Tau
	}
	return a - math32.Pi
}

// BasisQuat converts an orthonormal right-handed basis (the images of the
// local X, Y and Z axes) into a rotation.
func BasisQuat(right, up, back mgl32.Vec3) mgl32.Quat {
	m := mgl32.Mat3FromCols(right, up, back)
	return SanitizeQuat(mgl32.Mat4ToQuat(m.Mat4()))
}

// ShortestArc returns the rotation taking unit vector from onto unit
// vector to. ok is false when the rotation axis is degenerate.
func ShortestArc(from, to mgl32.Vec3) (q mgl32.Quat, ok bool) {
	axis := from.Cross(to)
	l := axis.Len()
	if l < 1e-5 {
		return mgl32.QuatIdent(), false
	}
	dot := mgl32.Clamp(from.Dot(to), -1, 1)
	return SanitizeQuat(mgl32.QuatRotate(math32.Acos(dot), axis.Mul(1/l))), true
}

// Slerp interpolates along the shorter great arc between a and b.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	a, b = SanitizeQuat(a), SanitizeQuat(b)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return SanitizeQuat(mgl32.QuatSlerp(a, b, mgl32.Clamp(t, 0, 1)))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// SmoothStep is the cubic ease-in-ease-out curve on [0, 1].
func SmoothStep(t float32) float32 {
	t = mgl32.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// RejectFrom removes the component of v along unit vector axis.
func RejectFrom(v, axis mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(axis.Mul(v.Dot(axis)))
}
