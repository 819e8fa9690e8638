package model

import (
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid placement. The zero value reads as identity because
// the rotation is always sanitized before use.
type Transform struct {
	Translation mgl32.Vec3 `json:"translation"`
	Rotation    mgl32.Quat `json:"rotation"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Rot returns the normalized rotation, or identity if the stored
// quaternion is unusable.
func (t Transform) Rot() mgl32.Quat {
	return vmath.SanitizeQuat(t.Rotation)
}

// Sanitized returns t with a normalized rotation and, if the translation
// is non-finite, a zero translation.
func (t Transform) Sanitized() Transform {
	out := Transform{Translation: t.Translation, Rotation: t.Rot()}
	if !vmath.FiniteVec(out.Translation) {
		out.Translation = mgl32.Vec3{}
	}
	return out
}

// Apply maps a local-space point into world space.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return t.Rot().Rotate(p).Add(t.Translation)
}

// ApplyDir rotates a local-space direction into world space.
func (t Transform) ApplyDir(d mgl32.Vec3) mgl32.Vec3 {
	return t.Rot().Rotate(d)
}

// Axis returns the world-space direction of local axis i (0=X, 1=Y, 2=Z).
func (t Transform) Axis(i int) mgl32.Vec3 {
	var local mgl32.Vec3
	local[i] = 1
	return vmath.NormalizeOrZero(t.Rot().Rotate(local))
}
