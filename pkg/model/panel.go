package model

import (
	"strconv"
	"strings"

	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformPanel is the editable form of a Transform shown in the
// inspector: a translation and intrinsic X-then-Y-then-Z Euler angles in
// degrees.
type TransformPanel struct {
	TX, TY, TZ          float32
	RXDeg, RYDeg, RZDeg float32
}

// PanelFromTransform converts t into panel values.
func PanelFromTransform(t Transform) TransformPanel {
	rx, ry, rz := EulerXYZ(t.Rot())
	return TransformPanel{
		TX:    t.Translation[0],
		TY:    t.Translation[1],
		TZ:    t.Translation[2],
		RXDeg: mgl32.RadToDeg(rx),
		RYDeg: mgl32.RadToDeg(ry),
		RZDeg: mgl32.RadToDeg(rz),
	}
}

// Transform converts the panel values back into a Transform.
func (p TransformPanel) Transform() Transform {
	q := FromEulerXYZ(mgl32.DegToRad(p.RXDeg), mgl32.DegToRad(p.RYDeg), mgl32.DegToRad(p.RZDeg))
	return Transform{
		Translation: mgl32.Vec3{p.TX, p.TY, p.TZ},
		Rotation:    q,
	}
}

// FromEulerXYZ composes Rx(x) * Ry(y) * Rz(z).
func FromEulerXYZ(x, y, z float32) mgl32.Quat {
	return vmath.SanitizeQuat(mgl32.AnglesToQuat(x, y, z, mgl32.XYZ))
}

// EulerXYZ decomposes q into the angles accepted by FromEulerXYZ. Near
// gimbal lock the Z angle is reported as zero.
func EulerXYZ(q mgl32.Quat) (x, y, z float32) {
	m := vmath.SanitizeQuat(q).Mat4()
	sy := mgl32.Clamp(m.At(0, 2), -1, 1)
	y = math32.Asin(sy)
	if math32.Abs(sy) < 0.9999999 {
		x = math32.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math32.Atan2(-m.At(0, 1), m.At(0, 0))
		return x, y, z
	}
	x = math32.Atan2(m.At(2, 1), m.At(1, 1))
	return x, y, 0
}

// ParseFloatInput parses a number typed into a panel field. A comma is
// accepted as the decimal separator. Empty and non-finite input is rejected.
func ParseFloatInput(raw string) (float32, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	v := float32(f)
	if !vmath.Finite(v) {
		return 0, false
	}
	return v, true
}
