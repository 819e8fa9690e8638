// Package camera implements the orbit camera: its state, view and
// projection matrices, screen-ray unprojection, arcball orbit, pan, zoom,
// and eased snapping to fixed views.
//
// The camera knows nothing about the scene. Other components read its eye
// position and rays as plain values.
package camera

import (
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the orbit camera state. The eye sits at
// Target + Rotation*(0, 0, Radius) and looks at Target.
type Camera struct {
	Target   mgl32.Vec3
	Radius   float32
	Rotation mgl32.Quat
	FovY     float32 // radians
	Aspect   float32
	Near     float32
	Far      float32
}

// Default camera placement.
const (
	DefaultRadius = 4
	DefaultFovDeg = 45
	DefaultNear   = 0.01
	DefaultFar    = 1000

	defaultYaw   = 0.6
	defaultPitch = 0.4
)

// Default returns the camera used for a fresh viewport of the given size.
func Default(width, height int) Camera {
	return Camera{
		Radius:   DefaultRadius,
		Rotation: DefaultRotation(),
		FovY:     mgl32.DegToRad(DefaultFovDeg),
		Aspect:   aspect(width, height),
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

// DefaultRotation is a three-quarter view from above.
func DefaultRotation() mgl32.Quat {
	return mgl32.QuatRotate(defaultYaw, vmath.UnitY).Mul(mgl32.QuatRotate(defaultPitch, vmath.UnitX))
}

func aspect(width, height int) float32 {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	return float32(width) / float32(height)
}

func (c Camera) rot() mgl32.Quat {
	return vmath.SanitizeQuat(c.Rotation)
}

// Eye returns the camera position.
func (c Camera) Eye() mgl32.Vec3 {
	return c.Target.Add(c.rot().Rotate(mgl32.Vec3{0, 0, c.Radius}))
}

// Right, Up and Back are the camera basis vectors in world space.
func (c Camera) Right() mgl32.Vec3 { return vmath.NormalizeOrZero(c.rot().Rotate(vmath.UnitX)) }
func (c Camera) Up() mgl32.Vec3    { return vmath.NormalizeOrZero(c.rot().Rotate(vmath.UnitY)) }
func (c Camera) Back() mgl32.Vec3  { return vmath.NormalizeOrZero(c.rot().Rotate(vmath.UnitZ)) }

// View returns the right-handed look-at matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, c.Up())
}

// Projection returns the perspective matrix.
func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, math32.Max(c.Aspect, 0.01), c.Near, c.Far)
}

// ViewProj returns Projection * View.
func (c Camera) ViewProj() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// ScreenRay unprojects viewport pixel (x, y) into a world-space ray from
// the near plane. dir is normalized. ok is false for an empty viewport or
// a singular matrix.
func (c Camera) ScreenRay(x, y, width, height float32) (origin, dir mgl32.Vec3, ok bool) {
	if width <= 0 || height <= 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	vp := c.ViewProj()
	if math32.Abs(vp.Det()) < 1e-12 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	inv := vp.Inv()

	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height // flip Y

	near, ok := unproject(inv, mgl32.Vec4{ndcX, ndcY, -1, 1})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	far, ok := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	dir, ok = vmath.Normalize(far.Sub(near))
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return near, dir, true
}

func unproject(inv mgl32.Mat4, p mgl32.Vec4) (mgl32.Vec3, bool) {
	w := inv.Mul4x1(p)
	if math32.Abs(w[3]) < 1e-12 {
		return mgl32.Vec3{}, false
	}
	out := mgl32.Vec3{w[0] / w[3], w[1] / w[3], w[2] / w[3]}
	return out, vmath.FiniteVec(out)
}

// ArcballVector maps viewport pixel (x, y) onto the unit arcball sphere.
// Points outside the inscribed circle land on its equator.
func ArcballVector(x, y, width, height float32) mgl32.Vec3 {
	nx := (2*x - width) / width
	ny := (height - 2*y) / height
	len2 := nx*nx + ny*ny
	if len2 <= 1 {
		return mgl32.Vec3{nx, ny, math32.Sqrt(1 - len2)}
	}
	norm := math32.Sqrt(len2)
	return mgl32.Vec3{nx / norm, ny / norm, 0}
}

// Orbit rotates the camera by the arcball motion from prev to curr and
// then removes roll. Motions too small to define an axis are ignored.
func (c *Camera) Orbit(prev, curr mgl32.Vec2, width, height float32) bool {
	if !vmath.Finite(prev[0]) || !vmath.Finite(prev[1]) || !vmath.Finite(curr[0]) || !vmath.Finite(curr[1]) {
		return false
	}
	width = math32.Max(width, 1)
	height = math32.Max(height, 1)
	v0 := ArcballVector(prev[0], prev[1], width, height)
	v1 := ArcballVector(curr[0], curr[1], width, height)
	// Axis is v1 x v0.
	q, ok := vmath.ShortestArc(v1, v0)
	if !ok {
		return false
	}
	c.Rotation = vmath.SanitizeQuat(q.Mul(c.rot()))
	c.ConstrainUp()
	return true
}

// ConstrainUp rebuilds the rotation from its back vector so that right is
// horizontal and up never points below the horizon.
func (c *Camera) ConstrainUp() {
	back := c.Back()
	right, ok := vmath.Normalize(vmath.UnitY.Cross(back))
	if !ok {
		right = c.Right()
	}
	up := vmath.NormalizeOrZero(back.Cross(right))
	if up.Dot(vmath.UnitY) < 0 {
		right = right.Mul(-1)
		up = up.Mul(-1)
	}
	c.Rotation = vmath.BasisQuat(right, up, back)
}

// Pan moves the target along the camera's right and up vectors by the
// given pixel deltas, scaled by radius and rate.
func (c *Camera) Pan(dx, dy, rate float32) bool {
	scale := c.Radius * rate
	if !vmath.Finite(dx*scale) || !vmath.Finite(dy*scale) {
		return false
	}
	target := c.Target.Add(c.Right().Mul(dx * scale)).Add(c.Up().Mul(dy * scale))
	if !vmath.FiniteVec(target) {
		return false
	}
	c.Target = target
	return true
}

// Zoom scales the radius by max(1+delta*rate, floor) and clamps the result
// to [minRadius, maxRadius]. Non-finite input leaves the radius unchanged.
func (c *Camera) Zoom(delta float32, l Limits) bool {
	factor := math32.Max(1+delta*l.ZoomRate, l.ZoomFloor)
	r := c.Radius * factor
	if !vmath.Finite(delta) || !vmath.Finite(r) {
		return false
	}
	c.Radius = mgl32.Clamp(r, l.MinRadius, l.MaxRadius)
	return true
}

// SetViewport updates the aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	c.Aspect = aspect(width, height)
}

// SnapRotation returns a rotation whose back axis is dir (the eye sits on
// the dir side of the target). Up follows the current up where possible,
// then upHint, then a world axis that is not collinear with dir.
func SnapRotation(current mgl32.Quat, dir, upHint mgl32.Vec3) (mgl32.Quat, bool) {
	dir, ok := vmath.Normalize(dir)
	if !ok {
		return mgl32.QuatIdent(), false
	}

	candidates := []mgl32.Vec3{
		vmath.SanitizeQuat(current).Rotate(vmath.UnitY),
		upHint,
		fallbackUp(dir),
	}
	var up mgl32.Vec3
	for _, c := range candidates {
		u := vmath.RejectFrom(c, dir)
		if u.Dot(u) >= 1e-6 {
			up = vmath.NormalizeOrZero(u)
			break
		}
	}

	right, ok := vmath.Normalize(up.Cross(dir))
	if !ok {
		right = vmath.UnitX
	}
	up = vmath.NormalizeOrZero(dir.Cross(right))
	return vmath.BasisQuat(right, up, dir), true
}

// fallbackUp prefers Z and switches to Y when dir is nearly along Z.
func fallbackUp(dir mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(dir.Dot(vmath.UnitZ)) < 0.9 {
		return vmath.UnitZ
	}
	return vmath.UnitY
}
