package camera

import (
	"time"

	"github.com/chazu/physalis/pkg/input"
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Limits bounds zoom and scales pointer motion.
type Limits struct {
	MinRadius float32
	MaxRadius float32
	ZoomRate  float32
	ZoomFloor float32
	PanRate   float32
}

// DefaultLimits returns the standard orbit limits.
func DefaultLimits() Limits {
	return Limits{
		MinRadius: 0.2,
		MaxRadius: 200,
		ZoomRate:  0.001,
		ZoomFloor: 0.05,
		PanRate:   0.0025,
	}
}

// DefaultSnapDuration is how long a snap or frame animation takes.
const DefaultSnapDuration = 250 * time.Millisecond

// framingScale is the eye distance per unit of bounding radius when framing.
const framingScale = 3

// Option configures a Controller.
type Option func(*Controller)

// WithLimits overrides the zoom and pan limits.
func WithLimits(l Limits) Option {
	return func(c *Controller) { c.limits = l }
}

// WithSnapDuration sets the animation length. Zero or negative snaps
// immediately.
func WithSnapDuration(d time.Duration) Option {
	return func(c *Controller) { c.snapDuration = d }
}

type animation struct {
	from, to Camera
	elapsed  time.Duration
	duration time.Duration
}

// Controller owns a Camera and turns pointer input and snap requests into
// camera motion. It is not safe for concurrent use.
type Controller struct {
	cam           Camera
	limits        Limits
	snapDuration  time.Duration
	width, height int

	anim *animation

	dragging bool
	last     mgl32.Vec2
}

// NewController returns a controller for a viewport of the given size.
func NewController(width, height int, opts ...Option) *Controller {
	c := &Controller{
		cam:          Default(width, height),
		limits:       DefaultLimits(),
		snapDuration: DefaultSnapDuration,
		width:        width,
		height:       height,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Camera returns a copy of the current camera.
func (c *Controller) Camera() Camera { return c.cam }

// SetCamera replaces the camera and cancels any animation.
func (c *Controller) SetCamera(cam Camera) {
	c.anim = nil
	cam.Rotation = vmath.SanitizeQuat(cam.Rotation)
	cam.Radius = mgl32.Clamp(cam.Radius, c.limits.MinRadius, c.limits.MaxRadius)
	c.cam = cam
}

// Limits returns the controller's limits.
func (c *Controller) Limits() Limits { return c.limits }

// Size returns the viewport size in pixels.
func (c *Controller) Size() (width, height int) { return c.width, c.height }

// Resize updates the viewport size and aspect ratio.
func (c *Controller) Resize(width, height int) {
	c.width, c.height = width, height
	c.cam.SetViewport(width, height)
	if c.anim != nil {
		c.anim.from.SetViewport(width, height)
		c.anim.to.SetViewport(width, height)
	}
}

// ScreenRay unprojects a viewport pixel through the current camera.
func (c *Controller) ScreenRay(x, y float32) (origin, dir mgl32.Vec3, ok bool) {
	return c.cam.ScreenRay(x, y, float32(c.width), float32(c.height))
}

// Orbit applies an arcball motion. It cancels any running animation.
func (c *Controller) Orbit(prev, curr mgl32.Vec2) bool {
	c.anim = nil
	return c.cam.Orbit(prev, curr, float32(c.width), float32(c.height))
}

// Pan moves the target by pixel deltas. It cancels any running animation
// unless the deltas are rejected.
func (c *Controller) Pan(dx, dy float32) bool {
	if !c.cam.Pan(dx, dy, c.limits.PanRate) {
		return false
	}
	c.anim = nil
	return true
}

// Zoom applies a wheel delta. It cancels any running animation unless the
// delta is rejected.
func (c *Controller) Zoom(delta float32) bool {
	if !c.cam.Zoom(delta, c.limits) {
		return false
	}
	c.anim = nil
	return true
}

// SnapTo starts an eased rotation so the eye looks along -dir. A snap in
// flight is replaced, starting from the camera's current pose.
func (c *Controller) SnapTo(dir, upHint mgl32.Vec3) bool {
	rot, ok := SnapRotation(c.cam.Rotation, dir, upHint)
	if !ok {
		return false
	}
	to := c.cam
	to.Rotation = rot
	c.animateTo(to)
	return true
}

// SnapToFace snaps to the view that looks at the given cube face.
func (c *Controller) SnapToFace(f Face) bool {
	dir, up := f.SnapVectors()
	return c.SnapTo(dir, up)
}

// FrameTarget eases the camera to look at center from a distance that fits
// a sphere of the given radius. The rotation is kept.
func (c *Controller) FrameTarget(center mgl32.Vec3, radius float32) bool {
	if !vmath.FiniteVec(center) || !vmath.Finite(radius) {
		return false
	}
	to := c.cam
	to.Target = center
	to.Radius = mgl32.Clamp(math32.Max(radius*framingScale, c.limits.MinRadius), c.limits.MinRadius, c.limits.MaxRadius)
	c.animateTo(to)
	return true
}

func (c *Controller) animateTo(to Camera) {
	if c.snapDuration <= 0 {
		c.anim = nil
		c.cam = to
		return
	}
	c.anim = &animation{from: c.cam, to: to, duration: c.snapDuration}
}

// Animating reports whether a snap or frame animation is running.
func (c *Controller) Animating() bool { return c.anim != nil }

// Step advances the running animation by dt. It returns true while the
// camera changed.
func (c *Controller) Step(dt time.Duration) bool {
	a := c.anim
	if a == nil {
		return false
	}
	if dt < 0 {
		dt = 0
	}
	a.elapsed += dt
	if a.elapsed >= a.duration {
		c.cam = a.to
		c.anim = nil
		return true
	}

	t := vmath.SmoothStep(float32(a.elapsed) / float32(a.duration))
	cam := a.to
	cam.Rotation = vmath.Slerp(a.from.Rotation, a.to.Rotation, t)
	cam.Radius = vmath.Lerp(a.from.Radius, a.to.Radius, t)
	cam.Target = a.from.Target.Add(a.to.Target.Sub(a.from.Target).Mul(t))
	c.cam = cam
	return true
}

// Handle applies a viewport event. Middle-button drag pans, and orbits
// while shift is held. The wheel zooms. It returns true when the camera
// changed.
func (c *Controller) Handle(ev input.Event) bool {
	switch e := ev.(type) {
	case input.PointerDown:
		if e.Button != input.ButtonMiddle || !vmath.Finite(e.X) || !vmath.Finite(e.Y) {
			return false
		}
		c.dragging = true
		c.last = mgl32.Vec2{e.X, e.Y}
		return false
	case input.PointerMove:
		if !c.dragging {
			return false
		}
		if !vmath.Finite(e.X) || !vmath.Finite(e.Y) {
			return false
		}
		cur := mgl32.Vec2{e.X, e.Y}
		prev := c.last
		c.last = cur
		if e.Shift {
			return c.Orbit(prev, cur)
		}
		d := cur.Sub(prev)
		if d[0] == 0 && d[1] == 0 {
			return false
		}
		return c.Pan(d[0], d[1])
	case input.PointerUp:
		if e.Button == input.ButtonMiddle {
			c.dragging = false
		}
		return false
	case input.PointerLeave:
		c.dragging = false
		return false
	case input.Wheel:
		if e.DeltaY == 0 {
			return false
		}
		return c.Zoom(e.DeltaY)
	case input.Resize:
		c.Resize(e.Width, e.Height)
		return true
	case input.Frame:
		return c.Step(e.Dt)
	}
	return false
}

// Dragging reports whether a middle-button drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }
