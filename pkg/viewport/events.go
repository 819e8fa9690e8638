package viewport

import (
	"github.com/chazu/physalis/pkg/gizmo"
	"github.com/chazu/physalis/pkg/input"
	"github.com/chazu/physalis/pkg/picking"
)

// Handle applies one event. drag is the active gizmo session or nil; the
// returned session replaces it.
//
// A left press in the move tool with a selection tries the gizmo first,
// then falls back to picking. While a session is active, pointer motion
// drags the object; otherwise events go to the camera.
func (v *Viewport) Handle(drag *gizmo.Session, ev input.Event) *gizmo.Session {
	switch e := ev.(type) {
	case input.PointerDown:
		if e.Button != input.ButtonLeft {
			v.handleCamera(ev)
			return drag
		}
		ray, ok := v.Ray(e.X, e.Y)
		if !ok {
			return drag
		}
		return v.Press(ray)

	case input.PointerMove:
		if drag != nil {
			if ray, ok := v.Ray(e.X, e.Y); ok {
				v.Drag(drag, ray)
			}
			return drag
		}
		v.handleCamera(ev)
		return nil

	case input.PointerUp:
		if e.Button == input.ButtonLeft && drag != nil {
			v.Release(drag)
			return nil
		}
		v.handleCamera(ev)
		return drag

	case input.PointerLeave:
		if drag != nil {
			v.Release(drag)
		}
		v.handleCamera(ev)
		return nil

	case input.KeyDown:
		v.handleKey(e)
		return drag
	}

	v.handleCamera(ev)
	return drag
}

// Press handles a left press along ray. It returns a new drag session when
// the gizmo of the selection was hit; otherwise the pick result replaces
// the selection and nil is returned.
func (v *Viewport) Press(ray picking.Ray) *gizmo.Session {
	if v.tool == ToolMove {
		if t, ok := v.target(); ok {
			if s, hit := gizmo.Hit(t, v.eye(), ray); hit {
				v.log.Debugf("drag %s begin: object %d %s %s", s.ID, s.Object, s.Mode, s.Axis)
				return s
			}
		}
	}

	if id, ok := picking.PickObject(v.scene, ray.Origin, ray.Direction); ok {
		v.Select(id)
	} else if v.hasSel {
		v.ClearSelection()
	}
	return nil
}

// Drag applies one pointer motion of session s. Frames where the ray gives
// no usable intersection are skipped and reported as false.
func (v *Viewport) Drag(s *gizmo.Session, ray picking.Ray) bool {
	t, ok := s.Drag(ray)
	if !ok {
		return false
	}
	return v.SetTransform(s.Object, t)
}

// Release ends session s. The dragged transform stays in the scene.
func (v *Viewport) Release(s *gizmo.Session) {
	if t, ok := v.scene.Transform(s.Object); ok {
		v.log.Debugf("drag %s end: object %d at %v", s.ID, s.Object, t.Translation)
	}
}

func (v *Viewport) handleCamera(ev input.Event) {
	if !v.cam.Handle(ev) {
		return
	}
	v.pushCamera()
	v.pushOverlay()
	v.sink.Render()
}

func (v *Viewport) handleKey(e input.KeyDown) {
	if e.Repeat {
		return
	}
	switch e.Key {
	case "m", "M":
		v.SetTool(ToolMove)
	case "Escape":
		v.SetTool(ToolSelect)
	case "f", "F":
		v.FrameSelected()
	}
}
