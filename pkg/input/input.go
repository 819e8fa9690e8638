// Package input defines the closed set of input events the viewport
// consumes. Events are plain values; there is no callback registration, so
// the state machines that consume them run without a window system.
package input

import "time"

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// Event is one input event. The concrete types below are the only
// implementations.
type Event interface {
	event()
}

// PointerDown is a button press at viewport pixel (X, Y).
type PointerDown struct {
	X, Y   float32
	Button Button
	Shift  bool
}

// PointerMove is a pointer motion to viewport pixel (X, Y).
type PointerMove struct {
	X, Y  float32
	Shift bool
}

// PointerUp is a button release.
type PointerUp struct {
	X, Y   float32
	Button Button
}

// PointerLeave is sent when the pointer leaves the viewport. It ends any
// drag like a release.
type PointerLeave struct{}

// Wheel is a scroll step; positive DeltaY scrolls towards the user.
type Wheel struct {
	DeltaY float32
}

// KeyDown is a key press. Key holds the key's printed value, or its name
// for non-printing keys ("Escape").
type KeyDown struct {
	Key    string
	Repeat bool
}

// Resize reports the new viewport size in pixels.
type Resize struct {
	Width, Height int
}

// Frame is a redraw tick.
type Frame struct {
	Dt time.Duration
}

func (PointerDown) event()  {}
func (PointerMove) event()  {}
func (PointerUp) event()    {}
func (PointerLeave) event() {}
func (Wheel) event()        {}
func (KeyDown) event()      {}
func (Resize) event()       {}
func (Frame) event()        {}
