// Package render is the boundary to the drawing pipeline. The viewport only
// produces data for it: the combined mesh, overlay line segments and the
// camera matrix. Nothing in this package talks to a GPU.
package render

import (
	"sync"

	"github.com/chazu/physalis/pkg/kernel"
	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGB triple.
type Color [3]float32

// OverlayLine is one colored line segment in world space.
type OverlayLine struct {
	A     mgl32.Vec3 `json:"a"`
	B     mgl32.Vec3 `json:"b"`
	Color Color      `json:"color"`
}

// Sink consumes viewport output.
type Sink interface {
	// SetMesh replaces the displayed mesh. The mesh must not be retained
	// past the next SetMesh call without copying.
	SetMesh(m *kernel.Mesh)
	// SetOverlayLines replaces the gizmo and highlight lines.
	SetOverlayLines(lines []OverlayLine)
	// SetCamera replaces the view-projection matrix.
	SetCamera(viewProj mgl32.Mat4, eye mgl32.Vec3)
	// Render draws a frame.
	Render()
}

// ReferenceSink is implemented by sinks that draw the static reference
// grid and axes.
type ReferenceSink interface {
	SetReferenceLines(lines []OverlayLine)
}

// Compile-time interface checks.
var (
	_ Sink          = (*Recorder)(nil)
	_ ReferenceSink = (*Recorder)(nil)
)

// Recorder is an in-memory Sink for headless use and tests.
type Recorder struct {
	mu        sync.Mutex
	mesh      *kernel.Mesh
	overlay   []OverlayLine
	reference []OverlayLine
	viewProj  mgl32.Mat4
	eye       mgl32.Vec3
	frames    int
	meshSets  int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{viewProj: mgl32.Ident4()}
}

func (r *Recorder) SetMesh(m *kernel.Mesh) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m != nil {
		m = m.Clone()
	}
	r.mesh = m
	r.meshSets++
}

func (r *Recorder) SetOverlayLines(lines []OverlayLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlay = append([]OverlayLine(nil), lines...)
}

func (r *Recorder) SetReferenceLines(lines []OverlayLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reference = append([]OverlayLine(nil), lines...)
}

func (r *Recorder) SetCamera(viewProj mgl32.Mat4, eye mgl32.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewProj = viewProj
	r.eye = eye
}

func (r *Recorder) Render() {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
}

// Mesh returns the last mesh set, or nil.
func (r *Recorder) Mesh() *kernel.Mesh {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mesh
}

// OverlayLines returns the last overlay set.
func (r *Recorder) OverlayLines() []OverlayLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OverlayLine(nil), r.overlay...)
}

// ReferenceLines returns the last reference line set.
func (r *Recorder) ReferenceLines() []OverlayLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OverlayLine(nil), r.reference...)
}

// Camera returns the last camera matrix and eye.
func (r *Recorder) Camera() (mgl32.Mat4, mgl32.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewProj, r.eye
}

// Frames returns how many times Render was called.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// MeshUpdates returns how many times SetMesh was called.
func (r *Recorder) MeshUpdates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meshSets
}
