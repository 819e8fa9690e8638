package gizmo

import (
	"github.com/chazu/physalis/pkg/render"
	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Affordance colors.
var (
	AxisColors     = [3]render.Color{{1, 0.25, 0.25}, {0.25, 1, 0.25}, {0.35, 0.55, 1}}
	HighlightColor = render.Color{1, 0.85, 0.25}
)

const (
	ringSegments   = 48
	axisArrowScale = 0.18
	axisWingScale  = 0.45
	ringArrowScale = 0.30
)

// Overlay returns the selection highlight for t and, when showGizmo is set,
// the axis arrows, rings and ring arrows of the widget seen from eye.
func Overlay(t Target, eye mgl32.Vec3, showGizmo bool) []render.OverlayLine {
	tr := t.Transform.Sanitized()
	rot := tr.Rot()

	corners := t.LocalAABB.Corners()
	for i, c := range corners {
		corners[i] = rot.Rotate(c).Add(tr.Translation)
	}
	lines := render.BoxEdges(nil, corners, HighlightColor)
	if !showGizmo {
		return lines
	}

	f := newFrame(t, eye)
	for i, dir := range f.axes {
		lines = append(lines, render.OverlayLine{
			A:     f.origin,
			B:     f.origin.Add(dir.Mul(f.axisLen)),
			Color: AxisColors[i],
		})
		lines = appendAxisArrow(lines, f, dir, AxisColors[i])
	}
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		n, u, v := f.ring(a)
		lines = appendRing(lines, f.origin, u, v, f.ringR, AxisColors[a])
		lines = appendRingArrow(lines, f, n, u, v, AxisColors[a])
	}
	return lines
}

// appendAxisArrow adds a two-wing arrowhead at the tip of an axis, opened
// towards the camera.
func appendAxisArrow(lines []render.OverlayLine, f frame, dir mgl32.Vec3, c render.Color) []render.OverlayLine {
	tip := f.origin.Add(dir.Mul(f.axisLen))
	arrowLen := f.axisLen * axisArrowScale

	side := dir.Cross(f.toCamera)
	if side.Dot(side) < 1e-10 {
		side = dir.Cross(vmath.UnitY)
		if side.Dot(side) < 1e-10 {
			side = dir.Cross(vmath.UnitX)
		}
	}
	side = vmath.NormalizeOrZero(side).Mul(arrowLen * axisWingScale)
	base := tip.Sub(dir.Mul(arrowLen))
	return append(lines,
		render.OverlayLine{A: tip, B: base.Add(side), Color: c},
		render.OverlayLine{A: tip, B: base.Sub(side), Color: c},
	)
}

func appendRing(lines []render.OverlayLine, origin, u, v mgl32.Vec3, radius float32, c render.Color) []render.OverlayLine {
	prev := origin.Add(u.Mul(radius))
	for i := 1; i <= ringSegments; i++ {
		a := float32(i) / ringSegments * vmath.Tau
		p := origin.Add(u.Mul(math32.Cos(a) * radius)).Add(v.Mul(math32.Sin(a) * radius))
		lines = append(lines, render.OverlayLine{A: prev, B: p, Color: c})
		prev = p
	}
	return lines
}

// appendRingArrow places a tangent arrow on the side of the ring facing
// the camera.
func appendRingArrow(lines []render.OverlayLine, f frame, n, u, v mgl32.Vec3, c render.Color) []render.OverlayLine {
	dir := vmath.RejectFrom(f.toCamera, n)
	if dir.Dot(dir) < 1e-10 {
		dir = u
	}
	dir = vmath.NormalizeOrZero(dir)
	a0 := math32.Atan2(dir.Dot(v), dir.Dot(u))
	sin, cos := math32.Sin(a0), math32.Cos(a0)

	p := f.origin.Add(u.Mul(cos * f.ringR)).Add(v.Mul(sin * f.ringR))
	tangent := vmath.NormalizeOrZero(v.Mul(cos).Sub(u.Mul(sin)))
	arrowLen := f.ringR * ringArrowScale
	base := p.Sub(tangent.Mul(arrowLen * 0.25))
	tip := p.Add(tangent.Mul(arrowLen * 0.75))

	wing := vmath.NormalizeOrZero(n.Cross(tangent)).Mul(arrowLen * 0.35)
	wingBase := tip.Sub(tangent.Mul(arrowLen * 0.35))
	return append(lines,
		render.OverlayLine{A: base, B: tip, Color: c},
		render.OverlayLine{A: tip, B: wingBase.Add(wing), Color: c},
		render.OverlayLine{A: tip, B: wingBase.Sub(wing), Color: c},
	)
}
