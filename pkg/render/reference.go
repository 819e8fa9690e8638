package render

import (
	"github.com/chazu/physalis/pkg/kernel"
	"github.com/go-gl/mathgl/mgl32"
)

// PlaneVisibility selects which reference grids are drawn.
type PlaneVisibility struct {
	XY bool `yaml:"xy"`
	YZ bool `yaml:"yz"`
	ZX bool `yaml:"zx"`
}

// DefaultPlaneVisibility shows only the XY grid.
func DefaultPlaneVisibility() PlaneVisibility {
	return PlaneVisibility{XY: true}
}

// LineSettings sizes the reference geometry.
type LineSettings struct {
	GridHalfExtent int     `yaml:"half_extent"`
	Spacing        float32 `yaml:"spacing"`
	AxisLength     float32 `yaml:"axis_length"`
	CubeSize       float32 `yaml:"origin_cube"`
}

// DefaultLineSettings returns a 24x24 unit grid, 3 unit axes and a small
// origin cube.
func DefaultLineSettings() LineSettings {
	return LineSettings{
		GridHalfExtent: 12,
		Spacing:        1,
		AxisLength:     3,
		CubeSize:       0.45,
	}
}

type gridColors struct {
	line, axis Color
}

var (
	gridXYColors = gridColors{line: Color{0.23, 0.23, 0.23}, axis: Color{0.35, 0.35, 0.35}}
	gridYZColors = gridColors{line: Color{0.16, 0.28, 0.32}, axis: Color{0.22, 0.42, 0.48}}
	gridZXColors = gridColors{line: Color{0.28, 0.2, 0.32}, axis: Color{0.42, 0.28, 0.48}}

	originCubeColor = Color{0.7, 0.72, 0.75}
)

// ReferenceLines builds the static grid, world axes and origin cube.
func ReferenceLines(s LineSettings, vis PlaneVisibility) []OverlayLine {
	var lines []OverlayLine
	// Grid lines: a is the index of the axis the lines run along, b the
	// axis they are spaced along.
	if vis.XY {
		lines = appendGrid(lines, s, 1, 0, gridXYColors)
	}
	if vis.YZ {
		lines = appendGrid(lines, s, 1, 2, gridYZColors)
	}
	if vis.ZX {
		lines = appendGrid(lines, s, 2, 0, gridZXColors)
	}
	lines = appendWorldAxes(lines, s.AxisLength)
	lines = appendOriginCube(lines, s.CubeSize)
	return lines
}

func appendGrid(lines []OverlayLine, s LineSettings, a, b int, c gridColors) []OverlayLine {
	extent := float32(s.GridHalfExtent) * s.Spacing
	for i := -s.GridHalfExtent; i <= s.GridHalfExtent; i++ {
		t := float32(i) * s.Spacing
		color := c.line
		if i == 0 {
			color = c.axis
		}
		var p0, p1, q0, q1 mgl32.Vec3
		p0[a], p0[b] = -extent, t
		p1[a], p1[b] = extent, t
		q0[b], q0[a] = -extent, t
		q1[b], q1[a] = extent, t
		lines = append(lines,
			OverlayLine{A: p0, B: p1, Color: color},
			OverlayLine{A: q0, B: q1, Color: color},
		)
	}
	return lines
}

var worldAxisColors = [3]Color{{1, 0.1, 0.1}, {0.1, 1, 0.1}, {0.1, 0.3, 1}}

func appendWorldAxes(lines []OverlayLine, length float32) []OverlayLine {
	for i, c := range worldAxisColors {
		var end mgl32.Vec3
		end[i] = length
		lines = append(lines, OverlayLine{B: end, Color: c})
	}
	return lines
}

// BoxEdges appends the twelve edges of the box with the given corners,
// indexed as kernel.AABB.Corners orders them.
func BoxEdges(lines []OverlayLine, corners [8]mgl32.Vec3, color Color) []OverlayLine {
	for _, e := range kernel.Edges {
		lines = append(lines, OverlayLine{A: corners[e[0]], B: corners[e[1]], Color: color})
	}
	return lines
}

func appendOriginCube(lines []OverlayLine, size float32) []OverlayLine {
	h := size / 2
	cube := kernel.AABB{Min: mgl32.Vec3{-h, -h, -h}, Max: mgl32.Vec3{h, h, h}}
	return BoxEdges(lines, cube.Corners(), originCubeColor)
}
