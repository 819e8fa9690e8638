package camera

import (
	"sort"

	"github.com/chazu/physalis/pkg/vmath"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Face is one face of the orientation cube.
type Face int

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Faces lists every cube face.
var Faces = [6]Face{FacePosX, FaceNegX, FacePosY, FaceNegY, FacePosZ, FaceNegZ}

func (f Face) String() string {
	switch f {
	case FacePosX:
		return "+X"
	case FaceNegX:
		return "-X"
	case FacePosY:
		return "+Y"
	case FaceNegY:
		return "-Y"
	case FacePosZ:
		return "+Z"
	case FaceNegZ:
		return "-Z"
	default:
		return "?"
	}
}

// Normal returns the outward world-space normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	switch f {
	case FacePosX:
		return vmath.UnitX
	case FaceNegX:
		return vmath.UnitX.Mul(-1)
	case FacePosY:
		return vmath.UnitY
	case FaceNegY:
		return vmath.UnitY.Mul(-1)
	case FacePosZ:
		return vmath.UnitZ
	case FaceNegZ:
		return vmath.UnitZ.Mul(-1)
	default:
		return vmath.UnitZ
	}
}

// SnapVectors returns the view direction and up hint for snapping to f.
func (f Face) SnapVectors() (dir, upHint mgl32.Vec3) {
	n := f.Normal()
	return n, fallbackUp(n)
}

// Cube corners use bit 0 for +X, bit 1 for +Y and bit 2 for +Z.
var cubeCorners = [8]mgl32.Vec3{
	{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
}

// Corner indexes of each face, in cyclic order.
var faceCorners = [6][4]int{
	FacePosX: {1, 3, 7, 5},
	FaceNegX: {0, 4, 6, 2},
	FacePosY: {2, 3, 7, 6},
	FaceNegY: {0, 4, 5, 1},
	FacePosZ: {4, 5, 7, 6},
	FaceNegZ: {0, 2, 3, 1},
}

const (
	cubeScale    = 0.82
	cubeDistance = 4
	cubeMinDepth = 0.05
	cubeFill     = 0.36
)

// CubeFace is a visible face of the orientation cube projected into its
// square widget.
type CubeFace struct {
	Face    Face
	Polygon [4]mgl32.Vec2
	Depth   float32
}

// ViewCube projects the orientation cube for a camera rotation into a
// widget of size x size pixels. Only faces turned towards the viewer are
// returned, nearest first.
func ViewCube(rotation mgl32.Quat, size float32) []CubeFace {
	view := vmath.SanitizeQuat(rotation).Conjugate()

	var cam [8]mgl32.Vec3
	for i, p := range cubeCorners {
		cam[i] = view.Rotate(p.Mul(cubeScale))
	}

	faces := make([]CubeFace, 0, 3)
	for _, f := range Faces {
		if view.Rotate(f.Normal())[2] <= 0 {
			continue
		}
		cf := CubeFace{Face: f}
		for i, idx := range faceCorners[f] {
			cf.Polygon[i] = projectCube(cam[idx], size)
			cf.Depth += cam[idx][2] / 4
		}
		faces = append(faces, cf)
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i].Depth > faces[j].Depth })
	return faces
}

func projectCube(p mgl32.Vec3, size float32) mgl32.Vec2 {
	denom := math32.Max(cubeDistance-p[2], cubeMinDepth)
	scale := size * cubeFill
	center := size / 2
	return mgl32.Vec2{center + p[0]/denom*scale, center - p[1]/denom*scale}
}

// ViewCubeFaceAt returns the cube face under widget pixel (x, y).
func ViewCubeFaceAt(rotation mgl32.Quat, size, x, y float32) (Face, bool) {
	pt := mgl32.Vec2{x, y}
	for _, f := range ViewCube(rotation, size) {
		if pointInPolygon(pt, f.Polygon[:]) {
			return f.Face, true
		}
	}
	return 0, false
}

func pointInPolygon(p mgl32.Vec2, poly []mgl32.Vec2) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
