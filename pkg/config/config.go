// Package config loads the YAML viewport configuration.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/chazu/physalis/pkg/camera"
	"github.com/chazu/physalis/pkg/render"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kernel names.
const (
	KernelFaceted = "faceted"
	KernelSDFX    = "sdfx"
)

// Config is the full viewport configuration.
type Config struct {
	Kernel    string         `yaml:"kernel"`
	Tolerance float64        `yaml:"tolerance"`
	Debug     bool           `yaml:"debug"`
	Viewport  ViewportConfig `yaml:"viewport"`
	Camera    CameraConfig   `yaml:"camera"`
	Grid      GridConfig     `yaml:"grid"`
}

// ViewportConfig is the initial viewport size in pixels.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type CameraConfig struct {
	FovYDeg       float32       `yaml:"fov_y_deg"`
	Near          float32       `yaml:"near"`
	Far           float32       `yaml:"far"`
	Distance      float32       `yaml:"distance"`
	MinDistance   float32       `yaml:"min_distance"`
	MaxDistance   float32       `yaml:"max_distance"`
	ZoomRate      float32       `yaml:"zoom_rate"`
	ZoomFloor     float32       `yaml:"zoom_floor"`
	PanRate       float32       `yaml:"pan_rate"`
	SnapDuration  time.Duration `yaml:"snap_duration"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

type GridConfig struct {
	HalfExtent int                    `yaml:"half_extent"`
	Spacing    float32                `yaml:"spacing"`
	AxisLength float32                `yaml:"axis_length"`
	OriginCube float32                `yaml:"origin_cube"`
	Planes     render.PlaneVisibility `yaml:"planes"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := camera.DefaultLimits()
	ls := render.DefaultLineSettings()
	return Config{
		Kernel:    KernelFaceted,
		Tolerance: 0.01,
		Viewport:  ViewportConfig{Width: 800, Height: 600},
		Camera: CameraConfig{
			FovYDeg:       camera.DefaultFovDeg,
			Near:          camera.DefaultNear,
			Far:           camera.DefaultFar,
			Distance:      camera.DefaultRadius,
			MinDistance:   l.MinRadius,
			MaxDistance:   l.MaxRadius,
			ZoomRate:      l.ZoomRate,
			ZoomFloor:     l.ZoomFloor,
			PanRate:       l.PanRate,
			SnapDuration:  camera.DefaultSnapDuration,
			FrameInterval: 16 * time.Millisecond,
		},
		Grid: GridConfig{
			HalfExtent: ls.GridHalfExtent,
			Spacing:    ls.Spacing,
			AxisLength: ls.AxisLength,
			OriginCube: ls.CubeSize,
			Planes:     render.DefaultPlaneVisibility(),
		},
	}
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

func positive(name string, v float32) error {
	if math32.IsNaN(v) || math32.IsInf(v, 0) || v <= 0 {
		return errors.Errorf("config: %s must be positive, got %v", name, v)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Kernel {
	case KernelFaceted, KernelSDFX:
	default:
		return errors.Errorf("config: unknown kernel %q", c.Kernel)
	}
	if !(c.Tolerance > 0) {
		return errors.Errorf("config: tolerance must be positive, got %v", c.Tolerance)
	}
	if c.Viewport.Width < 1 || c.Viewport.Height < 1 {
		return errors.Errorf("config: viewport must be at least 1x1, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}

	cc := c.Camera
	checks := []struct {
		name string
		v    float32
	}{
		{"camera.fov_y_deg", cc.FovYDeg},
		{"camera.near", cc.Near},
		{"camera.far", cc.Far},
		{"camera.distance", cc.Distance},
		{"camera.min_distance", cc.MinDistance},
		{"camera.max_distance", cc.MaxDistance},
		{"camera.zoom_rate", cc.ZoomRate},
		{"camera.zoom_floor", cc.ZoomFloor},
		{"camera.pan_rate", cc.PanRate},
		{"grid.spacing", c.Grid.Spacing},
	}
	for _, chk := range checks {
		if err := positive(chk.name, chk.v); err != nil {
			return err
		}
	}
	if cc.FovYDeg >= 180 {
		return errors.Errorf("config: camera.fov_y_deg must be below 180, got %v", cc.FovYDeg)
	}
	if cc.Far <= cc.Near {
		return errors.Errorf("config: camera.far (%v) must exceed camera.near (%v)", cc.Far, cc.Near)
	}
	if cc.MaxDistance < cc.MinDistance {
		return errors.Errorf("config: camera.max_distance (%v) is below camera.min_distance (%v)", cc.MaxDistance, cc.MinDistance)
	}
	if cc.ZoomFloor >= 1 {
		return errors.Errorf("config: camera.zoom_floor must be below 1, got %v", cc.ZoomFloor)
	}
	if cc.SnapDuration < 0 {
		return errors.Errorf("config: camera.snap_duration must not be negative, got %s", cc.SnapDuration)
	}
	if cc.FrameInterval <= 0 {
		return errors.Errorf("config: camera.frame_interval must be positive, got %s", cc.FrameInterval)
	}
	if c.Grid.HalfExtent < 0 || c.Grid.AxisLength < 0 || c.Grid.OriginCube < 0 {
		return errors.New("config: grid sizes must not be negative")
	}
	return nil
}

// Limits returns the camera zoom and pan limits.
func (cc CameraConfig) Limits() camera.Limits {
	return camera.Limits{
		MinRadius: cc.MinDistance,
		MaxRadius: cc.MaxDistance,
		ZoomRate:  cc.ZoomRate,
		ZoomFloor: cc.ZoomFloor,
		PanRate:   cc.PanRate,
	}
}

// Controller builds a camera controller for a viewport of the given size.
func (c Config) Controller() *camera.Controller {
	cc := c.Camera
	ctl := camera.NewController(c.Viewport.Width, c.Viewport.Height,
		camera.WithLimits(cc.Limits()),
		camera.WithSnapDuration(cc.SnapDuration),
	)
	cam := ctl.Camera()
	cam.FovY = mgl32.DegToRad(cc.FovYDeg)
	cam.Near = cc.Near
	cam.Far = cc.Far
	cam.Radius = cc.Distance
	ctl.SetCamera(cam)
	return ctl
}

// LineSettings returns the reference line layout.
func (g GridConfig) LineSettings() render.LineSettings {
	return render.LineSettings{
		GridHalfExtent: g.HalfExtent,
		Spacing:        g.Spacing,
		AxisLength:     g.AxisLength,
		CubeSize:       g.OriginCube,
	}
}
