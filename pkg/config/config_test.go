package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, KernelFaceted, cfg.Kernel)
	assert.Equal(t, 250*time.Millisecond, cfg.Camera.SnapDuration)
	assert.True(t, cfg.Grid.Planes.XY)
	assert.False(t, cfg.Grid.Planes.YZ)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseOverridesSomeKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
kernel: sdfx
tolerance: 0.05
debug: true
camera:
  distance: 10
  snap_duration: 400ms
grid:
  planes:
    yz: true
`))
	require.NoError(t, err)
	assert.Equal(t, KernelSDFX, cfg.Kernel)
	assert.Equal(t, 0.05, cfg.Tolerance)
	assert.True(t, cfg.Debug)
	assert.Equal(t, float32(10), cfg.Camera.Distance)
	assert.Equal(t, 400*time.Millisecond, cfg.Camera.SnapDuration)
	assert.Equal(t, float32(200), cfg.Camera.MaxDistance)
	assert.True(t, cfg.Grid.Planes.XY)
	assert.True(t, cfg.Grid.Planes.YZ)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kernel", "kernel: manifold"},
		{"zero tolerance", "tolerance: 0"},
		{"unknown key", "colour: red"},
		{"bad yaml", "camera: [1, 2"},
		{"near past far", "camera: {near: 10, far: 5}"},
		{"inverted distances", "camera: {min_distance: 50, max_distance: 5}"},
		{"zoom floor", "camera: {zoom_floor: 1.5}"},
		{"negative fov", "camera: {fov_y_deg: -1}"},
		{"zero frame interval", "camera: {frame_interval: 0s}"},
		{"tiny viewport", "viewport: {width: 0, height: 10}"},
		{"negative grid", "grid: {half_extent: -1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physalis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance: 0.02\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.02, cfg.Tolerance)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestController(t *testing.T) {
	cfg := Default()
	cfg.Camera.FovYDeg = 60
	cfg.Camera.Distance = 500
	cfg.Viewport = ViewportConfig{Width: 400, Height: 200}

	ctl := cfg.Controller()
	cam := ctl.Camera()
	assert.InDelta(t, mgl32.DegToRad(60), cam.FovY, 1e-6)
	assert.Equal(t, float32(2), cam.Aspect)
	// Clamped to max_distance.
	assert.Equal(t, float32(200), cam.Radius)
	assert.Equal(t, cfg.Camera.Limits(), ctl.Limits())
}

func TestLineSettings(t *testing.T) {
	ls := Default().Grid.LineSettings()
	assert.Equal(t, 12, ls.GridHalfExtent)
	assert.Equal(t, float32(0.45), ls.CubeSize)
}
