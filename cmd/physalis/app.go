package main

import (
	"sort"
	"time"

	"github.com/chazu/physalis/pkg/config"
	"github.com/chazu/physalis/pkg/engine"
	"github.com/chazu/physalis/pkg/input"
	"github.com/chazu/physalis/pkg/kernel"
	"github.com/chazu/physalis/pkg/kernel/faceted"
	"github.com/chazu/physalis/pkg/kernel/sdfx"
	"github.com/chazu/physalis/pkg/logging"
	"github.com/chazu/physalis/pkg/model"
	"github.com/chazu/physalis/pkg/render"
	"github.com/chazu/physalis/pkg/scene"
	"github.com/chazu/physalis/pkg/tessellate"
	"github.com/chazu/physalis/pkg/viewport"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// maxFrames bounds how long Settle steps a camera animation.
const maxFrames = 600

// App wires the script engine, the kernel and a viewport together.
type App struct {
	cfg    config.Config
	log    logging.Logger
	engine *engine.Engine
	kernel kernel.Kernel
}

// Session is one evaluated script loaded into a live viewport.
type Session struct {
	Viewport *viewport.Viewport
	Sink     *render.Recorder
	Names    map[string]model.ObjectID
}

// ObjectData describes one scene object in command output.
type ObjectData struct {
	Name         string     `yaml:"name"`
	ID           uint64     `yaml:"id"`
	Kind         string     `yaml:"kind"`
	Translation  [3]float32 `yaml:"translation"`
	Rotation     [3]float32 `yaml:"rotation_deg"`
	Triangles    int        `yaml:"triangles"`
	BoundsRadius float32    `yaml:"bounds_radius"`
}

// EvalErrorData is a script error in command output.
type EvalErrorData struct {
	Line    int    `yaml:"line"`
	Col     int    `yaml:"col"`
	Message string `yaml:"message"`
}

// CameraData is the camera pose in command output.
type CameraData struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	Radius float32    `yaml:"radius"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Objects   []ObjectData    `yaml:"objects"`
	Errors    []EvalErrorData `yaml:"errors,omitempty"`
	Triangles int             `yaml:"triangles"`
	Selected  string          `yaml:"selected,omitempty"`
	Camera    CameraData      `yaml:"camera"`
}

func newKernel(name string) (kernel.Kernel, error) {
	switch name {
	case config.KernelFaceted, "":
		return faceted.New(), nil
	case config.KernelSDFX:
		return sdfx.New(), nil
	default:
		return nil, errors.Errorf("unknown kernel %q", name)
	}
}

// NewApp creates an App for cfg.
func NewApp(cfg config.Config, log logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, err := newKernel(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	log = logging.OrNop(log)
	return &App{
		cfg:    cfg,
		log:    log,
		engine: engine.NewEngine(engine.WithLogger(log)),
		kernel: k,
	}, nil
}

// NewSession creates an empty viewport configured from the App.
func (a *App) NewSession() *Session {
	sc := scene.New(tessellate.New(a.kernel), scene.WithTolerance(a.cfg.Tolerance))
	rec := render.NewRecorder()
	vp := viewport.New(sc, rec,
		viewport.WithLogger(a.log),
		viewport.WithCamera(a.cfg.Controller()),
		viewport.WithReferenceLines(a.cfg.Grid.LineSettings(), a.cfg.Grid.Planes),
	)
	return &Session{Viewport: vp, Sink: rec, Names: map[string]model.ObjectID{}}
}

// Evaluate runs source and loads the resulting objects into a new session.
// Script errors are reported in the result, not as a Go error; the session
// is still usable and holds whatever was built before the failure.
func (a *App) Evaluate(source string) (*Session, EvalResult) {
	s := a.NewSession()
	result := EvalResult{Objects: []ObjectData{}}

	prog, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.log.Errorf("evaluate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return s, a.describe(s, result)
	}
	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return s, a.describe(s, result)
	}

	names, err := engine.Apply(prog, s.Viewport)
	s.Names = names
	if err != nil {
		a.log.Warnf("apply: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	s.Viewport.Refresh()
	return s, a.describe(s, result)
}

// Describe summarizes the current state of s.
func (a *App) Describe(s *Session) EvalResult {
	return a.describe(s, EvalResult{Objects: []ObjectData{}})
}

func (a *App) describe(s *Session, result EvalResult) EvalResult {
	byID := lo.Invert(s.Names)
	sc := s.Viewport.Scene()
	for _, e := range sc.Entries() {
		panel := model.PanelFromTransform(e.Transform)
		result.Objects = append(result.Objects, ObjectData{
			Name:         byID[e.ID],
			ID:           uint64(e.ID),
			Kind:         e.Shape.Kind().String(),
			Translation:  [3]float32{panel.TX, panel.TY, panel.TZ},
			Rotation:     [3]float32{panel.RXDeg, panel.RYDeg, panel.RZDeg},
			Triangles:    e.Local.TriangleCount(),
			BoundsRadius: e.BoundsRadius,
		})
	}
	sort.Slice(result.Objects, func(i, j int) bool { return result.Objects[i].ID < result.Objects[j].ID })
	result.Triangles = sc.TriangleCount()
	if id, ok := s.Viewport.Selected(); ok {
		result.Selected = byID[id]
	}
	cam := s.Viewport.Camera().Camera()
	result.Camera = CameraData{
		Eye:    cam.Eye(),
		Target: cam.Target,
		Radius: cam.Radius,
	}
	return result
}

// Settle feeds frame events into the viewport until the camera animation
// finishes and returns the number of frames stepped.
func (a *App) Settle(s *Session) int {
	dt := a.cfg.Camera.FrameInterval
	if dt <= 0 {
		dt = time.Second / 60
	}
	n := 0
	for s.Viewport.Camera().Animating() && n < maxFrames {
		s.Viewport.Handle(nil, input.Frame{Dt: dt})
		n++
	}
	return n
}
