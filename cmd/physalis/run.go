package main

import (
	"fmt"
	"os"

	"github.com/chazu/physalis/pkg/camera"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	runFrame bool
	runSnap  string
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Evaluate a scene script and print the resulting scene",
	Long: `Evaluate a scene script, load its objects into a viewport and print the
objects, their transforms, the selection and the camera as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFrame, "frame", false, "frame the camera on the selected object")
	runCmd.Flags().StringVar(&runSnap, "snap", "", "snap the camera to a view cube face (+X, -X, +Y, -Y, +Z, -Z)")
	rootCmd.AddCommand(runCmd)
}

func parseFace(name string) (camera.Face, error) {
	f, ok := lo.Find(camera.Faces[:], func(f camera.Face) bool { return f.String() == name })
	if !ok {
		return 0, errors.Errorf("unknown view cube face %q", name)
	}
	return f, nil
}

func loadScript(path string) (*App, *Session, EvalResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, EvalResult{}, errors.Wrapf(err, "read %s", path)
	}
	app, err := NewApp(cfg, logger)
	if err != nil {
		return nil, nil, EvalResult{}, err
	}
	s, result := app.Evaluate(string(source))
	return app, s, result, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	app, s, result, err := loadScript(args[0])
	if err != nil {
		return err
	}
	if len(result.Errors) == 0 {
		if runSnap != "" {
			f, err := parseFace(runSnap)
			if err != nil {
				return err
			}
			s.Viewport.SnapToFace(f)
		}
		if runFrame && !s.Viewport.FrameSelected() {
			logger.Warnf("nothing selected to frame")
		}
		frames := app.Settle(s)
		logger.Debugf("camera settled after %d frames", frames)
		result = app.Describe(s)
	}

	out, err := yaml.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	if len(result.Errors) > 0 {
		return errors.Errorf("%s: %d error(s)", args[0], len(result.Errors))
	}
	return nil
}
