package main

import (
	"fmt"

	"github.com/chazu/physalis/pkg/model"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var pickCmd = &cobra.Command{
	Use:   "pick [script] [x] [y]",
	Short: "Pick the object and surface under a pixel",
	Long: `Evaluate a scene script and cast a ray through pixel (x, y) of the
configured viewport. Prints the object whose bounding sphere the ray enters
first and the exact surface point hit on the triangle mesh.`,
	Args: cobra.ExactArgs(3),
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)
}

func parsePixel(s string) (float32, error) {
	v, ok := model.ParseFloatInput(s)
	if !ok {
		return 0, errors.Errorf("pixel coordinate %q is not a finite number", s)
	}
	return v, nil
}

func runPick(cmd *cobra.Command, args []string) error {
	x, err := parsePixel(args[1])
	if err != nil {
		return err
	}
	y, err := parsePixel(args[2])
	if err != nil {
		return err
	}
	_, s, result, err := loadScript(args[0])
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return errors.Errorf("%s: %s", args[0], result.Errors[0].Message)
	}

	out := cmd.OutOrStdout()
	byID := lo.Invert(s.Names)
	id, ok := s.Viewport.PickObject(x, y)
	if !ok {
		fmt.Fprintln(out, "Object: none")
	} else {
		fmt.Fprintf(out, "Object: %d %s\n", id, byID[id])
	}
	hit, ok := s.Viewport.PickSurface(x, y)
	if !ok {
		fmt.Fprintln(out, "Surface: none")
		return nil
	}
	fmt.Fprintf(out, "Surface: %d %s\n", hit.ID, byID[hit.ID])
	fmt.Fprintf(out, "  Point: (%.4f, %.4f, %.4f)\n", hit.Point[0], hit.Point[1], hit.Point[2])
	fmt.Fprintf(out, "  Normal: (%.4f, %.4f, %.4f)\n", hit.Normal[0], hit.Normal[1], hit.Normal[2])
	fmt.Fprintf(out, "  Distance: %.4f\n", hit.Distance)
	return nil
}
