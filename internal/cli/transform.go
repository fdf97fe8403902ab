// Package cli — transform.go holds the airfoil loading and transform flags
// shared by every subcommand.
//
// Each command takes one Selig file and an optional list of transforms.
// The transforms are collected into a single script.Script and applied in
// this order:
//  1. steps from --script (or the stock sequence with --default-script)
//  2. --move, in the order given
//  3. --scale
//  4. --slot, in the order given
//  5. --twist (relative), then --set-twist (absolute)
//
// Twist runs last because slots can only be cut into an untwisted outline.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
	"github.com/mmr-tortoise/wingplot/internal/script"
	"github.com/mmr-tortoise/wingplot/internal/selig"
)

// transformFlags holds the transform-related flag values.
type transformFlags struct {
	scriptPath    string
	defaultScript bool
	moves         []string
	scale         float64
	slots         []string
	twist         float64
	setTwist      float64

	// hasScale and hasSetTwist record whether the flags were given, since
	// their zero values are meaningful (or invalid) on their own.
	hasScale    bool
	hasSetTwist bool
}

// bindTransformFlags registers the transform flags on cmd.
func bindTransformFlags(cmd *cobra.Command, f *transformFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.scriptPath, "script", "", "Transform script (.yaml, .yml, .json, .jsonc)")
	fs.BoolVar(&f.defaultScript, "default-script", false, "Run the stock recentre-and-slot sequence")
	fs.StringArrayVar(&f.moves, "move", nil, "Translate by `dx,dy` (repeatable)")
	fs.Float64Var(&f.scale, "scale", 1, "Scale about the midpoint by `factor`")
	fs.StringArrayVar(&f.slots, "slot", nil, "Cut a spar slot at `x,y,r` (repeatable)")
	fs.Float64Var(&f.twist, "twist", 0, "Rotate about the midpoint by `degrees`")
	fs.Float64Var(&f.setTwist, "set-twist", 0, "Rotate so the total twist is `degrees`")

	cmd.MarkFlagsMutuallyExclusive("script", "default-script")
}

// captureChanged copies cobra's "was this flag set" state into f.
func (f *transformFlags) captureChanged(cmd *cobra.Command) {
	f.hasScale = cmd.Flags().Changed("scale")
	f.hasSetTwist = cmd.Flags().Changed("set-twist")
}

// buildScript assembles the transform script described by f.
func buildScript(f *transformFlags) (*script.Script, error) {
	s := &script.Script{}

	switch {
	case f.scriptPath != "":
		loaded, err := script.Load(f.scriptPath)
		if err != nil {
			return nil, err
		}
		s = loaded
		VerboseLog("Loaded %d step(s) from %s", s.Len(), f.scriptPath)
	case f.defaultScript:
		s = script.Default()
	}

	for _, m := range f.moves {
		v, err := parseFloats(m, 2)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid --move %q", m), err)
		}
		s.Append(script.Move(v[0], v[1]))
	}

	if f.hasScale {
		s.Append(script.Scale(f.scale))
	}

	for _, sl := range f.slots {
		v, err := parseFloats(sl, 3)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid --slot %q", sl), err)
		}
		s.Append(script.Slot(v[0], v[1], v[2]))
	}

	if f.twist != 0 {
		s.Append(script.Twist(f.twist))
	}
	if f.hasSetTwist {
		s.Append(script.SetTwist(f.setTwist))
	}

	if err := s.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidScript, "invalid transform", err)
	}
	return s, nil
}

// parseFloats splits a comma-separated list into exactly n numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %d", n, len(parts))
	}

	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// loadAndTransform loads path and runs the transforms in f against it.
// It returns the outline as loaded alongside the transformed one.
func loadAndTransform(path string, f *transformFlags) (orig, a *geometry.Airfoil, err error) {
	s, err := buildScript(f)
	if err != nil {
		return nil, nil, err
	}

	a, err = selig.Load(path)
	if err != nil {
		return nil, nil, err
	}
	VerboseLog("Loaded %q: %d points", a.Name, a.Len())
	orig = a.Clone()

	err = s.ApplyFunc(a, func(i int, step script.Step) {
		VerboseLog("Step %d: %s -> %d points, twist %g", i, step, a.Len(), a.Twist)
	})
	if err != nil {
		return nil, nil, transformError(err)
	}
	return orig, a, nil
}

// transformError maps a failed script step to a CLIError.
func transformError(err error) error {
	msg := "transform failed"
	var stepErr *script.StepError
	if errors.As(err, &stepErr) {
		msg = fmt.Sprintf("transform step %d (%s) failed", stepErr.Index, stepErr.Op)
		err = stepErr.Err
	}

	switch {
	case errors.Is(err, geometry.ErrTwistNotZero):
		return model.WrapCLIError(model.ExitInvalidTransform, msg+"; slots must be cut before twisting", err)
	case errors.Is(err, script.ErrMissingParam):
		return model.WrapCLIError(model.ExitInvalidScript, msg, err)
	default:
		return model.WrapCLIError(model.ExitInvalidTransform, msg, err)
	}
}
