// Package script runs an ordered list of transforms against an airfoil.
//
// A script is the explicit form of a one-off driver: a sequence of move,
// scale, twist and slot steps applied to one outline before it is plotted.
// Scripts are loaded from YAML (gopkg.in/yaml.v3) or from JSON with
// comments (github.com/tidwall/jsonc), picked by file extension.
//
// Example YAML:
//
//	steps:
//	  - op: move
//	    x: -0.5
//	    y: 0.5
//	  - op: slot
//	    x: -0.3
//	    y: 0.03
//	    r: 0.02
package script

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
)

// ErrMissingParam is returned by Validate when a step lacks a field its op
// needs.
var ErrMissingParam = errors.New("missing parameter")

// Script is an ordered list of transform steps.
type Script struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is a single transform. Which fields are read depends on Op:
//
//	move                     x, y, z (offsets)
//	scale                    factor
//	twist, set-twist         angle (degrees)
//	slot                     x, y (centre), r (radius)
//	add-point                x, y, z
//	insert-point, replace-point  index, x, y, z
type Step struct {
	Op     model.TransformOp `json:"op" yaml:"op"`
	X      float64           `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64           `json:"y,omitempty" yaml:"y,omitempty"`
	Z      float64           `json:"z,omitempty" yaml:"z,omitempty"`
	R      float64           `json:"r,omitempty" yaml:"r,omitempty"`
	Angle  float64           `json:"angle,omitempty" yaml:"angle,omitempty"`
	Factor *float64          `json:"factor,omitempty" yaml:"factor,omitempty"`
	Index  *int              `json:"index,omitempty" yaml:"index,omitempty"`
}

// String renders the step the way it is shown in verbose logs.
func (s Step) String() string {
	switch s.Op {
	case model.OpMove:
		return fmt.Sprintf("move(%g, %g, %g)", s.X, s.Y, s.Z)
	case model.OpScale:
		if s.Factor == nil {
			return "scale(?)"
		}
		return fmt.Sprintf("scale(%g)", *s.Factor)
	case model.OpTwist, model.OpSetTwist:
		return fmt.Sprintf("%s(%g)", s.Op, s.Angle)
	case model.OpSlot:
		return fmt.Sprintf("slot(%g, %g, r=%g)", s.X, s.Y, s.R)
	case model.OpInsertPoint, model.OpReplacePoint:
		idx := "?"
		if s.Index != nil {
			idx = fmt.Sprint(*s.Index)
		}
		return fmt.Sprintf("%s(%s, %g, %g, %g)", s.Op, idx, s.X, s.Y, s.Z)
	default:
		return fmt.Sprintf("%s(%g, %g, %g)", s.Op, s.X, s.Y, s.Z)
	}
}

// StepError reports the step that stopped a script.
type StepError struct {
	// Index is the 0-based position of the step in the script.
	Index int

	// Op is the op of the failing step.
	Op model.TransformOp

	// Err is the underlying validation or geometry error.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Move, Scale, Twist, SetTwist and Slot build single steps. They keep
// programmatic scripts (Default, the CLI's ad-hoc flags) readable.

func Move(dx, dy float64) Step {
	return Step{Op: model.OpMove, X: dx, Y: dy}
}

func Scale(factor float64) Step {
	return Step{Op: model.OpScale, Factor: &factor}
}

func Twist(delta float64) Step {
	return Step{Op: model.OpTwist, Angle: delta}
}

func SetTwist(theta float64) Step {
	return Step{Op: model.OpSetTwist, Angle: theta}
}

func Slot(x, y, r float64) Step {
	return Step{Op: model.OpSlot, X: x, Y: y, R: r}
}

// Default is the stock driver sequence: recentre a unit-chord outline on
// the origin, cut two spar slots, shift it back by one chord and cut a
// third.
func Default() *Script {
	return &Script{Steps: []Step{
		Move(-0.5, 0.5),
		Move(0, -0.5),
		Slot(-0.3, 0.03, 0.02),
		Slot(-0.15, 0.03, 0.02),
		Move(1.0, 0),
		Slot(0.15, 0.03, 0.02),
	}}
}

// Load reads a script from path. ".yaml" and ".yml" are parsed as YAML;
// ".json" and ".jsonc" as JSON with comments and trailing commas allowed.
// Unknown keys are rejected in both formats. The loaded script is
// validated before it is returned.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitFileNotFound,
				fmt.Sprintf("script not found: %s", path), err)
		}
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	s, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidScript,
			fmt.Sprintf("invalid script: %s", path), err)
	}
	return s, nil
}

// Decode parses script data in the format implied by ext and validates it.
func Decode(data []byte, ext string) (*Script, error) {
	var s Script

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported script format %q (valid: .yaml, .yml, .json, .jsonc)", ext)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate normalizes every op and checks each step has the fields its op
// needs. It does not touch geometry: slot placement and index ranges can
// only be checked against an actual outline, in Apply.
func (s *Script) Validate() error {
	for i := range s.Steps {
		step := &s.Steps[i]

		op, err := model.ParseTransformOp(string(step.Op))
		if err != nil {
			return &StepError{Index: i, Op: step.Op, Err: err}
		}
		step.Op = op

		switch {
		case op == model.OpScale && step.Factor == nil:
			return &StepError{Index: i, Op: op, Err: fmt.Errorf("%w: factor", ErrMissingParam)}
		case op == model.OpSlot && step.R == 0:
			return &StepError{Index: i, Op: op, Err: fmt.Errorf("%w: r", ErrMissingParam)}
		case op.UsesIndex() && step.Index == nil:
			return &StepError{Index: i, Op: op, Err: fmt.Errorf("%w: index", ErrMissingParam)}
		}
	}
	return nil
}

// Apply runs the steps against a in order. The first failing step stops
// the run; steps before it stay applied.
func (s *Script) Apply(a *geometry.Airfoil) error {
	return s.ApplyFunc(a, nil)
}

// ApplyFunc is Apply with a hook called after each successful step.
func (s *Script) ApplyFunc(a *geometry.Airfoil, after func(i int, step Step)) error {
	for i, step := range s.Steps {
		if err := applyStep(a, step); err != nil {
			return &StepError{Index: i, Op: step.Op, Err: err}
		}
		if after != nil {
			after(i, step)
		}
	}
	return nil
}

func applyStep(a *geometry.Airfoil, step Step) error {
	p := geometry.Point{X: step.X, Y: step.Y, Z: step.Z}

	switch step.Op {
	case model.OpMove:
		a.Move(step.X, step.Y, step.Z)
	case model.OpScale:
		if step.Factor == nil {
			return fmt.Errorf("%w: factor", ErrMissingParam)
		}
		return a.Scale(*step.Factor)
	case model.OpTwist:
		a.Rotate(step.Angle)
	case model.OpSetTwist:
		a.SetTwist(step.Angle)
	case model.OpSlot:
		return a.AddSlot(step.X, step.Y, step.R)
	case model.OpAddPoint:
		a.AddPoint(p)
	case model.OpInsertPoint, model.OpReplacePoint:
		if step.Index == nil {
			return fmt.Errorf("%w: index", ErrMissingParam)
		}
		if step.Op == model.OpInsertPoint {
			return a.InsertPoint(*step.Index, p)
		}
		return a.ReplacePoint(*step.Index, p)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

// Append adds steps to the end of s.
func (s *Script) Append(steps ...Step) {
	s.Steps = append(s.Steps, steps...)
}

// Len returns the number of steps.
func (s *Script) Len() int {
	return len(s.Steps)
}
