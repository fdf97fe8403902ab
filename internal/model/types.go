// Package model defines the shared types for the wingplot CLI.
//
// The airfoil itself is a transient in-memory value: it is loaded from a
// Selig file, transformed, plotted, and discarded. Nothing in this package
// is persisted.
package model

import (
	"fmt"
	"strings"
)

// TransformOp names a single step of a transform script.
// Each op maps onto one Airfoil method in internal/geometry.
type TransformOp string

const (
	// OpMove translates the outline and its midpoint by (x, y, z).
	OpMove TransformOp = "move"

	// OpScale scales the outline about its midpoint by factor.
	OpScale TransformOp = "scale"

	// OpTwist rotates the outline about its midpoint by angle degrees,
	// relative to the current twist.
	OpTwist TransformOp = "twist"

	// OpSetTwist rotates the outline so that its total twist equals angle.
	OpSetTwist TransformOp = "set-twist"

	// OpSlot splices a circular slot centred at (x, y) with radius r into
	// the lower surface of the outline.
	OpSlot TransformOp = "slot"

	// OpAddPoint appends (x, y, z) to the outline.
	OpAddPoint TransformOp = "add-point"

	// OpInsertPoint inserts (x, y, z) before index.
	OpInsertPoint TransformOp = "insert-point"

	// OpReplacePoint overwrites the point at index with (x, y, z).
	OpReplacePoint TransformOp = "replace-point"
)

// String returns the string representation of TransformOp.
func (o TransformOp) String() string {
	return string(o)
}

// IsValid checks whether the TransformOp value is one of the
// predefined operations.
func (o TransformOp) IsValid() bool {
	switch o {
	case OpMove, OpScale, OpTwist, OpSetTwist, OpSlot,
		OpAddPoint, OpInsertPoint, OpReplacePoint:
		return true
	default:
		return false
	}
}

// UsesIndex reports whether the op addresses an existing point by index.
func (o TransformOp) UsesIndex() bool {
	return o == OpInsertPoint || o == OpReplacePoint
}

// ParseTransformOp converts a string to a TransformOp.
// Matching is case-insensitive and tolerates surrounding whitespace.
func ParseTransformOp(s string) (TransformOp, error) {
	op := TransformOp(strings.ToLower(strings.TrimSpace(s)))
	if !op.IsValid() {
		return "", fmt.Errorf("invalid transform op: %q (valid: move, scale, twist, set-twist, slot, add-point, insert-point, replace-point)", s)
	}
	return op, nil
}

// BoundsMode selects how the plot chooses its visible window.
type BoundsMode string

const (
	// BoundsFixed shows a fixed square [-limit, limit] on both axes.
	BoundsFixed BoundsMode = "fixed"

	// BoundsAuto fits the view to the outline's bounding box.
	BoundsAuto BoundsMode = "auto"
)

// String returns the string representation of BoundsMode.
func (m BoundsMode) String() string {
	return string(m)
}

// IsValid checks whether the BoundsMode value is a known mode.
func (m BoundsMode) IsValid() bool {
	return m == BoundsFixed || m == BoundsAuto
}

// ParseBoundsMode converts a string to a BoundsMode.
func ParseBoundsMode(s string) (BoundsMode, error) {
	mode := BoundsMode(strings.ToLower(s))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid bounds mode: %q (valid: fixed, auto)", s)
	}
	return mode, nil
}

// ExitCode defines the process exit codes of the CLI.
// Scripts can use them to tell a missing input file from a bad transform.
type ExitCode int

const (
	// ExitGeneralError indicates an unspecified error occurred.
	// A successful run exits with 0.
	ExitGeneralError ExitCode = 1

	// ExitFileNotFound indicates the airfoil or script file does not exist
	// or could not be opened.
	ExitFileNotFound ExitCode = 2

	// ExitParseError indicates the airfoil file is not valid Selig format.
	ExitParseError ExitCode = 3

	// ExitInvalidTransform indicates a transform was rejected, e.g. a slot
	// requested on a twisted airfoil or outside the outline.
	ExitInvalidTransform ExitCode = 4

	// ExitPlotFailed indicates rendering or the plot window failed.
	ExitPlotFailed ExitCode = 5

	// ExitInvalidScript indicates the transform script could not be parsed
	// or failed validation.
	ExitInvalidScript ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
