// Package selig reads and writes airfoil coordinate files in Selig format.
//
// A Selig file is plain text: the first line is the airfoil name and every
// following line holds one "x y" pair, whitespace separated, normalized to
// unit chord. Blank lines are ignored.
package selig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
)

// ErrNoName is returned when the input has no non-empty line at all.
var ErrNoName = errors.New("missing airfoil name line")

// ParseError reports a malformed coordinate line.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int

	// Text is the offending line, trimmed.
	Text string

	// Err describes what was wrong with the line.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a Selig outline from r.
//
// The first non-empty line is the name. Each later non-empty line must
// carry at least two numeric fields; extra fields are ignored. Z is 0 for
// every point.
func Parse(r io.Reader) (*geometry.Airfoil, error) {
	scanner := bufio.NewScanner(r)

	var (
		name    string
		hasName bool
		points  []geometry.Point
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !hasName {
			name = line
			hasName = true
			continue
		}

		p, err := parsePoint(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read airfoil data: %w", err)
	}
	if !hasName {
		return nil, ErrNoName
	}

	return geometry.NewAirfoil(name, points), nil
}

func parsePoint(line string) (geometry.Point, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return geometry.Point{}, fmt.Errorf("expected 2 coordinates, got %d", len(fields))
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid y: %w", err)
	}
	if !finite(x) || !finite(y) {
		return geometry.Point{}, fmt.Errorf("coordinates must be finite, got %v %v", x, y)
	}

	return geometry.Pt(x, y), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Load opens path and parses it as a Selig file.
//
// Returns a CLIError with ExitFileNotFound if the file cannot be opened and
// ExitParseError if its contents are malformed.
func Load(path string) (*geometry.Airfoil, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitFileNotFound,
				fmt.Sprintf("airfoil file not found: %s", path), err)
		}
		return nil, model.WrapCLIError(model.ExitFileNotFound,
			fmt.Sprintf("couldn't open airfoil file: %s", path), err)
	}
	defer func() { _ = f.Close() }()

	a, err := Parse(f)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitParseError,
			fmt.Sprintf("invalid Selig file: %s", path), err)
	}
	return a, nil
}

// Write serializes a in Selig format. precision is the number of decimals
// per coordinate; -1 writes the shortest representation that parses back
// to the identical float64.
func Write(w io.Writer, a *geometry.Airfoil, precision int) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, a.Name); err != nil {
		return err
	}
	for _, p := range a.Points {
		x := strconv.FormatFloat(p.X, 'f', precision, 64)
		y := strconv.FormatFloat(p.Y, 'f', precision, 64)
		if _, err := fmt.Fprintf(bw, "%s %s\n", x, y); err != nil {
			return err
		}
	}

	return bw.Flush()
}
