package selig

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
	"github.com/mmr-tortoise/wingplot/internal/model"
)

// clarkYHead is the first few lines of the UIUC CLARK Y coordinate file.
const clarkYHead = `CLARK Y AIRFOIL
  1.0000000  0.0005999
  0.9900000  0.0029999
  0.9800000  0.0053999

  0.9600000  0.0101999
  0.0000000  0.0000000
  0.0500000 -0.0246000
  1.0000000 -0.0005999
`

// writeFixture writes content to a file in a per-test temp directory and
// returns its path.
func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	a, err := Parse(strings.NewReader(clarkYHead))
	require.NoError(t, err)

	assert.Equal(t, "CLARK Y AIRFOIL", a.Name)
	require.Equal(t, 7, a.Len())
	assert.Equal(t, geometry.Pt(1.0, 0.0005999), a.Points[0])
	assert.Equal(t, geometry.Pt(0.05, -0.0246), a.Points[5])

	// Defaults come from geometry.NewAirfoil.
	assert.Equal(t, geometry.DefaultMidPoint, a.MidPoint)
	assert.Equal(t, 0.0, a.Twist)
	assert.Equal(t, 1.0, a.Chord)
}

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantCount int
	}{
		{"leading blank lines", "\n\n  NACA 2412 \n1 0\n0 0\n", "NACA 2412", 2},
		{"CRLF line endings", "E387\r\n1.0 0.0\r\n0.5 0.1\r\n", "E387", 2},
		{"tab separated", "S1223\n1.0\t0.0\n", "S1223", 1},
		{"extra columns ignored", "MH32\n1.0 0.0 99\n", "MH32", 1},
		{"name only", "empty foil\n", "empty foil", 0},
		{"exponent notation", "tiny\n1e-3 -2.5E-4\n", "tiny", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, a.Name)
			assert.Equal(t, tt.wantCount, a.Len())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := Parse(strings.NewReader("\n  \n"))
		assert.ErrorIs(t, err, ErrNoName)
	})

	t.Run("single column", func(t *testing.T) {
		_, err := Parse(strings.NewReader("foil\n1.0 0.0\n0.5\n"))
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 3, perr.Line)
		assert.Equal(t, "0.5", perr.Text)
	})

	t.Run("non-numeric y", func(t *testing.T) {
		_, err := Parse(strings.NewReader("foil\n\n1.0 abc\n"))
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 3, perr.Line)
		assert.Contains(t, err.Error(), "invalid y")
	})

	for _, line := range []string{"NaN 0", "0 Inf", "+Infinity -0.1", "0.5 -inf"} {
		t.Run("non-finite "+line, func(t *testing.T) {
			_, err := Parse(strings.NewReader("foil\n1 0\n" + line + "\n"))
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 3, perr.Line)
			assert.Equal(t, line, perr.Text)
			assert.Contains(t, err.Error(), "finite")
		})
	}
}

// TestRoundTrip verifies that writing with full precision and parsing again
// reproduces the exact coordinates.
func TestRoundTrip(t *testing.T) {
	a, err := Parse(strings.NewReader(clarkYHead))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a, -1))

	b, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, a.Points, b.Points)
}

func TestRoundTrip_AfterTransform(t *testing.T) {
	a, err := Parse(strings.NewReader(clarkYHead))
	require.NoError(t, err)
	a.Rotate(12.5)
	a.Move(0.1, -0.2, 0)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a, -1))

	b, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, a.Points, b.Points)
}

func TestWrite_FixedPrecision(t *testing.T) {
	a := geometry.NewAirfoil("foil", []geometry.Point{geometry.Pt(1, 0), geometry.Pt(0.25, -0.0123456)})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a, 4))
	assert.Equal(t, "foil\n1.0000 0.0000\n0.2500 -0.0123\n", buf.String())
}

func TestLoad(t *testing.T) {
	path := writeFixture(t, "clarky.dat", clarkYHead)

	a, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CLARK Y AIRFOIL", a.Name)
	assert.Equal(t, 7, a.Len())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.dat"))
		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitFileNotFound, cliErr.Code)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFixture(t, "bad.dat", "foil\n1.0 x\n")
		_, err := Load(path)
		var cliErr *model.CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, model.ExitParseError, cliErr.Code)

		var perr *ParseError
		assert.True(t, errors.As(err, &perr))
	})
}
