// Package cli — info.go implements the "wingplot info" command.
//
// The info command loads an airfoil, applies the requested transforms and
// reports a summary of the result: name, point count, twist, chord,
// midpoint, bounds and perimeter.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wingplot/internal/geometry"
)

// NewInfoCommand creates the "info" cobra command.
func NewInfoCommand() *cobra.Command {
	flags := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "info <airfoil.dat>",
		Short: "Summarize an airfoil outline after transforms",
		Long: `Load a Selig airfoil file, apply transforms, and print a summary.

Examples:
  wingplot info clarky.dat
  wingplot info clarky.dat --default-script --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.captureChanged(cmd)
			_, a, err := loadAndTransform(args[0], flags)
			if err != nil {
				return err
			}
			printInfoResult(cmd.OutOrStdout(), a)
			return nil
		},
	}

	bindTransformFlags(cmd, flags)
	return cmd
}

// infoJSON is the JSON output structure for the info command.
type infoJSON struct {
	Name      string         `json:"name"`
	Points    int            `json:"points"`
	Twist     float64        `json:"twist"`
	Chord     float64        `json:"chord"`
	MidPoint  geometry.Point `json:"midPoint"`
	Min       geometry.Point `json:"min"`
	Max       geometry.Point `json:"max"`
	Perimeter float64        `json:"perimeter"`
}

func newInfoJSON(a *geometry.Airfoil) infoJSON {
	lo, hi := a.Bounds()
	return infoJSON{
		Name:      a.Name,
		Points:    a.Len(),
		Twist:     a.Twist,
		Chord:     a.Chord,
		MidPoint:  a.MidPoint,
		Min:       lo,
		Max:       hi,
		Perimeter: a.Perimeter(),
	}
}

// printInfoResult outputs the summary in text or JSON format,
// depending on the global --json flag.
func printInfoResult(w io.Writer, a *geometry.Airfoil) {
	info := newInfoJSON(a)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	fmt.Fprintf(w, "%-11s %s\n", "Name:", info.Name)
	fmt.Fprintf(w, "%-11s %d\n", "Points:", info.Points)
	fmt.Fprintf(w, "%-11s %g\n", "Twist:", info.Twist)
	fmt.Fprintf(w, "%-11s %g\n", "Chord:", info.Chord)
	fmt.Fprintf(w, "%-11s %s\n", "MidPoint:", info.MidPoint)
	fmt.Fprintf(w, "%-11s x [%.4f, %.4f]  y [%.4f, %.4f]\n", "Bounds:",
		info.Min.X, info.Max.X, info.Min.Y, info.Max.Y)
	fmt.Fprintf(w, "%-11s %.4f\n", "Perimeter:", info.Perimeter)
}
