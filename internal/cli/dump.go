// Package cli — dump.go implements the "wingplot dump" command.
//
// The dump command writes the transformed outline back out in Selig format
// on stdout, so the effect of a script can be inspected or diffed without
// opening a window.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wingplot/internal/selig"
)

// NewDumpCommand creates the "dump" cobra command.
func NewDumpCommand() *cobra.Command {
	flags := &transformFlags{}
	var precision int

	cmd := &cobra.Command{
		Use:   "dump <airfoil.dat>",
		Short: "Print the transformed outline in Selig format",
		Long: `Load a Selig airfoil file, apply transforms, and print the outline.

With the default precision (-1) every coordinate is written with the fewest
digits that read back to the same value.

Examples:
  wingplot dump clarky.dat --twist 5
  wingplot dump clarky.dat --script wing.yaml --precision 6`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.captureChanged(cmd)
			_, a, err := loadAndTransform(args[0], flags)
			if err != nil {
				return err
			}
			return selig.Write(cmd.OutOrStdout(), a, precision)
		},
	}

	bindTransformFlags(cmd, flags)
	cmd.Flags().IntVar(&precision, "precision", -1, "Decimals per coordinate (-1 for exact)")
	return cmd
}
