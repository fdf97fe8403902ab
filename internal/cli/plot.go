// Package cli — plot.go implements the "wingplot plot" command.
//
// The plot command loads an airfoil, applies the requested transforms,
// renders the outline and opens it in a window. The window blocks until
// it is closed.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wingplot/internal/model"
	"github.com/mmr-tortoise/wingplot/internal/plot"
	"github.com/mmr-tortoise/wingplot/internal/viewer"
)

// plotFlags holds the flag values for the plot command.
type plotFlags struct {
	transformFlags

	bounds     string
	limit      float64
	overlay    bool
	noAxes     bool
	width      int
	height     int
	lineWidth  float64
}

// NewPlotCommand creates the "plot" cobra command.
func NewPlotCommand() *cobra.Command {
	flags := &plotFlags{}
	defaults := plot.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "plot <airfoil.dat>",
		Short: "Plot a transformed airfoil outline in a window",
		Long: `Load a Selig airfoil file, apply transforms, and show the outline.

The plot shows the outline, reference lines through the midpoint (the
twist and scale pivot), and a legend with the airfoil name and twist.

Examples:
  wingplot plot clarky.dat
  wingplot plot clarky.dat --default-script
  wingplot plot clarky.dat --move -0.5,0 --slot -0.2,0.03,0.02 --twist -10
  wingplot plot clarky.dat --script wing.yaml --bounds auto --overlay`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.captureChanged(cmd)
			return runPlot(args[0], flags)
		},
	}

	bindTransformFlags(cmd, &flags.transformFlags)

	fs := cmd.Flags()
	fs.StringVar(&flags.bounds, "bounds", string(defaults.Bounds), "View window: fixed (±limit) or auto (fit the outline)")
	fs.Float64Var(&flags.limit, "limit", defaults.Limit, "Half-width of the fixed view window")
	fs.BoolVar(&flags.overlay, "overlay", false, "Also draw the outline as loaded, before transforms")
	fs.BoolVar(&flags.noAxes, "no-axes", false, "Hide the reference lines through the midpoint")
	fs.IntVar(&flags.width, "width", defaults.Width, "Plot width in pixels")
	fs.IntVar(&flags.height, "height", defaults.Height, "Plot height in pixels")
	fs.Float64Var(&flags.lineWidth, "line-width", defaults.LineWidth, "Outline width in pixels")

	return cmd
}

// plotOptions converts the command flags into renderer options.
func plotOptions(flags *plotFlags) (plot.Options, error) {
	opts := plot.DefaultOptions()

	mode, err := model.ParseBoundsMode(flags.bounds)
	if err != nil {
		return opts, model.WrapCLIError(model.ExitGeneralError, "invalid --bounds", err)
	}
	opts.Bounds = mode
	opts.Width = flags.width
	opts.Height = flags.height
	opts.Limit = flags.limit
	opts.LineWidth = flags.lineWidth
	opts.ShowAxes = !flags.noAxes
	return opts, nil
}

func runPlot(path string, flags *plotFlags) error {
	opts, err := plotOptions(flags)
	if err != nil {
		return err
	}

	orig, a, err := loadAndTransform(path, &flags.transformFlags)
	if err != nil {
		return err
	}
	if a.Len() < 2 {
		return model.NewCLIError(model.ExitPlotFailed,
			fmt.Sprintf("%s has %d point(s); at least two are needed to plot", path, a.Len()))
	}

	if flags.overlay {
		opts.Overlay = orig
	}

	img, err := plot.Render(a, opts)
	if err != nil {
		return model.WrapCLIError(model.ExitPlotFailed, "failed to render plot", err)
	}
	VerboseLog("Rendered %dx%d plot (%s bounds)", opts.Width, opts.Height, opts.Bounds)

	if err := viewer.Show(img, fmt.Sprintf("wingplot: %s", a.Label())); err != nil {
		return model.WrapCLIError(model.ExitPlotFailed, "plot window failed", err)
	}
	return nil
}
