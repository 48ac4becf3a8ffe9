package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerrlab/moke/chart"
	"github.com/kerrlab/moke/dataio/table"
	"github.com/kerrlab/moke/loop"
)

// CentreOptions holds flags for the centre command.
type CentreOptions struct {
	*RootOptions
	Plot string
}

// NewCentreCommand builds the centre command: loop CSV to symmetry centre.
func NewCentreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CentreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "centre <loop-csv>",
		Short: "Estimate the symmetry centre of a loop",
		Long: `Centre reads a three-column loop CSV (field, raw, signal), estimates
the vertical symmetry centre of the loop, and optionally renders the
loop against its parity transform with the centre marked.

Example:
  moke centre test_findcentre.csv --plot centre.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCentre(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Plot, "plot", "", "write a mirrored-loop PNG to this path")

	return cmd
}

func runCentre(opts *CentreOptions, cmd *cobra.Command, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return commandErr("opening loop CSV", err)
	}
	defer f.Close()

	x, y, err := table.ReadXY(f)
	if err != nil {
		return analysisErr("reading loop", err)
	}

	centre, err := loop.Centre(y)
	if err != nil {
		return analysisErr("estimating centre", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "points: %d\ncentre: %.6f\n", len(y), centre)

	if opts.Plot == "" {
		return nil
	}

	xt, yt, err := loop.ParityTransform(x, y, 0, centre)
	if err != nil {
		return analysisErr("transforming loop", err)
	}

	if err := chart.LoopMirror(opts.Plot, x, y, xt, yt, 0, centre); err != nil {
		return commandErr("rendering plot", err)
	}

	return nil
}
