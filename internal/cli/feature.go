package cli

import (
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kerrlab/moke/chart"
	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/dataio/table"
	"github.com/kerrlab/moke/measure/feature"
)

// FeatureOptions holds flags for the feature command.
type FeatureOptions struct {
	*RootOptions
	Out string
}

// NewFeatureCommand builds the feature command: improved stores to the
// coercivity/saturation table.
func NewFeatureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeatureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feature <improved-rotation.json> <improved-ellipticity.json>",
		Short: "Extract coercivity and saturation per experiment",
		Long: `Feature reads the improved stores of both channels and tabulates, per
experiment, the loop area (coercivity) and the saturation derived from
the tail means, with column means appended.

Example:
  moke feature improved_angle_data.json improved_ellipticity_data.json --out features.csv`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeature(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "also write the table to this CSV path")

	return cmd
}

func runFeature(opts *FeatureOptions, cmd *cobra.Command, rotPath, ellPath string) error {
	rot, err := store.LoadImproved(rotPath)
	if err != nil {
		return commandErr("loading rotation store", err)
	}

	ell, err := store.LoadImproved(ellPath)
	if err != nil {
		return commandErr("loading ellipticity store", err)
	}

	rotSat := saturations(rot)
	ellSat := saturations(ell)

	n := len(rot.Data)
	if len(ell.Data) > n {
		n = len(ell.Data)
	}

	rows := make([]table.FeatureRow, n)

	for i := 0; i < n; i++ {
		row := table.FeatureRow{
			Experiment:            i + 1,
			AngleCoercivity:       math.NaN(),
			AngleSaturation:       math.NaN(),
			EllipticityCoercivity: math.NaN(),
			EllipticitySaturation: math.NaN(),
		}

		if i < len(rot.Data) {
			c, err := feature.Coercivity(rot.Data[i].X, rot.Data[i].Y)
			if err != nil {
				return analysisErr("computing rotation coercivity", err)
			}

			row.AngleCoercivity = c
			row.AngleSaturation = rotSat[i]
		}

		if i < len(ell.Data) {
			c, err := feature.Coercivity(ell.Data[i].X, ell.Data[i].Y)
			if err != nil {
				return analysisErr("computing ellipticity coercivity", err)
			}

			row.EllipticityCoercivity = c
			row.EllipticitySaturation = ellSat[i]
		}

		rows[i] = row
	}

	if err := table.WriteFeatures(cmd.OutOrStdout(), rows); err != nil {
		return analysisErr("writing table", err)
	}

	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return commandErr("creating CSV", err)
		}
		defer f.Close()

		if err := table.WriteFeatures(f, rows); err != nil {
			return analysisErr("writing CSV", err)
		}
	}

	return nil
}

// StatOptions holds flags for the stat command.
type StatOptions struct {
	*RootOptions
	OutDir string
}

// NewStatCommand builds the stat command: saturation against centre
// figures per channel.
func NewStatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stat <improved-rotation.json> <improved-ellipticity.json>",
		Short:         "Plot saturation against loop centre per channel",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStat(opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", ".", "directory for the output PNGs")

	return cmd
}

func runStat(opts *StatOptions, rotPath, ellPath string) error {
	type channel struct {
		name string
		path string
	}

	channels := []channel{
		{"rotation", rotPath},
		{"ellipticity", ellPath},
	}

	for _, ch := range channels {
		imp, err := store.LoadImproved(ch.path)
		if err != nil {
			return commandErr("loading "+ch.name+" store", err)
		}

		sat := saturations(imp)

		var xs, ys []float64
		for i := range sat {
			if math.IsNaN(sat[i]) {
				continue
			}

			xs = append(xs, imp.Centres[i])
			ys = append(ys, sat[i])
		}

		if len(xs) == 0 {
			return analysisErr("plotting "+ch.name, chart.ErrNoSeries)
		}

		out := filepath.Join(opts.OutDir, ch.name+"_saturation.png")
		if err := chart.Scatter(out, ch.name+" saturation vs centre", "Centre", "Saturation", xs, ys); err != nil {
			return commandErr("rendering "+ch.name+" figure", err)
		}
	}

	return nil
}
