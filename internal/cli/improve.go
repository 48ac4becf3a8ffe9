package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kerrlab/moke/chart"
	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/report"
)

// categoryByName maps the CLI spelling of a category to its store label.
func categoryByName(name string) (string, error) {
	switch name {
	case "rotation":
		return store.CategoryRotation, nil
	case "ellipticity":
		return store.CategoryEllipticity, nil
	default:
		return "", fmt.Errorf("unknown category %q (want rotation or ellipticity)", name)
	}
}

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	PlotDir string
}

// NewNormalizeCommand builds the normalize command: raw store to centres
// report plus overlay figures.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "normalize <store.json>",
		Short:         "Normalize loops to a zero centre and report the centres",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.PlotDir, "plot-dir", "", "write per-category overlay PNGs to this directory")

	return cmd
}

func runNormalize(opts *NormalizeOptions, cmd *cobra.Command, storePath string) error {
	doc, err := store.Load(storePath)
	if err != nil {
		return commandErr("loading store", err)
	}

	var entries []report.CentreEntry

	for _, category := range store.Categories {
		if len(doc.Experiments(category)) == 0 {
			continue
		}

		imp, err := improve(doc, category, 1)
		if err != nil {
			return analysisErr("normalizing "+category, err)
		}

		entries = append(entries, report.CentreEntry{Category: category, Centres: imp.Centres})

		if opts.PlotDir != "" {
			path := filepath.Join(opts.PlotDir, category+".png")
			if err := chart.Loops(path, category, "Signal", imp.Data, []float64{0}); err != nil {
				return commandErr("rendering overlay", err)
			}
		}
	}

	if len(entries) == 0 {
		return analysisErr("normalizing", store.ErrEmptyDocument)
	}

	if err := report.Centres(cmd.OutOrStdout(), entries); err != nil {
		return analysisErr("writing report", err)
	}

	return nil
}

// ImproveOptions holds flags for the improve command.
type ImproveOptions struct {
	*RootOptions
	Category string
	Out      string
	Plot     string
}

// NewImproveCommand builds the improve command: raw store to improved
// store with tail means.
func NewImproveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImproveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "improve <store.json>",
		Short: "Normalize loops and attach tail means",
		Long: `Improve normalizes each loop of the chosen category, computes the
means of the largest and smallest samples of the normalized signal, and
writes an improved store plus a summary report.

Example:
  moke improve experiment_data.json --category rotation --out improved_angle_data.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImprove(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "rotation", "category to improve (rotation|ellipticity)")
	cmd.Flags().StringVar(&opts.Out, "out", "improved_data.json", "output improved store path")
	cmd.Flags().StringVar(&opts.Plot, "plot", "", "write an overlay PNG with tail-mean rules to this path")

	return cmd
}

func runImprove(opts *ImproveOptions, cmd *cobra.Command, storePath string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	category, err := categoryByName(opts.Category)
	if err != nil {
		return commandErr("selecting category", err)
	}

	doc, err := store.Load(storePath)
	if err != nil {
		return commandErr("loading store", err)
	}

	imp, err := improve(doc, category, cfg.TailCount)
	if err != nil {
		return analysisErr("improving "+category, err)
	}

	if err := store.SaveImproved(opts.Out, imp); err != nil {
		return commandErr("saving improved store", err)
	}

	if err := report.Improvement(cmd.OutOrStdout(), category, imp); err != nil {
		return analysisErr("writing report", err)
	}

	if opts.Plot != "" {
		rules := []float64{0}
		for i := range imp.Data {
			rules = append(rules, imp.MaxAve[i], imp.MinAve[i])
		}

		if err := chart.Loops(opts.Plot, category, "Signal", imp.Data, finiteOnly(rules)); err != nil {
			return commandErr("rendering overlay", err)
		}
	}

	return nil
}
