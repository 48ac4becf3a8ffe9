// Package cli wires the analysis pipeline into the moke command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds the global flags shared by all commands.
type RootOptions struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCommand builds the moke command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "moke",
		Short: "Magneto-optic Kerr effect measurement analysis",
		Long: `moke analyses magneto-optic Kerr effect hysteresis measurements:
it parses instrument logs, estimates loop centres, extracts saturation
and coercivity, fits the calibration relations and renders figures.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}

			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML run configuration")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewCentreCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewImproveCommand(opts))
	cmd.AddCommand(NewCalibrateCommand(opts))
	cmd.AddCommand(NewManualCalibCommand(opts))
	cmd.AddCommand(NewFeatureCommand(opts))
	cmd.AddCommand(NewStatCommand(opts))
	cmd.AddCommand(NewRelationCommand(opts))
	cmd.AddCommand(NewFresnelCommand(opts))

	return cmd
}
