package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerrlab/moke/chart"
	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/dataio/table"
	"github.com/kerrlab/moke/measure/calib"
	"github.com/kerrlab/moke/report"
)

// CalibrateOptions holds flags for the calibrate command.
type CalibrateOptions struct {
	*RootOptions
	Plot string
}

// NewCalibrateCommand builds the calibrate command: loop centres against
// the polarizer offset angles.
func NewCalibrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalibrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calibrate <store.json>",
		Short: "Fit loop centres against the polarizer offset angles",
		Long: `Calibrate estimates the centre of every rotation-channel loop and fits
it against the extra polarizer angles configured for the run. The
inverse slope converts a centre shift into a rotation angle.

Example:
  moke calibrate experiment_data.json --plot calibration.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Plot, "plot", "", "write a scatter+fit PNG to this path")

	return cmd
}

func runCalibrate(opts *CalibrateOptions, cmd *cobra.Command, storePath string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	doc, err := store.Load(storePath)
	if err != nil {
		return commandErr("loading store", err)
	}

	centres, err := centresOf(doc, store.CategoryRotation)
	if err != nil {
		return analysisErr("computing centres", err)
	}

	if len(centres) != len(cfg.PolarizerAngles) {
		return analysisErr("matching angles to centres",
			fmt.Errorf("have %d centres but %d polarizer angles",
				len(centres), len(cfg.PolarizerAngles)))
	}

	fit, err := calib.Polarizer(cfg.PolarizerAngles, centres)
	if err != nil {
		return analysisErr("fitting calibration", err)
	}

	if err := report.PolarizerCalibration(cmd.OutOrStdout(), cfg.PolarizerAngles, centres, fit); err != nil {
		return analysisErr("writing report", err)
	}

	if opts.Plot != "" {
		err := chart.Fitted(opts.Plot, "Polarizer calibration", "Angle [deg]", "Centre",
			cfg.PolarizerAngles, centres, fit.Fit)
		if err != nil {
			return commandErr("rendering plot", err)
		}
	}

	return nil
}

// ManualCalibOptions holds flags for the manual-calib command.
type ManualCalibOptions struct {
	*RootOptions
}

// NewManualCalibCommand builds the manual-calib command: goniometer
// angle/signal pairs to the s = k*(theta + theta0) fit.
func NewManualCalibCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ManualCalibOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "manual-calib <pairs-file>",
		Short:         "Fit the manual calibration s = k*(theta + theta0)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManualCalib(opts, cmd, args[0])
		},
	}

	return cmd
}

func runManualCalib(opts *ManualCalibOptions, cmd *cobra.Command, pairsPath string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	f, err := os.Open(pairsPath)
	if err != nil {
		return commandErr("opening calibration file", err)
	}
	defer f.Close()

	angles, signals, err := table.ReadPairs(f)
	if err != nil {
		return analysisErr("reading calibration pairs", err)
	}

	fit, err := calib.Signal(angles, signals)
	if err != nil {
		return analysisErr("fitting calibration", err)
	}

	err = report.SignalCalibration(cmd.OutOrStdout(), angles, signals, fit, cfg.ReferenceCoefficient)
	if err != nil {
		return analysisErr("writing report", err)
	}

	return nil
}

// RelationOptions holds flags for the relation command.
type RelationOptions struct {
	*RootOptions
	Plot string
}

// NewRelationCommand builds the relation command: ellipticity centres
// against rotation centres.
func NewRelationCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RelationOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "relation <store.json>",
		Short: "Fit the ellipticity centres against the rotation centres",
		Long: `Relation pairs the loop centres of the two measurement channels, flips
the sign of the ellipticity centres recorded with an inverted channel,
and fits the linear relation between them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelation(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Plot, "plot", "", "write a scatter+fit PNG to this path")

	return cmd
}

func runRelation(opts *RelationOptions, cmd *cobra.Command, storePath string) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	doc, err := store.Load(storePath)
	if err != nil {
		return commandErr("loading store", err)
	}

	angleCentres, err := centresOf(doc, store.CategoryRotation)
	if err != nil {
		return analysisErr("computing rotation centres", err)
	}

	ellCentres, err := centresOf(doc, store.CategoryEllipticity)
	if err != nil {
		return analysisErr("computing ellipticity centres", err)
	}

	if len(angleCentres) != len(ellCentres) {
		return analysisErr("pairing centres",
			fmt.Errorf("have %d rotation but %d ellipticity experiments",
				len(angleCentres), len(ellCentres)))
	}

	fit, corrected, err := calib.Relation(angleCentres, ellCentres, cfg.FlipEllipticity)
	if err != nil {
		return analysisErr("fitting relation", err)
	}

	if err := report.Relation(cmd.OutOrStdout(), angleCentres, corrected, fit); err != nil {
		return analysisErr("writing report", err)
	}

	if opts.Plot != "" {
		err := chart.Fitted(opts.Plot, "Rotation/ellipticity relation",
			"Angle centre", "Ellipticity centre", angleCentres, corrected, fit)
		if err != nil {
			return commandErr("rendering plot", err)
		}
	}

	return nil
}
