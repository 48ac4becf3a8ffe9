package cli

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kerrlab/moke/optics/fresnel"
)

// FresnelOptions holds flags for the fresnel command.
type FresnelOptions struct {
	*RootOptions
	N     float64
	Alpha float64
	Theta float64
}

// NewFresnelCommand builds the fresnel command: reflected polarization
// state for a given interface and geometry.
func NewFresnelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FresnelOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fresnel",
		Short: "Compute the reflected polarization state at an interface",
		Long: `Fresnel computes the polarization state of light reflected at the
interface between a dense and a rare medium, for relative index n and
polarization/incidence angles given in degrees.

Example:
  moke fresnel --n 1.5 --alpha 30 --theta 45`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFresnel(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.N, "n", 1.5, "relative refractive index n1/n2")
	cmd.Flags().Float64Var(&opts.Alpha, "alpha", 45, "incident polarization angle in degrees")
	cmd.Flags().Float64Var(&opts.Theta, "theta", 0, "incidence angle in degrees")

	return cmd
}

func runFresnel(opts *FresnelOptions, cmd *cobra.Command) error {
	res, err := fresnel.ReflectDeg(opts.N, opts.Alpha, opts.Theta)
	if err != nil {
		return analysisErr("computing reflection", err)
	}

	deg := func(rad float64) float64 { return rad * 180 / math.Pi }

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "n:\t%.4f\n", opts.N)
	fmt.Fprintf(tw, "alpha:\t%.2f deg\n", opts.Alpha)
	fmt.Fprintf(tw, "theta:\t%.2f deg\n", opts.Theta)
	fmt.Fprintf(tw, "critical angle:\t%.2f deg\n", deg(res.Critical))
	fmt.Fprintf(tw, "total reflection:\t%v\n", res.TotalReflection)
	fmt.Fprintf(tw, "rs:\t%.4f%+.4fi\n", real(res.RS), imag(res.RS))
	fmt.Fprintf(tw, "rp:\t%.4f%+.4fi\n", real(res.RP), imag(res.RP))
	fmt.Fprintf(tw, "alpha':\t%.4f deg\n", deg(res.AlphaPrime))
	fmt.Fprintf(tw, "eta:\t%.4f deg\n", deg(res.Eta))
	fmt.Fprintf(tw, "axis ratio:\t%.6f\n", res.Epsilon)

	return tw.Flush()
}
