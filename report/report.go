package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/loop"
	"github.com/kerrlab/moke/measure/calib"
)

// CentreEntry pairs a category label with its per-experiment centres.
type CentreEntry struct {
	Category string
	Centres  []float64
}

// Centres writes the per-experiment loop centres with a summary line
// per category.
func Centres(w io.Writer, entries []CentreEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Category\tExperiment\tCentre\n")
	fmt.Fprintf(tw, "--------\t----------\t------\n")

	for _, e := range entries {
		for i, c := range e.Centres {
			fmt.Fprintf(tw, "%s\t%d\t%.6f\n", e.Category, i+1, c)
		}
	}

	fmt.Fprintf(tw, "\n")

	for _, e := range entries {
		s := loop.Summarize(e.Centres)
		fmt.Fprintf(tw, "%s summary:\tmean %.6f\trange %.6f\tstddev %.6f\n",
			e.Category, s.Mean, s.Range, s.StdDev)
	}

	return tw.Flush()
}

// Improvement writes the per-experiment tail means of an improved store:
// centre removed, high and low tail means, their spread and midpoint.
func Improvement(w io.Writer, category string, imp *store.Improved) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "%s improvement\n\n", category)
	fmt.Fprintf(tw, "Experiment\tPoints\tCentre\tMaxTail\tMinTail\tSpread\tMidpoint\n")
	fmt.Fprintf(tw, "----------\t------\t------\t-------\t-------\t------\t--------\n")

	var spreads []float64

	for i, exp := range imp.Data {
		maxAve, minAve := imp.MaxAve[i], imp.MinAve[i]

		if math.IsNaN(maxAve) || math.IsNaN(minAve) {
			fmt.Fprintf(tw, "%d\t%d\t%.6f\t-\t-\t-\t-\n", i+1, exp.Len(), imp.Centres[i])
			continue
		}

		spread := maxAve - minAve
		spreads = append(spreads, spread)
		fmt.Fprintf(tw, "%d\t%d\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
			i+1, exp.Len(), imp.Centres[i], maxAve, minAve, spread, (maxAve+minAve)/2)
	}

	if len(spreads) > 0 {
		s := loop.Summarize(spreads)
		fmt.Fprintf(tw, "\nSpread summary:\tmean %.6f\tstddev %.6f\n", s.Mean, s.StdDev)
	}

	return tw.Flush()
}

// PolarizerCalibration writes the polarizer-angle calibration: points,
// fitted line, residuals, and the angle-per-centre factor.
func PolarizerCalibration(w io.Writer, angles, centres []float64, fit calib.PolarizerFit) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Polarizer calibration\n\n")
	fmt.Fprintf(tw, "Angle [deg]\tCentre\tFitted\tResidual\n")
	fmt.Fprintf(tw, "-----------\t------\t------\t--------\n")

	for i := range angles {
		fmt.Fprintf(tw, "%.2f\t%.6f\t%.6f\t%+.6f\n",
			angles[i], centres[i], fit.Predict(angles[i]), fit.Residuals[i])
	}

	fmt.Fprintf(tw, "\nFit:\tcentre = %.6f * angle %+.6f\n", fit.Slope, fit.Intercept)
	fmt.Fprintf(tw, "R^2:\t%.6f\n", fit.R2)
	fmt.Fprintf(tw, "Factor:\t%.6f deg per centre unit\n", fit.Factor)

	return tw.Flush()
}

// SignalCalibration writes the manual calibration report: the measured
// points, the fit s = k*(theta + theta0) in arc minutes and degrees, and
// the comparison against the data-sheet coefficient.
func SignalCalibration(w io.Writer, anglesArcmin, signals []float64, fit calib.SignalFit, ref float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Manual calibration\n\n")
	fmt.Fprintf(tw, "Angle [arcmin]\tSignal\tResidual\n")
	fmt.Fprintf(tw, "--------------\t------\t--------\n")

	for i := range anglesArcmin {
		fmt.Fprintf(tw, "%.2f\t%.6f\t%+.6f\n", anglesArcmin[i], signals[i], fit.Residuals[i])
	}

	fmt.Fprintf(tw, "\nFit:\ts = k * (theta + theta0)\n")
	fmt.Fprintf(tw, "k:\t%.6e per arcmin\t%.6e per deg\n", fit.K, fit.KPerDeg)
	fmt.Fprintf(tw, "theta0:\t%.4f arcmin\t%.6f deg\n", fit.Theta0, fit.Theta0Deg)
	fmt.Fprintf(tw, "R^2:\t%.6f\n", fit.R2)

	rel, err := fit.CompareReference(ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(tw, "\nReference:\t%.6e per deg\n", ref)
	fmt.Fprintf(tw, "Deviation:\t%.2f%%\n", rel)

	return tw.Flush()
}

// Relation writes the rotation/ellipticity relation report: the paired
// centres after sign correction and the fitted line between them.
func Relation(w io.Writer, angleCentres, ellCentres []float64, fit calib.Fit) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Rotation/ellipticity relation\n\n")
	fmt.Fprintf(tw, "Experiment\tAngle centre\tEllipticity centre\n")
	fmt.Fprintf(tw, "----------\t------------\t------------------\n")

	for i := range angleCentres {
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\n", i+1, angleCentres[i], ellCentres[i])
	}

	fmt.Fprintf(tw, "\nFit:\tellipticity = %.6f * angle %+.6f\n", fit.Slope, fit.Intercept)
	fmt.Fprintf(tw, "R^2:\t%.6f\n", fit.R2)

	return tw.Flush()
}
