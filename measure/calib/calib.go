package calib

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ArcminPerDegree converts between the goniometer readout (arc minutes)
// and degrees.
const ArcminPerDegree = 60.0

// Errors returned by calib functions.
var (
	ErrEmptyInput      = errors.New("calib: input is empty")
	ErrLengthMismatch  = errors.New("calib: x and y must have the same length")
	ErrTooFewPoints    = errors.New("calib: need at least two points")
	ErrDegenerateSlope = errors.New("calib: slope is too close to zero")
	ErrZeroReference   = errors.New("calib: reference coefficient is zero")
	ErrFlipIndex       = errors.New("calib: flip index out of range")
)

// Fit is a least-squares straight line y = Slope*x + Intercept.
type Fit struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// Predict evaluates the fitted line at x.
func (f Fit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// Linear fits y against x by ordinary least squares. R2 is defined as
// zero when the observations carry no variance, so a constant signal
// never divides by zero.
func Linear(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, ErrLengthMismatch
	}

	if len(x) < 2 {
		return Fit{}, ErrTooFewPoints
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	fit := Fit{Slope: beta, Intercept: alpha}

	mean := stat.Mean(y, nil)
	ssTot := 0.0
	for _, v := range y {
		d := v - mean
		ssTot += d * d
	}

	if ssTot > 0 {
		fit.R2 = stat.RSquared(x, y, nil, alpha, beta)
	}

	return fit, nil
}

// residuals returns y[i] - fit(x[i]) for each point.
func residuals(fit Fit, x, y []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = y[i] - fit.Predict(x[i])
	}

	return out
}

// PolarizerFit relates loop centres to the known extra polarizer angles.
type PolarizerFit struct {
	Fit
	Factor    float64   // degrees of polarizer rotation per unit of centre
	Residuals []float64 // centre minus fitted centre, per point
}

// Polarizer fits the measured loop centres against the polarizer offset
// angles (degrees) applied per experiment. The inverse slope converts a
// centre shift back into a rotation angle; a near-zero slope means the
// centres carry no angle information and is rejected.
func Polarizer(angles, centres []float64) (PolarizerFit, error) {
	fit, err := Linear(angles, centres)
	if err != nil {
		return PolarizerFit{}, err
	}

	if math.Abs(fit.Slope) <= 1e-10 {
		return PolarizerFit{}, ErrDegenerateSlope
	}

	return PolarizerFit{
		Fit:       fit,
		Factor:    1 / fit.Slope,
		Residuals: residuals(fit, angles, centres),
	}, nil
}

// SignalFit is the manual calibration s = K*(theta + Theta0) with the
// goniometer angle theta in arc minutes.
type SignalFit struct {
	K         float64 // signal units per arc minute
	Theta0    float64 // zero offset in arc minutes
	KPerDeg   float64 // K expressed per degree
	Theta0Deg float64 // Theta0 expressed in degrees
	R2        float64
	Residuals []float64
}

// Signal fits the measured signal against the goniometer angle in arc
// minutes. The line s = k*theta + b is reparametrized as s = k*(theta +
// theta0) with theta0 = b/k; a zero slope leaves theta0 at zero.
func Signal(anglesArcmin, signals []float64) (SignalFit, error) {
	fit, err := Linear(anglesArcmin, signals)
	if err != nil {
		return SignalFit{}, err
	}

	out := SignalFit{
		K:         fit.Slope,
		KPerDeg:   fit.Slope * ArcminPerDegree,
		R2:        fit.R2,
		Residuals: residuals(fit, anglesArcmin, signals),
	}

	if fit.Slope != 0 {
		out.Theta0 = fit.Intercept / fit.Slope
		out.Theta0Deg = out.Theta0 / ArcminPerDegree
	}

	return out, nil
}

// CompareReference returns the relative deviation, in percent, of the
// fitted per-degree coefficient from a reference coefficient.
func (f SignalFit) CompareReference(ref float64) (float64, error) {
	if ref == 0 {
		return 0, ErrZeroReference
	}

	return math.Abs(f.KPerDeg-ref) / math.Abs(ref) * 100, nil
}

// Relation fits the ellipticity centres against the rotation-angle
// centres of the paired experiments. The detector inverts the sign of
// the ellipticity channel for the experiments listed in flip (1-based
// experiment indices); those centres are negated before fitting. The
// returned slice holds the sign-corrected ellipticity centres.
func Relation(angleCentres, ellCentres []float64, flip []int) (Fit, []float64, error) {
	if len(angleCentres) != len(ellCentres) {
		return Fit{}, nil, ErrLengthMismatch
	}

	corrected := make([]float64, len(ellCentres))
	copy(corrected, ellCentres)

	for _, idx := range flip {
		if idx < 1 || idx > len(corrected) {
			return Fit{}, nil, ErrFlipIndex
		}

		corrected[idx-1] = -corrected[idx-1]
	}

	fit, err := Linear(angleCentres, corrected)
	if err != nil {
		return Fit{}, nil, err
	}

	return fit, corrected, nil
}
