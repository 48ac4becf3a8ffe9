package feature

import (
	"errors"
	"sort"

	"github.com/kerrlab/moke/loop"
)

// DefaultTailCount is the number of extreme samples averaged for the
// saturation estimate.
const DefaultTailCount = 7

// Errors returned by feature functions.
var (
	ErrEmptyInput     = errors.New("feature: input is empty")
	ErrLengthMismatch = errors.New("feature: x and y must have the same length")
	ErrTooFewSamples  = errors.New("feature: fewer samples than tail count")
	ErrInvalidTail    = errors.New("feature: tail count must be positive")
)

// Config controls feature extraction.
type Config struct {
	// TailCount is the number of largest and smallest samples averaged
	// to estimate the saturation branches. Zero selects DefaultTailCount.
	TailCount int
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TailCount < 0 {
		return ErrInvalidTail
	}

	return nil
}

func (c *Config) tail() int {
	if c.TailCount == 0 {
		return DefaultTailCount
	}

	return c.TailCount
}

// Result holds the extracted loop features.
type Result struct {
	Centre      float64 // vertical symmetry centre of the raw signal
	MaxTailMean float64 // mean of the k largest normalized samples
	MinTailMean float64 // mean of the k smallest normalized samples
	Saturation  float64 // (MaxTailMean - MinTailMean) / 2
	Coercivity  float64 // signed loop area
}

// TailMeans returns the means of the k largest and k smallest samples.
func TailMeans(y []float64, k int) (maxMean, minMean float64, err error) {
	if k <= 0 {
		return 0, 0, ErrInvalidTail
	}

	if len(y) == 0 {
		return 0, 0, ErrEmptyInput
	}

	if len(y) < k {
		return 0, 0, ErrTooFewSamples
	}

	sorted := make([]float64, len(y))
	copy(sorted, y)
	sort.Float64s(sorted)

	lo, hi := 0.0, 0.0
	for i := 0; i < k; i++ {
		lo += sorted[i]
		hi += sorted[len(sorted)-1-i]
	}

	return hi / float64(k), lo / float64(k), nil
}

// Coercivity computes the signed area enclosed by the loop using the
// trapezoidal rule over consecutive samples:
//
//	Σ (y[i] + y[i+1]) / 2 * (x[i+1] - x[i])
//
// The field sweep reverses direction mid-loop, so x is not monotone and
// the increments carry the sign of the traversal. A counter-clockwise
// loop yields a negative area.
func Coercivity(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}

	if len(x) < 2 {
		return 0, ErrEmptyInput
	}

	area := 0.0
	for i := 0; i < len(x)-1; i++ {
		area += 0.5 * (y[i] + y[i+1]) * (x[i+1] - x[i])
	}

	return area, nil
}

// Analyze normalizes the loop and extracts all features in one call.
func Analyze(x, y []float64, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	_, ny, centre, err := loop.Normalize(x, y)
	if err != nil {
		return Result{}, err
	}

	maxMean, minMean, err := TailMeans(ny, cfg.tail())
	if err != nil {
		return Result{}, err
	}

	coer, err := Coercivity(x, ny)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Centre:      centre,
		MaxTailMean: maxMean,
		MinTailMean: minMean,
		Saturation:  (maxMean - minMean) / 2,
		Coercivity:  coer,
	}, nil
}
