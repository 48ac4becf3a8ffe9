package loop

import (
	"errors"
	"math"
)

// Errors returned by loop functions.
var (
	ErrEmptyInput     = errors.New("loop: input is empty")
	ErrLengthMismatch = errors.New("loop: x and y must have the same length")
	ErrOddLength      = errors.New("loop: length must be even")
)

// Centre estimates the vertical symmetry centre of a closed loop.
//
// The estimate minimizes the squared distance between the curve and its
// point-reflection through (xc, yc):
//
//	L(yc) = Σ (y[i] - (2*yc - y[j]))²
//
// where j indexes the reflected, half-period-shifted samples. Expanding
// the square shows L is a convex quadratic in yc; setting dL/dyc = 0 and
// telescoping the pair sums leaves the arithmetic mean of y, so the
// minimizer is mean(y) regardless of the pairing.
func Centre(y []float64) (float64, error) {
	if len(y) == 0 {
		return 0, ErrEmptyInput
	}

	sum := 0.0
	for _, v := range y {
		sum += v
	}

	return sum / float64(len(y)), nil
}

// ParityTransform point-reflects the loop through (xc, yc) and shifts the
// result by half a period, so that a perfectly symmetric loop maps onto
// itself sample for sample.
//
// Each sample becomes (2*xc - x[i], 2*yc - y[i]), then both sequences are
// rotated so the sample at index i lands at (i + n/2) mod n. Applying the
// transform twice with the same centre restores the input.
func ParityTransform(x, y []float64, xc, yc float64) ([]float64, []float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, nil, ErrEmptyInput
	}

	if len(x) != len(y) {
		return nil, nil, ErrLengthMismatch
	}

	if len(x)%2 != 0 {
		return nil, nil, ErrOddLength
	}

	n := len(x)
	half := n / 2
	xt := make([]float64, n)
	yt := make([]float64, n)

	for i := 0; i < n; i++ {
		j := (i + half) % n
		xt[j] = 2*xc - x[i]
		yt[j] = 2*yc - y[i]
	}

	return xt, yt, nil
}

// Normalize shifts a loop so its vertical centre sits at zero. It returns
// copies of x and the shifted y together with the centre that was removed.
func Normalize(x, y []float64) ([]float64, []float64, float64, error) {
	if len(x) != len(y) {
		return nil, nil, 0, ErrLengthMismatch
	}

	c, err := Centre(y)
	if err != nil {
		return nil, nil, 0, err
	}

	nx := make([]float64, len(x))
	ny := make([]float64, len(y))
	copy(nx, x)

	for i, v := range y {
		ny[i] = v - c
	}

	return nx, ny, c, nil
}

// Summary holds one-pass statistics of a loop's signal channel.
type Summary struct {
	Length int
	Mean   float64
	Min    float64
	Max    float64
	Range  float64 // max - min
	StdDev float64 // population standard deviation
}

// Summarize computes summary statistics in a single pass using Welford's
// update for the variance. An empty input yields a zero Summary.
func Summarize(y []float64) Summary {
	if len(y) == 0 {
		return Summary{}
	}

	s := Summary{
		Length: len(y),
		Min:    y[0],
		Max:    y[0],
	}

	mean := 0.0
	m2 := 0.0

	for i, v := range y {
		if v < s.Min {
			s.Min = v
		}

		if v > s.Max {
			s.Max = v
		}

		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}

	s.Mean = mean
	s.Range = s.Max - s.Min
	s.StdDev = math.Sqrt(m2 / float64(len(y)))

	return s
}
