package testutil

import (
	"math"
	"math/rand"
)

// SymmetricLoop generates a closed, point-symmetric hysteresis loop with
// the given vertical centre and amplitude. The field sweeps from -span to
// +span and back; the signal follows a tanh branch pair, so the loop is
// exactly symmetric about (0, centre).
func SymmetricLoop(n int, span, amplitude, width, centre float64) (x, y []float64) {
	if n%2 != 0 {
		n++
	}

	half := n / 2
	x = make([]float64, n)
	y = make([]float64, n)

	for i := 0; i < half; i++ {
		f := -span + 2*span*float64(i)/float64(half-1)
		x[i] = f
		y[i] = centre + amplitude*math.Tanh((f-width)/width)
	}

	for i := 0; i < half; i++ {
		f := span - 2*span*float64(i)/float64(half-1)
		x[half+i] = f
		y[half+i] = centre + amplitude*math.Tanh((f+width)/width)
	}

	return x, y
}

// NoisyLoop adds deterministic noise to a symmetric loop.
func NoisyLoop(n int, span, amplitude, width, centre, noise float64, seed int64) (x, y []float64) {
	x, y = SymmetricLoop(n, span, amplitude, width, centre)
	rng := rand.New(rand.NewSource(seed))

	for i := range y {
		y[i] += (rng.Float64()*2 - 1) * noise
	}

	return x, y
}

// Constant returns a slice of length n filled with value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}

	return out
}

// Ramp returns n evenly spaced values from start to end inclusive.
func Ramp(start, end float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}

	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}

	return out
}
