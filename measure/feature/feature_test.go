package feature

import (
	"errors"
	"math"
	"testing"

	"github.com/kerrlab/moke/internal/testutil"
)

func TestTailMeans(t *testing.T) {
	y := []float64{5, 1, 4, 2, 3, 0, 6, -1}

	maxMean, minMean, err := TailMeans(y, 3)
	if err != nil {
		t.Fatalf("TailMeans error: %v", err)
	}

	testutil.RequireNear(t, maxMean, 5, 1e-15) // (6+5+4)/3
	testutil.RequireNear(t, minMean, 0, 1e-15) // (-1+0+1)/3
}

func TestTailMeansDoesNotMutate(t *testing.T) {
	y := []float64{3, 1, 2}

	_, _, err := TailMeans(y, 1)
	if err != nil {
		t.Fatalf("TailMeans error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, y, []float64{3, 1, 2}, 0)
}

func TestTailMeansTooFew(t *testing.T) {
	_, _, err := TailMeans([]float64{1, 2, 3}, 7)
	if !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("error = %v, want ErrTooFewSamples", err)
	}
}

func TestTailMeansBadCount(t *testing.T) {
	_, _, err := TailMeans([]float64{1, 2, 3}, 0)
	if !errors.Is(err, ErrInvalidTail) {
		t.Fatalf("error = %v, want ErrInvalidTail", err)
	}
}

func TestCoercivityRectangle(t *testing.T) {
	// Clockwise rectangle of width 4 and height 2.
	x := []float64{-2, 2, 2, -2, -2}
	y := []float64{1, 1, -1, -1, 1}

	a, err := Coercivity(x, y)
	if err != nil {
		t.Fatalf("Coercivity error: %v", err)
	}

	testutil.RequireNear(t, a, 8, 1e-12)
}

func TestCoercivityOrientation(t *testing.T) {
	x := []float64{-2, 2, 2, -2, -2}
	y := []float64{-1, -1, 1, 1, -1}

	a, err := Coercivity(x, y)
	if err != nil {
		t.Fatalf("Coercivity error: %v", err)
	}

	testutil.RequireNear(t, a, -8, 1e-12)
}

func TestCoercivityDegenerateLoop(t *testing.T) {
	// Out-and-back sweep over the same branch encloses no area.
	x := []float64{0, 1, 2, 1, 0}
	y := []float64{0, 1, 4, 1, 0}

	a, err := Coercivity(x, y)
	if err != nil {
		t.Fatalf("Coercivity error: %v", err)
	}

	testutil.RequireNear(t, a, 0, 1e-12)
}

func TestCoercivityErrors(t *testing.T) {
	if _, err := Coercivity([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("error = %v, want ErrLengthMismatch", err)
	}

	if _, err := Coercivity([]float64{1}, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
}

func TestAnalyzeSymmetricLoop(t *testing.T) {
	x, y := testutil.SymmetricLoop(200, 10, 1, 2, 0.5)

	res, err := Analyze(x, y, Config{})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	testutil.RequireNear(t, res.Centre, 0.5, 1e-12)

	// The branches saturate near ±1 once normalized.
	if res.Saturation < 0.9 || res.Saturation > 1.0 {
		t.Fatalf("Saturation = %v, want close to 1", res.Saturation)
	}

	// Tail means of a symmetric normalized loop mirror each other.
	testutil.RequireNear(t, res.MaxTailMean, -res.MinTailMean, 1e-9)

	if math.IsNaN(res.Coercivity) {
		t.Fatal("Coercivity is NaN")
	}
}

func TestAnalyzeConstantSignal(t *testing.T) {
	x := testutil.Ramp(-5, 5, 20)
	y := testutil.Constant(3, 20)

	res, err := Analyze(x, y, Config{TailCount: 5})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	testutil.RequireNear(t, res.Centre, 3, 1e-15)
	testutil.RequireNear(t, res.Saturation, 0, 1e-15)
	testutil.RequireNear(t, res.Coercivity, 0, 1e-12)
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{TailCount: -1}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTail) {
		t.Fatalf("error = %v, want ErrInvalidTail", err)
	}
}
