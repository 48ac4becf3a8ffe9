package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/internal/testutil"
	"github.com/kerrlab/moke/loop"
	"github.com/kerrlab/moke/measure/calib"
)

func requirePNG(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(buf), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf[:4])
}

func sampleLoops(t *testing.T) []store.Experiment {
	t.Helper()

	var loops []store.Experiment
	for i := 0; i < 3; i++ {
		x, y := testutil.NoisyLoop(64, 10, 1, 2, 0.1*float64(i), 0.05, int64(i))
		loops = append(loops, store.Experiment{X: x, Y: y})
	}

	return loops
}

func TestLoops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loops.png")

	err := Loops(path, "Kerr rotation", "Angle [deg]", sampleLoops(t), []float64{-0.9, 0, 0.9})
	require.NoError(t, err)
	requirePNG(t, path)
}

func TestLoopsEmpty(t *testing.T) {
	err := Loops(filepath.Join(t.TempDir(), "x.png"), "t", "y", nil, nil)
	assert.ErrorIs(t, err, ErrNoSeries)
}

func TestLoopMirror(t *testing.T) {
	x, y := testutil.SymmetricLoop(64, 10, 1, 2, 0.4)

	yc, err := loop.Centre(y)
	require.NoError(t, err)

	xt, yt, err := loop.ParityTransform(x, y, 0, yc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mirror.png")
	require.NoError(t, LoopMirror(path, x, y, xt, yt, 0, yc))
	requirePNG(t, path)
}

func TestFitted(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0.1, 0.35, 0.6, 0.85, 1.1}

	fit, err := calib.Linear(x, y)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "calib.png")
	require.NoError(t, Fitted(path, "Polarizer calibration", "Angle [deg]", "Centre", x, y, fit))
	requirePNG(t, path)
}

func TestScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stat.png")

	err := Scatter(path, "Saturation vs centre", "Centre", "Saturation",
		[]float64{0.1, 0.2, 0.3}, []float64{1.0, 1.1, 0.9})
	require.NoError(t, err)
	requirePNG(t, path)
}

func TestSaveUnknownExtension(t *testing.T) {
	err := Scatter(filepath.Join(t.TempDir(), "stat.nope"), "t", "x", "y",
		[]float64{1}, []float64{1})
	assert.Error(t, err)
}
