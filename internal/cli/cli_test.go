package cli

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/internal/testutil"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

const sampleLog = `<line>
克尔转角
<data>:
-10.0 0.1 -0.4
-5.0 0.2 -0.2
0.0 0.3 0.1
5.0 0.4 0.3
10.0 0.5 0.5
5.0 0.4 0.4
0.0 0.3 0.2
-5.0 0.2 -0.1
-10.0 0.1 -0.4
</line>
<line>
克尔椭率
<data>:
-10.0 0.1 0.04
0.0 0.2 0.01
10.0 0.3 -0.05
0.0 0.2 -0.01
</line>`

func writeSampleStore(t *testing.T, dir string) string {
	t.Helper()

	doc := store.NewDocument()

	for i := 0; i < 2; i++ {
		x, y := testutil.NoisyLoop(40, 10, 1, 2, 0.1*float64(i+1), 0.02, int64(i))
		doc.Categories[store.CategoryRotation] = append(
			doc.Categories[store.CategoryRotation], store.Experiment{X: x, Y: y})

		ex, ey := testutil.NoisyLoop(40, 10, 0.05, 2, -0.01*float64(i+1), 0.001, int64(i+10))
		doc.Categories[store.CategoryEllipticity] = append(
			doc.Categories[store.CategoryEllipticity], store.Experiment{X: ex, Y: ey})
	}

	path := filepath.Join(dir, "experiment_data.json")
	require.NoError(t, store.Save(path, doc))

	return path
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "moke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "4deg.txt")
	require.NoError(t, os.WriteFile(logPath, []byte(sampleLog), 0o644))

	outPath := filepath.Join(dir, "out.json")

	_, err := execute(t, "parse", logPath, "--out", outPath)
	require.NoError(t, err)

	doc, err := store.Load(outPath)
	require.NoError(t, err)
	assert.Len(t, doc.Experiments(store.CategoryRotation), 1)
	assert.Len(t, doc.Experiments(store.CategoryEllipticity), 1)
}

func TestParseCommandMissingFile(t *testing.T) {
	_, err := execute(t, "parse", filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "raw.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("-10 .1 -.4\n10 .2 .4\n"), 0o644))

	_, err := execute(t, "convert", inPath)
	require.NoError(t, err)

	buf, err := os.ReadFile(filepath.Join(dir, "raw.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(buf), "Position,Measurement1,Measurement2")
	assert.Contains(t, string(buf), "-10,0.1,-0.4")
}

func TestCentreCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "loop.csv")
	body := "Position,Measurement1,Measurement2\n-10,0,1\n0,0,3\n10,0,5\n0,0,7\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(body), 0o644))

	plotPath := filepath.Join(dir, "centre.png")

	out, err := execute(t, "centre", csvPath, "--plot", plotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "centre: 4.000000")

	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	storePath := writeSampleStore(t, dir)

	out, err := execute(t, "normalize", storePath, "--plot-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, store.CategoryRotation)
	assert.Contains(t, out, "summary:")

	for _, category := range store.Categories {
		_, err := os.Stat(filepath.Join(dir, category+".png"))
		assert.NoError(t, err)
	}
}

func TestImproveAndFeatureAndStat(t *testing.T) {
	dir := t.TempDir()
	storePath := writeSampleStore(t, dir)

	rotPath := filepath.Join(dir, "improved_rotation.json")
	out, err := execute(t, "improve", storePath, "--category", "rotation", "--out", rotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "improvement")
	assert.Contains(t, out, "Spread summary:")

	ellPath := filepath.Join(dir, "improved_ellipticity.json")
	_, err = execute(t, "improve", storePath, "--category", "ellipticity", "--out", ellPath)
	require.NoError(t, err)

	// Improved stores round-trip with finite tail means.
	imp, err := store.LoadImproved(rotPath)
	require.NoError(t, err)
	for i := range imp.Data {
		assert.False(t, math.IsNaN(imp.MaxAve[i]))
		assert.False(t, math.IsNaN(imp.MinAve[i]))
	}

	out, err = execute(t, "feature", rotPath, ellPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Experiment,AngleCoercivity")
	assert.Contains(t, out, "Mean,")

	_, err = execute(t, "stat", rotPath, ellPath, "--out-dir", dir)
	require.NoError(t, err)

	for _, name := range []string{"rotation_saturation.png", "ellipticity_saturation.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func TestImproveUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	storePath := writeSampleStore(t, dir)

	_, err := execute(t, "improve", storePath, "--category", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCalibrateCommand(t *testing.T) {
	dir := t.TempDir()
	storePath := writeSampleStore(t, dir)
	cfgPath := writeConfig(t, dir, "polarizer_angles: [0, 1]\n")

	out, err := execute(t, "calibrate", storePath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Polarizer calibration")
	assert.Contains(t, out, "Factor:")
}

func TestCalibrateAngleCountMismatch(t *testing.T) {
	dir := t.TempDir()
	storePath := writeSampleStore(t, dir)

	// Default config expects five experiments; the store has two.
	_, err := execute(t, "calibrate", storePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestManualCalibCommand(t *testing.T) {
	dir := t.TempDir()
	pairsPath := filepath.Join(dir, "pairs.txt")
	body := "# angle signal\n-60 -0.06\n-30 0.0\n0 0.06\n30 0.12\n60 0.18\n"
	require.NoError(t, os.WriteFile(pairsPath, []byte(body), 0o644))

	out, err := execute(t, "manual-calib", pairsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Manual calibration")
	assert.Contains(t, out, "Deviation:")
}

func TestRelationCommand(t *testing.T) {
	dir := t.TempDir()
	storePath := writeSampleStore(t, dir)
	cfgPath := writeConfig(t, dir, "flip_ellipticity: [1, 2]\n")

	plotPath := filepath.Join(dir, "relation.png")

	out, err := execute(t, "relation", storePath, "--config", cfgPath, "--plot", plotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Rotation/ellipticity relation")
	assert.Contains(t, out, "R^2:")

	_, err = os.Stat(plotPath)
	assert.NoError(t, err)
}

func TestFresnelCommand(t *testing.T) {
	out, err := execute(t, "fresnel", "--n", "1.5", "--alpha", "30", "--theta", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "total reflection:  true")
	assert.Contains(t, out, "axis ratio:")
}

func TestFresnelInvalidInput(t *testing.T) {
	_, err := execute(t, "fresnel", "--n", "0.5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
