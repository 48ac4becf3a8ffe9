package cli

import (
	"fmt"
	"math"

	"github.com/kerrlab/moke/dataio/store"
	"github.com/kerrlab/moke/internal/config"
	"github.com/kerrlab/moke/loop"
	"github.com/kerrlab/moke/measure/feature"
)

// loadConfig resolves the run configuration for a command.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, commandErr("loading configuration", err)
	}

	return cfg, nil
}

// centresOf computes the loop centre of every experiment in a category.
func centresOf(doc *store.Document, category string) ([]float64, error) {
	exps := doc.Experiments(category)
	if len(exps) == 0 {
		return nil, fmt.Errorf("no %s experiments", category)
	}

	centres := make([]float64, len(exps))

	for i, exp := range exps {
		c, err := loop.Centre(exp.Y)
		if err != nil {
			return nil, fmt.Errorf("experiment %d: %w", i+1, err)
		}

		centres[i] = c
	}

	return centres, nil
}

// improve normalizes every experiment of a category and attaches the
// tail means of the normalized signal. Loops shorter than the tail
// count keep NaN tail means.
func improve(doc *store.Document, category string, tailCount int) (*store.Improved, error) {
	exps := doc.Experiments(category)
	if len(exps) == 0 {
		return nil, fmt.Errorf("no %s experiments", category)
	}

	imp := &store.Improved{}

	for i, exp := range exps {
		nx, ny, centre, err := loop.Normalize(exp.X, exp.Y)
		if err != nil {
			return nil, fmt.Errorf("experiment %d: %w", i+1, err)
		}

		maxAve, minAve := math.NaN(), math.NaN()
		if exp.Len() >= tailCount {
			maxAve, minAve, err = feature.TailMeans(ny, tailCount)
			if err != nil {
				return nil, fmt.Errorf("experiment %d: %w", i+1, err)
			}
		}

		imp.Data = append(imp.Data, store.Experiment{X: nx, Y: ny})
		imp.Centres = append(imp.Centres, centre)
		imp.MaxAve = append(imp.MaxAve, maxAve)
		imp.MinAve = append(imp.MinAve, minAve)
	}

	return imp, nil
}

// finiteOnly filters NaN and Inf values out of a slice.
func finiteOnly(vals []float64) []float64 {
	out := vals[:0:0]
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}

	return out
}

// saturations derives (max-min)/2 per experiment of an improved store;
// experiments without tail means yield NaN.
func saturations(imp *store.Improved) []float64 {
	out := make([]float64, len(imp.Data))
	for i := range imp.Data {
		out[i] = (imp.MaxAve[i] - imp.MinAve[i]) / 2
	}

	return out
}
