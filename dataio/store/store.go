package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
)

// Measurement categories as they appear in the instrument logs. The
// labels are the instrument's own (Chinese) channel names and double as
// JSON keys, so renaming them would orphan existing stores.
const (
	CategoryRotation    = "克尔转角" // Kerr rotation angle
	CategoryEllipticity = "克尔椭率" // Kerr ellipticity
)

// Categories lists the known categories in report order.
var Categories = []string{CategoryRotation, CategoryEllipticity}

// Errors returned by store functions.
var (
	ErrMissingSource   = errors.New("store: source file not found")
	ErrMalformedSource = errors.New("store: malformed source")
	ErrEmptyDocument   = errors.New("store: no usable experiments")
)

// Experiment is one measured hysteresis sweep: paired field (mT) and
// signal samples.
type Experiment struct {
	X []float64
	Y []float64
}

// Len returns the number of samples.
func (e Experiment) Len() int { return len(e.X) }

// Document groups raw experiments by measurement category.
type Document struct {
	Categories map[string][]Experiment
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Categories: make(map[string][]Experiment)}
}

// Experiments returns the experiments for a category, nil when absent.
func (d *Document) Experiments(category string) []Experiment {
	return d.Categories[category]
}

// Total returns the number of experiments across all categories.
func (d *Document) Total() int {
	n := 0
	for _, exps := range d.Categories {
		n += len(exps)
	}

	return n
}

// rawExperiment is the wire form: a two-element array [xList, yList].
type rawExperiment [][]float64

// Load reads a raw store. Experiments with a broken shape (not an
// [x, y] pair, or mismatched lengths) are skipped with a warning; the
// load fails only when the file is unreadable, not JSON, or yields no
// usable experiment at all.
func Load(path string) (*Document, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}

		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	var raw map[string][]rawExperiment
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}

	doc := NewDocument()

	for category, exps := range raw {
		for i, exp := range exps {
			if len(exp) != 2 || len(exp[0]) != len(exp[1]) {
				slog.Warn("skipping malformed experiment",
					"path", path, "category", category, "index", i+1)
				continue
			}

			doc.Categories[category] = append(doc.Categories[category], Experiment{
				X: exp[0],
				Y: exp[1],
			})
		}
	}

	if doc.Total() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}

	return doc, nil
}

// Save writes a raw store with 2-space indentation.
func Save(path string, doc *Document) error {
	raw := make(map[string][]rawExperiment, len(doc.Categories))
	for category, exps := range doc.Categories {
		out := make([]rawExperiment, len(exps))
		for i, exp := range exps {
			out[i] = rawExperiment{exp.X, exp.Y}
		}

		raw[category] = out
	}

	buf, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, append(buf, '\n'), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}

	return nil
}

// Improved holds normalized loops together with the centre removed from
// each and the tail means of the normalized signal. MaxAve and MinAve
// entries are NaN for loops too short to have tails; they round-trip
// through JSON as null.
type Improved struct {
	Data    []Experiment
	Centres []float64
	MaxAve  []float64
	MinAve  []float64
}

// improvedJSON is the wire form of Improved.
type improvedJSON struct {
	Data    []rawExperiment `json:"data"`
	Centres []float64       `json:"ycentre"`
	MaxAve  []*float64      `json:"max_ave"`
	MinAve  []*float64      `json:"min_ave"`
}

func toNullable(vals []float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		if !math.IsNaN(vals[i]) {
			out[i] = &vals[i]
		}
	}

	return out
}

func fromNullable(vals []*float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}

	return out
}

// LoadImproved reads an improved store. The per-experiment lists must
// agree in length; a shorter list truncates the document to the common
// length with a warning, mirroring the writer.
func LoadImproved(path string) (*Improved, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}

		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	var raw improvedJSON
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSource, path, err)
	}

	n := len(raw.Data)
	for _, l := range []int{len(raw.Centres), len(raw.MaxAve), len(raw.MinAve)} {
		if l < n {
			n = l
		}
	}

	if n < len(raw.Data) {
		slog.Warn("improved store lists disagree in length, truncating",
			"path", path, "kept", n)
	}

	imp := &Improved{
		Centres: raw.Centres[:n],
		MaxAve:  fromNullable(raw.MaxAve[:n]),
		MinAve:  fromNullable(raw.MinAve[:n]),
	}

	for i := 0; i < n; i++ {
		exp := raw.Data[i]
		if len(exp) != 2 || len(exp[0]) != len(exp[1]) {
			return nil, fmt.Errorf("%w: %s: experiment %d has a broken shape",
				ErrMalformedSource, path, i+1)
		}

		imp.Data = append(imp.Data, Experiment{X: exp[0], Y: exp[1]})
	}

	if len(imp.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}

	return imp, nil
}

// SaveImproved writes an improved store with 2-space indentation.
func SaveImproved(path string, imp *Improved) error {
	raw := improvedJSON{
		Data:    make([]rawExperiment, len(imp.Data)),
		Centres: imp.Centres,
		MaxAve:  toNullable(imp.MaxAve),
		MinAve:  toNullable(imp.MinAve),
	}

	if raw.Centres == nil {
		raw.Centres = []float64{}
	}

	for i, exp := range imp.Data {
		raw.Data[i] = rawExperiment{exp.X, exp.Y}
	}

	buf, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, append(buf, '\n'), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}

	return nil
}
