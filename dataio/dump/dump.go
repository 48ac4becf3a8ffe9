package dump

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kerrlab/moke/dataio/store"
)

// DefaultMaxPerCategory caps how many experiments per category a parse
// keeps; the measurement protocol records five sweeps per channel.
const DefaultMaxPerCategory = 5

// Errors returned by the parser.
var (
	ErrMissingSource = errors.New("dump: source file not found")
	ErrNoBlocks      = errors.New("dump: no <line> blocks found")
	ErrNoData        = errors.New("dump: no usable data blocks")
)

var (
	blockRe = regexp.MustCompile(`(?s)<line>(.*?)</line>`)
	dataRe  = regexp.MustCompile(`(?s)<data>:(.*)`)
	fieldRe = regexp.MustCompile(`\s+`)
)

// Parser extracts experiments from an instrument log.
type Parser struct {
	// Markers maps a category name to the substring that identifies a
	// block as belonging to it. Nil selects the instrument's stock
	// channel labels.
	Markers map[string]string

	// MaxPerCategory caps kept experiments per category; zero selects
	// DefaultMaxPerCategory, a negative value disables the cap.
	MaxPerCategory int
}

func (p *Parser) markers() map[string]string {
	if p.Markers != nil {
		return p.Markers
	}

	return map[string]string{
		store.CategoryRotation:    store.CategoryRotation,
		store.CategoryEllipticity: store.CategoryEllipticity,
	}
}

func (p *Parser) cap() int {
	if p.MaxPerCategory == 0 {
		return DefaultMaxPerCategory
	}

	return p.MaxPerCategory
}

// Parse reads the whole log and groups the recognized blocks into a
// document. Blocks without a recognizable category, empty blocks and
// unparseable rows are skipped with a warning; Parse fails only when
// the log has no blocks at all or none of them yields data.
func (p *Parser) Parse(r io.Reader) (*store.Document, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dump: read: %w", err)
	}

	blocks := blockRe.FindAllStringSubmatch(string(buf), -1)
	if len(blocks) == 0 {
		return nil, ErrNoBlocks
	}

	doc := store.NewDocument()
	markers := p.markers()
	limit := p.cap()

	for i, m := range blocks {
		block := m[1]

		category := ""
		for name, marker := range markers {
			if strings.Contains(block, marker) {
				category = name
				break
			}
		}

		if category == "" {
			slog.Warn("block has no recognizable category", "block", i+1)
			continue
		}

		x, y := parseBlock(block)
		if len(x) == 0 {
			slog.Warn("block is empty or unparseable", "block", i+1, "category", category)
			continue
		}

		if limit > 0 && len(doc.Categories[category]) >= limit {
			slog.Warn("dropping surplus experiment", "block", i+1, "category", category)
			continue
		}

		slog.Debug("parsed block", "block", i+1, "category", category, "points", len(x))
		doc.Categories[category] = append(doc.Categories[category], store.Experiment{X: x, Y: y})
	}

	if doc.Total() == 0 {
		return nil, ErrNoData
	}

	return doc, nil
}

// ParseFile opens and parses a log file.
func (p *Parser) ParseFile(path string) (*store.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSource, path)
		}

		return nil, fmt.Errorf("dump: open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// parseBlock extracts the numeric rows of a block's <data>: section,
// keeping column 1 (field) as x and column 3 (calibrated value) as y.
// Header rows and rows that do not parse as three numbers are skipped.
func parseBlock(block string) (x, y []float64) {
	m := dataRe.FindStringSubmatch(block)
	if m == nil {
		return nil, nil
	}

	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := fieldRe.Split(line, -1)
		if len(parts) < 3 {
			continue
		}

		xv, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			continue
		}

		yv, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			continue
		}

		x = append(x, xv)
		y = append(y, yv)
	}

	return x, y
}
