package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Errors returned by table functions.
var (
	ErrTooFewColumns = errors.New("table: need at least three columns")
	ErrNoRows        = errors.New("table: no data rows")
)

// Header written by ConvertDump and expected by ReadXY.
var Header = []string{"Position", "Measurement1", "Measurement2"}

var numberRe = regexp.MustCompile(`-?\d*\.?\d+`)

// ReadXY reads a three-or-more-column CSV and returns column 1 as x and
// column 3 as y. The header row and rows whose columns do not parse as
// numbers are skipped; a row with fewer than three fields fails the read.
func ReadXY(r io.Reader) (x, y []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, nil, fmt.Errorf("table: read: %w", err)
		}

		if len(rec) < 3 {
			return nil, nil, ErrTooFewColumns
		}

		xv, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		yv, errY := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)

		if errX != nil || errY != nil {
			// Header or stray text row.
			continue
		}

		x = append(x, xv)
		y = append(y, yv)
	}

	if len(x) == 0 {
		return nil, nil, ErrNoRows
	}

	return x, y, nil
}

// ReadPairs reads a whitespace-separated two-column text file, e.g. the
// manual calibration log of goniometer angle and signal. Blank lines
// and lines starting with '#' are skipped; any other malformed line
// fails the read.
func ReadPairs(r io.Reader) (a, b []float64, err error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("table: read: %w", err)
	}

	for i, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("table: line %d: need two columns", i+1)
		}

		av, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("table: line %d: %w", i+1, err)
		}

		bv, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("table: line %d: %w", i+1, err)
		}

		a = append(a, av)
		b = append(b, bv)
	}

	if len(a) == 0 {
		return nil, nil, ErrNoRows
	}

	return a, b, nil
}

// repairDecimal prefixes a bare leading decimal point with a zero, so
// ".5" and "-.5" become "0.5" and "-0.5".
func repairDecimal(s string) string {
	if strings.HasPrefix(s, ".") {
		return "0" + s
	}

	if strings.HasPrefix(s, "-.") {
		return "-0" + s[1:]
	}

	return s
}

// ConvertDump extracts numeric triples from free-form text and writes
// them as a headed CSV. Lines with fewer than three numbers are skipped
// with a warning. Returns the number of data rows written.
func ConvertDump(r io.Reader, w io.Writer) (int, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("table: read: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("table: write header: %w", err)
	}

	rows := 0

	for i, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		nums := numberRe.FindAllString(line, -1)
		if len(nums) < 3 {
			slog.Warn("line has too few numbers", "line", i+1)
			continue
		}

		rec := make([]string, 3)
		ok := true

		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(repairDecimal(nums[j]), 64)
			if err != nil {
				slog.Warn("line has an unparseable number", "line", i+1, "token", nums[j])
				ok = false
				break
			}

			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}

		if !ok {
			continue
		}

		if err := cw.Write(rec); err != nil {
			return rows, fmt.Errorf("table: write row: %w", err)
		}

		rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("table: flush: %w", err)
	}

	if rows == 0 {
		return 0, ErrNoRows
	}

	return rows, nil
}

// FeatureRow is one experiment's entry in the feature table. NaN fields
// render as empty cells.
type FeatureRow struct {
	Experiment            int
	AngleCoercivity       float64
	AngleSaturation       float64
	EllipticityCoercivity float64
	EllipticitySaturation float64
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

func meanIgnoringNaN(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}

	if n == 0 {
		return math.NaN()
	}

	return sum / float64(n)
}

// WriteFeatures writes the per-experiment feature table followed by a
// blank row and the column means.
func WriteFeatures(w io.Writer, rows []FeatureRow) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	cw := csv.NewWriter(w)

	header := []string{"Experiment", "AngleCoercivity", "AngleSaturation",
		"EllipticityCoercivity", "EllipticitySaturation"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("table: write header: %w", err)
	}

	var ac, as, ec, es []float64

	for _, row := range rows {
		rec := []string{
			strconv.Itoa(row.Experiment),
			cell(row.AngleCoercivity),
			cell(row.AngleSaturation),
			cell(row.EllipticityCoercivity),
			cell(row.EllipticitySaturation),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("table: write row: %w", err)
		}

		ac = append(ac, row.AngleCoercivity)
		as = append(as, row.AngleSaturation)
		ec = append(ec, row.EllipticityCoercivity)
		es = append(es, row.EllipticitySaturation)
	}

	if err := cw.Write([]string{"", "", "", "", ""}); err != nil {
		return fmt.Errorf("table: write separator: %w", err)
	}

	mean := []string{
		"Mean",
		cell(meanIgnoringNaN(ac)),
		cell(meanIgnoringNaN(as)),
		cell(meanIgnoringNaN(ec)),
		cell(meanIgnoringNaN(es)),
	}
	if err := cw.Write(mean); err != nil {
		return fmt.Errorf("table: write mean row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("table: flush: %w", err)
	}

	return nil
}
