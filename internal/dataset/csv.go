package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	gbytes "github.com/labstack/gommon/bytes"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

// nullTokens are cells read as missing values.
var nullTokens = []string{"", "NA", "NaN", "nan", "null", "NULL", "<nil>"}

var utf8BOM = []byte("\xef\xbb\xbf")

// CSVLoader reads a delimited file on every Load.
type CSVLoader struct {
	Path      string
	Delimiter rune // default ','
}

func (l CSVLoader) Load(ctx context.Context) (*analytics.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, &DataLoadError{Op: "read", Source: l.Path, Err: err}
	}

	rows, err := ParseCSV(bytes.NewReader(data), l.Delimiter)
	if err != nil {
		return nil, &DataLoadError{Op: "parse", Source: l.Path, Err: err}
	}

	tbl, err := analytics.NewTable(rows)
	if err != nil {
		return nil, &DataLoadError{Op: "validate", Source: l.Path, Err: err}
	}

	logger.Log.Debug("dataset loaded",
		zap.String("path", l.Path),
		zap.String("size", gbytes.Format(int64(len(data)))),
		zap.Int("rows", tbl.Len()),
	)
	return tbl, nil
}

// ParseCSV converts a delimited table with a header row into records.
// Missing prediction columns leave the matching fields nil.
func ParseCSV(r io.Reader, delimiter rune) ([]model.CustomerRecord, error) {
	if delimiter == 0 {
		delimiter = ','
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	header, hasRows, err := readHeader(data, delimiter)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(header); err != nil {
		return nil, err
	}
	if !hasRows {
		// a header-only file is an empty table
		return []model.CustomerRecord{}, nil
	}

	// every cell is read as text; numbers are parsed below so a bad cell is reported
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.WithDelimiter(delimiter),
		dataframe.NaNValues(nullTokens),
		dataframe.DetectTypes(false),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read dataframe: %w", df.Err)
	}

	n := df.Nrow()
	ids := stringCol(df, ColCustomerID)
	scores := stringCol(df, ColRFMScore)
	segments := stringCol(df, ColSegment)

	nums := make(map[string][]float64, 6)
	for _, c := range []struct {
		name     string
		required bool
	}{
		{ColRecency, true},
		{ColFrequency, true},
		{ColMonetary, true},
		{ColPredictedPurchases6M, false},
		{ColPredictedAvgMonetary, false},
		{ColCLV6M, false},
	} {
		vals, err := floatCol(df, c.name, c.required)
		if err != nil {
			return nil, err
		}
		nums[c.name] = vals
	}

	out := make([]model.CustomerRecord, n)
	for i := 0; i < n; i++ {
		freq := nums[ColFrequency][i]
		if freq != math.Trunc(freq) {
			return nil, fmt.Errorf("row %d: Frequency must be an integer", i+1)
		}
		out[i] = model.CustomerRecord{
			CustomerID:           ids[i],
			Recency:              nums[ColRecency][i],
			Frequency:            int64(freq),
			Monetary:             nums[ColMonetary][i],
			RFMScore:             scores[i],
			Segment:              segments[i],
			PredictedPurchases6M: at(nums[ColPredictedPurchases6M], i),
			PredictedAvgMonetary: at(nums[ColPredictedAvgMonetary], i),
			CLV6M:                at(nums[ColCLV6M], i),
		}
	}
	return out, nil
}

// readHeader parses the first record and reports whether any data row follows.
func readHeader(data []byte, delimiter rune) ([]string, bool, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	header, err := cr.Read()
	if err == io.EOF {
		return nil, false, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, false, fmt.Errorf("read header: %w", err)
	}
	_, err = cr.Read()
	if err == io.EOF {
		return header, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read first row: %w", err)
	}
	return header, true, nil
}

func checkColumns(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		if present[h] {
			return fmt.Errorf("duplicate column %q", h)
		}
		present[h] = true
	}
	for _, c := range RequiredColumns {
		if !present[c] {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

// stringCol returns the column values with missing cells as "".
func stringCol(df dataframe.DataFrame, name string) []string {
	s := df.Col(name)
	vals := s.Records()
	for i, na := range s.IsNaN() {
		if na {
			vals[i] = ""
		}
	}
	return vals
}

// floatCol parses a numeric column, with missing cells as NaN. It returns nil
// when the column is absent. A missing cell in a required column, or a cell that
// is not a finite number, is an error naming the row and column.
func floatCol(df dataframe.DataFrame, name string, required bool) ([]float64, error) {
	s := df.Col(name)
	if s.Err != nil {
		return nil, nil
	}
	raw := s.Records()
	missing := s.IsNaN()

	out := make([]float64, len(raw))
	for i, cell := range raw {
		cell = strings.TrimSpace(cell)
		if missing[i] || slices.Contains(nullTokens, cell) {
			if required {
				return nil, fmt.Errorf("row %d: missing %s", i+1, name)
			}
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("row %d: invalid %s %q", i+1, name, raw[i])
		}
		out[i] = v
	}
	return out, nil
}

func at(col []float64, i int) *float64 {
	if col == nil {
		return nil
	}
	return model.Float(col[i])
}
