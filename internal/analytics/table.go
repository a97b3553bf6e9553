// Package analytics holds the dashboard pipeline: churn partition, filters,
// KPI aggregates and the CLV ranking. Every function is a pure function of a
// Table and a RenderConfig.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

// Table is the immutable source of truth for one rendering pass.
type Table struct {
	rows     []model.CustomerRecord
	segments []string
}

// NewTable copies rows into a Table after checking the dataset invariants.
func NewTable(rows []model.CustomerRecord) (*Table, error) {
	seen := make(map[string]int, len(rows))
	segSet := make(map[string]bool)
	out := make([]model.CustomerRecord, len(rows))

	for i, r := range rows {
		id := strings.TrimSpace(r.CustomerID)
		if id == "" {
			return nil, fmt.Errorf("row %d: empty customer_id", i+1)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("row %d: duplicate customer_id %q (first seen at row %d)", i+1, id, prev+1)
		}
		seen[id] = i

		if err := CheckRecord(r); err != nil {
			return nil, fmt.Errorf("row %d (customer_id %q): %w", i+1, id, err)
		}

		r.CustomerID = id
		out[i] = r
		segSet[r.Segment] = true
	}

	segments := make([]string, 0, len(segSet))
	for s := range segSet {
		segments = append(segments, s)
	}
	sort.Strings(segments)

	return &Table{rows: out, segments: segments}, nil
}

// CheckRecord validates the per-row invariants other than id uniqueness.
func CheckRecord(r model.CustomerRecord) error {
	if strings.TrimSpace(r.Segment) == "" {
		return fmt.Errorf("empty Segment")
	}
	if !finite(r.Recency) || r.Recency < 0 {
		return fmt.Errorf("invalid Recency %v", r.Recency)
	}
	if r.Frequency < 0 {
		return fmt.Errorf("invalid Frequency %d", r.Frequency)
	}
	if !finite(r.Monetary) || r.Monetary < 0 {
		return fmt.Errorf("invalid Monetary %v", r.Monetary)
	}
	if r.HasCLV() && (!finite(*r.CLV6M) || *r.CLV6M < 0) {
		return fmt.Errorf("invalid CLV_6M %v", *r.CLV6M)
	}
	for name, p := range map[string]*float64{
		"Predicted_Purchases_6M": r.PredictedPurchases6M,
		"Predicted_Avg_Monetary": r.PredictedAvgMonetary,
	} {
		if p != nil && math.IsInf(*p, 0) {
			return fmt.Errorf("invalid %s %v", name, *p)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Len returns the row count.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th record.
func (t *Table) Row(i int) model.CustomerRecord { return t.rows[i] }

// Segments returns the observed segment values, sorted.
func (t *Table) Segments() []string {
	out := make([]string, len(t.segments))
	copy(out, t.segments)
	return out
}

// HasSegment reports whether seg is an observed segment value.
func (t *Table) HasSegment(seg string) bool {
	i := sort.SearchStrings(t.segments, seg)
	return i < len(t.segments) && t.segments[i] == seg
}

// All returns a view over every row.
func (t *Table) All() View {
	idx := make([]int, len(t.rows))
	for i := range idx {
		idx[i] = i
	}
	return View{table: t, indices: idx}
}
