package analytics

import (
	"testing"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

func f(v float64) *float64 { return &v }

// fiveCustomers is the reference dataset: three Gold rows, three churned at 180 days.
func fiveCustomers() []model.CustomerRecord {
	return []model.CustomerRecord{
		{CustomerID: "C1", Recency: 10, Frequency: 12, Monetary: 900, RFMScore: "555", Segment: "Gold", CLV6M: f(420.5)},
		{CustomerID: "C2", Recency: 200, Frequency: 3, Monetary: 150, RFMScore: "322", Segment: "Gold", CLV6M: nil},
		{CustomerID: "C3", Recency: 400, Frequency: 1, Monetary: 20, RFMScore: "111", Segment: "Silver", CLV6M: f(12)},
		{CustomerID: "C4", Recency: 50, Frequency: 5, Monetary: 300, RFMScore: "434", Segment: "Bronze", CLV6M: f(88.25)},
		{CustomerID: "C5", Recency: 300, Frequency: 7, Monetary: 640, RFMScore: "245", Segment: "Gold", CLV6M: f(420.5)},
	}
}

func mustTable(t *testing.T, rows []model.CustomerRecord) *Table {
	t.Helper()
	tbl, err := NewTable(rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func ids(rows []model.CustomerRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.CustomerID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
