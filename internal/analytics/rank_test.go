package analytics

import (
	"fmt"
	"testing"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

func TestRankByCLVStableDescending(t *testing.T) {
	tbl := mustTable(t, fiveCustomers())
	r := RankByCLV(tbl, TopN)

	if r.Insufficient {
		t.Fatalf("unexpected insufficient ranking")
	}
	// C1 and C5 tie at 420.5 and keep table order; C2 has no CLV.
	if got, want := ids(r.Rows), []string{"C1", "C5", "C4", "C3"}; !equalStrings(got, want) {
		t.Fatalf("ranking = %v, want %v", got, want)
	}
}

func TestRankByCLVTruncatesToTopN(t *testing.T) {
	var rows []model.CustomerRecord
	for i := 0; i < 25; i++ {
		rec := model.CustomerRecord{CustomerID: fmt.Sprintf("C%02d", i), Segment: "Gold", CLV6M: f(float64(i))}
		if i%5 == 0 {
			rec.CLV6M = nil
		}
		rows = append(rows, rec)
	}
	tbl := mustTable(t, rows)
	r := RankByCLV(tbl, TopN)

	if len(r.Rows) != TopN {
		t.Fatalf("len = %d, want %d", len(r.Rows), TopN)
	}
	for i := 1; i < len(r.Rows); i++ {
		if *r.Rows[i-1].CLV6M < *r.Rows[i].CLV6M {
			t.Fatalf("ranking not descending at %d: %v", i, ids(r.Rows))
		}
	}
	if r.Rows[0].CustomerID != "C24" {
		t.Fatalf("top = %s, want C24", r.Rows[0].CustomerID)
	}
}

func TestRankByCLVFewerThanN(t *testing.T) {
	rows := []model.CustomerRecord{
		{CustomerID: "A", Segment: "Gold", CLV6M: f(5)},
		{CustomerID: "B", Segment: "Gold"},
	}
	r := RankByCLV(mustTable(t, rows), TopN)
	if len(r.Rows) != 1 {
		t.Fatalf("len = %d, want 1", len(r.Rows))
	}
}

func TestRankByCLVInsufficient(t *testing.T) {
	rows := fiveCustomers()
	for i := range rows {
		rows[i].CLV6M = nil
	}
	r := RankByCLV(mustTable(t, rows), TopN)

	if !r.Insufficient || len(r.Rows) != 0 {
		t.Fatalf("expected empty insufficient ranking, got %+v", r)
	}
	if r.Message != InsufficientCLVMessage {
		t.Fatalf("message = %q", r.Message)
	}
}
