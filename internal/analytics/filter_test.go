package analytics

import "testing"

func TestApplyFilters(t *testing.T) {
	tbl := mustTable(t, fiveCustomers())

	tests := []struct {
		name string
		cfg  RenderConfig
		want []string
	}{
		{"no filters", DefaultRenderConfig(), []string{"C1", "C2", "C3", "C4", "C5"}},
		{"clv only", RenderConfig{ChurnThreshold: 180, ShowCLVOnly: true, Segment: AllSegments}, []string{"C1", "C3", "C4", "C5"}},
		{"churn only", RenderConfig{ChurnThreshold: 180, ShowChurnOnly: true, Segment: AllSegments}, []string{"C2", "C3", "C5"}},
		{"segment", RenderConfig{ChurnThreshold: 180, Segment: "Gold"}, []string{"C1", "C2", "C5"}},
		{"gold and churned", RenderConfig{ChurnThreshold: 180, ShowChurnOnly: true, Segment: "Gold"}, []string{"C2", "C5"}},
		{"all three", RenderConfig{ChurnThreshold: 180, ShowCLVOnly: true, ShowChurnOnly: true, Segment: "Gold"}, []string{"C5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ApplyFilters(tbl, tt.cfg).Rows())
			if !equalStrings(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// With C2 moved under the threshold, the only churned Gold row is Recency=300.
func TestApplyFiltersGoldChurnedScenario(t *testing.T) {
	rows := fiveCustomers()
	rows[1].Recency = 150 // C2 becomes active, leaving the Recency=300 Gold row
	tbl := mustTable(t, rows)

	view := ApplyFilters(tbl, RenderConfig{ChurnThreshold: 180, ShowChurnOnly: true, Segment: "Gold"})
	if view.Len() != 1 {
		t.Fatalf("len = %d, want 1", view.Len())
	}
	if r := view.Row(0); r.Recency != 300 || r.Segment != "Gold" {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestApplyFiltersIsIntersectionOfSingleFilters(t *testing.T) {
	tbl := mustTable(t, fiveCustomers())
	combined := RenderConfig{ChurnThreshold: 180, ShowCLVOnly: true, ShowChurnOnly: true, Segment: "Gold"}

	singles := []RenderConfig{
		{ChurnThreshold: 180, ShowCLVOnly: true, Segment: AllSegments},
		{ChurnThreshold: 180, ShowChurnOnly: true, Segment: AllSegments},
		{ChurnThreshold: 180, Segment: "Gold"},
	}

	counts := make(map[int]int)
	for _, cfg := range singles {
		for _, idx := range ApplyFilters(tbl, cfg).Indices() {
			counts[idx]++
		}
	}
	var intersection []int
	for i := 0; i < tbl.Len(); i++ {
		if counts[i] == len(singles) {
			intersection = append(intersection, i)
		}
	}

	got := ApplyFilters(tbl, combined).Indices()
	if len(got) != len(intersection) {
		t.Fatalf("combined %v, intersection %v", got, intersection)
	}
	for i := range got {
		if got[i] != intersection[i] {
			t.Fatalf("combined %v, intersection %v", got, intersection)
		}
	}
}

func TestApplyFiltersIsSubset(t *testing.T) {
	tbl := mustTable(t, fiveCustomers())
	seen := make(map[int]bool)
	for _, idx := range tbl.All().Indices() {
		seen[idx] = true
	}
	for _, seg := range SegmentOptions(tbl) {
		for _, clv := range []bool{false, true} {
			for _, churn := range []bool{false, true} {
				cfg := RenderConfig{ChurnThreshold: 180, ShowCLVOnly: clv, ShowChurnOnly: churn, Segment: seg}
				for _, idx := range ApplyFilters(tbl, cfg).Indices() {
					if !seen[idx] {
						t.Fatalf("cfg %+v produced foreign index %d", cfg, idx)
					}
				}
			}
		}
	}
}
