package analytics

import "sort"

// SegmentCount is the number of customers in one segment.
type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int    `json:"count"`
}

// SegmentDistribution counts customers per segment over the full table,
// largest first, ties ordered by name.
func SegmentDistribution(t *Table) []SegmentCount {
	counts := make(map[string]int)
	for _, r := range t.rows {
		counts[r.Segment]++
	}

	out := make([]SegmentCount, 0, len(counts))
	for seg, n := range counts {
		out = append(out, SegmentCount{Segment: seg, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}
