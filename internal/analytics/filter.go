package analytics

import "github.com/jmehdipour/rfm-dashboard/internal/model"

// Predicate is a single row filter.
type Predicate func(model.CustomerRecord) bool

// Predicates returns the enabled filters of cfg. An empty result keeps every row.
func Predicates(cfg RenderConfig) []Predicate {
	var ps []Predicate
	if cfg.ShowCLVOnly {
		ps = append(ps, func(r model.CustomerRecord) bool { return r.HasCLV() })
	}
	if cfg.ShowChurnOnly {
		threshold := cfg.ChurnThreshold
		ps = append(ps, func(r model.CustomerRecord) bool { return IsChurned(r, threshold) })
	}
	if cfg.Segment != "" && cfg.Segment != AllSegments {
		seg := cfg.Segment
		ps = append(ps, func(r model.CustomerRecord) bool { return r.Segment == seg })
	}
	return ps
}

// ApplyFilters returns the rows of t matching every enabled filter of cfg.
// Single pass; row order follows the table.
func ApplyFilters(t *Table, cfg RenderConfig) View {
	ps := Predicates(cfg)
	return t.All().Where(func(r model.CustomerRecord) bool {
		for _, p := range ps {
			if !p(r) {
				return false
			}
		}
		return true
	})
}
