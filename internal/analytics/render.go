package analytics

import "fmt"

// Result is everything one rendering pass computes.
type Result struct {
	Config       RenderConfig
	Aggregates   Aggregates
	Partition    ChurnPartition
	Filtered     View
	Ranking      Ranking
	Distribution []SegmentCount
	Segments     []string // selector options, "All" first
}

// Render runs the whole pipeline for cfg over t. It has no side effects.
func Render(t *Table, cfg RenderConfig) (Result, error) {
	if cfg.Segment == "" {
		cfg.Segment = AllSegments
	}
	if err := cfg.Validate(t); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	p := Partition(t, cfg.ChurnThreshold)
	return Result{
		Config:       cfg,
		Aggregates:   Aggregate(t, p),
		Partition:    p,
		Filtered:     ApplyFilters(t, cfg),
		Ranking:      RankByCLV(t, TopN),
		Distribution: SegmentDistribution(t),
		Segments:     SegmentOptions(t),
	}, nil
}
