package analytics

import (
	"errors"
	"fmt"
)

const (
	MinChurnThreshold     = 90
	MaxChurnThreshold     = 365
	DefaultChurnThreshold = 180

	// AllSegments disables the segment filter.
	AllSegments = "All"
	// GoldSegment is the segment counted by the gold_customers KPI.
	GoldSegment = "Gold"
	// TopN is the size of the CLV ranking.
	TopN = 10
)

var ErrInvalidConfig = errors.New("invalid render config")

// RenderConfig carries the widget values for one rendering pass.
type RenderConfig struct {
	ChurnThreshold int    `json:"churn_threshold"` // days, [90, 365]
	ShowCLVOnly    bool   `json:"show_clv_only"`
	ShowChurnOnly  bool   `json:"show_churn_only"`
	Segment        string `json:"segment"` // "All" or an observed segment
}

// DefaultRenderConfig returns the initial widget state.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ChurnThreshold: DefaultChurnThreshold,
		Segment:        AllSegments,
	}
}

// Validate checks cfg against the table it will be applied to.
func (c RenderConfig) Validate(t *Table) error {
	if c.ChurnThreshold < MinChurnThreshold || c.ChurnThreshold > MaxChurnThreshold {
		return fmt.Errorf("%w: churn threshold %d outside [%d, %d]",
			ErrInvalidConfig, c.ChurnThreshold, MinChurnThreshold, MaxChurnThreshold)
	}
	if c.Segment != AllSegments && !t.HasSegment(c.Segment) {
		return fmt.Errorf("%w: unknown segment %q", ErrInvalidConfig, c.Segment)
	}
	return nil
}

// SegmentOptions lists the values offered by the segment selector.
func SegmentOptions(t *Table) []string {
	return append([]string{AllSegments}, t.Segments()...)
}
