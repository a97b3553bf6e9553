package analytics

import "math"

// Aggregates are the scalar KPIs over the full table.
type Aggregates struct {
	TotalCustomers        int     `json:"total_customers"`
	GoldCustomers         int     `json:"gold_customers"`
	AvgCLV                float64 `json:"-"` // NaN when no CLV_6M values
	TotalPredictedRevenue float64 `json:"total_predicted_revenue"`
	ChurnRate             float64 `json:"-"` // percent, NaN for an empty table
}

// HasAvgCLV reports whether AvgCLV is defined.
func (a Aggregates) HasAvgCLV() bool { return !math.IsNaN(a.AvgCLV) }

// HasChurnRate reports whether ChurnRate is defined.
func (a Aggregates) HasChurnRate() bool { return !math.IsNaN(a.ChurnRate) }

// Aggregate computes the KPIs of t, taking churn counts from p.
// p must come from Partition over the same table.
func Aggregate(t *Table, p ChurnPartition) Aggregates {
	agg := Aggregates{
		TotalCustomers: t.Len(),
		AvgCLV:         math.NaN(),
		ChurnRate:      math.NaN(),
	}

	var clvSum float64
	var clvCount int
	for _, r := range t.rows {
		if r.Segment == GoldSegment {
			agg.GoldCustomers++
		}
		if r.HasCLV() {
			clvSum += *r.CLV6M
			clvCount++
		}
	}

	agg.TotalPredictedRevenue = clvSum
	if clvCount > 0 {
		agg.AvgCLV = clvSum / float64(clvCount)
	}
	if agg.TotalCustomers > 0 {
		agg.ChurnRate = RoundTo2(float64(p.Churned.Len()) / float64(agg.TotalCustomers) * 100)
	}
	return agg
}

// RoundTo2 rounds v to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
