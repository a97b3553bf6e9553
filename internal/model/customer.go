package model

import "math"

// CustomerRecord is one row of the segmentation dataset.
// Prediction columns are nullable; nil means the upstream model produced no value.
type CustomerRecord struct {
	CustomerID           string   `db:"customer_id"            json:"customer_id"`
	Recency              float64  `db:"recency"                json:"recency"`
	Frequency            int64    `db:"frequency"              json:"frequency"`
	Monetary             float64  `db:"monetary"               json:"monetary"`
	RFMScore             string   `db:"rfm_score"              json:"rfm_score"`
	Segment              string   `db:"segment"                json:"segment"`
	PredictedPurchases6M *float64 `db:"predicted_purchases_6m" json:"predicted_purchases_6m"`
	PredictedAvgMonetary *float64 `db:"predicted_avg_monetary" json:"predicted_avg_monetary"`
	CLV6M                *float64 `db:"clv_6m"                 json:"clv_6m"`
}

// HasCLV reports whether the record carries a CLV_6M prediction.
func (r CustomerRecord) HasCLV() bool {
	return r.CLV6M != nil && !math.IsNaN(*r.CLV6M)
}

// CLV returns CLV_6M or NaN when absent.
func (r CustomerRecord) CLV() float64 {
	if !r.HasCLV() {
		return math.NaN()
	}
	return *r.CLV6M
}

// Float returns a pointer to v, or nil for NaN.
func Float(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
