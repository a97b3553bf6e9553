package model

import "time"

// KPISnapshot is a persisted copy of the dashboard KPIs for one churn threshold.
type KPISnapshot struct {
	ID                    string    `db:"id"                      json:"id"`
	TakenAt               time.Time `db:"taken_at"                json:"taken_at"`
	ChurnThreshold        int64     `db:"churn_threshold"         json:"churn_threshold"`
	TotalCustomers        int64     `db:"total_customers"         json:"total_customers"`
	GoldCustomers         int64     `db:"gold_customers"          json:"gold_customers"`
	ChurnedCustomers      int64     `db:"churned_customers"       json:"churned_customers"`
	ActiveCustomers       int64     `db:"active_customers"        json:"active_customers"`
	AvgCLV                *float64  `db:"avg_clv"                 json:"avg_clv"`    // nil when no CLV_6M values
	TotalPredictedRevenue float64   `db:"total_predicted_revenue" json:"total_predicted_revenue"`
	ChurnRate             *float64  `db:"churn_rate"              json:"churn_rate"` // nil for an empty table
}
