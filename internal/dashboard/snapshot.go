package dashboard

import (
	"time"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

// Snapshot captures the KPIs of res for storage.
func Snapshot(id string, at time.Time, res analytics.Result) model.KPISnapshot {
	agg := res.Aggregates
	return model.KPISnapshot{
		ID:                    id,
		TakenAt:               at.UTC(),
		ChurnThreshold:        int64(res.Config.ChurnThreshold),
		TotalCustomers:        int64(agg.TotalCustomers),
		GoldCustomers:         int64(agg.GoldCustomers),
		ChurnedCustomers:      int64(res.Partition.Churned.Len()),
		ActiveCustomers:       int64(res.Partition.Active.Len()),
		AvgCLV:                model.Float(agg.AvgCLV),
		TotalPredictedRevenue: agg.TotalPredictedRevenue,
		ChurnRate:             model.Float(agg.ChurnRate),
	}
}
