package analytics

import "github.com/jmehdipour/rfm-dashboard/internal/model"

// ChurnPartition splits the full table by the churn threshold.
type ChurnPartition struct {
	Threshold int
	Churned   View
	Active    View
}

// IsChurned reports whether r is inactive for longer than threshold days.
func IsChurned(r model.CustomerRecord, threshold int) bool {
	return r.Recency > float64(threshold)
}

// Partition classifies every row of t against threshold.
func Partition(t *Table, threshold int) ChurnPartition {
	churned := make([]int, 0, t.Len())
	active := make([]int, 0, t.Len())
	for i, r := range t.rows {
		if IsChurned(r, threshold) {
			churned = append(churned, i)
		} else {
			active = append(active, i)
		}
	}
	return ChurnPartition{
		Threshold: threshold,
		Churned:   View{table: t, indices: churned},
		Active:    View{table: t, indices: active},
	}
}
