package analytics

import (
	"sort"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

// InsufficientCLVMessage is shown instead of the ranking when no row has CLV_6M.
const InsufficientCLVMessage = "Not enough CLV data to show top customers."

// Ranking is the top-N customers by predicted CLV.
type Ranking struct {
	Rows         []model.CustomerRecord
	Insufficient bool
	Message      string
}

// RankByCLV sorts the rows of t that carry CLV_6M in descending order and keeps
// the first n. Ties keep table order.
func RankByCLV(t *Table, n int) Ranking {
	withCLV := t.All().Where(model.CustomerRecord.HasCLV).Rows()
	if len(withCLV) == 0 {
		return Ranking{Insufficient: true, Message: InsufficientCLVMessage}
	}

	sort.SliceStable(withCLV, func(i, j int) bool {
		return *withCLV[i].CLV6M > *withCLV[j].CLV6M
	})
	if n > 0 && len(withCLV) > n {
		withCLV = withCLV[:n]
	}
	return Ranking{Rows: withCLV}
}
