// Package dataset loads the segmentation table from a file or a SQL store.
package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
)

// Loader produces a fresh table for one rendering pass.
type Loader interface {
	Load(ctx context.Context) (*analytics.Table, error)
}

// Source kinds accepted in dataset.source. SQL kinds match the db package.
const (
	SourceCSV        = "csv"
	SourceMySQL      = "mysql"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
)

var ErrSourceUnknown = errors.New("unknown dataset source")

// DataLoadError reports a dataset that is missing, unreadable or malformed.
type DataLoadError struct {
	Op     string // read|parse|query|validate
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %s: %v", e.Source, e.Op, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Column names of the input table.
const (
	ColCustomerID           = "customer_id"
	ColRecency              = "Recency"
	ColFrequency            = "Frequency"
	ColMonetary             = "Monetary"
	ColRFMScore             = "RFM_Score"
	ColSegment              = "Segment"
	ColPredictedPurchases6M = "Predicted_Purchases_6M"
	ColPredictedAvgMonetary = "Predicted_Avg_Monetary"
	ColCLV6M                = "CLV_6M"
)

// Columns lists the table columns in display order.
var Columns = []string{
	ColCustomerID, ColRecency, ColFrequency, ColMonetary, ColRFMScore, ColSegment,
	ColPredictedPurchases6M, ColPredictedAvgMonetary, ColCLV6M,
}

// RequiredColumns must be present in a file source; the prediction columns may be absent.
var RequiredColumns = []string{
	ColCustomerID, ColRecency, ColFrequency, ColMonetary, ColRFMScore, ColSegment,
}
