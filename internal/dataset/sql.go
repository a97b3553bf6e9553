package dataset

import (
	"context"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
)

// SQLLoader reads the customer_segments table on every Load.
type SQLLoader struct {
	Repo   repository.SegmentsRepository
	Source string // store kind, for error messages
}

func (l SQLLoader) Load(ctx context.Context) (*analytics.Table, error) {
	rows, err := l.Repo.List(ctx)
	if err != nil {
		return nil, &DataLoadError{Op: "query", Source: l.Source, Err: err}
	}
	tbl, err := analytics.NewTable(rows)
	if err != nil {
		return nil, &DataLoadError{Op: "validate", Source: l.Source, Err: err}
	}
	return tbl, nil
}
