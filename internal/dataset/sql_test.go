package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

type fakeRepo struct {
	rows []model.CustomerRecord
	err  error
}

func (f fakeRepo) List(context.Context) ([]model.CustomerRecord, error) { return f.rows, f.err }

func (f fakeRepo) UpsertBatch(context.Context, []model.CustomerRecord) error { return nil }

func TestSQLLoader(t *testing.T) {
	rows := []model.CustomerRecord{
		{CustomerID: "A", Recency: 5, Frequency: 1, Monetary: 10, Segment: "Gold"},
		{CustomerID: "B", Recency: 500, Frequency: 1, Monetary: 10, Segment: "Bronze"},
	}
	tbl, err := SQLLoader{Repo: fakeRepo{rows: rows}, Source: "postgres"}.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}

	boom := errors.New("boom")
	_, err = SQLLoader{Repo: fakeRepo{err: boom}, Source: "mysql"}.Load(context.Background())
	var dle *DataLoadError
	if !errors.As(err, &dle) || dle.Op != "query" || !errors.Is(err, boom) {
		t.Fatalf("want query DataLoadError wrapping boom, got %v", err)
	}
}
