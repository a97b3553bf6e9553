package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/rfm-dashboard/internal/db"
	"github.com/jmehdipour/rfm-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
)

// SegmentsRepository persists the segmentation table in a SQL store.
type SegmentsRepository interface {
	List(ctx context.Context) ([]model.CustomerRecord, error)
	UpsertBatch(ctx context.Context, recs []model.CustomerRecord) error
}

type SegmentsRepositoryImpl struct {
	db   *sqlx.DB
	kind string // db.KindMySQL | db.KindPostgres | db.KindClickHouse
}

func NewSegmentsRepository(dbx *sqlx.DB, kind string) *SegmentsRepositoryImpl {
	return &SegmentsRepositoryImpl{db: dbx, kind: kind}
}

var _ SegmentsRepository = (*SegmentsRepositoryImpl)(nil)

const segmentColumns = `customer_id, recency, frequency, monetary, rfm_score, segment,
	predicted_purchases_6m, predicted_avg_monetary, clv_6m`

// List returns every row ordered by customer_id.
func (r *SegmentsRepositoryImpl) List(ctx context.Context) ([]model.CustomerRecord, error) {
	from := "customer_segments"
	if r.kind == db.KindClickHouse {
		// ReplacingMergeTree: collapse superseded versions at read time
		from += " FINAL"
	}
	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY customer_id`, segmentColumns, from)

	var rows []model.CustomerRecord
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertBatch writes recs in one transaction; existing customer_ids are replaced.
func (r *SegmentsRepositoryImpl) UpsertBatch(ctx context.Context, recs []model.CustomerRecord) error {
	if len(recs) == 0 {
		return nil
	}
	q, err := r.upsertQuery()
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, r.db.Rebind(q))
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx,
			rec.CustomerID, rec.Recency, rec.Frequency, rec.Monetary, rec.RFMScore, rec.Segment,
			rec.PredictedPurchases6M, rec.PredictedAvgMonetary, rec.CLV6M, now,
		); err != nil {
			return fmt.Errorf("upsert customer %q: %w", rec.CustomerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit segments: %w", err)
	}
	return nil
}

func (r *SegmentsRepositoryImpl) upsertQuery() (string, error) {
	const insert = `
INSERT INTO customer_segments
    (customer_id, recency, frequency, monetary, rfm_score, segment,
     predicted_purchases_6m, predicted_avg_monetary, clv_6m, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	switch r.kind {
	case db.KindMySQL:
		return insert + `
ON DUPLICATE KEY UPDATE
    recency                = VALUES(recency),
    frequency              = VALUES(frequency),
    monetary               = VALUES(monetary),
    rfm_score              = VALUES(rfm_score),
    segment                = VALUES(segment),
    predicted_purchases_6m = VALUES(predicted_purchases_6m),
    predicted_avg_monetary = VALUES(predicted_avg_monetary),
    clv_6m                 = VALUES(clv_6m),
    updated_at             = VALUES(updated_at)`, nil
	case db.KindPostgres:
		return insert + `
ON CONFLICT (customer_id) DO UPDATE SET
    recency                = EXCLUDED.recency,
    frequency              = EXCLUDED.frequency,
    monetary               = EXCLUDED.monetary,
    rfm_score              = EXCLUDED.rfm_score,
    segment                = EXCLUDED.segment,
    predicted_purchases_6m = EXCLUDED.predicted_purchases_6m,
    predicted_avg_monetary = EXCLUDED.predicted_avg_monetary,
    clv_6m                 = EXCLUDED.clv_6m,
    updated_at             = EXCLUDED.updated_at`, nil
	case db.KindClickHouse:
		// versions collapse by updated_at in ReplacingMergeTree
		return insert, nil
	default:
		return "", fmt.Errorf("%w: %q", db.ErrUnknownKind, r.kind)
	}
}
