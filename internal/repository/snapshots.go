package repository

import (
	"context"
	"fmt"

	"github.com/jmehdipour/rfm-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
)

// SnapshotsRepository stores KPI snapshots in ClickHouse.
type SnapshotsRepository interface {
	Insert(ctx context.Context, s model.KPISnapshot) error
	ListRecent(ctx context.Context, limit, offset int) ([]model.KPISnapshot, error)
}

type chSnapshotsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewSnapshotsRepository(ch *sqlx.DB) SnapshotsRepository {
	return &chSnapshotsRepository{ch: ch}
}

func (r *chSnapshotsRepository) Insert(ctx context.Context, s model.KPISnapshot) error {
	const q = `
		INSERT INTO kpi_snapshots
		    (id, taken_at, churn_threshold, total_customers, gold_customers,
		     churned_customers, active_customers, avg_clv, total_predicted_revenue, churn_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, q,
		s.ID, s.TakenAt, s.ChurnThreshold, s.TotalCustomers, s.GoldCustomers,
		s.ChurnedCustomers, s.ActiveCustomers, s.AvgCLV, s.TotalPredictedRevenue, s.ChurnRate,
	); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}
	return tx.Commit()
}

func (r *chSnapshotsRepository) ListRecent(ctx context.Context, limit, offset int) ([]model.KPISnapshot, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT id, taken_at, churn_threshold, total_customers, gold_customers,
		       churned_customers, active_customers, avg_clv, total_predicted_revenue, churn_rate
		FROM kpi_snapshots
		ORDER BY taken_at DESC
		LIMIT ? OFFSET ?
	`
	var rows []model.KPISnapshot
	if err := r.ch.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}
