package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/alert"
	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
	"github.com/jmehdipour/rfm-dashboard/internal/db"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
	"github.com/jmehdipour/rfm-dashboard/internal/util"
)

var snapshotThreshold int

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the current KPIs in ClickHouse and send churn alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		rc := analytics.DefaultRenderConfig()
		if cfg.Dashboard.DefaultChurnThreshold > 0 {
			rc.ChurnThreshold = cfg.Dashboard.DefaultChurnThreshold
		}
		if cmd.Flags().Changed("threshold") {
			rc.ChurnThreshold = snapshotThreshold
		}

		loader, closeLoader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		defer closeLoader()

		tbl, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		res, err := analytics.Render(tbl, rc)
		if err != nil {
			return err
		}

		chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.PoolOptsFrom(cfg.ClickHouse))
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer func() { _ = chDB.Close() }()

		now := time.Now()
		snap := dashboard.Snapshot(util.NewID(now), now, res)
		if err := repository.NewSnapshotsRepository(chDB).Insert(ctx, snap); err != nil {
			return fmt.Errorf("store snapshot: %w", err)
		}
		logger.Log.Info("snapshot stored",
			zap.String("snapshot_id", snap.ID),
			zap.Int("threshold", rc.ChurnThreshold),
			zap.Int64("total", snap.TotalCustomers),
			zap.Int64("churned", snap.ChurnedCustomers),
		)
		fmt.Fprintf(cmd.OutOrStdout(), ">> Snapshot %s stored (churn rate %s)\n",
			snap.ID, analytics.FormatPercent(res.Aggregates.ChurnRate))

		pct := cfg.Alerts.ChurnRatePct
		if pct <= 0 || !res.Aggregates.HasChurnRate() || res.Aggregates.ChurnRate < pct {
			return nil
		}

		disp := alert.NewDispatcher(alert.ProvidersFrom(cfg.Alerts.Webhooks), cfg.Alerts.MaxRetryAttempts)
		if disp.Len() == 0 {
			logger.Log.Warn("churn alert threshold reached but no webhooks are enabled")
			return nil
		}
		a := alert.NewChurnAlert(snap.ID, res.Aggregates.ChurnRate, pct, rc.ChurnThreshold)
		if err := disp.Notify(ctx, a); err != nil {
			// the snapshot stays stored
			logger.Log.Error("churn alert failed", zap.String("snapshot_id", snap.ID), zap.Error(err))
			return fmt.Errorf("send churn alert: %w", err)
		}
		return nil
	},
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotThreshold, "threshold", analytics.DefaultChurnThreshold, "churn threshold in days (90-365)")
}
