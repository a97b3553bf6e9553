package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/db"
	httpSrv "github.com/jmehdipour/rfm-dashboard/internal/http"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		loader, closeLoader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		defer closeLoader()

		// a failed initial load is fatal
		tbl, err := loader.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("initial dataset load: %w", err)
		}
		logger.Log.Info("dataset ready", zap.String("source", cfg.Dataset.Source), zap.Int("rows", tbl.Len()))

		deps := httpSrv.Deps{Loader: loader}

		var rds *redis.Client
		if cfg.Redis.Addr != "" {
			rds, err = db.NewRedisClient(cfg.Redis)
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = rds.Close() }()
			deps.Redis = rds
		}

		if cfg.ClickHouse.DSN != "" {
			chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.PoolOptsFrom(cfg.ClickHouse))
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer func() { _ = chDB.Close() }()
			deps.Snapshots = repository.NewSnapshotsRepository(chDB)
		}

		server := httpSrv.NewServer(cfg, deps)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.Log.Info("signal received, shutting down")
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
		}

		timeout := cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			logger.Log.Warn("http shutdown", zap.Error(err))
		}
		return nil
	},
}
