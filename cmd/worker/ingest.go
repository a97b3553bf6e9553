package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/config"
	"github.com/jmehdipour/rfm-dashboard/internal/db"
	"github.com/jmehdipour/rfm-dashboard/internal/kafka"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/metrics"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
	"github.com/jmehdipour/rfm-dashboard/internal/worker"
)

var ingestStore string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume customer record envelopes from Kafka into a SQL store",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestStore, "store", "", "mysql|postgres|clickhouse (default: dataset.source if SQL, else mysql)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	kind := db.ResolveKind(ingestStore, cfg.Dataset.Source)
	dbx, err := db.Open(kind, cfg)
	if err != nil {
		return fmt.Errorf("%s connect: %w", kind, err)
	}
	defer dbx.Close()

	consumer := kafka.NewConsumer(cfg.Kafka)
	defer consumer.Close()

	w := worker.NewIngest(consumer, repository.NewSegmentsRepository(dbx, kind))
	if cfg.Ingest.BatchSize > 0 {
		w.BatchSize = cfg.Ingest.BatchSize
	}
	if cfg.Ingest.BatchWait > 0 {
		w.BatchWait = cfg.Ingest.BatchWait
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("ingest started",
		zap.String("store", kind),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait),
	)

	return w.Run(ctx)
}
