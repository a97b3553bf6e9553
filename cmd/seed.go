package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/dataset"
	"github.com/jmehdipour/rfm-dashboard/internal/db"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
)

var seedFlags struct {
	store     string
	csv       string
	batchSize int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import the CSV dataset into a SQL store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kind := db.ResolveKind(seedFlags.store, cfg.Dataset.Source)

		path := seedFlags.csv
		if path == "" {
			path = cfg.Dataset.Path
		}
		delim, err := delimiter(cfg.Dataset.Delimiter)
		if err != nil {
			return err
		}
		tbl, err := dataset.CSVLoader{Path: path, Delimiter: delim}.Load(cmd.Context())
		if err != nil {
			return err
		}

		sqlDB, err := db.Open(kind, cfg)
		if err != nil {
			return fmt.Errorf("open %s: %w", kind, err)
		}
		defer sqlDB.Close()
		repo := repository.NewSegmentsRepository(sqlDB, kind)

		rows := tbl.All().Rows()
		size := seedFlags.batchSize
		if size <= 0 {
			size = 500
		}
		for start := 0; start < len(rows); start += size {
			end := min(start+size, len(rows))
			if err := repo.UpsertBatch(cmd.Context(), rows[start:end]); err != nil {
				return fmt.Errorf("upsert rows %d-%d: %w", start+1, end, err)
			}
		}

		logger.Log.Info("seed completed", zap.String("store", kind), zap.String("csv", path), zap.Int("rows", len(rows)))
		fmt.Fprintf(cmd.OutOrStdout(), ">> Seeded %d customers into %s\n", len(rows), kind)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&seedFlags.store, "store", "", "mysql|postgres|clickhouse (default: dataset.source if SQL, else mysql)")
	f.StringVar(&seedFlags.csv, "csv", "", "CSV file to import (default: dataset.path)")
	f.IntVar(&seedFlags.batchSize, "batch-size", 500, "rows per upsert transaction")
}
