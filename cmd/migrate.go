package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/rfm-dashboard/internal/db"
	"github.com/jmehdipour/rfm-dashboard/migrations"
)

var migrateStore string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the segments table (dev: DROP & CREATE) in a SQL store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kind := db.ResolveKind(migrateStore, cfg.Dataset.Source)

		stmts, err := migrations.Statements(kind)
		if err != nil {
			return err
		}

		sqlDB, err := db.Open(kind, cfg)
		if err != nil {
			return fmt.Errorf("open %s: %w", kind, err)
		}
		defer sqlDB.Close()

		for i, stmt := range stmts {
			if _, err := sqlDB.ExecContext(cmd.Context(), stmt); err != nil {
				return fmt.Errorf("exec migration statement %d: %w", i+1, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), ">> Migration complete (%s, %d statements)\n", kind, len(stmts))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateStore, "store", "", "mysql|postgres|clickhouse (default: dataset.source if SQL, else mysql)")
}
