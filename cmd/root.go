package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/rfm-dashboard/cmd/worker"
	"github.com/jmehdipour/rfm-dashboard/internal/config"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "rfm-dashboard",
		Short:         "Customer segmentation, CLV and churn dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and initializes the global logger from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(worker.NewWorkerCmd())
}
