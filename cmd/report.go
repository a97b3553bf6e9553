package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/metrics"
	"github.com/jmehdipour/rfm-dashboard/internal/report"
	"github.com/jmehdipour/rfm-dashboard/internal/util"
)

var reportFlags struct {
	threshold int
	clvOnly   bool
	churnOnly bool
	segment   string
	format    string
	chartsDir string
	maxRows   int
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the dashboard once to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		rc := analytics.RenderConfig{
			ChurnThreshold: reportFlags.threshold,
			ShowCLVOnly:    reportFlags.clvOnly,
			ShowChurnOnly:  reportFlags.churnOnly,
			Segment:        reportFlags.segment,
		}
		if !cmd.Flags().Changed("threshold") && cfg.Dashboard.DefaultChurnThreshold > 0 {
			rc.ChurnThreshold = cfg.Dashboard.DefaultChurnThreshold
		}

		loader, closeLoader, err := newLoader(cfg)
		if err != nil {
			return err
		}
		defer closeLoader()

		start := time.Now()
		tbl, err := loader.Load(cmd.Context())
		if err != nil {
			metrics.RendersTotal.WithLabelValues("report", "error").Inc()
			return err
		}
		res, err := analytics.Render(tbl, rc)
		if err != nil {
			metrics.RendersTotal.WithLabelValues("report", "invalid").Inc()
			return err
		}
		metrics.RendersTotal.WithLabelValues("report", "ok").Inc()

		page := dashboard.Present(util.NewID(start), res)
		logger.Log.Debug("rendered", zap.String("render_id", page.RenderID), zap.Duration("took", time.Since(start)))

		out := cmd.OutOrStdout()
		switch reportFlags.format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(page); err != nil {
				return err
			}
		case "text":
			if err := report.WriteText(out, page, report.Options{MaxRows: reportFlags.maxRows}); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown --format %q (text|json)", reportFlags.format)
		}

		if reportFlags.chartsDir != "" {
			files, err := report.WriteCharts(reportFlags.chartsDir, page)
			if err != nil {
				return fmt.Errorf("write charts: %w", err)
			}
			for _, f := range files {
				fmt.Fprintln(os.Stderr, "wrote", f)
			}
		}
		return nil
	},
}

func init() {
	f := reportCmd.Flags()
	f.IntVar(&reportFlags.threshold, "threshold", analytics.DefaultChurnThreshold, "churn threshold in days (90-365)")
	f.BoolVar(&reportFlags.clvOnly, "clv-only", false, "only customers with a CLV prediction")
	f.BoolVar(&reportFlags.churnOnly, "churn-only", false, "only churned customers")
	f.StringVar(&reportFlags.segment, "segment", analytics.AllSegments, "segment to show")
	f.StringVar(&reportFlags.format, "format", "text", "output format: text|json")
	f.StringVar(&reportFlags.chartsDir, "charts-dir", "", "also write PNG charts into this directory")
	f.IntVar(&reportFlags.maxRows, "max-rows", 50, "rows of the customer table to print (0 = all)")
}
