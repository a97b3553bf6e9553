// Package report writes a presented dashboard to a terminal.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/jmehdipour/rfm-dashboard/internal/chart"
	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
)

var (
	heading = color.New(color.FgYellow, color.Bold)
	muted   = color.New(color.FgHiBlack)
)

type Options struct {
	MaxRows int // caps the customer table; 0 prints every row
}

// WriteText prints KPI cards, the filtered table, the segment distribution and
// the CLV ranking.
func WriteText(w io.Writer, page dashboard.Page, opts Options) error {
	heading.Fprintln(w, "Customer Segmentation, CLV & Churn")
	muted.Fprintf(w, "threshold=%d days  clv_only=%t  churn_only=%t  segment=%s  render=%s\n",
		page.Config.ChurnThreshold, page.Config.ShowCLVOnly, page.Config.ShowChurnOnly, page.Config.Segment, page.RenderID)

	kpi := tablewriter.NewWriter(w)
	kpi.SetHeader([]string{"KPI", "Value"})
	for _, k := range page.KPIs {
		kpi.Append([]string{k.Title, k.Value})
	}
	kpi.Render()

	heading.Fprintf(w, "\nFiltered Customer Data (%d rows)\n", len(page.Table.Rows))
	rows := page.Table.Rows
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(page.Table.Columns)
	tbl.AppendBulk(rows)
	tbl.Render()
	if len(rows) < len(page.Table.Rows) {
		muted.Fprintf(w, "... %d more rows\n", len(page.Table.Rows)-len(rows))
	}

	heading.Fprintln(w, "\n"+page.SegmentChart.Title)
	seg := tablewriter.NewWriter(w)
	seg.SetHeader([]string{"Segment", "Customers"})
	for _, p := range page.SegmentChart.Points {
		seg.Append([]string{p.Label, p.Text})
	}
	seg.Render()

	heading.Fprintln(w, "\n"+page.RetentionChart.Title)
	ret := tablewriter.NewWriter(w)
	ret.SetHeader([]string{"Status", "Customers", "Share"})
	for _, p := range page.RetentionChart.Points {
		ret.Append([]string{p.Label, fmt.Sprintf("%.0f", p.Value), p.Text})
	}
	ret.Render()

	heading.Fprintln(w, "\nTop 10 Customers by Predicted CLV (6M)")
	if page.Ranking.Insufficient {
		color.New(color.FgRed).Fprintln(w, page.Ranking.Message)
		return nil
	}
	top := tablewriter.NewWriter(w)
	top.SetHeader([]string{"Rank", "Customer ID", "Segment", "CLV_6M"})
	for i, p := range page.TopCLVChart.Points {
		top.Append([]string{fmt.Sprint(i + 1), p.Label, page.Ranking.Table.Rows[i][5], p.Text})
	}
	top.Render()
	return nil
}

// WriteCharts renders each chart with data into dir and returns the files written.
func WriteCharts(dir string, page dashboard.Page) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	charts := []struct {
		file   string
		series dashboard.Series
	}{
		{"segments.png", page.SegmentChart},
		{"retention.png", page.RetentionChart},
		{"top-clv.png", page.TopCLVChart},
	}

	var written []string
	for _, c := range charts {
		img, err := chart.PNG(c.series)
		if errors.Is(err, chart.ErrNoChartData) {
			continue
		}
		if err != nil {
			return written, err
		}
		p := filepath.Join(dir, c.file)
		if err := os.WriteFile(p, img, 0o644); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}
