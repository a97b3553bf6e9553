// Package dashboard turns a render result into widget payloads shared by the
// HTML page, the JSON API, the PNG charts and the terminal report.
package dashboard

import (
	"fmt"
	"strconv"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/dataset"
	"github.com/jmehdipour/rfm-dashboard/internal/model"
)

// Chart titles.
const (
	SegmentChartTitle   = "Customer Segments"
	RetentionChartTitle = "Customer Retention"
	TopCLVChartTitle    = "Top 10 Customers by CLV"
)

// Retention colours.
const (
	ActiveColor  = "#2ecc71"
	ChurnedColor = "#e74c3c"
)

// viridis and rocket sample the sequential palettes used by the bar charts.
var (
	viridis = []string{"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}
	rocket  = []string{"#03051a", "#2b1a3d", "#561e4f", "#841e5a", "#b01759", "#d92847", "#ec5339", "#f3845f", "#f6b48e", "#faebdd"}
)

type KPICard struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type TableData struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Text  string  `json:"text,omitempty"`
}

type Series struct {
	Title  string  `json:"title"`
	Kind   string  `json:"kind"` // bar|pie
	XLabel string  `json:"x_label,omitempty"`
	YLabel string  `json:"y_label,omitempty"`
	Points []Point `json:"points"`
}

// Empty reports whether the series has nothing to draw. A bar series with
// points is drawn even when every value is zero; a pie needs a positive slice.
func (s Series) Empty() bool {
	if s.Kind != "pie" {
		return len(s.Points) == 0
	}
	for _, p := range s.Points {
		if p.Value > 0 {
			return false
		}
	}
	return true
}

type Summary struct {
	TotalCustomers        int      `json:"total_customers"`
	GoldCustomers         int      `json:"gold_customers"`
	AvgCLV                *float64 `json:"avg_clv"`
	TotalPredictedRevenue float64  `json:"total_predicted_revenue"`
	ChurnRate             *float64 `json:"churn_rate"`
	ChurnedCustomers      int      `json:"churned_customers"`
	ActiveCustomers       int      `json:"active_customers"`
}

type RankingView struct {
	Insufficient bool      `json:"insufficient"`
	Message      string    `json:"message,omitempty"`
	Table        TableData `json:"table"`
}

// Page is the presented dashboard for one render.
type Page struct {
	RenderID       string                 `json:"render_id"`
	Config         analytics.RenderConfig `json:"config"`
	Summary        Summary                `json:"summary"`
	KPIs           []KPICard              `json:"kpis"`
	SegmentOptions []string               `json:"segment_options"`
	Table          TableData              `json:"table"`
	SegmentChart   Series                 `json:"segment_chart"`
	RetentionChart Series                 `json:"retention_chart"`
	TopCLVChart    Series                 `json:"top_clv_chart"`
	Ranking        RankingView            `json:"ranking"`
}

// Present maps res to a Page tagged with renderID.
func Present(renderID string, res analytics.Result) Page {
	agg := res.Aggregates
	return Page{
		RenderID: renderID,
		Config:   res.Config,
		Summary: Summary{
			TotalCustomers:        agg.TotalCustomers,
			GoldCustomers:         agg.GoldCustomers,
			AvgCLV:                model.Float(agg.AvgCLV),
			TotalPredictedRevenue: agg.TotalPredictedRevenue,
			ChurnRate:             model.Float(agg.ChurnRate),
			ChurnedCustomers:      res.Partition.Churned.Len(),
			ActiveCustomers:       res.Partition.Active.Len(),
		},
		KPIs:           KPIs(agg),
		SegmentOptions: res.Segments,
		Table:          Table(res.Filtered.Rows()),
		SegmentChart:   SegmentChart(res.Distribution),
		RetentionChart: RetentionChart(res.Partition),
		TopCLVChart:    TopCLVChart(res.Ranking),
		Ranking: RankingView{
			Insufficient: res.Ranking.Insufficient,
			Message:      res.Ranking.Message,
			Table:        Table(res.Ranking.Rows),
		},
	}
}

// KPIs returns the five summary cards in display order.
func KPIs(agg analytics.Aggregates) []KPICard {
	return []KPICard{
		{Title: "Total Customers", Value: strconv.Itoa(agg.TotalCustomers)},
		{Title: "Gold Customers", Value: strconv.Itoa(agg.GoldCustomers)},
		{Title: "Avg CLV (6M)", Value: analytics.FormatCurrency(agg.AvgCLV)},
		{Title: "Predicted Revenue (6M)", Value: analytics.FormatCurrency(agg.TotalPredictedRevenue)},
		{Title: "Churn Rate", Value: analytics.FormatPercent(agg.ChurnRate)},
	}
}

// Table renders rows with the nine dataset columns. Null predictions are "".
func Table(rows []model.CustomerRecord) TableData {
	out := TableData{Columns: dataset.Columns, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, Row(r))
	}
	return out
}

// Row formats one record in column order.
func Row(r model.CustomerRecord) []string {
	return []string{
		r.CustomerID,
		num(r.Recency),
		strconv.FormatInt(r.Frequency, 10),
		num(r.Monetary),
		r.RFMScore,
		r.Segment,
		optional(r.PredictedPurchases6M),
		optional(r.PredictedAvgMonetary),
		optional(r.CLV6M),
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return num(*v)
}

// SegmentChart is a bar per segment in distribution order.
func SegmentChart(dist []analytics.SegmentCount) Series {
	s := Series{Title: SegmentChartTitle, Kind: "bar", XLabel: "Segment", YLabel: "Customers"}
	for i, d := range dist {
		s.Points = append(s.Points, Point{
			Label: d.Segment,
			Value: float64(d.Count),
			Color: viridis[paletteIndex(i, len(dist), len(viridis))],
			Text:  strconv.Itoa(d.Count),
		})
	}
	return s
}

// RetentionChart is the active/churned pie with one-decimal share labels.
func RetentionChart(p analytics.ChurnPartition) Series {
	active, churned := p.Active.Len(), p.Churned.Len()
	total := active + churned
	return Series{
		Title: RetentionChartTitle,
		Kind:  "pie",
		Points: []Point{
			{Label: "Active", Value: float64(active), Color: ActiveColor, Text: share(active, total)},
			{Label: "Churned", Value: float64(churned), Color: ChurnedColor, Text: share(churned, total)},
		},
	}
}

func share(n, total int) string {
	if total == 0 {
		return analytics.NotApplicable
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

// TopCLVChart is a bar per ranked customer, highest first. An insufficient
// ranking yields an empty series.
func TopCLVChart(rk analytics.Ranking) Series {
	s := Series{Title: TopCLVChartTitle, Kind: "bar", XLabel: "Customer ID", YLabel: "Predicted CLV"}
	for i, r := range rk.Rows {
		s.Points = append(s.Points, Point{
			Label: r.CustomerID,
			Value: r.CLV(),
			Color: rocket[paletteIndex(i, len(rk.Rows), len(rocket))],
			Text:  analytics.FormatCurrency(r.CLV()),
		})
	}
	return s
}

// paletteIndex spreads n bars evenly over a palette of size size.
func paletteIndex(i, n, size int) int {
	if n <= 1 {
		return 0
	}
	return i * (size - 1) / (n - 1)
}
