package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmehdipour/rfm-dashboard/internal/chart"
	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
)

// chartHandler serves one chart of the page as PNG, or 204 when it has no data.
func chartHandler(r renderer, pick func(dashboard.Page) dashboard.Series) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := r.render(c, "chart")
		if err != nil {
			return jsonError(c, err)
		}

		img, err := chart.PNG(pick(out.page))
		if errors.Is(err, chart.ErrNoChartData) {
			return c.NoContent(http.StatusNoContent)
		}
		if err != nil {
			c.Logger().Errorf("chart render failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "chart failed"})
		}
		return c.Blob(http.StatusOK, "image/png", img)
	}
}

func segmentsChart(p dashboard.Page) dashboard.Series  { return p.SegmentChart }
func retentionChart(p dashboard.Page) dashboard.Series { return p.RetentionChart }
func topCLVChart(p dashboard.Page) dashboard.Series    { return p.TopCLVChart }
