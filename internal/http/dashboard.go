package http

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/chart"
	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
)

type chartImage struct {
	Title string
	Src   template.URL // data URI, empty when there is nothing to draw
}

type pageView struct {
	dashboard.Page
	Charts []chartImage
	Error  string
}

func dashboardHTMLHandler(r renderer) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := r.render(c, "html")
		if err != nil {
			code, msg := statusOf(err)
			return c.Render(code, "dashboard.html", pageView{Error: msg})
		}

		view := pageView{Page: out.page}
		for _, s := range []dashboard.Series{out.page.SegmentChart, out.page.RetentionChart} {
			view.Charts = append(view.Charts, chartImage{Title: s.Title, Src: dataURI(s)})
		}
		if !out.page.Ranking.Insufficient {
			view.Charts = append(view.Charts, chartImage{Title: out.page.TopCLVChart.Title, Src: dataURI(out.page.TopCLVChart)})
		}
		return c.Render(http.StatusOK, "dashboard.html", view)
	}
}

func dataURI(s dashboard.Series) template.URL {
	img, err := chart.PNG(s)
	if err != nil {
		if !errors.Is(err, chart.ErrNoChartData) {
			logger.Log.Warn("chart render failed", zap.String("chart", s.Title), zap.Error(err))
		}
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(img))
}

func dashboardJSONHandler(r renderer) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := r.render(c, "json")
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, out.page)
	}
}
