package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
)

func exportCSVHandler(r renderer) echo.HandlerFunc {
	return func(c echo.Context) error {
		out, err := r.render(c, "csv")
		if err != nil {
			return jsonError(c, err)
		}

		h := c.Response().Header()
		h.Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		h.Set(echo.HeaderContentDisposition, `attachment; filename="customers.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		return dashboard.WriteCSV(c.Response(), out.result.Filtered.Rows())
	}
}
