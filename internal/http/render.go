package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/analytics"
	"github.com/jmehdipour/rfm-dashboard/internal/dashboard"
	"github.com/jmehdipour/rfm-dashboard/internal/dataset"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/metrics"
	"github.com/jmehdipour/rfm-dashboard/internal/util"
)

// renderer runs one load and render pass per request.
type renderer struct {
	loader           dataset.Loader
	defaultThreshold int
}

type rendered struct {
	page   dashboard.Page
	result analytics.Result
}

// renderConfig reads the widget values from the query string.
func (r renderer) renderConfig(c echo.Context) (analytics.RenderConfig, error) {
	cfg := analytics.DefaultRenderConfig()
	if r.defaultThreshold > 0 {
		cfg.ChurnThreshold = r.defaultThreshold
	}

	if v := strings.TrimSpace(c.QueryParam("threshold")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: threshold %q is not an integer", analytics.ErrInvalidConfig, v)
		}
		cfg.ChurnThreshold = n
	}

	var err error
	if cfg.ShowCLVOnly, err = flag(c, "clv_only"); err != nil {
		return cfg, err
	}
	if cfg.ShowChurnOnly, err = flag(c, "churn_only"); err != nil {
		return cfg, err
	}
	if v := strings.TrimSpace(c.QueryParam("segment")); v != "" {
		cfg.Segment = v
	}
	return cfg, nil
}

// flag accepts strconv booleans plus "on" from HTML checkboxes.
func flag(c echo.Context, name string) (bool, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	switch strings.ToLower(v) {
	case "":
		return false, nil
	case "on":
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q is not a boolean", analytics.ErrInvalidConfig, name, v)
	}
	return b, nil
}

// render loads the dataset and renders it for the request. surface labels metrics.
func (r renderer) render(c echo.Context, surface string) (rendered, error) {
	start := time.Now()
	id := util.NewID(start)

	out, err := r.run(c, id)
	metrics.RenderDuration.WithLabelValues(surface).Observe(time.Since(start).Seconds())

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, analytics.ErrInvalidConfig):
		status = "invalid"
	default:
		status = "error"
		logger.Log.Error("render failed", zap.String("render_id", id), zap.String("surface", surface), zap.Error(err))
	}
	metrics.RendersTotal.WithLabelValues(surface, status).Inc()

	if err == nil {
		logger.Log.Debug("rendered",
			zap.String("render_id", id),
			zap.String("surface", surface),
			zap.Int("rows", out.result.Filtered.Len()),
			zap.Duration("took", time.Since(start)),
		)
	}
	return out, err
}

func (r renderer) run(c echo.Context, id string) (rendered, error) {
	cfg, err := r.renderConfig(c)
	if err != nil {
		return rendered{}, err
	}

	tbl, err := r.loader.Load(c.Request().Context())
	if err != nil {
		return rendered{}, err
	}
	metrics.DatasetRows.Set(float64(tbl.Len()))

	res, err := analytics.Render(tbl, cfg)
	if err != nil {
		return rendered{}, err
	}
	return rendered{page: dashboard.Present(id, res), result: res}, nil
}

// statusOf maps a render error to its HTTP status and client message.
func statusOf(err error) (int, string) {
	var dle *dataset.DataLoadError
	switch {
	case errors.Is(err, analytics.ErrInvalidConfig):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &dle):
		return http.StatusInternalServerError, "dataset unavailable"
	default:
		return http.StatusInternalServerError, "render failed"
	}
}

func jsonError(c echo.Context, err error) error {
	code, msg := statusOf(err)
	return c.JSON(code, map[string]string{"error": msg})
}
