package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jmehdipour/rfm-dashboard/internal/config"
	"github.com/jmehdipour/rfm-dashboard/internal/dataset"
	"github.com/jmehdipour/rfm-dashboard/internal/http/middleware"
	"github.com/jmehdipour/rfm-dashboard/internal/logger"
	"github.com/jmehdipour/rfm-dashboard/internal/metrics"
	"github.com/jmehdipour/rfm-dashboard/internal/repository"
)

// Deps are the collaborators of the server. Snapshots and Redis are optional.
type Deps struct {
	Loader    dataset.Loader
	Snapshots repository.SnapshotsRepository
	Redis     *redis.Client
}

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newTemplates()
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	r := renderer{loader: deps.Loader, defaultThreshold: cfg.Dashboard.DefaultChurnThreshold}
	e.GET("/", dashboardHTMLHandler(r))

	authMW := middleware.APIKeyMiddleware(cfg.Auth.APIKeys)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          deps.Redis,
		RPS:            cfg.RateLimit.RPS,
		Window:         time.Second,
		RetryAfterHint: true,
	})

	v1 := e.Group("/v1", authMW, rlMW)
	v1.GET("/dashboard", dashboardJSONHandler(r))
	v1.GET("/customers.csv", exportCSVHandler(r))
	v1.GET("/charts/segments.png", chartHandler(r, segmentsChart))
	v1.GET("/charts/retention.png", chartHandler(r, retentionChart))
	v1.GET("/charts/top-clv.png", chartHandler(r, topCLVChart))
	if deps.Snapshots != nil {
		v1.GET("/reports/snapshots", listSnapshotsHandler(deps.Snapshots))
	}

	return &Server{e: e}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
