package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"lume/internal/config"
	"lume/internal/infra/logger"
	"lume/internal/infra/metrics"
	"lume/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Config   config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Users    repository.UserRepository
	Handlers Handlers
}

// New builds the echo instance with the middleware chain and every route.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(logger.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(d.Metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	RegisterRoutes(e, d.Config, d.Users, d.Handlers)
	return e
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, e *echo.Echo, port string) error {
	addr := port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// errorHandler renders framework errors (404, 405, bind failures, panics)
// in the same {"error": ...} shape the handlers use.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = strings.ToLower(s)
		} else {
			msg = strings.ToLower(http.StatusText(code))
		}
	}
	if code >= 500 {
		logger.FromContext(c.Request().Context()).Error("unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
