package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/api/handler"
	"github.com/vfg2006/bizpredict-api/internal/api/handler/router"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/usecases/analyzing"
	"github.com/vfg2006/bizpredict-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
	"github.com/vfg2006/bizpredict-api/pkg/apiErrors"
	"github.com/vfg2006/bizpredict-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// readiness joins the analyzer and forecaster flags for /health.
type readiness struct {
	analyzer   analyzing.Analyzer
	forecaster forecasting.Forecaster
}

func (r readiness) Loaded() bool  { return r.analyzer.Loaded() }
func (r readiness) Trained() bool { return r.forecaster.Trained() }

func New(
	config *config.Config,
	analyzer analyzing.Analyzer,
	forecaster forecasting.Forecaster,
	insights insighting.Provider,
	authenticator authenticating.Authenticator,
	jobs handler.JobRunner,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, analyzer, forecaster, insights, authenticator, jobs),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// NewHandler builds the routed handler behind the global middleware chain.
func NewHandler(
	config *config.Config,
	analyzer analyzing.Analyzer,
	forecaster forecasting.Forecaster,
	insights insighting.Provider,
	authenticator authenticating.Authenticator,
	jobs handler.JobRunner,
) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(readiness{analyzer: analyzer, forecaster: forecaster})...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.Analytics(analyzer)...),
		router.WithRoutes(handler.Forecast(forecaster)...),
		router.WithRoutes(handler.Insights(insights)...),
		router.WithRoutes(handler.Jobs(jobs, authenticator)...),
		router.WithNotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "route not found", nil)
		})),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("interrupt signal received")
	case <-ctx.Done():
		logrus.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("shutting down server")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
		return err
	}

	logrus.Info("server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
