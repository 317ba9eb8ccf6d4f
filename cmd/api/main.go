package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/infrastructure/cache/redis"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/api"
	"github.com/vfg2006/bizpredict-api/internal/bootstrap"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/scheduler"
	"github.com/vfg2006/bizpredict-api/internal/usecases/analyzing"
	"github.com/vfg2006/bizpredict-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	bootstrap.ConfigureLogger(cfg.App.LogLevel)
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open sales store")
	}
	defer closeStore()

	analyzer := analyzing.NewService()

	forecaster := forecasting.NewService(forecasting.ModelConfigFrom(cfg.Forecast))
	if cfg.Redis.Enabled {
		cache, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Warn("redis unavailable, forecasts will not be cached")
		} else {
			defer cache.Close()
			forecaster.WithCache(cache)
		}
	}

	insightService := insighting.NewService(
		insighting.NewEngine(insighting.ConfigFrom(cfg.Insight)),
		analyzer,
	).WithStore(store, cfg.Insight.PreferStoredInsights)

	authenticator := authenticating.NewService(cfg.Auth)

	refreshService := scheduler.NewRefreshSyncService(store, analyzer, forecaster, cfg)
	if opts, err := bootstrap.PipelineOptions(cfg); err != nil {
		logrus.WithError(err).Warn("pipeline job disabled")
	} else {
		refreshService.WithPipeline(pipeline.NewRunner(store, opts))
	}

	if err := refreshService.Refresh(ctx); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logrus.Warn("no sales data found, run `bizpredict generate` or POST /api/jobs/run/pipeline")
		} else {
			logrus.WithError(err).Error("initial data load failed")
		}
	}

	if err := refreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start refresh scheduler")
	}

	server, err := api.New(cfg, analyzer, forecaster, insightService, authenticator, refreshService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}
