// Package bootstrap holds the wiring shared by the api server and the
// bizpredict CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/infrastructure/database"
	"github.com/vfg2006/bizpredict-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizpredict-api/infrastructure/database/sqlite"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/generating"
	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/pipeline"
)

// ConfigureLogger sets the text formatter and the configured level.
func ConfigureLogger(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", level)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
}

// OpenStore connects the configured storage driver. The returned close func
// is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.SalesStore, func(), error) {
	var conn *database.Connection
	var err error

	switch cfg.Storage.Driver {
	case repository.DriverPostgres:
		conn, err = postgres.NewConnection(ctx, cfg.Database)
	case repository.DriverSQLite:
		conn, err = sqlite.NewConnection(ctx, cfg.Database.SQLitePath)
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("connecting to %s: %w", cfg.Storage.Driver, err)
	}

	closeFn := func() {}
	var dbConn database.Conn
	if conn != nil {
		dbConn = conn
		closeFn = func() {
			if err := conn.Close(); err != nil {
				logrus.WithError(err).Warn("closing database connection")
			}
		}
	}

	store, err := repository.NewSalesStore(ctx, cfg.Storage, dbConn)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}

	logrus.WithField("driver", driverName(cfg.Storage.Driver)).Info("sales store ready")
	return store, closeFn, nil
}

func driverName(driver string) string {
	if driver == "" {
		return repository.DriverCSV
	}
	return driver
}

// PipelineOptions maps the application settings onto the batch stages.
func PipelineOptions(cfg *config.Config) (pipeline.Options, error) {
	generator, err := generating.ConfigFrom(cfg.Generator)
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Generator: generator,
		Model:     forecasting.ModelConfigFrom(cfg.Forecast),
		Insight:   insighting.ConfigFrom(cfg.Insight),
		Periods:   cfg.Forecast.Periods,
		TestSize:  cfg.Forecast.TestSize,
	}, nil
}
