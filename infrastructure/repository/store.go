// Package repository persists the artifacts of the pipeline stages.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vfg2006/bizpredict-api/infrastructure/database"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrNotFound is returned by the Load methods when the artifact was never saved.
var ErrNotFound = errors.New("repository: artifact not found")

// SalesStore saves and loads the transaction, forecast and insight tables.
// Every Save fully replaces the previous artifact of the same kind.
type SalesStore interface {
	SaveTransactions(ctx context.Context, transactions []domain.Transaction) error
	LoadTransactions(ctx context.Context) ([]domain.Transaction, error)
	SaveForecast(ctx context.Context, points []domain.ForecastPoint) error
	LoadForecast(ctx context.Context) ([]domain.ForecastPoint, error)
	SaveInsights(ctx context.Context, insights []domain.Insight) error
	LoadInsights(ctx context.Context) ([]domain.Insight, error)
}

// NewSalesStore picks the store for the configured driver. conn is only used
// by the SQL drivers and may be nil for csv.
func NewSalesStore(ctx context.Context, cfg config.Storage, conn database.Conn) (SalesStore, error) {
	switch cfg.Driver {
	case "", DriverCSV:
		return NewCSVStore(cfg.TransactionsCSV, cfg.ForecastCSV, cfg.InsightsCSV), nil
	case DriverPostgres, DriverSQLite:
		if conn == nil {
			return nil, fmt.Errorf("repository: %s driver needs a database connection", cfg.Driver)
		}
		store := NewSQLStore(conn)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("repository: unknown storage driver %q", cfg.Driver)
}
