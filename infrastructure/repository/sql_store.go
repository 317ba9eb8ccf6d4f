package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/infrastructure/database"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

const (
	transactionsTable = "sales_transactions"
	forecastTable     = "sales_forecast"
	insightsTable     = "sales_insights"

	// Keeps every batch under SQLite's 999 bound parameters.
	insertBatchSize = 100
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + transactionsTable + ` (
		transaction_id BIGINT PRIMARY KEY,
		sale_date DATE NOT NULL,
		region VARCHAR(64) NOT NULL,
		product_category VARCHAR(64) NOT NULL,
		customer_segment VARCHAR(64) NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price NUMERIC(14,2) NOT NULL,
		total_sales NUMERIC(14,2) NOT NULL,
		currency VARCHAR(3) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + forecastTable + ` (
		forecast_date DATE PRIMARY KEY,
		predicted_sales NUMERIC(14,2) NOT NULL,
		lower_bound NUMERIC(14,2) NOT NULL,
		upper_bound NUMERIC(14,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + insightsTable + ` (
		seq INTEGER PRIMARY KEY,
		category VARCHAR(32) NOT NULL,
		severity VARCHAR(16) NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		recommendation TEXT NOT NULL,
		supporting_metric DOUBLE PRECISION NOT NULL
	)`,
}

// SQLStore keeps the artifacts in three tables of a postgres or sqlite database.
type SQLStore struct {
	conn database.Conn
}

func NewSQLStore(conn database.Conn) *SQLStore {
	return &SQLStore{conn: conn}
}

// Migrate creates the tables when they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := s.conn.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("repository: migrating schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) SaveTransactions(ctx context.Context, transactions []domain.Transaction) error {
	columns := []string{
		"transaction_id", "sale_date", "region", "product_category", "customer_segment",
		"quantity", "unit_price", "total_sales", "currency",
	}

	rows := make([][]interface{}, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []interface{}{
			t.TransactionID,
			t.Date,
			t.Region,
			t.ProductCategory,
			t.CustomerSegment,
			t.Quantity,
			money(t.UnitPrice),
			money(t.TotalSales),
			t.Currency,
		})
	}

	return s.replace(ctx, transactionsTable, columns, rows)
}

func (s *SQLStore) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query, args, err := s.conn.Builder().
		Select(
			"transaction_id", "sale_date", "region", "product_category", "customer_segment",
			"quantity", "unit_price", "total_sales", "currency",
		).
		From(transactionsTable).
		OrderBy("transaction_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repository: building query: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: loading transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t                 domain.Transaction
			unitPrice, amount decimal.Decimal
		)
		if err := rows.Scan(
			&t.TransactionID, &t.Date, &t.Region, &t.ProductCategory, &t.CustomerSegment,
			&t.Quantity, &unitPrice, &amount, &t.Currency,
		); err != nil {
			return nil, fmt.Errorf("repository: scanning transaction: %w", err)
		}
		t.Date = t.Date.UTC()
		t.UnitPrice = unitPrice.InexactFloat64()
		t.TotalSales = amount.InexactFloat64()
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, transactionsTable)
	}

	return transactions, nil
}

func (s *SQLStore) SaveForecast(ctx context.Context, points []domain.ForecastPoint) error {
	columns := []string{"forecast_date", "predicted_sales", "lower_bound", "upper_bound"}

	rows := make([][]interface{}, 0, len(points))
	for _, p := range points {
		rows = append(rows, []interface{}{p.Date, money(p.PredictedSales), money(p.LowerBound), money(p.UpperBound)})
	}

	return s.replace(ctx, forecastTable, columns, rows)
}

func (s *SQLStore) LoadForecast(ctx context.Context) ([]domain.ForecastPoint, error) {
	query, args, err := s.conn.Builder().
		Select("forecast_date", "predicted_sales", "lower_bound", "upper_bound").
		From(forecastTable).
		OrderBy("forecast_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repository: building query: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: loading forecast: %w", err)
	}
	defer rows.Close()

	points := make([]domain.ForecastPoint, 0)
	for rows.Next() {
		var (
			date                    time.Time
			predicted, lower, upper decimal.Decimal
		)
		if err := rows.Scan(&date, &predicted, &lower, &upper); err != nil {
			return nil, fmt.Errorf("repository: scanning forecast: %w", err)
		}
		points = append(points, domain.ForecastPoint{
			Date:           date.UTC(),
			PredictedSales: predicted.InexactFloat64(),
			LowerBound:     lower.InexactFloat64(),
			UpperBound:     upper.InexactFloat64(),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, forecastTable)
	}

	return points, nil
}

func (s *SQLStore) SaveInsights(ctx context.Context, insights []domain.Insight) error {
	columns := []string{"seq", "category", "severity", "title", "message", "recommendation", "supporting_metric"}

	rows := make([][]interface{}, 0, len(insights))
	for i, in := range insights {
		rows = append(rows, []interface{}{
			i, in.Category, string(in.Severity), in.Title, in.Message, in.Recommendation, in.SupportingMetric,
		})
	}

	return s.replace(ctx, insightsTable, columns, rows)
}

func (s *SQLStore) LoadInsights(ctx context.Context) ([]domain.Insight, error) {
	query, args, err := s.conn.Builder().
		Select("category", "severity", "title", "message", "recommendation", "supporting_metric").
		From(insightsTable).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repository: building query: %w", err)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: loading insights: %w", err)
	}
	defer rows.Close()

	insights := make([]domain.Insight, 0)
	for rows.Next() {
		var (
			in       domain.Insight
			severity string
		)
		if err := rows.Scan(&in.Category, &severity, &in.Title, &in.Message, &in.Recommendation, &in.SupportingMetric); err != nil {
			return nil, fmt.Errorf("repository: scanning insight: %w", err)
		}
		in.Severity = domain.Severity(severity)
		insights = append(insights, in)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(insights) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, insightsTable)
	}

	return insights, nil
}

// replace deletes every row of table and inserts rows in batches, all in one
// transaction.
func (s *SQLStore) replace(ctx context.Context, table string, columns []string, rows [][]interface{}) error {
	builder := s.conn.Builder()

	err := s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := builder.Delete(table).RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}

		for start := 0; start < len(rows); start += insertBatchSize {
			end := min(start+insertBatchSize, len(rows))

			insert := builder.Insert(table).Columns(columns...)
			for _, row := range rows[start:end] {
				insert = insert.Values(row...)
			}

			if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("inserting into %s: %w", table, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("repository: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"table": table,
		"rows":  len(rows),
	}).Info("repository: table replaced")

	return nil
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
