package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// CopyReport counts the rows copied per artifact. Artifacts missing from the
// source are reported as skipped.
type CopyReport struct {
	Transactions int
	Forecast     int
	Insights     int
	Skipped      []string
}

// Copy moves every saved artifact from one store to another, replacing what
// the destination holds.
func Copy(ctx context.Context, from, to SalesStore) (CopyReport, error) {
	var report CopyReport
	startTime := time.Now()

	transactions, err := from.LoadTransactions(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		report.Skipped = append(report.Skipped, "transactions")
	case err != nil:
		return report, fmt.Errorf("reading transactions: %w", err)
	default:
		if err := to.SaveTransactions(ctx, transactions); err != nil {
			return report, fmt.Errorf("writing transactions: %w", err)
		}
		report.Transactions = len(transactions)
	}

	forecast, err := from.LoadForecast(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		report.Skipped = append(report.Skipped, "forecast")
	case err != nil:
		return report, fmt.Errorf("reading forecast: %w", err)
	default:
		if err := to.SaveForecast(ctx, forecast); err != nil {
			return report, fmt.Errorf("writing forecast: %w", err)
		}
		report.Forecast = len(forecast)
	}

	insights, err := from.LoadInsights(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		report.Skipped = append(report.Skipped, "insights")
	case err != nil:
		return report, fmt.Errorf("reading insights: %w", err)
	default:
		if err := to.SaveInsights(ctx, insights); err != nil {
			return report, fmt.Errorf("writing insights: %w", err)
		}
		report.Insights = len(insights)
	}

	logrus.WithFields(logrus.Fields{
		"transactions": report.Transactions,
		"forecast":     report.Forecast,
		"insights":     report.Insights,
		"skipped":      report.Skipped,
		"duration":     time.Since(startTime).String(),
	}).Info("repository: artifacts copied")

	return report, nil
}
