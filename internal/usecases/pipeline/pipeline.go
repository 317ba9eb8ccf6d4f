// Package pipeline runs the batch stages: generate, forecast and insights.
// Each stage reads its input from the store and fully replaces its output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/generating"
	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
)

var ErrMissingInput = errors.New("pipeline: upstream artifact is missing, run the previous stage first")

const (
	StageGenerate = "generate"
	StageForecast = "forecast"
	StageInsights = "insights"
)

type Options struct {
	Generator generating.Config
	Model     forecasting.ModelConfig
	Insight   insighting.Config
	Periods   int
	TestSize  int
}

// Report collects the outputs of a full run.
type Report struct {
	Generation generating.Summary
	Forecast   *domain.ForecastRun
	Insights   []domain.Insight
}

type Runner struct {
	store    repository.SalesStore
	opts     Options
	engine   insighting.Insighter
	progress func(done, total int)
}

func NewRunner(store repository.SalesStore, opts Options) *Runner {
	if opts.Periods == 0 {
		opts.Periods = forecasting.DefaultPeriods
	}
	if opts.Insight == (insighting.Config{}) {
		opts.Insight = insighting.DefaultConfig()
	}

	return &Runner{
		store:  store,
		opts:   opts,
		engine: insighting.NewEngine(opts.Insight),
	}
}

// WithProgress reports generator progress once per generated day.
func (r *Runner) WithProgress(fn func(done, total int)) *Runner {
	r.progress = fn
	return r
}

// Days is the number of calendar days the generate stage will emit.
func (r *Runner) Days() int {
	generator, err := generating.NewGenerator(r.opts.Generator)
	if err != nil {
		return 0
	}
	return generator.Days()
}

func (r *Runner) Generate(ctx context.Context) (summary generating.Summary, err error) {
	defer observe(StageGenerate, time.Now(), &err)

	generator, err := generating.NewGenerator(r.opts.Generator)
	if err != nil {
		return generating.Summary{}, err
	}

	transactions := generator.WithProgress(r.progress).Generate()
	if err := r.store.SaveTransactions(ctx, transactions); err != nil {
		return generating.Summary{}, err
	}

	summary = generating.Summarize(transactions)
	logrus.WithFields(logrus.Fields{
		"transactions": summary.Transactions,
		"total_sales":  summary.TotalSales,
		"start":        summary.StartDate,
		"end":          summary.EndDate,
	}).Info("pipeline: transactions generated")

	return summary, nil
}

func (r *Runner) Forecast(ctx context.Context) (run *domain.ForecastRun, err error) {
	defer observe(StageForecast, time.Now(), &err)

	transactions, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}

	run, err = forecasting.NewSalesForecaster(r.opts.Model).Run(transactions, r.opts.TestSize, r.opts.Periods)
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveForecast(ctx, run.Points); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  run.RunID,
		"periods": len(run.Points),
		"trend":   run.Summary.Trend,
	}).Info("pipeline: forecast saved")

	return run, nil
}

// ForecastByCategory trains one model per product category. The result is
// not persisted.
func (r *Runner) ForecastByCategory(ctx context.Context) (points []forecasting.CategoryPoint, err error) {
	defer observe(StageForecast+"_by_category", time.Now(), &err)

	transactions, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}

	forecaster := forecasting.NewCategoryForecaster(r.opts.Model)
	if err := forecaster.TrainAll(transactions, r.opts.TestSize); err != nil {
		return nil, err
	}
	if _, err := forecaster.ForecastAll(r.opts.Periods); err != nil {
		return nil, err
	}

	return forecaster.Combined(), nil
}

// Insights runs the engine over the stored transactions and, when one was
// saved, the stored forecast.
func (r *Runner) Insights(ctx context.Context) (insights []domain.Insight, err error) {
	defer observe(StageInsights, time.Now(), &err)

	transactions, err := r.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}

	forecast, err := r.store.LoadForecast(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		logrus.Info("pipeline: no forecast saved, skipping forecast outlook")
		forecast = nil
	}

	insights, err = r.engine.Generate(transactions, forecast)
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveInsights(ctx, insights); err != nil {
		return nil, err
	}

	logrus.WithField("insights", len(insights)).Info("pipeline: insights saved")

	return insights, nil
}

// RunAll runs every stage in order and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context) (*Report, error) {
	summary, err := r.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageGenerate, err)
	}

	run, err := r.Forecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageForecast, err)
	}

	insights, err := r.Insights(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StageInsights, err)
	}

	return &Report{Generation: summary, Forecast: run, Insights: insights}, nil
}

func (r *Runner) loadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := r.store.LoadTransactions(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	return transactions, err
}

func observe(stage string, start time.Time, err *error) {
	status := "ok"
	if *err != nil {
		status = "error"
	}
	metrics.PipelineStageDuration.WithLabelValues(stage, status).Observe(time.Since(start).Seconds())
}
