package forecasting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

const DefaultPeriods = 90

// Cache stores forecast responses. Get returns nil without error on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.ForecastResponse, error)
	Set(ctx context.Context, key string, response *domain.ForecastResponse) error
}

// Forecaster serves on-demand forecasts over the loaded dataset.
type Forecaster interface {
	// Load retrains the base model on the full dataset and replaces it.
	Load(transactions []domain.Transaction) error

	// Forecast predicts the requested horizon, retraining on the filtered
	// subset when a category or region is given.
	Forecast(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error)

	Trained() bool
}

type Service struct {
	cfg          ModelConfig
	mu           sync.RWMutex
	transactions []domain.Transaction
	model        *Model
	version      string
	cache        Cache
}

func NewService(cfg ModelConfig) *Service {
	return &Service{cfg: cfg}
}

// WithCache enables response caching.
func (s *Service) WithCache(cache Cache) *Service {
	s.cache = cache
	return s
}

func (s *Service) Load(transactions []domain.Transaction) error {
	start := time.Now()

	model := NewModel(s.cfg)
	if err := model.Fit(domain.DailyTotals(transactions)); err != nil {
		s.mu.Lock()
		s.transactions = transactions
		s.model = nil
		s.version = newRunID()
		s.mu.Unlock()
		return err
	}

	metrics.ModelTrainingDuration.WithLabelValues("overall").Observe(time.Since(start).Seconds())

	s.mu.Lock()
	s.transactions = transactions
	s.model = model
	s.version = newRunID()
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"transactions":  len(transactions),
		"seasonalities": model.ActiveSeasonalities(),
	}).Info("forecast: base model trained")

	return nil
}

func (s *Service) Trained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model != nil
}

func (s *Service) Forecast(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	if req.Periods == 0 {
		req.Periods = DefaultPeriods
	}
	if req.Periods < 1 || req.Periods > MaxPeriods {
		metrics.ForecastsTotal.WithLabelValues("invalid").Inc()
		return nil, errors.Wrapf(ErrInvalidPeriods, "got %d, want 1..%d", req.Periods, MaxPeriods)
	}

	s.mu.RLock()
	model, transactions, version := s.model, s.transactions, s.version
	s.mu.RUnlock()

	if model == nil {
		metrics.ForecastsTotal.WithLabelValues("not_trained").Inc()
		return nil, ErrModelNotTrained
	}

	key := cacheKey(version, req)
	if cached := s.fromCache(ctx, key); cached != nil {
		metrics.ForecastsTotal.WithLabelValues("cached").Inc()
		return cached, nil
	}

	history := domain.DailyTotals(transactions)
	if filtered(req) {
		subset := domain.Filter(transactions, &domain.SalesFilters{Category: req.Category, Region: req.Region})
		history = domain.DailyTotals(subset)

		model = NewModel(s.cfg)
		start := time.Now()
		if err := model.Fit(history); err != nil {
			metrics.ForecastsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.ModelTrainingDuration.WithLabelValues("filtered").Observe(time.Since(start).Seconds())
	}

	response, err := buildResponse(model, history, req.Periods)
	if err != nil {
		metrics.ForecastsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.toCache(ctx, key, response)
	metrics.ForecastsTotal.WithLabelValues("ok").Inc()

	return response, nil
}

func buildResponse(model *Model, history []domain.DailyTotal, periods int) (*domain.ForecastResponse, error) {
	points, err := model.Forecast(periods)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, len(history))
	for i, h := range history {
		dates[i] = h.Date
	}

	fitted, err := model.Predict(dates)
	if err != nil {
		return nil, err
	}

	actual, inSample := values(history), predictions(fitted)
	summary := domain.SummarizeForecast(points)

	response := &domain.ForecastResponse{
		RunID:       newRunID(),
		Dates:       make([]string, len(points)),
		Predictions: make([]float64, len(points)),
		LowerBound:  make([]float64, len(points)),
		UpperBound:  make([]float64, len(points)),
		Metrics: domain.ForecastResponseMetrics{
			MAE:           MAE(actual, inSample),
			MAPE:          MAPE(actual, inSample),
			TotalForecast: summary.TotalForecastedSales,
			AvgDaily:      summary.AvgDailySales,
		},
	}

	for i, p := range points {
		response.Dates[i] = utils.FormatDate(p.Date)
		response.Predictions[i] = utils.RoundWithTwoDecimalPlace(p.PredictedSales)
		response.LowerBound[i] = utils.RoundWithTwoDecimalPlace(p.LowerBound)
		response.UpperBound[i] = utils.RoundWithTwoDecimalPlace(p.UpperBound)
	}

	return response, nil
}

func (s *Service) fromCache(ctx context.Context, key string) *domain.ForecastResponse {
	if s.cache == nil {
		return nil
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).Warn("forecast: cache read failed")
		return nil
	}

	if cached == nil {
		metrics.CacheMisses.WithLabelValues("forecast").Inc()
		return nil
	}

	metrics.CacheHits.WithLabelValues("forecast").Inc()
	return cached
}

func (s *Service) toCache(ctx context.Context, key string, response *domain.ForecastResponse) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, response); err != nil {
		logrus.WithError(err).Warn("forecast: cache write failed")
	}
}

func filtered(req domain.ForecastRequest) bool {
	return (req.Category != nil && *req.Category != "") || (req.Region != nil && *req.Region != "")
}

func cacheKey(version string, req domain.ForecastRequest) string {
	var category, region string
	if req.Category != nil {
		category = *req.Category
	}
	if req.Region != nil {
		region = *req.Region
	}
	return fmt.Sprintf("%s:%d:%s:%s", version, req.Periods, category, region)
}
