package insighting

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

// TransactionSource exposes the dataset currently served by the API.
type TransactionSource interface {
	Transactions() ([]domain.Transaction, error)
}

// ArtifactStore is the read side of the pipeline outputs.
type ArtifactStore interface {
	LoadForecast(ctx context.Context) ([]domain.ForecastPoint, error)
	LoadInsights(ctx context.Context) ([]domain.Insight, error)
}

// Provider serves the current insight list.
type Provider interface {
	Insights(ctx context.Context) ([]domain.Insight, error)
}

// Service answers insight queries either from the table saved by the batch
// pipeline or by running the engine over the loaded dataset.
type Service struct {
	engine       Insighter
	source       TransactionSource
	store        ArtifactStore
	preferStored bool
}

func NewService(engine Insighter, source TransactionSource) *Service {
	return &Service{engine: engine, source: source}
}

// WithStore enables the saved forecast for the outlook rule and, when
// preferStored is set, serving the saved insights table as is.
func (s *Service) WithStore(store ArtifactStore, preferStored bool) *Service {
	s.store = store
	s.preferStored = preferStored
	return s
}

func (s *Service) Insights(ctx context.Context) ([]domain.Insight, error) {
	if s.store != nil && s.preferStored {
		stored, err := s.store.LoadInsights(ctx)
		switch {
		case err == nil && len(stored) > 0:
			return stored, nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		logrus.Debug("insight: no saved insights, computing live")
	}

	transactions, err := s.source.Transactions()
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	return s.engine.Generate(transactions, s.forecast(ctx))
}

// forecast is best effort: without it the outlook rule is skipped.
func (s *Service) forecast(ctx context.Context) []domain.ForecastPoint {
	if s.store == nil {
		return nil
	}

	points, err := s.store.LoadForecast(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).Warn("insight: reading saved forecast")
		}
		return nil
	}
	return points
}
