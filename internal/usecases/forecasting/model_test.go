package forecasting

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizpredict-api/internal/config"
	"github.com/vfg2006/bizpredict-api/internal/domain"
)

var origin = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

// signal is a linear trend with a weekly cycle, exactly representable by the model.
func signal(day int) float64 {
	return 1000 + 2*float64(day) + 100*math.Sin(2*math.Pi*float64(day)/7)
}

func series(days int) []domain.DailyTotal {
	totals := make([]domain.DailyTotal, days)
	for i := range totals {
		totals[i] = domain.DailyTotal{Date: origin.AddDate(0, 0, i), Sales: signal(i)}
	}
	return totals
}

func TestModel_ForecastHorizonLength(t *testing.T) {
	model := NewModel(DefaultModelConfig())
	require.NoError(t, model.Fit(series(120)))

	for _, periods := range []int{1, 30, 90, MaxPeriods} {
		points, err := model.Forecast(periods)
		require.NoError(t, err)
		require.Len(t, points, periods)

		for i, p := range points {
			assert.Equal(t, origin.AddDate(0, 0, 120+i), p.Date)
			assert.LessOrEqual(t, p.LowerBound, p.PredictedSales)
			assert.GreaterOrEqual(t, p.UpperBound, p.PredictedSales)
		}
	}
}

func TestModel_RecoversSignal(t *testing.T) {
	model := NewModel(DefaultModelConfig())
	require.NoError(t, model.Fit(series(120)))

	points, err := model.Forecast(14)
	require.NoError(t, err)

	for i, p := range points {
		assert.InEpsilon(t, signal(120+i), p.PredictedSales, 0.02)
	}
}

func TestModel_ActiveSeasonalities(t *testing.T) {
	tests := []struct {
		name string
		days int
		want []string
	}{
		{"short history keeps weekly only", 40, []string{"weekly"}},
		{"four months adds monthly", 120, []string{"weekly", "monthly"}},
		{"over two years adds yearly", 800, []string{"yearly", "weekly", "monthly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := NewModel(DefaultModelConfig())
			require.NoError(t, model.Fit(series(tt.days)))
			assert.Equal(t, tt.want, model.ActiveSeasonalities())
		})
	}
}

func TestModel_Errors(t *testing.T) {
	t.Run("insufficient data", func(t *testing.T) {
		model := NewModel(DefaultModelConfig())
		err := model.Fit(series(DefaultMinObservations - 1))
		assert.ErrorIs(t, err, ErrInsufficientData)
		assert.False(t, model.Trained())
	})

	t.Run("not trained", func(t *testing.T) {
		model := NewModel(DefaultModelConfig())
		_, err := model.Forecast(10)
		assert.ErrorIs(t, err, ErrModelNotTrained)

		_, err = model.Predict([]time.Time{origin})
		assert.ErrorIs(t, err, ErrModelNotTrained)
	})

	t.Run("invalid periods", func(t *testing.T) {
		model := NewModel(DefaultModelConfig())
		require.NoError(t, model.Fit(series(60)))

		for _, periods := range []int{0, -5, MaxPeriods + 1} {
			_, err := model.Forecast(periods)
			assert.ErrorIs(t, err, ErrInvalidPeriods, periods)
		}
	})
}

func TestModel_ConstantSeries(t *testing.T) {
	totals := make([]domain.DailyTotal, 45)
	for i := range totals {
		totals[i] = domain.DailyTotal{Date: origin.AddDate(0, 0, i), Sales: 500}
	}

	model := NewModel(DefaultModelConfig())
	require.NoError(t, model.Fit(totals))

	points, err := model.Forecast(7)
	require.NoError(t, err)
	for _, p := range points {
		assert.InDelta(t, 500, p.PredictedSales, 5)
	}
}

func TestEvaluate(t *testing.T) {
	evaluation, err := Evaluate([]float64{100, 200, 0}, []float64{110, 190, 10})
	require.NoError(t, err)

	assert.InDelta(t, 10, evaluation.MAE, 1e-9)
	assert.InDelta(t, 10, evaluation.RMSE, 1e-9)
	assert.InDelta(t, 7.5, evaluation.MAPE, 1e-9)
	assert.InDelta(t, 0.985, evaluation.R2, 1e-9)

	_, err = Evaluate([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Evaluate(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMAPE_AllZeroActuals(t *testing.T) {
	assert.Equal(t, 0.0, MAPE([]float64{0, 0}, []float64{5, 5}))
}

func TestModelConfigFrom(t *testing.T) {
	cfg := ModelConfigFrom(configForecast(0.95, 60))
	assert.Equal(t, 0.95, cfg.IntervalWidth)
	assert.Equal(t, 60, cfg.MinObservations)

	cfg = ModelConfigFrom(configForecast(1.5, 0))
	assert.Equal(t, DefaultIntervalWidth, cfg.IntervalWidth)
	assert.Equal(t, DefaultMinObservations, cfg.MinObservations)
}

func configForecast(width float64, minObservations int) config.Forecast {
	return config.Forecast{IntervalWidth: width, MinObservations: minObservations}
}
