package forecasting

import (
	"math"

	"github.com/pkg/errors"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Evaluate computes MAE, RMSE, MAPE (percent) and R² of predicted against actual.
// Zero actuals are left out of MAPE.
func Evaluate(actual, predicted []float64) (domain.EvaluationMetrics, error) {
	if len(actual) != len(predicted) {
		return domain.EvaluationMetrics{}, errors.Wrapf(ErrLengthMismatch, "%d actual, %d predicted", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return domain.EvaluationMetrics{}, errors.Wrap(ErrInsufficientData, "no points to evaluate")
	}

	var squared float64
	for i := range actual {
		diff := actual[i] - predicted[i]
		squared += diff * diff
	}

	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}

	return domain.EvaluationMetrics{
		MAE:  MAE(actual, predicted),
		RMSE: math.Sqrt(squared / float64(len(actual))),
		MAPE: MAPE(actual, predicted),
		R2:   r2,
	}, nil
}

func MAE(actual, predicted []float64) float64 {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(n)
}

func MAPE(actual, predicted []float64) float64 {
	n := min(len(actual), len(predicted))

	var sum float64
	counted := 0
	for i := 0; i < n; i++ {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((actual[i] - predicted[i]) / actual[i])
		counted++
	}

	if counted == 0 {
		return 0
	}
	return sum / float64(counted) * 100
}

func values(totals []domain.DailyTotal) []float64 {
	out := make([]float64, len(totals))
	for i, t := range totals {
		out[i] = t.Sales
	}
	return out
}

func predictions(points []domain.ForecastPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.PredictedSales
	}
	return out
}
