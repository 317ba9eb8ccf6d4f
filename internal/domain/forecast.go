package domain

import "time"

// ForecastPoint is one day of the forecast horizon.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedSales float64   `json:"predicted_sales"`
	LowerBound     float64   `json:"lower_bound"`
	UpperBound     float64   `json:"upper_bound"`
}

// EvaluationMetrics compares predictions against a held-out tail of the series.
type EvaluationMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
	R2   float64 `json:"r2"`
}

type ForecastSummary struct {
	TotalForecastedSales float64 `json:"total_forecasted_sales"`
	AvgDailySales        float64 `json:"avg_daily_sales"`
	MinDailySales        float64 `json:"min_daily_sales"`
	MaxDailySales        float64 `json:"max_daily_sales"`
	Trend                string  `json:"trend"`
}

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

type ForecastRequest struct {
	Periods  int     `json:"periods"`
	Category *string `json:"category,omitempty"`
	Region   *string `json:"region,omitempty"`
}

type ForecastResponseMetrics struct {
	MAE           float64 `json:"mae"`
	MAPE          float64 `json:"mape"`
	TotalForecast float64 `json:"total_forecast"`
	AvgDaily      float64 `json:"avg_daily"`
}

type ForecastResponse struct {
	RunID       string                  `json:"run_id"`
	Dates       []string                `json:"dates"`
	Predictions []float64               `json:"predictions"`
	LowerBound  []float64               `json:"lower_bound"`
	UpperBound  []float64               `json:"upper_bound"`
	Metrics     ForecastResponseMetrics `json:"metrics"`
}

// ForecastRun groups the output of one training run of the pipeline.
type ForecastRun struct {
	RunID      string             `json:"run_id"`
	TrainedAt  time.Time          `json:"trained_at"`
	Points     []ForecastPoint    `json:"points"`
	Evaluation *EvaluationMetrics `json:"evaluation,omitempty"`
	Summary    ForecastSummary    `json:"summary"`
}

// SummarizeForecast computes total, average, extremes and direction of the horizon.
func SummarizeForecast(points []ForecastPoint) ForecastSummary {
	if len(points) == 0 {
		return ForecastSummary{Trend: TrendDecreasing}
	}

	summary := ForecastSummary{
		MinDailySales: points[0].PredictedSales,
		MaxDailySales: points[0].PredictedSales,
	}

	for _, p := range points {
		summary.TotalForecastedSales += p.PredictedSales
		if p.PredictedSales < summary.MinDailySales {
			summary.MinDailySales = p.PredictedSales
		}
		if p.PredictedSales > summary.MaxDailySales {
			summary.MaxDailySales = p.PredictedSales
		}
	}
	summary.AvgDailySales = summary.TotalForecastedSales / float64(len(points))

	summary.Trend = TrendDecreasing
	if points[len(points)-1].PredictedSales > points[0].PredictedSales {
		summary.Trend = TrendIncreasing
	}

	return summary
}
