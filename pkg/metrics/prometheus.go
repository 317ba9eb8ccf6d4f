package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizpredict_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizpredict_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ModelTrainingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizpredict_model_training_duration_seconds",
			Help:    "Forecast model training duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"scope"},
	)

	ForecastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizpredict_forecasts_total",
			Help: "Total number of forecasts served",
		},
		[]string{"status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizpredict_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizpredict_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizpredict_pipeline_stage_duration_seconds",
			Help:    "Batch pipeline stage duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"stage", "status"},
	)

	DatasetTransactions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bizpredict_dataset_transactions",
			Help: "Number of transactions currently loaded",
		},
	)

	InsightsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizpredict_insights_generated_total",
			Help: "Total insights generated",
		},
		[]string{"severity"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(ModelTrainingDuration)
		prometheus.MustRegister(ForecastsTotal)
		prometheus.MustRegister(CacheHits)
		prometheus.MustRegister(CacheMisses)
		prometheus.MustRegister(PipelineStageDuration)
		prometheus.MustRegister(DatasetTransactions)
		prometheus.MustRegister(InsightsGenerated)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
