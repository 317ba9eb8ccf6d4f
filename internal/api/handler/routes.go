package handler

import (
	"net/http"

	"github.com/vfg2006/bizpredict-api/internal/api/handler/router"
	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/analyzing"
	"github.com/vfg2006/bizpredict-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
	"github.com/vfg2006/bizpredict-api/pkg/metrics"
	"github.com/vfg2006/bizpredict-api/pkg/middleware"
)

func Healthcheck(readiness Readiness) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: Root(),
		},
		{
			Path:    "/health",
			Method:  http.MethodGet,
			Handler: Health(readiness),
		},
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func Analytics(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{Path: "/api/stats", Method: http.MethodGet, Handler: GetStats(service)},
		{Path: "/api/products", Method: http.MethodGet, Handler: GetProducts(service)},
		{Path: "/api/regions", Method: http.MethodGet, Handler: GetRegions(service)},
		{Path: "/api/trends", Method: http.MethodGet, Handler: GetTrends(service)},
		{Path: "/api/categories", Method: http.MethodGet, Handler: GetCategories(service)},
		{Path: "/api/historical", Method: http.MethodGet, Handler: GetHistorical(service)},
	}
}

func Forecast(service forecasting.Forecaster) []router.Route {
	return []router.Route{
		{
			Path:    "/api/forecast",
			Method:  http.MethodPost,
			Handler: PostForecast(service),
		},
	}
}

func Insights(service insighting.Provider) []router.Route {
	return []router.Route{
		{
			Path:    "/api/insights",
			Method:  http.MethodGet,
			Handler: GetInsights(service),
		},
	}
}

// Jobs requires an operator token when auth is enabled.
func Jobs(jobs JobRunner, auth authenticating.Authenticator) []router.Route {
	var guard []func(http.Handler) http.Handler
	if auth.Enabled() {
		guard = []func(http.Handler) http.Handler{
			middleware.AuthMiddleware(auth),
			middleware.RoleMiddleware(domain.RoleOperator),
		}
	}

	return []router.Route{
		{
			Path:        "/api/jobs/run/:type",
			Method:      http.MethodPost,
			Handler:     RunJob(jobs),
			Middlewares: guard,
		},
		{
			Path:        "/api/jobs/status",
			Method:      http.MethodGet,
			Handler:     GetJobStatus(jobs),
			Middlewares: guard,
		},
	}
}
