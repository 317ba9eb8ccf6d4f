package handler

import (
	"net/http"

	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/analyzing"
	"github.com/vfg2006/bizpredict-api/pkg/apiErrors"
	"github.com/vfg2006/bizpredict-api/pkg/utils"
)

func GetStats(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.Stats()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, stats)
	})
}

func GetProducts(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products, err := service.Products()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, products)
	})
}

func GetRegions(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		regions, err := service.Regions()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, regions)
	})
}

// GetTrends accepts period=daily|weekly|monthly, monthly by default.
func GetTrends(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		period, err := analyzing.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "period must be daily, weekly or monthly", nil)
			return
		}

		trends, err := service.Trends(period)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, trends)
	})
}

func GetCategories(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := service.Categories()
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string][]string{"categories": categories})
	})
}

func GetHistorical(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		startDate, err := utils.ParseOptionalDate(query.Get("start_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date must be YYYY-MM-DD", nil)
			return
		}

		endDate, err := utils.ParseOptionalDate(query.Get("end_date"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date must be YYYY-MM-DD", nil)
			return
		}

		filters := &domain.SalesFilters{StartDate: startDate, EndDate: endDate}
		if category := query.Get("category"); category != "" {
			filters.Category = &category
		}

		series, err := service.Historical(filters)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, series)
	})
}
