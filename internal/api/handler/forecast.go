package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/vfg2006/bizpredict-api/internal/domain"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/pkg/apiErrors"
	"github.com/vfg2006/bizpredict-api/pkg/log"
)

// PostForecast forecasts periods days ahead, optionally for one category or
// region. An empty body uses the default horizon.
func PostForecast(service forecasting.Forecaster) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request domain.ForecastRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid request body", nil)
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"periods":  request.Periods,
			"category": request.Category,
			"region":   request.Region,
		}).Info("forecast: request received")

		response, err := service.Forecast(r.Context(), request)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, response)
	})
}
