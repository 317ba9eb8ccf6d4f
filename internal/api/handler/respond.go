package handler

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/bizpredict-api/infrastructure/repository"
	"github.com/vfg2006/bizpredict-api/internal/scheduler"
	"github.com/vfg2006/bizpredict-api/internal/usecases/analyzing"
	"github.com/vfg2006/bizpredict-api/internal/usecases/forecasting"
	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
	"github.com/vfg2006/bizpredict-api/pkg/apiErrors"
	"github.com/vfg2006/bizpredict-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("encoding response")
	}
}

// errorCode maps usecase errors to the API error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, analyzing.ErrDataNotLoaded),
		errors.Is(err, insighting.ErrNoTransactions),
		errors.Is(err, repository.ErrNotFound):
		return apiErrors.ErrDataNotLoaded
	case errors.Is(err, forecasting.ErrModelNotTrained):
		return apiErrors.ErrModelNotTrained
	case errors.Is(err, forecasting.ErrInvalidPeriods),
		errors.Is(err, analyzing.ErrInvalidPeriod),
		errors.Is(err, scheduler.ErrUnknownJob),
		errors.Is(err, scheduler.ErrPipelineUnavailable):
		return apiErrors.ErrInvalidRequest
	case errors.Is(err, forecasting.ErrInsufficientData):
		return apiErrors.ErrInsufficientData
	case errors.Is(err, scheduler.ErrSyncRunning):
		return apiErrors.ErrJobRunning
	}
	return apiErrors.ErrInternalServer
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := errorCode(err)

	logger := log.ForContext(r.Context()).WithError(err).WithField("code", code)
	if apiErrors.Status(code) >= http.StatusInternalServerError && code != apiErrors.ErrDataNotLoaded && code != apiErrors.ErrModelNotTrained {
		logger.Error("request failed")
	} else {
		logger.Warn("request rejected")
	}

	apiErrors.WriteError(w, code, err.Error(), nil)
}
