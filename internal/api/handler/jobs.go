package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/bizpredict-api/pkg/apiErrors"
	"github.com/vfg2006/bizpredict-api/pkg/log"
)

// JobRunner starts background jobs and reports their status.
type JobRunner interface {
	TriggerManualSync(jobType string) error
	GetStatus() map[string]any
}

// RunJob starts the job named by the :type parameter and answers 202.
func RunJob(jobs JobRunner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if jobType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "job type is required", nil)
			return
		}

		if err := jobs.TriggerManualSync(jobType); err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.ForContext(r.Context()).WithField("type", jobType).Info("jobs: manual run accepted")

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "job started",
			"type":    jobType,
		})
	})
}

func GetJobStatus(jobs JobRunner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, jobs.GetStatus())
	})
}
