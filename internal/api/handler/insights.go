package handler

import (
	"net/http"

	"github.com/vfg2006/bizpredict-api/internal/usecases/insighting"
)

func GetInsights(service insighting.Provider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		insights, err := service.Insights(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, insights)
	})
}
