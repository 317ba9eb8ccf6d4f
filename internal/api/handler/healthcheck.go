package handler

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const apiVersion = "1.0.0"

// Readiness reports whether the dataset is loaded and the base model trained.
type Readiness interface {
	Loaded() bool
	Trained() bool
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(time.Now().String()))
		if err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}

func Root() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"message": "Welcome to BizPredict API",
			"version": apiVersion,
			"endpoints": map[string]string{
				"health":   "/health",
				"stats":    "/api/stats",
				"forecast": "/api/forecast",
				"insights": "/api/insights",
				"products": "/api/products",
				"regions":  "/api/regions",
			},
		})
	})
}

// Health always answers 200; readiness is in the body.
func Health(readiness Readiness) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":        "healthy",
			"timestamp":     time.Now().Format(time.RFC3339),
			"data_loaded":   readiness.Loaded(),
			"model_trained": readiness.Trained(),
		})
	})
}
