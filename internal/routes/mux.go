// Package routes
package routes

import (
	"net/http"

	"github.com/ntentasd/occupancy-api/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewMux(app *App) http.Handler {
	mux := http.NewServeMux()

	// health check
	mux.HandleFunc("/healthz", app.healthHandler)

	// metrics
	mux.Handle("/metrics", promhttp.Handler())

	// occupancy predictions
	mux.HandleFunc("/predict", app.predictHandler)
	mux.HandleFunc("/predict/batch", app.predictBatchHandler)

	// loaded artifact info
	mux.HandleFunc("/model/info", app.modelInfoHandler)

	// recent predictions per sensor
	mux.HandleFunc("/history", app.historyHandler)

	return utils.WithCORS(mux)
}
