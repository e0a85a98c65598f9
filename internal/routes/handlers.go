package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ntentasd/occupancy-api/internal/metrics"
	"github.com/ntentasd/occupancy-api/internal/pipeline"
	"github.com/ntentasd/occupancy-api/pkg/types"
	"github.com/ntentasd/occupancy-api/pkg/utils"
)

func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	if app.Service == nil {
		utils.ReplyJSON(w, http.StatusServiceUnavailable, utils.Body{
			"state":        "unhealthy",
			"model_loaded": false,
		})
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"state":        "healthy",
		"model_loaded": true,
	})
}

func (app *App) predictHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.ReplyMethodNotAllowed(w)
		return
	}

	start := time.Now()

	defer func() {
		metrics.HttpRequestLatencySeconds.WithLabelValues("predict").Observe(time.Since(start).Seconds())
	}()

	defer r.Body.Close()

	var req types.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ReplyBadRequest(w, "invalid request body")
		return
	}

	result, err := app.Service.Predict(r.Context(), &req)
	if err != nil {
		app.replyPredictionError(w, err)
		return
	}

	app.logger.Info().
		Str("label", result.Prediction).
		Msg("prediction made")

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"prediction":       result.Prediction,
		"probability":      result.Probability,
		"handling_time_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

func (app *App) predictBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.ReplyMethodNotAllowed(w)
		return
	}

	start := time.Now()

	defer func() {
		metrics.HttpRequestLatencySeconds.WithLabelValues("predict_batch").Observe(time.Since(start).Seconds())
	}()

	defer r.Body.Close()

	var reqs []types.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		utils.ReplyBadRequest(w, "invalid request body")
		return
	}

	if len(reqs) == 0 {
		utils.ReplyBadRequest(w, "empty batch")
		return
	}

	results, err := app.Service.PredictBatch(r.Context(), reqs)
	if err != nil {
		app.replyPredictionError(w, err)
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"predictions":      results,
		"handling_time_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// replyPredictionError classifies service errors into caller-facing ones
// without leaking internal detail.
func (app *App) replyPredictionError(w http.ResponseWriter, err error) {
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		app.logger.Warn().Err(err).Msg("validation error")
		utils.ReplyJSON(w, http.StatusUnprocessableEntity, utils.Body{
			"error":          "missing required fields",
			"missing_fields": validationErr.Missing,
		})
		return
	}

	var inputErr *pipeline.InvalidInputError
	if errors.As(err, &inputErr) {
		app.logger.Warn().Err(err).Msg("invalid input")
		utils.ReplyUnprocessable(w, inputErr.Error())
		return
	}

	app.logger.Error().Err(err).Msg("prediction failed")
	utils.ReplyInternalServerError(w, "internal server error during prediction")
}

func (app *App) modelInfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.ReplyMethodNotAllowed(w)
		return
	}

	if app.Service == nil {
		utils.ReplyJSON(w, http.StatusServiceUnavailable, utils.Body{
			"error": "model not loaded",
		})
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"model_type":          app.Service.ModelType(),
		"model_loaded":        true,
		"model_path":          app.Service.ArtifactPath(),
		"preprocessing_steps": app.Service.PreprocessingSteps(),
		"feature_columns":     pipeline.FeatureColumns,
	})
}

func (app *App) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.ReplyMethodNotAllowed(w)
		return
	}

	start := time.Now()

	defer func() {
		metrics.HttpRequestLatencySeconds.WithLabelValues("history").Observe(time.Since(start).Seconds())
	}()

	sensorIDstr := r.URL.Query().Get("sensor_id")
	if sensorIDstr == "" {
		utils.ReplyBadRequest(w, "missing sensor_id")
		return
	}

	sensorID, err := uuid.Parse(sensorIDstr)
	if err != nil {
		utils.ReplyBadRequest(w, "invalid sensor_id")
		return
	}

	entries, err := app.Cache.FetchLast(sensorID.String(), 5)
	if err != nil {
		app.logger.Warn().Err(err).Msg("cache fetch failed, falling back to store")
	}

	// Less than 5, cache is stale
	if len(entries) < 5 {
		today := time.Now().UTC().Format("2006-01-02")
		entries, err = app.Store.GetRecentPredictions(sensorID.String(), today, 5)
		if err != nil {
			utils.ReplyInternalServerError(w, err.Error())
			return
		}

		for _, entry := range entries {
			if err := app.Cache.StoreEntry(sensorID.String(), entry); err != nil {
				app.logger.Warn().Err(err).Msg("failed to refill cache")
			}
		}
	}

	if len(entries) == 0 {
		utils.ReplyNotFound(w, "no predictions found")
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"data": entries,
	})
}
