package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ntentasd/occupancy-api/internal/model"
	"github.com/ntentasd/occupancy-api/internal/occupancy"
	"github.com/ntentasd/occupancy-api/internal/pipeline"
	"github.com/rs/zerolog"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	weights := make([]float64, pipeline.FeatureCount)
	for i := range weights {
		weights[i] = 0.05
	}
	weights[4] = 2.0
	art := &model.Artifact{
		Version:       1,
		ModelType:     model.ModelTypeLogisticRegression,
		CO2Lambda:     -0.2381,
		LightBinEdges: []float64{12.75, 185.5, 429.5, 585.25},
		Classifier:    model.ClassifierParams{Weights: weights, Bias: -4.0},
	}

	svc, err := occupancy.NewService(art, "test_artifact.json", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	return New(svc, nil, nil, zerolog.Nop())
}

const sampleBody = `{
	"datetime": "2015-02-04 17:51:00",
	"Temperature": 23.18,
	"Humidity": 27.272,
	"Light": 426.0,
	"CO2": 721.25,
	"HumidityRatio": 0.00479
}`

func TestPredictHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(sampleBody))
	rec := httptest.NewRecorder()
	app.predictHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Prediction     string   `json:"prediction"`
		Probability    *float64 `json:"probability"`
		HandlingTimeMs float64  `json:"handling_time_ms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	if resp.Prediction == "" {
		t.Error("response missing prediction label")
	}
	if resp.Probability == nil {
		t.Error("response missing probability")
	}
	if resp.HandlingTimeMs < 0 {
		t.Errorf("handling_time_ms = %g", resp.HandlingTimeMs)
	}
}

func TestPredictHandlerMissingFields(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	body := `{"datetime": "2015-02-04 17:51:00", "Temperature": 23.18, "Humidity": 27.272, "Light": 426.0}`
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.predictHandler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		MissingFields []string `json:"missing_fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	want := []string{"CO2", "HumidityRatio"}
	if len(resp.MissingFields) != 2 || resp.MissingFields[0] != want[0] || resp.MissingFields[1] != want[1] {
		t.Errorf("missing_fields = %v, want %v", resp.MissingFields, want)
	}
}

func TestPredictHandlerRejectsGet(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/predict", nil)
	rec := httptest.NewRecorder()
	app.predictHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestPredictHandlerBadBody(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	app.predictHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPredictBatchHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	body := "[" + sampleBody + "," + sampleBody + "]"
	req := httptest.NewRequest(http.MethodPost, "/predict/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.predictBatchHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Predictions []struct {
			Prediction string `json:"prediction"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Predictions) != 2 {
		t.Errorf("got %d predictions, want 2", len(resp.Predictions))
	}
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.healthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestModelInfoHandler(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/model/info", nil)
	rec := httptest.NewRecorder()
	app.modelInfoHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		ModelType      string   `json:"model_type"`
		FeatureColumns []string `json:"feature_columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ModelType != model.ModelTypeLogisticRegression {
		t.Errorf("model_type = %q", resp.ModelType)
	}
	if len(resp.FeatureColumns) != pipeline.FeatureCount {
		t.Errorf("feature_columns has %d entries, want %d", len(resp.FeatureColumns), pipeline.FeatureCount)
	}
}
