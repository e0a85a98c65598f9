// Package occupancy owns the loaded classifier artifact and turns validated
// sensor readings into human-readable occupancy predictions.
package occupancy

import (
	"context"
	"time"

	"github.com/ntentasd/occupancy-api/internal/metrics"
	"github.com/ntentasd/occupancy-api/internal/model"
	"github.com/ntentasd/occupancy-api/internal/pipeline"
	"github.com/ntentasd/occupancy-api/pkg/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Service applies the transform pipeline and the frozen classifier. All state
// is immutable after construction, so a single instance is shared across
// requests without locking.
type Service struct {
	pipe         *pipeline.Orchestrator
	clf          model.Classifier
	proba        model.ProbabilityClassifier // nil when the model type has no probability support
	modelType    string
	artifactPath string
	logger       zerolog.Logger
}

func NewService(art *model.Artifact, artifactPath string, logger zerolog.Logger) (*Service, error) {
	clf, err := model.NewClassifier(art)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		pipe:         pipeline.NewOrchestrator(art.CO2Lambda, art.LightBinEdges),
		clf:          clf,
		modelType:    art.ModelType,
		artifactPath: artifactPath,
		logger:       logger,
	}

	// a model type lacking probability support is expected and yields nil
	// probabilities; it is not conflated with inference failures
	if pc, ok := clf.(model.ProbabilityClassifier); ok {
		svc.proba = pc
	} else {
		logger.Warn().
			Str("model_type", art.ModelType).
			Msg("classifier has no probability support, predictions will omit probability")
	}

	return svc, nil
}

// Predict handles a single reading. With no preceding observation all delta
// and rate features are zero, matching the training-time fill policy.
func (s *Service) Predict(ctx context.Context, req *types.PredictRequest) (*types.PredictionResult, error) {
	results, err := s.PredictBatch(ctx, []types.PredictRequest{*req})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// PredictBatch handles an ordered sequence of readings; delta and rate
// features use the in-batch predecessor of each reading.
func (s *Service) PredictBatch(ctx context.Context, reqs []types.PredictRequest) ([]types.PredictionResult, error) {
	readings := make([]types.SensorReading, len(reqs))
	for i := range reqs {
		if missing := reqs[i].MissingFields(); len(missing) > 0 {
			return nil, &types.ValidationError{Missing: missing}
		}

		reading, err := reqs[i].ToReading()
		if err != nil {
			return nil, &pipeline.InvalidInputError{Field: "datetime", Reason: err.Error()}
		}
		readings[i] = reading
	}

	return s.PredictReadings(ctx, readings)
}

// PredictReadings classifies already-validated readings.
func (s *Service) PredictReadings(ctx context.Context, readings []types.SensorReading) ([]types.PredictionResult, error) {
	_, span := otel.Tracer("occupancy-api").Start(ctx, "occupancy.Predict")
	defer span.End()

	span.SetAttributes(
		attribute.String("model.type", s.modelType),
		attribute.Int("batch.size", len(readings)),
	)

	start := time.Now()

	features, err := s.pipe.Transform(readings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	results := make([]types.PredictionResult, len(features))
	for i, fv := range features {
		class, err := s.clf.Predict(fv)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, &pipeline.PipelineError{Stage: "classify", Err: err}
		}

		var probability *float64
		if s.proba != nil {
			probs, err := s.proba.PredictProba(fv)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, &pipeline.PipelineError{Stage: "classify", Err: err}
			}
			p := probs[class]
			probability = &p
		}

		label := types.LabelNotPresent
		if class == 1 {
			label = types.LabelPresent
		}

		results[i] = types.PredictionResult{
			Prediction:  label,
			Probability: probability,
		}

		metrics.PredictionsTotal.WithLabelValues(label).Inc()
	}

	metrics.PredictionLatencySeconds.Observe(time.Since(start).Seconds())
	span.SetStatus(codes.Ok, "")

	return results, nil
}

func (s *Service) ModelType() string {
	return s.modelType
}

func (s *Service) ArtifactPath() string {
	return s.artifactPath
}

// PreprocessingSteps names the transform stages, in application order.
func (s *Service) PreprocessingSteps() []string {
	return []string{
		"CO2 BoxCox transformation",
		"Light discretization",
		"Temporal feature engineering (time, delta, rate features)",
	}
}
