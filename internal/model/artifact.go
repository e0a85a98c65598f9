// Package model loads the frozen occupancy model artifact and exposes the
// classifiers restored from it. The artifact is a self-describing JSON bundle
// holding the training-time transform parameters next to the classifier
// weights, so nothing depends on any particular serialization framework.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ntentasd/occupancy-api/internal/pipeline"
)

// Supported classifier kinds.
const (
	ModelTypeLogisticRegression = "logistic_regression"
	ModelTypeLinearSVM          = "linear_svm"
)

// ArtifactLoadError is fatal at startup: the service must refuse to serve
// traffic rather than fall back to per-request lazy loads.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("failed to load model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}

// ClassifierParams are the frozen weights of the linear decision function.
type ClassifierParams struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Artifact is the deserialized model bundle. Immutable after Load; shared
// read-only across all requests.
type Artifact struct {
	Version       int              `json:"version"`
	ModelType     string           `json:"model_type"`
	TrainedAt     time.Time        `json:"trained_at"`
	CO2Lambda     float64          `json:"co2_lambda"`
	LightBinEdges []float64        `json:"light_bin_edges"`
	Classifier    ClassifierParams `json:"classifier"`
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	resolved := filepath.Clean(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &ArtifactLoadError{Path: resolved, Err: err}
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, &ArtifactLoadError{Path: resolved, Err: fmt.Errorf("unable to parse artifact: %w", err)}
	}

	if err := art.validate(); err != nil {
		return nil, &ArtifactLoadError{Path: resolved, Err: err}
	}

	return &art, nil
}

func (a *Artifact) validate() error {
	switch a.ModelType {
	case ModelTypeLogisticRegression, ModelTypeLinearSVM:
	default:
		return fmt.Errorf("unknown model_type %q", a.ModelType)
	}

	if len(a.LightBinEdges) == 0 {
		return errors.New("light_bin_edges is empty")
	}
	for i := 1; i < len(a.LightBinEdges); i++ {
		if a.LightBinEdges[i] <= a.LightBinEdges[i-1] {
			return fmt.Errorf("light_bin_edges not strictly increasing at index %d", i)
		}
	}

	if got := len(a.Classifier.Weights); got != pipeline.FeatureCount {
		return fmt.Errorf("classifier has %d weights, expected %d", got, pipeline.FeatureCount)
	}

	return nil
}
