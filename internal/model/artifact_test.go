package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ntentasd/occupancy-api/internal/pipeline"
)

func writeArtifact(t *testing.T, art Artifact) string {
	t.Helper()
	data, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("failed to marshal test artifact: %v", err)
	}
	path := filepath.Join(t.TempDir(), "occupancy_model.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write test artifact: %v", err)
	}
	return path
}

func validArtifact() Artifact {
	weights := make([]float64, pipeline.FeatureCount)
	for i := range weights {
		weights[i] = 0.1
	}
	return Artifact{
		Version:       1,
		ModelType:     ModelTypeLogisticRegression,
		CO2Lambda:     -0.2381,
		LightBinEdges: []float64{12.75, 185.5, 429.5, 585.25},
		Classifier:    ClassifierParams{Weights: weights, Bias: -1.5},
	}
}

func TestLoadValidArtifact(t *testing.T) {
	t.Parallel()

	path := writeArtifact(t, validArtifact())

	art, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if art.ModelType != ModelTypeLogisticRegression {
		t.Errorf("model_type = %q", art.ModelType)
	}
	if art.CO2Lambda != -0.2381 {
		t.Errorf("co2_lambda = %g", art.CO2Lambda)
	}
	if len(art.LightBinEdges) != 4 {
		t.Errorf("light_bin_edges = %v", art.LightBinEdges)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.json"))
	var loadErr *ArtifactLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ArtifactLoadError, got %v", err)
	}
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Artifact)
	}{
		{"unknown model type", func(a *Artifact) { a.ModelType = "gradient_boosting" }},
		{"empty bin edges", func(a *Artifact) { a.LightBinEdges = nil }},
		{"non-increasing bin edges", func(a *Artifact) { a.LightBinEdges = []float64{10, 10, 20, 30} }},
		{"wrong weight count", func(a *Artifact) { a.Classifier.Weights = []float64{1, 2, 3} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			art := validArtifact()
			tc.mutate(&art)
			path := writeArtifact(t, art)

			_, err := Load(path)
			var loadErr *ArtifactLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected ArtifactLoadError, got %v", err)
			}
		})
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Load(path)
	var loadErr *ArtifactLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected ArtifactLoadError, got %v", err)
	}
}
