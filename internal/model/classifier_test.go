package model

import (
	"math"
	"testing"

	"github.com/ntentasd/occupancy-api/internal/pipeline"
)

func testFeatures(scale float64) []float64 {
	features := make([]float64, pipeline.FeatureCount)
	for i := range features {
		features[i] = scale
	}
	return features
}

func TestLogisticRegressionPredict(t *testing.T) {
	t.Parallel()

	art := validArtifact()
	clf, err := NewClassifier(&art)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	// 17 weights of 0.1 with bias -1.5: margin = 1.7*scale - 1.5
	if got, _ := clf.Predict(testFeatures(0)); got != 0 {
		t.Errorf("Predict(zeros) = %d, want 0", got)
	}
	if got, _ := clf.Predict(testFeatures(10)); got != 1 {
		t.Errorf("Predict(tens) = %d, want 1", got)
	}
}

func TestLogisticRegressionProbabilities(t *testing.T) {
	t.Parallel()

	art := validArtifact()
	clf, err := NewClassifier(&art)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	pc, ok := clf.(ProbabilityClassifier)
	if !ok {
		t.Fatal("logistic regression must support probabilities")
	}

	probs, err := pc.PredictProba(testFeatures(10))
	if err != nil {
		t.Fatalf("PredictProba returned error: %v", err)
	}
	if len(probs) != 2 {
		t.Fatalf("expected 2 class probabilities, got %d", len(probs))
	}
	if math.Abs(probs[0]+probs[1]-1) > 1e-12 {
		t.Errorf("probabilities do not sum to 1: %v", probs)
	}
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Errorf("probability out of [0,1]: %v", probs)
		}
	}

	class, _ := clf.Predict(testFeatures(10))
	if probs[class] < 0.5 {
		t.Errorf("predicted class probability %g should be >= 0.5", probs[class])
	}
}

func TestLinearSVMHasNoProbabilitySupport(t *testing.T) {
	t.Parallel()

	art := validArtifact()
	art.ModelType = ModelTypeLinearSVM
	clf, err := NewClassifier(&art)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	if _, ok := clf.(ProbabilityClassifier); ok {
		t.Error("linear SVM must not expose probabilities")
	}

	if got, _ := clf.Predict(testFeatures(10)); got != 1 {
		t.Errorf("Predict(tens) = %d, want 1", got)
	}
}

func TestClassifierRejectsWrongDimensions(t *testing.T) {
	t.Parallel()

	art := validArtifact()
	clf, err := NewClassifier(&art)
	if err != nil {
		t.Fatalf("NewClassifier returned error: %v", err)
	}

	if _, err := clf.Predict([]float64{1, 2, 3}); err == nil {
		t.Error("expected error for wrong feature dimension, got nil")
	}
}
