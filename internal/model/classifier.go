package model

import (
	"fmt"
	"math"
)

// Classifier produces a binary occupancy class (1 = present, 0 = not present)
// from a feature vector in the trained column order.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// ProbabilityClassifier is implemented by model types that can also report
// per-class probabilities. Callers must type-assert; a classifier without
// this interface simply has no probability, which is not an error.
type ProbabilityClassifier interface {
	Classifier

	// PredictProba returns the class probabilities [P(class 0), P(class 1)].
	PredictProba(features []float64) ([]float64, error)
}

// NewClassifier restores the classifier frozen in the artifact.
func NewClassifier(art *Artifact) (Classifier, error) {
	switch art.ModelType {
	case ModelTypeLogisticRegression:
		return newLinearModel(art.Classifier, true), nil
	case ModelTypeLinearSVM:
		return newLinearModel(art.Classifier, false), nil
	default:
		return nil, fmt.Errorf("unknown model_type %q", art.ModelType)
	}
}

// linearModel applies a frozen linear decision function. On its own the raw
// margin alone decides and no probability is reported (linear SVM).
type linearModel struct {
	weights []float64
	bias    float64
}

var (
	_ Classifier            = (*linearModel)(nil)
	_ ProbabilityClassifier = (*logisticRegression)(nil)
)

// logisticRegression wraps linearModel to expose PredictProba only for
// calibrated models.
type logisticRegression struct {
	linearModel
}

func newLinearModel(p ClassifierParams, calibrated bool) Classifier {
	weights := make([]float64, len(p.Weights))
	copy(weights, p.Weights)
	m := linearModel{weights: weights, bias: p.Bias}
	if calibrated {
		return &logisticRegression{m}
	}
	return &m
}

func (m *linearModel) decision(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(features), len(m.weights))
	}
	margin := m.bias
	for i, w := range m.weights {
		margin += w * features[i]
	}
	return margin, nil
}

func (m *linearModel) Predict(features []float64) (int, error) {
	margin, err := m.decision(features)
	if err != nil {
		return 0, err
	}
	if margin >= 0 {
		return 1, nil
	}
	return 0, nil
}

func (m *logisticRegression) PredictProba(features []float64) ([]float64, error) {
	margin, err := m.decision(features)
	if err != nil {
		return nil, err
	}
	p := sigmoid(margin)
	return []float64{1 - p, p}, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
