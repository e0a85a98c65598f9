// Package pipeline reproduces the training-time feature transforms at
// inference time: a BoxCox normalization of CO2, a discretization of light
// intensity into learned bins, and derived time/delta/rate features. All
// statistics involved (lambda, bin edges) are frozen at training time and
// shared read-only across requests.
package pipeline

import (
	"errors"

	"github.com/ntentasd/occupancy-api/pkg/types"
)

// FeatureColumns is the exact column contract the classifier was trained on.
// Order and naming must never change without retraining.
var FeatureColumns = []string{
	"Temperature",
	"Humidity",
	"CO2",
	"HumidityRatio",
	"Light",
	"hour",
	"day_of_week",
	"hour_sin",
	"hour_cos",
	"co2_delta",
	"light_delta",
	"hr_delta",
	"temp_delta",
	"co2_rate",
	"light_rate",
	"hr_rate",
	"temp_rate",
}

// FeatureCount is the dimensionality of the classifier input.
var FeatureCount = len(FeatureColumns)

// FeatureVector carries the numeric features in FeatureColumns order. The raw
// timestamp is dropped here; the classifier has no timestamp feature.
type FeatureVector []float64

// Orchestrator composes the three transform stages in fixed order using the
// frozen training-time parameters.
type Orchestrator struct {
	co2Lambda     float64
	lightBinEdges []float64
}

func NewOrchestrator(co2Lambda float64, lightBinEdges []float64) *Orchestrator {
	edges := make([]float64, len(lightBinEdges))
	copy(edges, lightBinEdges)
	return &Orchestrator{
		co2Lambda:     co2Lambda,
		lightBinEdges: edges,
	}
}

// Transform converts an ordered batch of readings into feature vectors.
// Any stage failure aborts the whole transform; no partial output.
func (o *Orchestrator) Transform(readings []types.SensorReading) ([]FeatureVector, error) {
	if len(readings) == 0 {
		return nil, &PipelineError{Stage: "input", Err: errors.New("no readings supplied")}
	}

	co2 := make([]float64, len(readings))
	for i, r := range readings {
		v, err := NormalizeCO2(r.CO2, o.co2Lambda)
		if err != nil {
			return nil, &PipelineError{Stage: "co2_normalize", Err: err}
		}
		co2[i] = v
	}

	lightBins := make([]int, len(readings))
	for i, r := range readings {
		lightBins[i] = DiscretizeLight(r.Light, o.lightBinEdges)
	}

	// temporal features read the raw source columns, independent of the
	// transformed CO2 and light values above
	temporal := DeriveTemporal(readings)

	out := make([]FeatureVector, len(readings))
	for i, r := range readings {
		t := temporal[i]
		out[i] = FeatureVector{
			r.Temperature,
			r.Humidity,
			co2[i],
			r.HumidityRatio,
			float64(lightBins[i]),
			float64(t.Hour),
			float64(t.DayOfWeek),
			t.HourSin,
			t.HourCos,
			t.CO2Delta,
			t.LightDelta,
			t.HRDelta,
			t.TempDelta,
			t.CO2Rate,
			t.LightRate,
			t.HRRate,
			t.TempRate,
		}
	}

	return out, nil
}
