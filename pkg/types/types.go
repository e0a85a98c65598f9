// Package types
package types

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire format for reading timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// SensorReading is a single validated environmental observation.
// Immutable once constructed.
type SensorReading struct {
	Timestamp     time.Time
	Temperature   float64
	Humidity      float64
	Light         float64
	CO2           float64
	HumidityRatio float64
}

// PredictRequest mirrors the JSON body accepted by the predict endpoints.
// Fields are pointers so absent keys can be told apart from zero values.
type PredictRequest struct {
	Datetime      *string  `json:"datetime"`
	Temperature   *float64 `json:"Temperature"`
	Humidity      *float64 `json:"Humidity"`
	Light         *float64 `json:"Light"`
	CO2           *float64 `json:"CO2"`
	HumidityRatio *float64 `json:"HumidityRatio"`
}

// MissingFields returns the wire names of required fields absent from the request.
func (r *PredictRequest) MissingFields() []string {
	var missing []string
	if r.Datetime == nil {
		missing = append(missing, "datetime")
	}
	if r.Temperature == nil {
		missing = append(missing, "Temperature")
	}
	if r.Humidity == nil {
		missing = append(missing, "Humidity")
	}
	if r.Light == nil {
		missing = append(missing, "Light")
	}
	if r.CO2 == nil {
		missing = append(missing, "CO2")
	}
	if r.HumidityRatio == nil {
		missing = append(missing, "HumidityRatio")
	}
	return missing
}

// ToReading parses the request into a SensorReading. All fields must be present.
func (r *PredictRequest) ToReading() (SensorReading, error) {
	ts, err := time.Parse(TimestampLayout, *r.Datetime)
	if err != nil {
		return SensorReading{}, fmt.Errorf("invalid datetime %q: %w", *r.Datetime, err)
	}
	return SensorReading{
		Timestamp:     ts,
		Temperature:   *r.Temperature,
		Humidity:      *r.Humidity,
		Light:         *r.Light,
		CO2:           *r.CO2,
		HumidityRatio: *r.HumidityRatio,
	}, nil
}

// Occupancy labels exposed to callers.
const (
	LabelPresent    = "Person present"
	LabelNotPresent = "Person not present"
)

// PredictionResult is the outcome of a single classification.
// Probability is nil when the loaded model type cannot provide one.
type PredictionResult struct {
	Prediction  string   `json:"prediction"`
	Probability *float64 `json:"probability"`
}

// Entry is a timestamped prediction kept in the cache and the history store.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	Label       string    `json:"label"`
	Probability *float64  `json:"probability,omitempty"`
}

// ValidationError reports required request fields that were absent.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: [%s]", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}
