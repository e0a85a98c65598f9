package pipeline

import (
	"math"

	"github.com/ntentasd/occupancy-api/pkg/types"
)

// TemporalFeatures holds the time-derived slice of the feature vector for one
// reading: cyclical clock encoding plus first-difference and per-minute
// rate-of-change features against the immediately preceding reading.
type TemporalFeatures struct {
	Hour      int
	DayOfWeek int
	HourSin   float64
	HourCos   float64

	CO2Delta   float64
	LightDelta float64
	HRDelta    float64
	TempDelta  float64

	CO2Rate   float64
	LightRate float64
	HRRate    float64
	TempRate  float64
}

// DeriveTemporal computes temporal features for an ordered batch of readings.
// Deltas and rates are taken from the raw sensor values, not their transformed
// counterparts, matching how the training set was built.
//
// A reading with no predecessor (the first row, or a single-row request) gets
// all delta and rate features as 0.0. The training set filled those NaN rows
// with zero, so inference has to do the same rather than erroring out.
func DeriveTemporal(readings []types.SensorReading) []TemporalFeatures {
	out := make([]TemporalFeatures, len(readings))

	for i, r := range readings {
		hour := r.Timestamp.Hour()
		f := TemporalFeatures{
			Hour: hour,
			// pandas dayofweek convention: Monday=0 .. Sunday=6
			DayOfWeek: (int(r.Timestamp.Weekday()) + 6) % 7,
			HourSin:   math.Sin(2 * math.Pi * float64(hour) / 24),
			HourCos:   math.Cos(2 * math.Pi * float64(hour) / 24),
		}

		if i > 0 {
			prev := readings[i-1]
			f.CO2Delta = r.CO2 - prev.CO2
			f.LightDelta = r.Light - prev.Light
			f.HRDelta = r.HumidityRatio - prev.HumidityRatio
			f.TempDelta = r.Temperature - prev.Temperature

			minutes := r.Timestamp.Sub(prev.Timestamp).Minutes()
			// identical timestamps would divide by zero; the fill policy
			// treats the rate as missing and zeroes it
			if minutes != 0 {
				f.CO2Rate = f.CO2Delta / minutes
				f.LightRate = f.LightDelta / minutes
				f.HRRate = f.HRDelta / minutes
				f.TempRate = f.TempDelta / minutes
			}
		}

		out[i] = f
	}

	return out
}
