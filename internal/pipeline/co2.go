package pipeline

import (
	"fmt"
	"math"
)

// NormalizeCO2 applies the BoxCox power transform to a CO2 reading using the
// lambda frozen at training time. Re-estimating lambda per request would move
// the classifier's decision boundary, so the frozen value is the only one ever
// used here.
//
// BoxCox is undefined for non-positive inputs; those fail with InvalidInputError.
func NormalizeCO2(co2, lambda float64) (float64, error) {
	if co2 <= 0 {
		return 0, &InvalidInputError{
			Field:  "CO2",
			Reason: fmt.Sprintf("must be positive for BoxCox transform, got %g", co2),
		}
	}

	if lambda == 0 {
		return math.Log(co2), nil
	}

	return (math.Pow(co2, lambda) - 1) / lambda, nil
}
