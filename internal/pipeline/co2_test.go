package pipeline

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeCO2ZeroLambdaIsLog(t *testing.T) {
	t.Parallel()

	for _, co2 := range []float64{1, 400, 721.25, 2000} {
		got, err := NormalizeCO2(co2, 0)
		if err != nil {
			t.Fatalf("NormalizeCO2(%g, 0) returned error: %v", co2, err)
		}
		want := math.Log(co2)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("NormalizeCO2(%g, 0) = %g, want ln = %g", co2, got, want)
		}
	}
}

func TestNormalizeCO2Monotonic(t *testing.T) {
	t.Parallel()

	for _, lambda := range []float64{-0.5, -0.2381, 0, 0.5, 1, 2} {
		inputs := []float64{0.5, 1, 100, 400, 450, 721.25, 1500, 5000}
		prev := math.Inf(-1)
		for _, co2 := range inputs {
			got, err := NormalizeCO2(co2, lambda)
			if err != nil {
				t.Fatalf("NormalizeCO2(%g, %g) returned error: %v", co2, lambda, err)
			}
			if got < prev {
				t.Fatalf("lambda=%g: transform not monotonic at co2=%g (%g < %g)", lambda, co2, got, prev)
			}
			prev = got
		}
	}
}

func TestNormalizeCO2Deterministic(t *testing.T) {
	t.Parallel()

	a, err := NormalizeCO2(721.25, -0.2381)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NormalizeCO2(721.25, -0.2381)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("transform not deterministic: %g != %g", a, b)
	}
}

func TestNormalizeCO2RejectsNonPositive(t *testing.T) {
	t.Parallel()

	for _, co2 := range []float64{0, -1, -400} {
		_, err := NormalizeCO2(co2, 0.5)
		if err == nil {
			t.Fatalf("NormalizeCO2(%g) expected error, got nil", co2)
		}
		if !errors.Is(err, &InvalidInputError{}) {
			t.Errorf("NormalizeCO2(%g) expected InvalidInputError, got %T", co2, err)
		}
	}
}
