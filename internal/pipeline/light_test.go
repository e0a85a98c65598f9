package pipeline

import (
	"math"
	"testing"
)

func TestDiscretizeLightBinIndexes(t *testing.T) {
	t.Parallel()

	edges := []float64{12.75, 185.5, 429.5, 585.25}

	cases := []struct {
		light float64
		want  int
	}{
		{0, 0},
		{12.74, 0},
		{12.75, 0}, // right-open intervals: the edge itself is not below
		{13, 1},
		{185.5, 1},
		{200, 2},
		{426, 2},
		{429.5, 2},
		{430, 3},
		{585.25, 3},
		{600, 4},
		{100000, 4},
	}

	for _, tc := range cases {
		got := DiscretizeLight(tc.light, edges)
		if got != tc.want {
			t.Errorf("DiscretizeLight(%g) = %d, want %d", tc.light, got, tc.want)
		}
	}
}

func TestDiscretizeLightTotalOverRealLine(t *testing.T) {
	t.Parallel()

	edges := []float64{12.75, 185.5, 429.5, 585.25}

	// out-of-training-range sensor values must clamp, never fail
	for _, light := range []float64{math.Inf(-1), -500, 0, 1e9, math.Inf(1)} {
		got := DiscretizeLight(light, edges)
		if got < 0 || got > len(edges) {
			t.Errorf("DiscretizeLight(%g) = %d out of range [0, %d]", light, got, len(edges))
		}
	}
}
