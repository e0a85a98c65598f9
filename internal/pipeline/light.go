package pipeline

import "sort"

// DiscretizeLight maps a light intensity to the integer bin index learned at
// training time: the count of bin edges strictly below the value. The mapping
// is total over the real line; readings outside the trained range clamp to the
// boundary bins instead of failing, so the index is always in [0, len(edges)].
func DiscretizeLight(light float64, edges []float64) int {
	// smallest i with edges[i] >= light == number of edges strictly below light
	return sort.SearchFloat64s(edges, light)
}
