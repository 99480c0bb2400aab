package retrieval

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|).
// It returns 0 when the vectors differ in length, are empty, have zero magnitude
// or produce a non-finite result.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	// Rounding can push identical vectors a hair past 1
	return math.Max(-1, math.Min(1, sim))
}
