package domain

import "math"

// Names of the embedding spaces the enrichment pipeline produces.
// The relation fusion stage requires all three.
const (
	VectorCLIP      = "clip"
	VectorBLIP      = "blip"
	VectorMobileNet = "mobilenet"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths, empty inputs or a zero-norm vector yield exactly
// 0.0 rather than an error or a division by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
