package recommend

import (
	"errors"
	"math"
)

var (
	errDimensionMismatch = errors.New("embedding dimension mismatch")
	errNoEmbedder        = errors.New("no embedder configured")
	errServicesMissing   = errors.New("catalog and embedder are required")
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Zero-length or mismatched vectors yield 0.
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
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// normalize returns a float64 copy of v scaled to unit length. The zero
// vector is returned unscaled.
func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += out[i] * out[i]
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

func squaredDistance(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// normalizeAll validates that every vector shares one dimensionality and
// returns their unit-length float64 forms.
func normalizeAll(vectors [][]float32) ([][]float64, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errDimensionMismatch
	}
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errDimensionMismatch
		}
		out[i] = normalize(v)
	}
	return out, nil
}
