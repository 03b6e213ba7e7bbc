package facematch

import (
	"fmt"
	"math"
)

// Embedding is a fixed-length face descriptor produced by the embedding
// provider (128 floats for the dlib-style encoder). Embeddings compared
// against each other must share the same dimensionality.
type Embedding []float64

// DimensionMismatchError reports an input embedding whose length
// differs from the dimensionality established by the rest of the call.
// It is a client error: the call aborts with no partial result.
type DimensionMismatchError struct {
	Entity string // "detection", "reference" or "embedding"
	ID     string // identifier of the malformed entry, when known
	Want   int
	Got    int
}

func (e *DimensionMismatchError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("embedding dimension mismatch for %s %q: want %d, got %d", e.Entity, e.ID, e.Want, e.Got)
	}
	return fmt.Sprintf("embedding dimension mismatch for %s: want %d, got %d", e.Entity, e.Want, e.Got)
}

// EuclideanDistance computes the L2 distance between two embeddings of
// identical dimensionality. Symmetric, zero for identical inputs.
func EuclideanDistance(a, b Embedding) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Entity: "embedding", Want: len(a), Got: len(b)}
	}
	return l2(a, b), nil
}

// l2 is the unchecked distance kernel. Callers validate dimensionality
// before any call lands here.
func l2(a, b Embedding) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
