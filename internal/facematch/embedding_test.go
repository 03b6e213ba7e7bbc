package facematch

import (
	"errors"
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        Embedding
		b        Embedding
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        Embedding{0.1, 0.2, 0.3},
			b:        Embedding{0.1, 0.2, 0.3},
			expected: 0,
		},
		{
			name:     "unit distance",
			a:        Embedding{0, 0},
			b:        Embedding{0, 1},
			expected: 1,
		},
		{
			name:     "pythagorean triple",
			a:        Embedding{0, 0},
			b:        Embedding{3, 4},
			expected: 5,
		},
		{
			name:     "negative components",
			a:        Embedding{-1, -1},
			b:        Embedding{1, 1},
			expected: 2 * math.Sqrt2,
		},
		{
			name:     "empty vectors",
			a:        Embedding{},
			b:        Embedding{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := EuclideanDistance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("EuclideanDistance() error = %v", err)
			}
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("EuclideanDistance(%v, %v) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestEuclideanDistance_Symmetric(t *testing.T) {
	a := Embedding{0.12, -0.5, 0.9, 0.001}
	b := Embedding{-0.3, 0.44, 0.1, 0.75}

	ab, err := EuclideanDistance(a, b)
	if err != nil {
		t.Fatalf("EuclideanDistance(a, b) error = %v", err)
	}
	ba, err := EuclideanDistance(b, a)
	if err != nil {
		t.Fatalf("EuclideanDistance(b, a) error = %v", err)
	}
	if ab != ba {
		t.Errorf("distance not symmetric: d(a,b)=%v, d(b,a)=%v", ab, ba)
	}
}

func TestEuclideanDistance_DimensionMismatch(t *testing.T) {
	a := make(Embedding, 128)
	b := make(Embedding, 64)

	_, err := EuclideanDistance(a, b)
	if err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}

	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %T", err)
	}
	if mismatch.Want != 128 || mismatch.Got != 64 {
		t.Errorf("mismatch details = want %d got %d, expected want 128 got 64", mismatch.Want, mismatch.Got)
	}
}
