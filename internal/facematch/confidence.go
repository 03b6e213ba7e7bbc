package facematch

import "fmt"

// Confidence converts a distance into the caller-facing score. Since
// distances are non-negative the result never exceeds 1, but it is not
// bounded below: callers must not assume a [0, 1] range.
func Confidence(distance float64) float64 {
	return 1 - distance
}

// IsMatch reports whether a distance is acceptable under the tolerance.
func IsMatch(distance, tolerance float64) bool {
	return distance <= tolerance
}

// Convention identifies which knob a caller used to express match
// strictness. The two are equivalent (tolerance = 1 - threshold) and
// easy to invert by mistake, so every call records which one it got.
type Convention string

const (
	// ConventionTolerance is a distance cutoff; smaller is stricter.
	// Historical default 0.6.
	ConventionTolerance Convention = "tolerance"
	// ConventionThreshold is a confidence cutoff; larger is stricter.
	// Historical default 0.75.
	ConventionThreshold Convention = "threshold"
)

// Cutoff is a match strictness normalized to a distance tolerance,
// remembering the convention the caller supplied it in.
type Cutoff struct {
	tolerance  float64
	convention Convention
}

// FromTolerance builds a Cutoff from a distance tolerance.
func FromTolerance(tolerance float64) (Cutoff, error) {
	if tolerance < 0 {
		return Cutoff{}, fmt.Errorf("tolerance must be non-negative, got %v", tolerance)
	}
	return Cutoff{tolerance: tolerance, convention: ConventionTolerance}, nil
}

// FromThreshold builds a Cutoff from a confidence threshold. The
// threshold may not exceed 1, which would imply a negative tolerance.
func FromThreshold(threshold float64) (Cutoff, error) {
	if threshold > 1 {
		return Cutoff{}, fmt.Errorf("threshold must not exceed 1, got %v", threshold)
	}
	return Cutoff{tolerance: 1 - threshold, convention: ConventionThreshold}, nil
}

// Tolerance returns the normalized distance tolerance.
func (c Cutoff) Tolerance() float64 { return c.tolerance }

// Convention returns the convention the cutoff was supplied in.
func (c Cutoff) Convention() Convention { return c.convention }
