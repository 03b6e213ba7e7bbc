package facematch

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoReferences is returned when a matching call supplies no known
// identities at all. It is a client error, not a crash.
var ErrNoReferences = errors.New("no reference identities provided")

// Match pairs detected face embeddings with known identities under the
// given assignment policy and distance tolerance.
//
// An empty detection set is not an error: it yields an empty decision
// list. Identities without any reference embedding are skipped as
// candidates; callers that need a verdict for them (attendance) handle
// that before calling Match. Any embedding whose dimensionality differs
// from the rest of the input aborts the call with no partial result.
//
// Iteration order is the caller-supplied order on both sides, and ties
// on distance go to the earlier candidate. Under
// GreedyExclusiveByDetection this makes the result order-dependent on
// purpose: the first detection to claim an identity keeps it.
func Match(detections []Detection, identities []KnownIdentity, tolerance float64, policy AssignmentPolicy) ([]MatchDecision, error) {
	if len(identities) == 0 {
		return nil, ErrNoReferences
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %v", tolerance)
	}
	if err := validateDimensions(detections, identities); err != nil {
		return nil, err
	}

	switch policy {
	case GreedyExclusiveByDetection:
		return matchGreedyExclusive(detections, identities, tolerance), nil
	case BestPerDetectionNonExclusive:
		return matchBestPerDetection(detections, identities, tolerance), nil
	case BestPerReferenceNonExclusive:
		return matchBestPerReference(detections, identities, tolerance), nil
	default:
		return nil, fmt.Errorf("unknown assignment policy %d", int(policy))
	}
}

// validateDimensions checks that every detection embedding and every
// non-empty reference embedding share one dimensionality, naming the
// first malformed entry. Empty reference embeddings are legal input
// (the identity simply cannot match) and are not dimension-checked.
func validateDimensions(detections []Detection, identities []KnownIdentity) error {
	dim := 0
	for _, det := range detections {
		if dim == 0 {
			dim = len(det.Embedding)
			continue
		}
		if len(det.Embedding) != dim {
			return &DimensionMismatchError{Entity: "detection", ID: det.ID, Want: dim, Got: len(det.Embedding)}
		}
	}
	for _, id := range identities {
		for _, ref := range id.Embeddings {
			if len(ref) == 0 {
				continue
			}
			if dim == 0 {
				dim = len(ref)
				continue
			}
			if len(ref) != dim {
				return &DimensionMismatchError{Entity: "reference", ID: id.ID, Want: dim, Got: len(ref)}
			}
		}
	}
	return nil
}

// identityDistance returns the smallest distance from the detection
// embedding to any of the identity's reference embeddings, or +Inf when
// the identity has no usable reference.
func identityDistance(det Embedding, id KnownIdentity) float64 {
	best := math.Inf(1)
	for _, ref := range id.Embeddings {
		if len(ref) == 0 {
			continue
		}
		if d := l2(det, ref); d < best {
			best = d
		}
	}
	return best
}

func matchGreedyExclusive(detections []Detection, identities []KnownIdentity, tolerance float64) []MatchDecision {
	claimed := make([]bool, len(identities))
	decisions := make([]MatchDecision, 0, len(detections))

	for _, det := range detections {
		best := -1
		bestDist := math.Inf(1)
		for j, id := range identities {
			if claimed[j] {
				continue
			}
			// Strict less-than keeps the earlier identity on a tie.
			if d := identityDistance(det.Embedding, id); d < bestDist {
				best, bestDist = j, d
			}
		}

		dec := MatchDecision{
			DetectionID: det.ID,
			Distance:    bestDist,
			Confidence:  Confidence(bestDist),
		}
		if best >= 0 && IsMatch(bestDist, tolerance) {
			claimed[best] = true
			dec.IdentityID = identities[best].ID
			dec.Matched = true
		}
		decisions = append(decisions, dec)
	}
	return decisions
}

func matchBestPerDetection(detections []Detection, identities []KnownIdentity, tolerance float64) []MatchDecision {
	decisions := make([]MatchDecision, 0, len(detections))

	for _, det := range detections {
		best := -1
		bestDist := math.Inf(1)
		for j, id := range identities {
			if d := identityDistance(det.Embedding, id); d < bestDist {
				best, bestDist = j, d
			}
		}

		dec := MatchDecision{
			DetectionID: det.ID,
			Distance:    bestDist,
			Confidence:  Confidence(bestDist),
		}
		if best >= 0 && IsMatch(bestDist, tolerance) {
			dec.IdentityID = identities[best].ID
			dec.Matched = true
		}
		decisions = append(decisions, dec)
	}
	return decisions
}

func matchBestPerReference(detections []Detection, identities []KnownIdentity, tolerance float64) []MatchDecision {
	decisions := make([]MatchDecision, 0, len(identities))
	if len(detections) == 0 {
		return decisions
	}

	for _, id := range identities {
		if !id.HasReference() {
			continue
		}
		best := -1
		bestDist := math.Inf(1)
		for k, det := range detections {
			if d := identityDistance(det.Embedding, id); d < bestDist {
				best, bestDist = k, d
			}
		}

		dec := MatchDecision{
			IdentityID: id.ID,
			Distance:   bestDist,
			Confidence: Confidence(bestDist),
		}
		if best >= 0 && IsMatch(bestDist, tolerance) {
			dec.DetectionID = detections[best].ID
			dec.Matched = true
		}
		decisions = append(decisions, dec)
	}
	return decisions
}
