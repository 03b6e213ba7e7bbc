// Package facematch decides which known person, if any, a detected face
// embedding belongs to. It receives already-computed embeddings from the
// external embedding provider and already-computed reference embeddings
// from the caller; everything in here is pure computation with no state
// shared between calls.
package facematch

// Location is a face bounding box in pixel coordinates, in the
// top/right/bottom/left order the embedding provider reports.
type Location struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Width returns the horizontal extent of the box in pixels.
func (l Location) Width() int { return l.Right - l.Left }

// Height returns the vertical extent of the box in pixels.
func (l Location) Height() int { return l.Bottom - l.Top }

// Detection is one face found in one input image. The ID is unique
// within a single matching call, which matters when detections from
// several photos are pooled together.
type Detection struct {
	ID        string
	Location  Location
	Embedding Embedding
}

// KnownIdentity is a person the system can recognize. Identities are
// supplied by the caller on every request; there is no identity store.
type KnownIdentity struct {
	ID         string
	Name       string
	RollNumber string
	Embeddings []Embedding
}

// HasReference reports whether the identity carries at least one
// non-empty reference embedding. Identities without one can never match
// and degrade to an absent/unmatched verdict instead of failing a call.
func (k KnownIdentity) HasReference() bool {
	for _, e := range k.Embeddings {
		if len(e) > 0 {
			return true
		}
	}
	return false
}

// AssignmentPolicy selects which (detection, reference) pairs become
// decisions. The three policies reproduce the consistency rules of the
// three product operations exactly, claiming quirks included.
type AssignmentPolicy int

const (
	// GreedyExclusiveByDetection processes detections in their given
	// order; each claims its closest still-unclaimed identity within
	// tolerance. A claimed identity stays claimed for the rest of the
	// call even if a later detection would have been a closer match.
	GreedyExclusiveByDetection AssignmentPolicy = iota
	// BestPerDetectionNonExclusive matches every detection to its
	// closest identity independently; identities may be matched by
	// several detections.
	BestPerDetectionNonExclusive
	// BestPerReferenceNonExclusive matches every identity to its
	// closest detection independently; detections may satisfy several
	// identities.
	BestPerReferenceNonExclusive
)

// String returns the policy name for logs and errors.
func (p AssignmentPolicy) String() string {
	switch p {
	case GreedyExclusiveByDetection:
		return "greedy-exclusive-by-detection"
	case BestPerDetectionNonExclusive:
		return "best-per-detection"
	case BestPerReferenceNonExclusive:
		return "best-per-reference"
	default:
		return "unknown"
	}
}

// MatchDecision pairs one side of the match with its best candidate.
// For detection-oriented policies there is one decision per detection;
// for BestPerReferenceNonExclusive there is one per usable identity.
// Distance and confidence are always filled in, matched or not, so
// callers can inspect near misses. Confidence is 1 - distance and is
// not bounded below; it only reaches 1 for a zero distance.
type MatchDecision struct {
	DetectionID string
	IdentityID  string // empty when unmatched under a detection policy
	Distance    float64
	Confidence  float64
	Matched     bool
}

// AttendanceStatus is the per-identity presence verdict.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
)

// AbsenceReason explains why an identity was marked absent.
type AbsenceReason string

const (
	// ReasonNoReferencePhoto means the identity had no reference
	// embedding and never entered the matcher.
	ReasonNoReferencePhoto AbsenceReason = "NO_REFERENCE_PHOTO"
	// ReasonNoMatch means no pooled detection came within tolerance.
	ReasonNoMatch AbsenceReason = "NO_MATCH"
)

// AttendanceVerdict is the aggregated presence result for one identity.
// Confidence is the winning match confidence, or 0 when absent.
type AttendanceVerdict struct {
	IdentityID  string
	Name        string
	RollNumber  string
	Status      AttendanceStatus
	Confidence  float64
	Reason      AbsenceReason // empty when present
	DetectionID string        // winning detection when present
}
