package facematch

import "fmt"

// Aggregate produces a presence verdict for every identity from the
// detections of one or more photos. Detections are pooled into a single
// set before matching, so a student caught in any photo counts as
// present. Photos that yielded no detections contribute nothing; they
// never abort the call.
//
// Identities without a reference embedding are marked absent with
// ReasonNoReferencePhoto and never enter the matcher. The remaining
// identities are matched under BestPerReferenceNonExclusive, so one
// detection may satisfy several identities. Verdicts come back in the
// input identity order.
func Aggregate(identities []KnownIdentity, photos [][]Detection, tolerance float64) ([]AttendanceVerdict, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %v", tolerance)
	}

	var pool []Detection
	for _, photo := range photos {
		pool = append(pool, photo...)
	}

	var eligible []KnownIdentity
	for _, id := range identities {
		if id.HasReference() {
			eligible = append(eligible, id)
		}
	}

	matched := make(map[string]MatchDecision, len(eligible))
	if len(eligible) > 0 {
		decisions, err := Match(pool, eligible, tolerance, BestPerReferenceNonExclusive)
		if err != nil {
			return nil, err
		}
		for _, dec := range decisions {
			if dec.Matched {
				matched[dec.IdentityID] = dec
			}
		}
	}

	verdicts := make([]AttendanceVerdict, 0, len(identities))
	for _, id := range identities {
		v := AttendanceVerdict{
			IdentityID: id.ID,
			Name:       id.Name,
			RollNumber: id.RollNumber,
		}
		switch dec, ok := matched[id.ID]; {
		case !id.HasReference():
			v.Status = StatusAbsent
			v.Reason = ReasonNoReferencePhoto
		case ok:
			v.Status = StatusPresent
			v.Confidence = dec.Confidence
			v.DetectionID = dec.DetectionID
		default:
			v.Status = StatusAbsent
			v.Reason = ReasonNoMatch
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}
