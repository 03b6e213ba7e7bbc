package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/schoolhub/facerec/internal/facematch"
)

// MatchRequest carries pre-computed embeddings for pairwise scoring.
// References are a list, not a map: matching is order-sensitive and the
// caller's order must survive parsing.
type MatchRequest struct {
	Detected   [][]float64      `json:"detected"`
	References []matchReference `json:"references"`
	Tolerance  *float64         `json:"tolerance"`
}

type matchReference struct {
	ID       string    `json:"id"`
	Encoding []float64 `json:"encoding"`
}

// FaceMatch is one scored pairing in the match response.
type FaceMatch struct {
	FaceID     string  `json:"faceId"`
	StudentID  string  `json:"studentId"`
	Confidence float64 `json:"confidence"`
	Distance   float64 `json:"distance"`
}

// MatchResponse is the pairwise scoring result.
type MatchResponse struct {
	Success       bool                 `json:"success"`
	Matches       []FaceMatch          `json:"matches"`
	TotalDetected int                  `json:"totalDetected"`
	TotalMatched  int                  `json:"totalMatched"`
	Convention    facematch.Convention `json:"convention"`
	Tolerance     float64              `json:"tolerance"`
}

// Match scores pre-computed detected embeddings against reference
// embeddings without any uniqueness constraint: every detection gets
// its closest reference independently, and one reference may win
// several detections.
func (h *FaceHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(req.References) == 0 {
		respondError(w, http.StatusBadRequest, "Missing required data")
		return
	}

	cutoff := mustCutoff(facematch.FromTolerance, h.config.Matching.Cutoffs.MatchTolerance)
	if req.Tolerance != nil {
		var err error
		if cutoff, err = facematch.FromTolerance(*req.Tolerance); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	detections := make([]facematch.Detection, 0, len(req.Detected))
	for i, enc := range req.Detected {
		detections = append(detections, facematch.Detection{
			ID:        strconv.Itoa(i),
			Embedding: enc,
		})
	}

	identities := make([]facematch.KnownIdentity, 0, len(req.References))
	for _, ref := range req.References {
		id := facematch.KnownIdentity{ID: ref.ID}
		if len(ref.Encoding) > 0 {
			id.Embeddings = []facematch.Embedding{ref.Encoding}
		}
		identities = append(identities, id)
	}

	decisions, err := facematch.Match(detections, identities, cutoff.Tolerance(), facematch.BestPerDetectionNonExclusive)
	if err != nil {
		var mismatch *facematch.DimensionMismatchError
		if errors.As(err, &mismatch) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to match faces")
		return
	}

	matches := make([]FaceMatch, 0, len(decisions))
	for _, dec := range decisions {
		if !dec.Matched {
			continue
		}
		matches = append(matches, FaceMatch{
			FaceID:     dec.DetectionID,
			StudentID:  dec.IdentityID,
			Confidence: round4(dec.Confidence),
			Distance:   round4(dec.Distance),
		})
	}

	respondJSON(w, http.StatusOK, MatchResponse{
		Success:       true,
		Matches:       matches,
		TotalDetected: len(detections),
		TotalMatched:  len(matches),
		Convention:    cutoff.Convention(),
		Tolerance:     cutoff.Tolerance(),
	})
}
