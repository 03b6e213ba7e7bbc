package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/schoolhub/facerec/internal/facematch"
)

// RecognizedFace is one matched face in the recognize response.
type RecognizedFace struct {
	ID         string             `json:"id"`
	RollNumber string             `json:"rollNumber"`
	Name       string             `json:"name"`
	Confidence float64            `json:"confidence"`
	Location   facematch.Location `json:"location"`
}

// RecognizeResponse is the single-photo roster recognition result.
// Convention and Tolerance document which strictness knob the call used
// and what it normalized to.
type RecognizeResponse struct {
	Success            bool                 `json:"success"`
	Message            string               `json:"message"`
	TotalFacesDetected int                  `json:"total_faces_detected"`
	Recognized         []RecognizedFace     `json:"recognized"`
	UnrecognizedCount  int                  `json:"unrecognized_count"`
	Convention         facematch.Convention `json:"convention"`
	Tolerance          float64              `json:"tolerance"`
	ProcessingTimeMs   float64              `json:"processing_time_ms"`
}

// Recognize matches every face in a class photo against the supplied
// known faces under the greedy exclusive policy: detections claim
// identities in detection order and each identity is assigned at most
// once per call.
func (h *FaceHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	image, err := readFileUpload(r, "image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}

	knownJSON := r.FormValue("known_faces")
	if knownJSON == "" {
		respondError(w, http.StatusBadRequest, "No known faces provided")
		return
	}
	var records []knownFaceRecord
	if err := json.Unmarshal([]byte(knownJSON), &records); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON format for known_faces")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusBadRequest, "No known faces provided")
		return
	}

	defaultCutoff := mustCutoff(facematch.FromThreshold, h.config.Matching.Cutoffs.RecognizeThreshold)
	cutoff, err := cutoffFromForm(r, defaultCutoff)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	detections, err := h.faces.DetectFaces(r.Context(), image)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to detect faces")
		return
	}

	if len(detections) == 0 {
		respondJSON(w, http.StatusOK, RecognizeResponse{
			Success:          true,
			Message:          "No faces detected in the image",
			Recognized:       []RecognizedFace{},
			Convention:       cutoff.Convention(),
			Tolerance:        cutoff.Tolerance(),
			ProcessingTimeMs: round2(float64(time.Since(start).Microseconds()) / 1000),
		})
		return
	}

	identities := toIdentities(records)
	decisions, err := facematch.Match(detections, identities, cutoff.Tolerance(), facematch.GreedyExclusiveByDetection)
	if err != nil {
		var mismatch *facematch.DimensionMismatchError
		if errors.As(err, &mismatch) || errors.Is(err, facematch.ErrNoReferences) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to match faces")
		return
	}

	identityByID := make(map[string]facematch.KnownIdentity, len(identities))
	for _, id := range identities {
		identityByID[id.ID] = id
	}

	// Greedy decisions come back one per detection, in detection order.
	recognized := make([]RecognizedFace, 0, len(decisions))
	for i, dec := range decisions {
		if !dec.Matched {
			continue
		}
		id := identityByID[dec.IdentityID]
		recognized = append(recognized, RecognizedFace{
			ID:         id.ID,
			RollNumber: id.RollNumber,
			Name:       id.Name,
			Confidence: round4(dec.Confidence),
			Location:   detections[i].Location,
		})
	}

	respondJSON(w, http.StatusOK, RecognizeResponse{
		Success:            true,
		Message:            fmt.Sprintf("Recognized %d out of %d faces", len(recognized), len(detections)),
		TotalFacesDetected: len(detections),
		Recognized:         recognized,
		UnrecognizedCount:  len(detections) - len(recognized),
		Convention:         cutoff.Convention(),
		Tolerance:          cutoff.Tolerance(),
		ProcessingTimeMs:   round2(float64(time.Since(start).Microseconds()) / 1000),
	})
}
