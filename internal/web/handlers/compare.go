package handlers

import (
	"net/http"

	"github.com/schoolhub/facerec/internal/facematch"
)

// CompareResponse is the two-photo same-person verdict.
type CompareResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message,omitempty"`
	IsSamePerson bool    `json:"is_same_person"`
	Confidence   float64 `json:"confidence"`
	Distance     float64 `json:"distance"`
}

// Compare decides whether two photos show the same person. When a photo
// contains several faces the first detected one is used, mirroring the
// original comparison behavior.
func (h *FaceHandler) Compare(w http.ResponseWriter, r *http.Request) {
	image1, err := readFileUpload(r, "image1")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image1 file is required")
		return
	}
	image2, err := readFileUpload(r, "image2")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image2 file is required")
		return
	}

	defaultCutoff := mustCutoff(facematch.FromTolerance, h.config.Matching.Cutoffs.CompareTolerance)
	cutoff, err := cutoffFromForm(r, defaultCutoff)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	faces1, err := h.faces.DetectFaces(r.Context(), image1)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process first image")
		return
	}
	if len(faces1) == 0 {
		respondJSON(w, http.StatusOK, CompareResponse{Success: false, Message: "No face detected in first image"})
		return
	}

	faces2, err := h.faces.DetectFaces(r.Context(), image2)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to process second image")
		return
	}
	if len(faces2) == 0 {
		respondJSON(w, http.StatusOK, CompareResponse{Success: false, Message: "No face detected in second image"})
		return
	}

	distance, err := facematch.EuclideanDistance(faces1[0].Embedding, faces2[0].Embedding)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CompareResponse{
		Success:      true,
		IsSamePerson: facematch.IsMatch(distance, cutoff.Tolerance()),
		Confidence:   round4(facematch.Confidence(distance)),
		Distance:     round4(distance),
	})
}
