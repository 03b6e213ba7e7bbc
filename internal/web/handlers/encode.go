package handlers

import (
	"errors"
	"net/http"

	"github.com/schoolhub/facerec/internal/provider"
)

// EncodeResponse is the enrollment encoding result.
type EncodeResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Encoding  []float64 `json:"encoding,omitempty"`
	FaceCount int       `json:"face_count"`
}

// Encode extracts one reference embedding from an enrollment photo.
// Zero or multiple faces are reported in the response body rather than
// as HTTP errors, so enrollment UIs can show the message directly.
func (h *FaceHandler) Encode(w http.ResponseWriter, r *http.Request) {
	image, err := readFileUpload(r, "image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}

	encoding, _, err := h.faces.EncodeFace(r.Context(), image)
	switch {
	case errors.Is(err, provider.ErrNoFaceDetected):
		respondJSON(w, http.StatusOK, EncodeResponse{
			Success: false,
			Message: "No face detected in the image",
		})
		return
	case errors.Is(err, provider.ErrMultipleFaces):
		respondJSON(w, http.StatusOK, EncodeResponse{
			Success: false,
			Message: "Multiple faces detected. Please upload an image with only one face.",
		})
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "failed to extract face encoding")
		return
	}

	respondJSON(w, http.StatusOK, EncodeResponse{
		Success:   true,
		Message:   "Face encoding extracted successfully",
		Encoding:  encoding,
		FaceCount: 1,
	})
}
