package handlers

import (
	"net/http"

	"github.com/schoolhub/facerec/internal/facematch"
)

// DetectedFace is one face location in the detect response.
type DetectedFace struct {
	Location facematch.Location `json:"location"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
}

// DetectResponse lists face locations without recognition.
type DetectResponse struct {
	Success   bool           `json:"success"`
	FaceCount int            `json:"face_count"`
	Faces     []DetectedFace `json:"faces"`
}

// Detect finds faces in an image without matching them against anyone.
func (h *FaceHandler) Detect(w http.ResponseWriter, r *http.Request) {
	image, err := readFileUpload(r, "image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}

	detections, err := h.faces.DetectFaces(r.Context(), image)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to detect faces")
		return
	}

	faces := make([]DetectedFace, 0, len(detections))
	for _, det := range detections {
		faces = append(faces, DetectedFace{
			Location: det.Location,
			Width:    det.Location.Width(),
			Height:   det.Location.Height(),
		})
	}

	respondJSON(w, http.StatusOK, DetectResponse{
		Success:   true,
		FaceCount: len(faces),
		Faces:     faces,
	})
}
