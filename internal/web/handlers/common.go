package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/schoolhub/facerec/internal/config"
	"github.com/schoolhub/facerec/internal/facematch"
	"github.com/schoolhub/facerec/internal/provider"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// maxUploadBytes bounds multipart form memory usage.
const maxUploadBytes = 32 << 20

// FaceHandler serves the recognition, matching and attendance endpoints.
type FaceHandler struct {
	config *config.Config
	faces  provider.FaceProvider
}

// NewFaceHandler creates a FaceHandler backed by the given embedding provider.
func NewFaceHandler(cfg *config.Config, faces provider.FaceProvider) *FaceHandler {
	return &FaceHandler{config: cfg, faces: faces}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// round4 rounds a score for the response body. Rounding happens only
// here at the presentation boundary; the core always compares at full
// precision.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// round2 rounds elapsed milliseconds for the response body.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// readFileUpload reads one uploaded file from a multipart form field.
func readFileUpload(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s upload: %w", field, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// knownFaceRecord is the reference record shape of the recognize
// endpoint: one encoding per known person.
type knownFaceRecord struct {
	ID         string    `json:"id"`
	RollNumber string    `json:"rollNumber"`
	Name       string    `json:"name"`
	Encoding   []float64 `json:"encoding"`
}

// toIdentities converts known face records to core identities,
// preserving the caller-supplied order. Records with empty encodings
// are kept; the matcher degrades them instead of failing the call.
func toIdentities(records []knownFaceRecord) []facematch.KnownIdentity {
	identities := make([]facematch.KnownIdentity, 0, len(records))
	for _, rec := range records {
		id := facematch.KnownIdentity{
			ID:         rec.ID,
			Name:       rec.Name,
			RollNumber: rec.RollNumber,
		}
		if len(rec.Encoding) > 0 {
			id.Embeddings = []facematch.Embedding{rec.Encoding}
		}
		identities = append(identities, id)
	}
	return identities
}

// cutoffFromForm resolves the match cutoff for form-based endpoints.
// Callers may send either "tolerance" (distance convention) or
// "threshold" (confidence convention); the default applies when neither
// is present.
func cutoffFromForm(r *http.Request, defaultCutoff facematch.Cutoff) (facematch.Cutoff, error) {
	if s := r.FormValue("tolerance"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return facematch.Cutoff{}, fmt.Errorf("invalid tolerance %q", s)
		}
		return facematch.FromTolerance(v)
	}
	if s := r.FormValue("threshold"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return facematch.Cutoff{}, fmt.Errorf("invalid threshold %q", s)
		}
		return facematch.FromThreshold(v)
	}
	return defaultCutoff, nil
}

// mustCutoff builds a Cutoff from a trusted configuration default.
func mustCutoff(build func(float64) (facematch.Cutoff, error), v float64) facematch.Cutoff {
	c, err := build(v)
	if err != nil {
		panic("invalid configured cutoff: " + err.Error())
	}
	return c
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "face-recognition",
	})
}
