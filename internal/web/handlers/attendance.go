package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/schoolhub/facerec/internal/facematch"
)

// studentRecord is the roster record shape of the attendance endpoint.
type studentRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"rollNumber"`
	FaceEncoding []float64 `json:"faceEncoding"`
}

// AttendanceResult is one per-student verdict in the response.
type AttendanceResult struct {
	StudentID  string                     `json:"studentId"`
	Name       string                     `json:"name"`
	RollNumber string                     `json:"rollNumber"`
	Detected   bool                       `json:"detected"`
	Confidence float64                    `json:"confidence"`
	Status     facematch.AttendanceStatus `json:"status"`
	Reason     facematch.AbsenceReason    `json:"reason,omitempty"`
}

// AttendanceResponse is the multi-photo attendance result.
type AttendanceResponse struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message,omitempty"`
	Results       []AttendanceResult   `json:"results"`
	TotalStudents int                  `json:"totalStudents"`
	TotalDetected int                  `json:"totalDetected"`
	TotalMatched  int                  `json:"totalMatched"`
	Convention    facematch.Convention `json:"convention"`
	Tolerance     float64              `json:"tolerance"`
}

// Attendance runs the full attendance pipeline: every uploaded photo is
// sent to the embedding provider, the detections are pooled, and each
// student on the roster gets a PRESENT/ABSENT verdict. One bad photo
// never fails the batch; it just contributes no detections.
func (h *FaceHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	photos := r.MultipartForm.File["photos"]
	if len(photos) == 0 {
		respondError(w, http.StatusBadRequest, "No photos provided")
		return
	}

	studentsJSON := r.FormValue("students")
	if studentsJSON == "" {
		respondError(w, http.StatusBadRequest, "No student data provided")
		return
	}
	var students []studentRecord
	if err := json.Unmarshal([]byte(studentsJSON), &students); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON format for students")
		return
	}
	if len(students) == 0 {
		respondError(w, http.StatusBadRequest, "No student data provided")
		return
	}

	defaultCutoff := mustCutoff(facematch.FromTolerance, h.config.Matching.Cutoffs.AttendanceTolerance)
	cutoff, err := cutoffFromForm(r, defaultCutoff)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	photoDetections := h.detectAll(r, photos)

	identities := make([]facematch.KnownIdentity, 0, len(students))
	for _, s := range students {
		id := facematch.KnownIdentity{
			ID:         s.ID,
			Name:       s.Name,
			RollNumber: s.RollNumber,
		}
		if len(s.FaceEncoding) > 0 {
			id.Embeddings = []facematch.Embedding{s.FaceEncoding}
		}
		identities = append(identities, id)
	}

	verdicts, err := facematch.Aggregate(identities, photoDetections, cutoff.Tolerance())
	if err != nil {
		var mismatch *facematch.DimensionMismatchError
		if errors.As(err, &mismatch) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to process attendance")
		return
	}

	totalDetected := 0
	for _, dets := range photoDetections {
		totalDetected += len(dets)
	}

	results := make([]AttendanceResult, 0, len(verdicts))
	totalMatched := 0
	for _, v := range verdicts {
		present := v.Status == facematch.StatusPresent
		if present {
			totalMatched++
		}
		results = append(results, AttendanceResult{
			StudentID:  v.IdentityID,
			Name:       v.Name,
			RollNumber: v.RollNumber,
			Detected:   present,
			Confidence: round4(v.Confidence),
			Status:     v.Status,
			Reason:     v.Reason,
		})
	}

	resp := AttendanceResponse{
		Success:       true,
		Results:       results,
		TotalStudents: len(students),
		TotalDetected: totalDetected,
		TotalMatched:  totalMatched,
		Convention:    cutoff.Convention(),
		Tolerance:     cutoff.Tolerance(),
	}
	if totalDetected == 0 {
		resp.Message = "No faces detected in photos"
	}
	respondJSON(w, http.StatusOK, resp)
}

// detectAll dispatches every photo to the provider concurrently. Photos
// that fail to read or detect contribute an empty detection set; a
// failure in one photo must not cancel the others.
func (h *FaceHandler) detectAll(r *http.Request, photos []*multipart.FileHeader) [][]facematch.Detection {
	photoDetections := make([][]facematch.Detection, len(photos))

	var wg sync.WaitGroup
	for i, header := range photos {
		wg.Add(1)
		go func(i int, header *multipart.FileHeader) {
			defer wg.Done()

			file, err := header.Open()
			if err != nil {
				log.Printf("skipping photo %s: %v", header.Filename, err)
				return
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				log.Printf("skipping photo %s: %v", header.Filename, err)
				return
			}

			detections, err := h.faces.DetectFaces(r.Context(), data)
			if err != nil {
				log.Printf("skipping photo %s: %v", header.Filename, err)
				return
			}
			photoDetections[i] = detections
		}(i, header)
	}
	wg.Wait()

	return photoDetections
}
