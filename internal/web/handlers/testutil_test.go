package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/schoolhub/facerec/internal/config"
	"github.com/schoolhub/facerec/internal/facematch"
)

// testConfig creates a minimal config for testing with the shipped
// cutoff defaults.
func testConfig() *config.Config {
	return &config.Config{
		Matching: config.MatchingConfig{
			Cutoffs: config.CutoffDefaults{
				RecognizeThreshold:  0.75,
				MatchTolerance:      0.6,
				AttendanceTolerance: 0.6,
				CompareTolerance:    0.6,
			},
		},
	}
}

// mockProvider is an in-memory FaceProvider for handler tests.
// When perImage is set, DetectFaces answers by upload content;
// otherwise it always returns detections/detectErr.
type mockProvider struct {
	detections []facematch.Detection
	detectErr  error
	perImage   map[string][]facematch.Detection
	failImages map[string]bool

	encodings []facematch.Embedding // consumed per EncodeFace call
	location  facematch.Location
	encodeErr error
}

func (m *mockProvider) DetectFaces(ctx context.Context, image []byte) ([]facematch.Detection, error) {
	if m.failImages[string(image)] {
		return nil, context.DeadlineExceeded
	}
	if m.perImage != nil {
		return m.perImage[string(image)], nil
	}
	return m.detections, m.detectErr
}

func (m *mockProvider) EncodeFace(ctx context.Context, image []byte) (facematch.Embedding, facematch.Location, error) {
	if m.encodeErr != nil {
		return nil, facematch.Location{}, m.encodeErr
	}
	if len(m.encodings) == 0 {
		return nil, facematch.Location{}, nil
	}
	enc := m.encodings[0]
	m.encodings = m.encodings[1:]
	return enc, m.location, nil
}

// filePart is one file upload in a multipart test request.
type filePart struct {
	field string
	name  string
	data  []byte
}

// newMultipartRequest builds a multipart/form-data request with the
// given form fields and file uploads.
func newMultipartRequest(t *testing.T, path string, fields map[string]string, files []filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("failed to create form file %s: %v", f.field, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			t.Fatalf("failed to write form file %s: %v", f.field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to finalize form: %v", err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message.
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}

// embAt builds an embedding at the given offset along the first axis.
func embAt(dim int, offset float64) facematch.Embedding {
	e := make(facematch.Embedding, dim)
	e[0] = offset
	return e
}
