package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/facerec/internal/facematch"
)

// Client is the HTTP implementation of FaceProvider, talking to the
// ml-service API (POST /detect-faces, POST /generate-encoding).
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxImageSize int // longest edge in pixels; 0 disables downscaling
}

// NewClient creates a provider client for the given base URL.
// Images larger than maxImageSize on their longest edge are downscaled
// before upload to keep detection latency bounded.
func NewClient(baseURL string, maxImageSize int) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		maxImageSize: maxImageSize,
	}
}

// detectResponse mirrors the provider's /detect-faces payload.
type detectResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Faces   []detectedFace `json:"faces"`
}

type detectedFace struct {
	ID       int                `json:"id"`
	Encoding []float64          `json:"encoding"`
	Location facematch.Location `json:"location"`
}

// encodeResponse mirrors the provider's /generate-encoding payload.
type encodeResponse struct {
	Success  bool               `json:"success"`
	Encoding []float64          `json:"encoding"`
	Location facematch.Location `json:"face_location"`
}

// errorResponse is the provider's error body shape.
type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) DetectFaces(ctx context.Context, image []byte) ([]facematch.Detection, error) {
	var result detectResponse
	if err := c.postPhoto(ctx, "/detect-faces", image, &result); err != nil {
		return nil, err
	}

	detections := make([]facematch.Detection, 0, len(result.Faces))
	for _, face := range result.Faces {
		if len(face.Encoding) == 0 {
			continue
		}
		// The provider numbers faces per photo; pooled multi-photo sets
		// need IDs that stay unique across calls.
		detections = append(detections, facematch.Detection{
			ID:        uuid.New().String(),
			Location:  face.Location,
			Embedding: face.Encoding,
		})
	}
	return detections, nil
}

func (c *Client) EncodeFace(ctx context.Context, image []byte) (facematch.Embedding, facematch.Location, error) {
	var result encodeResponse
	if err := c.postPhoto(ctx, "/generate-encoding", image, &result); err != nil {
		return nil, facematch.Location{}, err
	}
	if len(result.Encoding) == 0 {
		return nil, facematch.Location{}, ErrNoFaceDetected
	}
	return result.Encoding, result.Location, nil
}

// postPhoto uploads an image as multipart form data and unmarshals the
// JSON response. Provider-side client errors (400) are mapped to the
// sentinel errors where the message identifies them.
func (c *Client) postPhoto(ctx context.Context, endpoint string, image []byte, result any) error {
	// Undecodable uploads go through untouched; the provider is the
	// authority on image validity.
	if prepared, err := PrepareImage(image, c.maxImageSize); err == nil {
		image = prepared
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "photo.jpg")
	if err != nil {
		return fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return fmt.Errorf("could not write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("could not finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach embedding provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return mapProviderError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("could not unmarshal provider response: %w", err)
	}
	return nil
}

// mapProviderError turns a non-200 provider response into an error,
// recognizing the provider's "no face" and "multiple faces" messages.
func mapProviderError(status int, body []byte) error {
	var errResp errorResponse
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	if status == http.StatusBadRequest {
		switch {
		case strings.Contains(msg, "No face detected"):
			return ErrNoFaceDetected
		case strings.Contains(msg, "Multiple faces"):
			return ErrMultipleFaces
		}
	}
	return fmt.Errorf("provider request failed with status %d: %s", status, msg)
}
