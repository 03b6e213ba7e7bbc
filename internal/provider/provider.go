// Package provider talks to the external face embedding service: the
// component that decodes images, localizes faces and turns each face
// region into a fixed-length embedding vector. Everything downstream of
// it (matching, attendance) works on the embeddings it returns.
package provider

import (
	"context"
	"errors"

	"github.com/schoolhub/facerec/internal/facematch"
)

// ErrNoFaceDetected is returned when no face is found in the image.
var ErrNoFaceDetected = errors.New("no face detected in image")

// ErrMultipleFaces is returned when an enrollment image contains more
// than one face, so no single reference embedding can be extracted.
var ErrMultipleFaces = errors.New("multiple faces detected")

// FaceProvider is the embedding capability consumed by the handlers and
// the CLI. Implemented over HTTP by Client; tests supply their own.
type FaceProvider interface {
	// DetectFaces finds every face in a photo and returns one Detection
	// per face, embedding and pixel location included. Detection IDs
	// are unique across calls so detections from several photos can be
	// pooled.
	DetectFaces(ctx context.Context, image []byte) ([]facematch.Detection, error)

	// EncodeFace extracts the reference embedding from a single-face
	// enrollment photo. Fails with ErrNoFaceDetected or
	// ErrMultipleFaces when the photo does not contain exactly one face.
	EncodeFace(ctx context.Context, image []byte) (facematch.Embedding, facematch.Location, error)
}
