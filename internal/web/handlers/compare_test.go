package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/schoolhub/facerec/internal/facematch"
)

func TestCompare_MissingImages(t *testing.T) {
	handler := NewFaceHandler(testConfig(), &mockProvider{})

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 400)
	assertJSONError(t, recorder, "image2 file is required")
}

func TestCompare_SamePerson(t *testing.T) {
	mock := &mockProvider{perImage: map[string][]facematch.Detection{
		"img-1": {{ID: "f1", Embedding: embAt(128, 0)}},
		"img-2": {{ID: "f2", Embedding: embAt(128, 0.3)}},
	}}
	handler := NewFaceHandler(testConfig(), mock)

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
		{field: "image2", name: "b.jpg", data: []byte("img-2")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 200)
	var resp CompareResponse
	parseJSONResponse(t, recorder, &resp)
	if !resp.Success || !resp.IsSamePerson {
		t.Errorf("expected same-person verdict, got %+v", resp)
	}
	if resp.Distance != 0.3 {
		t.Errorf("expected distance 0.3, got %v", resp.Distance)
	}
	if resp.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", resp.Confidence)
	}
}

func TestCompare_DifferentPerson(t *testing.T) {
	mock := &mockProvider{perImage: map[string][]facematch.Detection{
		"img-1": {{ID: "f1", Embedding: embAt(128, 0)}},
		"img-2": {{ID: "f2", Embedding: embAt(128, 0.9)}},
	}}
	handler := NewFaceHandler(testConfig(), mock)

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
		{field: "image2", name: "b.jpg", data: []byte("img-2")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 200)
	var resp CompareResponse
	parseJSONResponse(t, recorder, &resp)
	if !resp.Success || resp.IsSamePerson {
		t.Errorf("expected different-person verdict, got %+v", resp)
	}
	if resp.Confidence != 0.1 {
		t.Errorf("expected confidence 0.1, got %v", resp.Confidence)
	}
}

func TestCompare_NoFaceInFirstImage(t *testing.T) {
	mock := &mockProvider{perImage: map[string][]facematch.Detection{
		"img-2": {{ID: "f2", Embedding: embAt(128, 0)}},
	}}
	handler := NewFaceHandler(testConfig(), mock)

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
		{field: "image2", name: "b.jpg", data: []byte("img-2")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 200)
	var resp CompareResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Success {
		t.Error("expected success false when no face found")
	}
	if resp.Message != "No face detected in first image" {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestCompare_NoFaceInSecondImage(t *testing.T) {
	mock := &mockProvider{perImage: map[string][]facematch.Detection{
		"img-1": {{ID: "f1", Embedding: embAt(128, 0)}},
	}}
	handler := NewFaceHandler(testConfig(), mock)

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
		{field: "image2", name: "b.jpg", data: []byte("img-2")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 200)
	var resp CompareResponse
	parseJSONResponse(t, recorder, &resp)
	if resp.Success || resp.Message != "No face detected in second image" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCompare_UsesFirstFace(t *testing.T) {
	// The second face in image1 is far from everything; only the first
	// one participates in the comparison.
	mock := &mockProvider{perImage: map[string][]facematch.Detection{
		"img-1": {
			{ID: "f1", Embedding: embAt(128, 0)},
			{ID: "f2", Embedding: embAt(128, 5)},
		},
		"img-2": {{ID: "f3", Embedding: embAt(128, 0)}},
	}}
	handler := NewFaceHandler(testConfig(), mock)

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
		{field: "image2", name: "b.jpg", data: []byte("img-2")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 200)
	var resp CompareResponse
	parseJSONResponse(t, recorder, &resp)
	if !resp.IsSamePerson || resp.Distance != 0 {
		t.Errorf("expected zero-distance match on the first face, got %+v", resp)
	}
}

func TestCompare_DimensionMismatch(t *testing.T) {
	mock := &mockProvider{perImage: map[string][]facematch.Detection{
		"img-1": {{ID: "f1", Embedding: embAt(128, 0)}},
		"img-2": {{ID: "f2", Embedding: embAt(64, 0)}},
	}}
	handler := NewFaceHandler(testConfig(), mock)

	req := newMultipartRequest(t, "/api/v1/compare", nil, []filePart{
		{field: "image1", name: "a.jpg", data: []byte("img-1")},
		{field: "image2", name: "b.jpg", data: []byte("img-2")},
	})
	recorder := httptest.NewRecorder()
	handler.Compare(recorder, req)

	assertStatusCode(t, recorder, 400)
}
