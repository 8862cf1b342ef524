package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	s := NewServer(0)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := serve(t, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestHandleScenes(t *testing.T) {
	rec := serve(t, "/api/scenes")

	var scenes []scene.SceneInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &scenes); err != nil {
		t.Fatalf("Failed to decode scene list: %v", err)
	}
	if len(scenes) != len(scene.ListScenes()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.ListScenes()), len(scenes))
	}
}

func TestHandleSceneConfig(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
	}{
		{"default scene", "/api/scene-config", http.StatusOK},
		{"random scene", "/api/scene-config?scene=random", http.StatusOK},
		{"unknown scene", "/api/scene-config?scene=nonexistent", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.target)
			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestParseRenderRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectError bool
	}{
		{"defaults", "", false},
		{"all parameters", "scene=random&width=64&samplesPerPixel=2&maxDepth=0&seed=5", false},
		{"width too small", "width=1", true},
		{"width not a number", "width=abc", true},
		{"too many samples", "samplesPerPixel=20000", true},
		{"negative depth", "maxDepth=-1", true},
		{"bad seed", "seed=x", true},
	}

	s := NewServer(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil))
			if tt.expectError && err == nil {
				t.Error("Expected error, got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestHandleRenderPNG(t *testing.T) {
	rec := serve(t, "/api/render.png?scene=default&width=16&samplesPerPixel=1&maxDepth=3&seed=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	// 16 / (16/9) = 9
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 9 {
		t.Errorf("Expected 16x9 image, got %v", img.Bounds())
	}
}

func TestHandleRenderPNG_UnknownScene(t *testing.T) {
	rec := serve(t, "/api/render.png?scene=nonexistent")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandleRender_StreamsResult(t *testing.T) {
	rec := serve(t, "/api/render?scene=empty&width=12&samplesPerPixel=2&maxDepth=2&seed=3")
	body := rec.Body.String()

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}
	if !strings.Contains(body, "event: console") {
		t.Errorf("Expected console events in stream")
	}
	if !strings.HasSuffix(body, "event: complete\ndata: Rendering completed\n\n") {
		t.Errorf("Expected stream to end with the complete event, got %q", body)
	}

	// The result event precedes completion and carries a decodable PNG
	var result RenderResult
	for _, block := range strings.Split(body, "\n\n") {
		if !strings.HasPrefix(block, "event: result\n") {
			continue
		}
		data := strings.TrimPrefix(block, "event: result\ndata: ")
		if err := json.Unmarshal([]byte(data), &result); err != nil {
			t.Fatalf("Failed to decode result event: %v", err)
		}
	}

	if result.Stats.Width != 12 || result.Stats.TotalSamples != result.Stats.TotalPixels*2 {
		t.Errorf("Unexpected stats %+v", result.Stats)
	}
	raw, err := base64.StdEncoding.DecodeString(result.ImageData)
	if err != nil {
		t.Fatalf("Failed to decode image data: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("Result image is not a valid PNG: %v", err)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	rec := serve(t, "/api/render?width=0")

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected an error event, got %q", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	tests := []struct {
		name             string
		target           string
		expectedStatus   int
		expectedHit      bool
		expectedMaterial string
	}{
		{"center sphere", "/api/inspect?scene=default&width=400&x=200&y=112", http.StatusOK, true, "lambertian"},
		{"empty scene misses", "/api/inspect?scene=empty&width=40&x=20&y=10", http.StatusOK, false, ""},
		{"out of bounds", "/api/inspect?scene=default&width=40&x=40&y=0", http.StatusBadRequest, false, ""},
		{"missing coordinates", "/api/inspect?scene=default", http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, tt.target)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response InspectResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Hit != tt.expectedHit {
				t.Errorf("Expected hit=%v, got %v", tt.expectedHit, response.Hit)
			}
			if response.MaterialType != tt.expectedMaterial {
				t.Errorf("Expected material %q, got %q", tt.expectedMaterial, response.MaterialType)
			}
			if tt.expectedHit && response.GeometryType != "sphere" {
				t.Errorf("Expected sphere geometry, got %q", response.GeometryType)
			}
		})
	}
}
