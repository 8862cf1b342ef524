package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// SSEEvent is a single Server-Sent Event, written by one goroutine only
type SSEEvent struct {
	Type string `json:"type"` // "console", "result", "error", "complete"
	Data string `json:"data"` // JSON-encoded payload or plain message
}

// RenderResult is the payload of the "result" event
type RenderResult struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// handleRender renders a scene and streams its log lines followed by the
// finished image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	// The handler must not return while the writer still uses w
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	startTime := time.Now()
	img, stats := s.renderScene(sceneObj, req, NewWebLogger(newRenderID(), consoleChan))

	// Flush console lines before the result so the client sees them in order
	close(consoleChan)
	<-consoleDone

	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode image: %v", err)})
		return
	}

	data, err := json.Marshal(RenderResult{
		ImageData: imageData,
		Stats:     toStats(img, stats, sceneObj, time.Since(startTime)),
	})
	if err != nil {
		log.Printf("Error marshaling render result: %v", err)
		return
	}

	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "result", Data: string(data)})
	s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// handleRenderPNG renders a scene and responds with the PNG directly
func (s *Server) handleRenderPNG(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, _ := s.renderScene(sceneObj, req, NewWebLogger(newRenderID(), nil))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := png.Encode(w, img); err != nil {
		log.Printf("Error writing PNG response: %v", err)
	}
}

// renderScene runs one full render of sceneObj
func (s *Server) renderScene(sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*renderer.Image, renderer.RenderStats) {
	config := renderer.DefaultRenderConfig()
	config.Seed = req.Seed

	raytracer := renderer.NewRaytracer(sceneObj, config, logger)
	return raytracer.Render()
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes every event until the channel closes or the client disconnects
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until consoleChan closes
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}
		if !s.sendEvent(ctx, sseEventChan, SSEEvent{Type: "console", Data: string(data)}) {
			return
		}
	}
}

// sendEvent queues an event, giving up if the client has gone away
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, event SSEEvent) bool {
	select {
	case sseEventChan <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func toStats(img *renderer.Image, stats renderer.RenderStats, sceneObj *scene.Scene, elapsed time.Duration) Stats {
	return Stats{
		Width:            img.Width,
		Height:           img.Height,
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     stats.TotalSamples,
		AverageSamples:   stats.AverageSamples,
		AverageLuminance: stats.AverageLuminance,
		PrimitiveCount:   sceneObj.GetPrimitiveCount(),
		ElapsedMs:        elapsed.Milliseconds(),
	}
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}
