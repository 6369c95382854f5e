// Package testsupport provides a fake processing service for tests.
package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultProbeInfo is what /evaluate reports unless ProbeInfo is set.
const DefaultProbeInfo = `{"streams":[` +
	`{"index":0,"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"avg_frame_rate":"30/1","r_frame_rate":"30/1"},` +
	`{"index":1,"codec_type":"audio","codec_name":"aac"}]}`

// Failure makes an endpoint answer with an error payload.
type Failure struct {
	Status  int
	Message string
}

// Upload is a file part received by the service.
type Upload struct {
	Field    string
	Filename string
	Size     int
}

// Request is a recorded call.
type Request struct {
	Path        string
	ContentType string
	JSON        map[string]any
	Form        map[string]string
	Uploads     []Upload
}

// Service is a scripted stand-in for the processing service.
type Service struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []Request
	probeInfo string
	result    string
	failures  map[string]Failure
	frames    []string
	interval  time.Duration
	hold      bool
	artifacts map[string][]byte
	done      chan struct{}
}

// NewService starts a fake service and closes it when the test ends.
func NewService(t *testing.T) *Service {
	t.Helper()
	s := &Service{
		probeInfo: DefaultProbeInfo,
		result:    "/videos/processing/out123.mp4",
		failures:  make(map[string]Failure),
		artifacts: make(map[string][]byte),
		hold:      true,
		done:      make(chan struct{}),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/evaluate", s.evaluate)
	r.Post("/combine", s.combine)
	r.Post("/overlay", s.overlay)
	r.Get("/progress", s.progress)
	r.Get("/download/{name}", s.download)

	s.Server = httptest.NewServer(r)
	t.Cleanup(func() {
		close(s.done)
		s.CloseClientConnections()
		s.Close()
	})
	return s
}

// SetProbeInfo sets the raw ffprobe JSON returned by /evaluate.
func (s *Service) SetProbeInfo(info string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeInfo = info
}

// SetResult sets the artifact returned by job endpoints.
func (s *Service) SetResult(artifact string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = artifact
}

// Fail makes path answer with f.
func (s *Service) Fail(path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = f
}

// SetProgressFrames scripts the /progress stream. Each frame is sent as
// one "data:" event, interval apart. When hold is true the connection stays
// open after the last frame until the client leaves.
func (s *Service) SetProgressFrames(frames []string, interval time.Duration, hold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append([]string(nil), frames...)
	s.interval = interval
	s.hold = hold
}

// AddArtifact makes name downloadable.
func (s *Service) AddArtifact(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[name] = data
}

// Requests returns the recorded calls.
func (s *Service) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many calls hit path.
func (s *Service) Count(path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent call to path.
func (s *Service) Last(path string) (Request, bool) {
	reqs := s.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

func (s *Service) record(r *http.Request) (Request, error) {
	rec := Request{Path: r.URL.Path, ContentType: r.Header.Get("Content-Type")}

	switch {
	case strings.HasPrefix(rec.ContentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return rec, err
		}
		rec.Form = make(map[string]string)
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				rec.Form[k] = v[0]
			}
		}
		for field, headers := range r.MultipartForm.File {
			for _, h := range headers {
				rec.Uploads = append(rec.Uploads, Upload{Field: field, Filename: h.Filename, Size: int(h.Size)})
			}
		}
	case strings.HasPrefix(rec.ContentType, "application/json"):
		if err := json.NewDecoder(r.Body).Decode(&rec.JSON); err != nil {
			return rec, err
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	return rec, nil
}

func (s *Service) failure(path string) (Failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.failures[path]
	return f, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) evaluate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if f, ok := s.failure(rec.Path); ok {
		writeJSON(w, f.Status, map[string]string{"error": f.Message})
		return
	}
	if len(rec.Uploads) == 0 || rec.Uploads[0].Field != "file" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file"})
		return
	}
	s.mu.Lock()
	info := s.probeInfo
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"info": info})
}

func (s *Service) combine(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if f, ok := s.failure(rec.Path); ok {
		writeJSON(w, f.Status, map[string]string{"error": f.Message})
		return
	}
	if desc, _ := rec.JSON["description"].(string); strings.TrimSpace(desc) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Description is required"})
		return
	}
	s.respondResult(w)
}

func (s *Service) overlay(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if f, ok := s.failure(rec.Path); ok {
		writeJSON(w, f.Status, map[string]string{"error": f.Message})
		return
	}
	s.respondResult(w)
}

func (s *Service) respondResult(w http.ResponseWriter) {
	s.mu.Lock()
	result := s.result
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func (s *Service) progress(w http.ResponseWriter, r *http.Request) {
	rec, _ := s.record(r)
	if f, ok := s.failure(rec.Path); ok {
		writeJSON(w, f.Status, map[string]string{"error": f.Message})
		return
	}

	s.mu.Lock()
	frames := append([]string(nil), s.frames...)
	interval := s.interval
	hold := s.hold
	s.mu.Unlock()

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if flusher != nil {
		flusher.Flush()
	}

	for _, frame := range frames {
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case <-time.After(interval):
		}
		fmt.Fprintf(w, "data: %s\n\n", frame)
		if flusher != nil {
			flusher.Flush()
		}
	}
	if hold {
		select {
		case <-r.Context().Done():
		case <-s.done:
		}
	}
}

func (s *Service) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.record(r)

	s.mu.Lock()
	data, ok := s.artifacts[name]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	_, _ = w.Write(data)
}
