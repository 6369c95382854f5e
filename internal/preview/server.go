package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
)

// ErrNotStarted is returned by Create before Start.
var ErrNotStarted = errors.New("preview server not started")

// Server is a loopback HTTP registry serving each live handle at /preview/{id}.
type Server struct {
	addr   string
	logger *logging.Logger

	mu      sync.RWMutex
	entries map[string]model.FileEntry
	baseURL string
	srv     *http.Server
}

// NewServer creates a registry that will listen on addr once started.
func NewServer(addr string, logger *logging.Logger) *Server {
	return &Server{
		addr:    addr,
		logger:  logging.OrNop(logger).Component("preview-server"),
		entries: make(map[string]model.FileEntry),
	}
}

// Handler returns the HTTP routes of the registry.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/preview/{id}", s.serve)
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	s.mu.Lock()
	s.baseURL = "http://" + ln.Addr().String()
	s.srv = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("preview server stopped")
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("preview server listening")
	return nil
}

// Close revokes every handle and shuts the server down.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.entries = make(map[string]model.FileEntry)
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Create registers file and returns its handle.
func (s *Server) Create(file model.FileEntry) (model.PreviewHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return model.PreviewHandle{}, ErrNotStarted
	}
	id := uuid.New().String()
	s.entries[id] = file
	return model.PreviewHandle{ID: id, URL: s.baseURL + "/preview/" + id}, nil
}

// Revoke removes h from the registry.
func (s *Server) Revoke(h model.PreviewHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[h.ID]; !ok {
		return false
	}
	delete(s.entries, h.ID)
	return true
}

// Live returns the number of unrevoked handles.
func (s *Server) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		http.Error(w, "preview not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(entry.Path)
	if err != nil {
		http.Error(w, "preview unavailable", http.StatusGone)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "preview unavailable", http.StatusGone)
		return
	}
	http.ServeContent(w, r, entry.Name, info.ModTime(), f)
}
