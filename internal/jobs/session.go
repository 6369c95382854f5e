// Package jobs implements the combine and overlay workflows on top of the
// job store, the service client and the preview manager.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/preview"
	"github.com/lazyvibe/vidjob/internal/progress"
	"github.com/lazyvibe/vidjob/internal/state"
)

// Client is the subset of the service client used by the flows.
type Client interface {
	Probe(ctx context.Context, file model.FileEntry) (api.ProbeResult, error)
	SubmitCombine(ctx context.Context, req api.CombineRequest) (api.JobResult, error)
	SubmitOverlay(ctx context.Context, req api.OverlayRequest) (api.JobResult, error)
	DownloadURL(artifact string) string
}

// Session ties one view's store to its collaborators.
type Session struct {
	store    *state.Store
	client   Client
	previews *preview.Manager
	progress *progress.Controller
	logger   *logging.Logger

	// mu serialises flows that move the preview handle.
	mu     sync.Mutex
	closed bool
}

// NewSession creates a session. progress may be nil when no live updates
// are wanted.
func NewSession(store *state.Store, client Client, previews *preview.Manager, ctrl *progress.Controller, logger *logging.Logger) *Session {
	return &Session{
		store:    store,
		client:   client,
		previews: previews,
		progress: ctrl,
		logger:   logging.OrNop(logger).Component("jobs"),
	}
}

// Store returns the session store.
func (s *Session) Store() *state.Store {
	return s.store
}

// AddFiles appends files and probes the first of them to pre-fill the
// shared encode parameters. The files stay in the list if the probe fails.
func (s *Session) AddFiles(ctx context.Context, files []model.FileEntry) error {
	if len(files) == 0 {
		return nil
	}
	s.store.Dispatch(state.AppendFiles{Files: files})

	first := files[0]
	res, err := s.client.Probe(ctx, first)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", first.Name).Msg("probe failed")
		return fmt.Errorf("probe %s: %w", first.Name, err)
	}
	patch := res.Patch()
	if patch.IsEmpty() {
		s.logger.Info().Str("file", first.Name).Msg("no video stream found")
		return nil
	}
	s.store.Dispatch(state.MergeVideoParams{Patch: patch})
	return nil
}

// Select makes the file with id the previewed file.
func (s *Session) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.store.State()
	file, ok := st.FileByID(id)
	if !ok {
		return ErrUnknownFile
	}
	if st.IsSelected(id) && !st.Preview.IsZero() {
		return nil
	}

	// Detach the handle from the store before it is revoked.
	prev := st.Preview
	s.store.Dispatch(state.SetPreviewURL{})

	h, err := s.previews.Select(prev, file)
	if err != nil {
		s.store.Dispatch(state.SelectFile{})
		return fmt.Errorf("preview %s: %w", file.Name, err)
	}
	s.store.Dispatch(state.SelectFile{File: &file, Handle: h})
	return nil
}

// RemoveFile drops one entry and releases its preview if it was selected.
func (s *Session) RemoveFile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.store.State()
	selected := st.IsSelected(id)
	s.store.Dispatch(state.RemoveFile{ID: id})
	if selected {
		s.previews.Release(st.Preview)
	}
}

// RemoveAll clears the list and releases the preview.
func (s *Session) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.store.State().Preview
	s.store.Dispatch(state.SetFiles{})
	s.previews.Release(h)
}

// Combine submits a combine job for the current file list.
// On failure the store keeps its pre-submit state.
func (s *Session) Combine(ctx context.Context) (string, error) {
	st := s.store.State()
	if len(st.Files) == 0 {
		return "", &ValidationError{Field: "files", Message: "add at least one file to combine"}
	}
	if strings.TrimSpace(st.Description) == "" {
		return "", &ValidationError{Field: "description", Message: "description is required"}
	}

	s.store.Dispatch(state.SetDownloadLink{})
	res, err := s.client.SubmitCombine(ctx, api.CombineRequest{
		FileNames:    model.Names(st.Files),
		IncludeAudio: st.IncludeAudio,
		Description:  strings.TrimSpace(st.Description),
		VideoParams:  st.VideoParams,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("combine failed")
		return "", fmt.Errorf("combine: %w", err)
	}
	return s.finish(res), nil
}

// Overlay submits an overlay job. Both files must be chosen first.
func (s *Session) Overlay(ctx context.Context) (string, error) {
	o := s.store.State().Overlay
	if o.Main == nil {
		return "", &ValidationError{Field: "main", Message: "select a main video first"}
	}
	if o.Overlay == nil {
		return "", &ValidationError{Field: "overlay", Message: "select an overlay video first"}
	}

	s.store.Dispatch(state.SetDownloadLink{})
	res, err := s.client.SubmitOverlay(ctx, api.OverlayRequest{
		Main:             *o.Main,
		Overlay:          *o.Overlay,
		Position:         o.Position,
		SizePercent:      o.Size,
		MuteOverlayAudio: o.MuteAudio,
		ScaleOverlayTime: o.ScaleTime,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("overlay failed")
		return "", fmt.Errorf("overlay: %w", err)
	}
	return s.finish(res), nil
}

func (s *Session) finish(res api.JobResult) string {
	link := s.client.DownloadURL(res.Artifact)
	s.store.Dispatch(state.SetDownloadLink{URL: link})
	s.logger.Info().Str("artifact", res.Artifact).Str("link", link).Msg("job finished")
	return link
}

// StartProgress opens the live progress subscription if there is none, or
// replaces one the server dropped.
func (s *Session) StartProgress(ctx context.Context) error {
	if s.progress == nil {
		return nil
	}
	return s.progress.Start(ctx)
}

// ProgressStatus reports whether the stream is open and why it last stopped
// delivering frames.
func (s *Session) ProgressStatus() (progress.Status, error) {
	if s.progress == nil {
		return progress.Closed, nil
	}
	return s.progress.Status(), s.progress.Err()
}

// Close stops progress updates and releases the preview.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if s.progress != nil {
		s.progress.Stop()
	}
	h := s.store.State().Preview
	s.store.Dispatch(state.SelectFile{})
	s.previews.Release(h)
}
