// Package preview hands out revocable local URLs for selected files.
package preview

import (
	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
)

// Registry creates and revokes preview handles.
type Registry interface {
	Create(file model.FileEntry) (model.PreviewHandle, error)
	// Revoke invalidates h and reports whether it was live.
	Revoke(h model.PreviewHandle) bool
}

// Manager moves ownership of the single live handle between selections.
// It holds no handle itself; callers pass the current one in.
type Manager struct {
	registry Registry
	logger   *logging.Logger
}

// NewManager creates a manager over registry.
func NewManager(registry Registry, logger *logging.Logger) *Manager {
	return &Manager{
		registry: registry,
		logger:   logging.OrNop(logger).Component("preview"),
	}
}

// Select releases prev and returns a new handle for file.
// prev is released even when creating the new handle fails.
func (m *Manager) Select(prev model.PreviewHandle, file model.FileEntry) (model.PreviewHandle, error) {
	m.Release(prev)
	h, err := m.registry.Create(file)
	if err != nil {
		return model.PreviewHandle{}, err
	}
	m.logger.Debug().Str("file", file.Name).Str("handle", h.ID).Msg("preview created")
	return h, nil
}

// Release revokes h. Zero or already revoked handles are ignored.
func (m *Manager) Release(h model.PreviewHandle) {
	if h.IsZero() {
		return
	}
	if m.registry.Revoke(h) {
		m.logger.Debug().Str("handle", h.ID).Msg("preview revoked")
	}
}
