// Package store provides durable user preferences for vidjob.
package store

import "github.com/lazyvibe/vidjob/internal/model"

// Preferences is everything persisted across sessions.
type Preferences struct {
	Theme model.Theme `json:"theme"`
}

// PreferenceStore defines the interface for preference persistence.
type PreferenceStore interface {
	// Theme returns the stored theme.
	Theme() model.Theme
	// SaveTheme validates and persists the theme.
	SaveTheme(theme model.Theme) error
	// Close releases any resources held by the store.
	Close() error
}
