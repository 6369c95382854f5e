// Package state holds the single job state and the transitions allowed on it.
package state

import (
	"math"

	"github.com/lazyvibe/vidjob/internal/model"
)

// State is the whole client state of one session.
type State struct {
	Files        []model.FileEntry
	IncludeAudio bool
	Description  string
	VideoParams  model.VideoParams

	SelectedFile *model.FileEntry
	Preview      model.PreviewHandle

	Progress     model.ProgressState
	DownloadLink string

	Theme           model.Theme
	SidebarOpen     bool
	SelectedFeature model.Feature

	Overlay OverlaySpec
}

// OverlaySpec is the in-progress overlay job.
type OverlaySpec struct {
	Main      *model.FileEntry
	Overlay   *model.FileEntry
	Position  model.OverlayPosition
	Size      int
	MuteAudio bool
	ScaleTime bool
}

// Initial returns the state of a fresh session.
func Initial(theme model.Theme) State {
	if !theme.Valid() {
		theme = model.ThemeLight
	}
	return State{
		VideoParams:     model.DefaultVideoParams(),
		Theme:           theme,
		SidebarOpen:     true,
		SelectedFeature: model.FeatureCombine,
		Overlay: OverlaySpec{
			Position: model.PositionTopRight,
			Size:     model.DefaultOverlaySize,
		},
	}
}

// FileByID returns the entry with the given ID.
func (s State) FileByID(id string) (model.FileEntry, bool) {
	for _, f := range s.Files {
		if f.ID == id {
			return f, true
		}
	}
	return model.FileEntry{}, false
}

// IsSelected reports whether the entry with id is the selected file.
func (s State) IsSelected(id string) bool {
	return s.SelectedFile != nil && s.SelectedFile.ID == id
}

// Clone copies the slices and pointers so the result can be read
// without sharing memory with s.
func (s State) Clone() State {
	if s.Files != nil {
		s.Files = append([]model.FileEntry(nil), s.Files...)
	}
	s.SelectedFile = cloneFile(s.SelectedFile)
	s.Overlay.Main = cloneFile(s.Overlay.Main)
	s.Overlay.Overlay = cloneFile(s.Overlay.Overlay)
	return s
}

func cloneFile(f *model.FileEntry) *model.FileEntry {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Reduce applies action to s and returns the new state.
// Unknown actions return s unchanged.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SetFiles:
		s.Files = append([]model.FileEntry(nil), a.Files...)
		s.DownloadLink = ""
		if s.SelectedFile != nil {
			if _, ok := s.FileByID(s.SelectedFile.ID); !ok {
				s.SelectedFile = nil
				s.Preview = model.PreviewHandle{}
			}
		}
	case AppendFiles:
		if len(a.Files) == 0 {
			return s
		}
		files := make([]model.FileEntry, 0, len(s.Files)+len(a.Files))
		files = append(files, s.Files...)
		s.Files = append(files, a.Files...)
		s.DownloadLink = ""
	case RemoveFile:
		files := make([]model.FileEntry, 0, len(s.Files))
		for _, f := range s.Files {
			if f.ID != a.ID {
				files = append(files, f)
			}
		}
		s.Files = files
		if s.IsSelected(a.ID) {
			s.SelectedFile = nil
			s.Preview = model.PreviewHandle{}
		}
	case SetIncludeAudio:
		s.IncludeAudio = a.Include
	case SetDescription:
		s.Description = a.Description
	case MergeVideoParams:
		s.VideoParams = s.VideoParams.Merge(a.Patch)
	case SetProgress:
		s.Progress.Percent = clamp(a.Percent, 0, 100)
	case SetEstimatedTimeLeft:
		s.Progress.EstimatedSecondsLeft = clamp(a.Seconds, 0, math.MaxFloat64)
	case SetTheme:
		if a.Theme.Valid() {
			s.Theme = a.Theme
		}
	case SetSelectedFile:
		s.SelectedFile = cloneFile(a.File)
	case SetPreviewURL:
		s.Preview = a.Handle
	case SelectFile:
		s.SelectedFile = cloneFile(a.File)
		s.Preview = a.Handle
	case SetDownloadLink:
		s.DownloadLink = a.URL
	case SetSidebarOpen:
		s.SidebarOpen = a.Open
	case SetSelectedFeature:
		if a.Feature == model.FeatureCombine || a.Feature == model.FeatureOverlay {
			s.SelectedFeature = a.Feature
		}
	case SetMainVideoFile:
		s.Overlay.Main = cloneFile(a.File)
	case SetOverlayVideoFile:
		s.Overlay.Overlay = cloneFile(a.File)
	case SetOverlayPosition:
		if a.Position.Valid() {
			s.Overlay.Position = a.Position
		}
	case SetOverlaySize:
		s.Overlay.Size = model.ClampOverlaySize(a.Size)
	case SetMuteOverlayAudio:
		s.Overlay.MuteAudio = a.Mute
	case SetScaleOverlayTime:
		s.Overlay.ScaleTime = a.Scale
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
