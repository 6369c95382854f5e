package state

import "github.com/lazyvibe/vidjob/internal/model"

// Action is a named transition accepted by Reduce.
// Only types in this package implement it.
type Action interface {
	isAction()
}

type (
	// SetFiles replaces the file list.
	SetFiles struct{ Files []model.FileEntry }
	// AppendFiles adds entries to the end of the file list.
	AppendFiles struct{ Files []model.FileEntry }
	// RemoveFile drops the entry with the given ID.
	RemoveFile struct{ ID string }

	SetIncludeAudio struct{ Include bool }
	SetDescription  struct{ Description string }

	// MergeVideoParams applies a partial update to the encode params.
	MergeVideoParams struct{ Patch model.VideoParamsPatch }

	// SetProgress and SetEstimatedTimeLeft are fed by the progress stream.
	SetProgress          struct{ Percent float64 }
	SetEstimatedTimeLeft struct{ Seconds float64 }

	SetTheme struct{ Theme model.Theme }

	SetSelectedFile struct{ File *model.FileEntry }
	SetPreviewURL   struct{ Handle model.PreviewHandle }
	// SelectFile sets selection and preview in one transition.
	SelectFile struct {
		File   *model.FileEntry
		Handle model.PreviewHandle
	}

	SetDownloadLink struct{ URL string }

	SetSidebarOpen     struct{ Open bool }
	SetSelectedFeature struct{ Feature model.Feature }

	SetMainVideoFile    struct{ File *model.FileEntry }
	SetOverlayVideoFile struct{ File *model.FileEntry }
	SetOverlayPosition  struct{ Position model.OverlayPosition }
	SetOverlaySize      struct{ Size int }
	SetMuteOverlayAudio struct{ Mute bool }
	SetScaleOverlayTime struct{ Scale bool }
)

func (SetFiles) isAction()             {}
func (AppendFiles) isAction()          {}
func (RemoveFile) isAction()           {}
func (SetIncludeAudio) isAction()      {}
func (SetDescription) isAction()       {}
func (MergeVideoParams) isAction()     {}
func (SetProgress) isAction()          {}
func (SetEstimatedTimeLeft) isAction() {}
func (SetTheme) isAction()             {}
func (SetSelectedFile) isAction()      {}
func (SetPreviewURL) isAction()        {}
func (SelectFile) isAction()           {}
func (SetDownloadLink) isAction()      {}
func (SetSidebarOpen) isAction()       {}
func (SetSelectedFeature) isAction()   {}
func (SetMainVideoFile) isAction()     {}
func (SetOverlayVideoFile) isAction()  {}
func (SetOverlayPosition) isAction()   {}
func (SetOverlaySize) isAction()       {}
func (SetMuteOverlayAudio) isAction()  {}
func (SetScaleOverlayTime) isAction()  {}
