package ui

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/vidjob/internal/app"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/notify"
	jobprogress "github.com/lazyvibe/vidjob/internal/progress"
	"github.com/lazyvibe/vidjob/internal/state"
	"github.com/lazyvibe/vidjob/internal/ui/components/dialog"
	filelist "github.com/lazyvibe/vidjob/internal/ui/components/file_list"
	"github.com/lazyvibe/vidjob/internal/ui/components/filepreview"
	overlayform "github.com/lazyvibe/vidjob/internal/ui/components/overlay_form"
	"github.com/lazyvibe/vidjob/internal/ui/components/sidebar"
	"github.com/lazyvibe/vidjob/internal/ui/components/statusbar"
	"github.com/lazyvibe/vidjob/internal/ui/keys"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
	"github.com/lazyvibe/vidjob/pkg/utils"
)

// FocusArea represents which UI pane has focus.
type FocusArea int

const (
	// FocusSidebar is the feature list.
	FocusSidebar FocusArea = iota
	// FocusFiles is the combine file list.
	FocusFiles
	// FocusPreview is the combine preview pane.
	FocusPreview
	// FocusOverlay is the overlay settings panel.
	FocusOverlay
)

const (
	minAppWidth  = 60
	minAppHeight = 16
)

// DialogMode represents the current dialog being shown.
type DialogMode int

const (
	DialogNone DialogMode = iota
	DialogPickFile
	DialogAddPath
	DialogDescription
	DialogParams
	DialogHelp
)

// pickTarget says what a picked file is for.
type pickTarget int

const (
	pickCombine pickTarget = iota
	pickMain
	pickOverlay
)

// Options are the collaborators of the App.
type Options struct {
	Session    *jobs.Session
	Downloader jobs.Downloader
	Config     *app.Config
	Notifier   *notify.Dispatcher
	Logger     *logging.Logger
}

// App is the main application model.
type App struct {
	// Components
	sidebar   sidebar.Model
	fileList  filelist.Model
	preview   filepreview.Model
	overlay   overlayform.Model
	statusBar statusbar.Model
	picker    filepicker.Model
	input     dialog.InputDialog
	help      help.Model
	spinner   spinner.Model
	bar       progress.Model
	keyMap    keys.KeyMap

	// UI state
	focus      FocusArea
	dialogMode DialogMode
	pickFor    pickTarget
	width      int
	height     int
	ready      bool
	quitting   bool
	busy       bool
	statusSeq  int

	// Data
	session     *jobs.Session
	store       *state.Store
	st          state.State
	changes     <-chan struct{}
	unsubscribe func()
	downloader  jobs.Downloader
	config      *app.Config
	notifier    *notify.Dispatcher
	watcher     *notify.ProgressWatcher
	logger      *logging.Logger
}

// New creates the App around a session.
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = app.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		sidebar:    sidebar.New(),
		fileList:   filelist.New(),
		preview:    filepreview.New(),
		overlay:    overlayform.New(),
		statusBar:  statusbar.New(),
		help:       help.New(),
		spinner:    sp,
		keyMap:     keys.DefaultKeyMap(),
		focus:      FocusFiles,
		session:    opts.Session,
		store:      opts.Session.Store(),
		downloader: opts.Downloader,
		config:     cfg,
		notifier:   opts.Notifier,
		watcher:    notify.NewProgressWatcher(),
		logger:     logging.OrNop(opts.Logger).Component("ui"),
	}
	a.help.ShowAll = true
	a.changes, a.unsubscribe = a.store.Subscribe()

	a.st = a.store.State()
	a.applyTheme(a.st.Theme)
	a.sync()
	return a
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		WaitForChange(a.changes),
		StartProgress(a.session),
	)
}

// Close releases the store subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// applyTheme switches the palette and the widgets that cache colors.
func (a *App) applyTheme(t model.Theme) {
	styles.Use(t)
	p := styles.PaletteFor(t)
	a.bar = progress.New(
		progress.WithGradient(string(p.Sapphire), string(p.Mauve)),
		progress.WithoutPercentage(),
	)
	a.spinner.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	a.layout()
}

// sync pulls the latest snapshot into every component.
func (a *App) sync() {
	st := a.store.State()
	if st.Theme != styles.Current() {
		a.applyTheme(st.Theme)
	}
	a.st = st

	selectedID := ""
	if st.SelectedFile != nil {
		selectedID = st.SelectedFile.ID
	}
	a.sidebar.SetActive(st.SelectedFeature)
	a.sidebar.SetTheme(st.Theme)
	a.fileList.SetFiles(st.Files, selectedID)
	a.preview.SetSelection(st.SelectedFile, st.Preview)
	a.overlay.SetSpec(st.Overlay)

	if !st.SidebarOpen && a.focus == FocusSidebar {
		a.focus = a.defaultFocus()
	}
	if st.SelectedFeature == model.FeatureOverlay && (a.focus == FocusFiles || a.focus == FocusPreview) {
		a.focus = FocusOverlay
	}
	if st.SelectedFeature == model.FeatureCombine && a.focus == FocusOverlay {
		a.focus = FocusFiles
	}
	a.updateFocusStyles()
	a.refreshStatus()
}

func (a *App) defaultFocus() FocusArea {
	if a.st.SelectedFeature == model.FeatureOverlay {
		return FocusOverlay
	}
	return FocusFiles
}

// updateFocusStyles tells each pane whether it has focus.
func (a *App) updateFocusStyles() {
	a.sidebar.SetFocused(a.focus == FocusSidebar)
	a.fileList.SetFocused(a.focus == FocusFiles)
	a.preview.SetFocused(a.focus == FocusPreview)
	a.overlay.SetFocused(a.focus == FocusOverlay)
}

// refreshStatus updates the status bar badge, stream state and hints.
func (a *App) refreshStatus() {
	a.statusBar.SetViewLabel(a.st.SelectedFeature.Title())

	status, err := a.session.ProgressStatus()
	switch {
	case status == jobprogress.Open && err != nil:
		a.statusBar.SetStream("stalled")
	case status == jobprogress.Open:
		a.statusBar.SetStream("live")
	case status == jobprogress.Opening:
		a.statusBar.SetStream("connecting")
	default:
		a.statusBar.SetStream("offline")
	}

	switch {
	case a.focus == FocusSidebar:
		a.statusBar.SetBindings(a.keyMap.SidebarHelp())
	case a.st.SelectedFeature == model.FeatureOverlay:
		a.statusBar.SetBindings(a.keyMap.OverlayHelp())
	default:
		a.statusBar.SetBindings(a.keyMap.CombineHelp())
	}
}

// recentDirs returns the directories of the staged files for completion.
func (a *App) recentDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, f := range a.st.Files {
		d := filepath.Dir(f.Path)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// newPicker creates a file picker rooted at the last used directory.
func (a *App) newPicker() filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = utils.VideoExtensions
	fp.CurrentDirectory, _ = os.Getwd()
	if dirs := a.recentDirs(); len(dirs) > 0 {
		fp.CurrentDirectory = dirs[len(dirs)-1]
	}
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(styles.Primary)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(styles.Accent)
	fp.Styles.File = lipgloss.NewStyle().Foreground(styles.TextCol)
	fp.Styles.DisabledFile = lipgloss.NewStyle().Foreground(styles.Muted)
	return fp
}
