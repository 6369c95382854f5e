package ui

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/lazyvibe/vidjob/internal/api"
	"github.com/lazyvibe/vidjob/internal/jobs"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/notify"
	"github.com/lazyvibe/vidjob/internal/state"
	"github.com/lazyvibe/vidjob/internal/ui/components/dialog"
	overlayform "github.com/lazyvibe/vidjob/internal/ui/components/overlay_form"
	"github.com/lazyvibe/vidjob/pkg/utils"
)

const statusTimeout = 6 * time.Second

var bitratePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[kKmM]?$`)

// Update handles all messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		if a.dialogMode == DialogPickFile {
			var cmd tea.Cmd
			a.picker, cmd = a.picker.Update(a.pickerSize())
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		if a.dialogMode != DialogNone {
			return a.handleDialogKey(msg)
		}
		return a.handleKey(msg)

	case StoreChangedMsg:
		a.sync()
		cmds := []tea.Cmd{WaitForChange(a.changes)}
		if ev, ok := a.watcher.Observe(a.st.SelectedFeature, a.st.Progress); ok && !a.busy {
			cmds = append(cmds, Notify(a.notifier, a.config.Notification, ev))
		}
		return a, tea.Batch(cmds...)

	case FilesAddedMsg:
		var problems []string
		if n := len(msg.Skipped); n > 0 {
			for _, err := range msg.Skipped {
				a.logger.Warn().Err(err).Msg("skip file")
			}
			problems = append(problems, fmt.Sprintf("skipped %d: %s", n, msg.Skipped[0]))
		}
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Int("count", msg.Count).Msg("add files")
			problems = append(problems, api.Message(msg.Err))
		}
		switch {
		case len(problems) == 0:
			return a, a.setStatus(fmt.Sprintf("Added %d file(s)", msg.Count), false)
		case msg.Count > 0:
			return a, a.setStatus(fmt.Sprintf("Added %d file(s), but %s", msg.Count, strings.Join(problems, "; ")), true)
		default:
			return a, a.setStatus(strings.Join(problems, "; "), true)
		}

	case OverlayFileChosenMsg:
		if msg.Err != nil {
			return a, a.setStatus(msg.Err.Error(), true)
		}
		f := msg.File
		if msg.Target == pickMain {
			a.dispatch(state.SetMainVideoFile{File: &f})
			return a, a.setStatus("Main video: "+f.Name, false)
		}
		a.dispatch(state.SetOverlayVideoFile{File: &f})
		return a, a.setStatus("Overlay video: "+f.Name, false)

	case JobFinishedMsg:
		a.busy = false
		return a, a.handleJobFinished(msg)

	case ProgressStartedMsg:
		a.refreshStatus()
		if msg.Err != nil {
			a.logger.Warn().Err(msg.Err).Msg("progress stream")
			return a, a.setStatus(api.Message(msg.Err), true)
		}
		return a, nil

	case DownloadedMsg:
		if msg.Err != nil {
			return a, a.setStatus(api.Message(msg.Err), true)
		}
		a.logger.Info().Str("path", msg.Path).Int64("bytes", msg.Bytes).Msg("artifact saved")
		return a, a.setStatus(fmt.Sprintf("Saved %s (%s)", msg.Path, humanize.Bytes(uint64(msg.Bytes))), false)

	case PreviewOpenedMsg:
		if msg.Err != nil {
			return a, a.setStatus(msg.Err.Error(), true)
		}
		return a, nil

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.statusBar.ClearMessage()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		a.refreshStatus()
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	// The file picker reads directories through its own messages.
	if a.dialogMode == DialogPickFile {
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKey processes keys when no dialog is open.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := a.keyMap

	switch {
	case key.Matches(msg, km.Quit):
		a.quitting = true
		return a, tea.Quit
	case key.Matches(msg, km.Help):
		a.dialogMode = DialogHelp
		return a, nil
	case key.Matches(msg, km.Theme):
		a.dispatch(state.SetTheme{Theme: a.st.Theme.Toggle()})
		return a, nil
	case key.Matches(msg, km.Sidebar):
		a.dispatch(state.SetSidebarOpen{Open: !a.st.SidebarOpen})
		return a, nil
	case key.Matches(msg, km.Tab):
		a.cycleFocus()
		return a, nil
	case key.Matches(msg, km.Submit):
		return a, a.submit()
	case key.Matches(msg, km.Download):
		if a.st.DownloadLink == "" {
			return a, a.setStatus(jobs.ErrNoDownload.Error(), true)
		}
		return a, tea.Batch(
			a.setStatus("Downloading "+api.ArtifactName(a.st.DownloadLink)+"…", false),
			Download(a.downloader, a.st.DownloadLink, a.config.DownloadDir),
		)
	}

	switch a.focus {
	case FocusSidebar:
		return a.handleSidebarKey(msg)
	case FocusOverlay:
		return a.handleOverlayKey(msg)
	default:
		return a.handleCombineKey(msg)
	}
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := a.keyMap
	switch {
	case key.Matches(msg, km.Up):
		a.sidebar.CursorUp()
	case key.Matches(msg, km.Down):
		a.sidebar.CursorDown()
	case key.Matches(msg, km.Select):
		a.dispatch(state.SetSelectedFeature{Feature: a.sidebar.Current()})
		a.focus = a.defaultFocus()
		a.updateFocusStyles()
		a.refreshStatus()
	}
	return a, nil
}

func (a *App) handleCombineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := a.keyMap
	switch {
	case key.Matches(msg, km.Add):
		return a, a.openPicker(pickCombine)
	case key.Matches(msg, km.AddPath):
		a.openInput(DialogAddPath, "Add Files", []dialog.InputField{{
			Label:          "Paths (space separated, quote names with spaces)",
			Placeholder:    "~/Videos/intro.mp4",
			EnablePathComp: true,
			Validate:       validatePaths,
		}})
		return a, nil
	case key.Matches(msg, km.Delete):
		if f := a.fileList.Current(); f != nil {
			a.session.RemoveFile(f.ID)
			a.sync()
			return a, a.setStatus("Removed "+f.Name, false)
		}
		return a, nil
	case key.Matches(msg, km.DeleteAll):
		if len(a.st.Files) > 0 {
			a.session.RemoveAll()
			a.sync()
			return a, a.setStatus("Removed all files", false)
		}
		return a, nil
	case key.Matches(msg, km.Open):
		if url := a.preview.URL(); url != "" {
			return a, OpenPreview(url)
		}
		return a, a.setStatus("Select a file to preview first", true)
	case key.Matches(msg, km.Audio):
		a.dispatch(state.SetIncludeAudio{Include: !a.st.IncludeAudio})
		return a, nil
	case key.Matches(msg, km.Description):
		a.openInput(DialogDescription, "Job Description", []dialog.InputField{{
			Label:       "Description",
			Placeholder: "What is this video about?",
			Value:       a.st.Description,
			Validate:    required("description"),
		}})
		return a, nil
	case key.Matches(msg, km.Params):
		a.openInput(DialogParams, "Video Parameters", a.paramFields())
		return a, nil
	case key.Matches(msg, km.Codec):
		next := a.st.VideoParams.Codec.Next()
		a.dispatch(state.MergeVideoParams{Patch: model.VideoParamsPatch{Codec: &next}})
		return a, nil
	}

	if a.focus == FocusPreview {
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, km.Select):
		f := a.fileList.Current()
		if f == nil {
			return a, nil
		}
		if err := a.session.Select(f.ID); err != nil {
			a.logger.Warn().Err(err).Str("file", f.Name).Msg("select")
			a.sync()
			return a, a.setStatus(err.Error(), true)
		}
		a.sync()
		return a, nil
	default:
		a.fileList.HandleKey(msg.String())
	}
	return a, nil
}

func (a *App) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := a.keyMap
	o := a.st.Overlay
	switch {
	case key.Matches(msg, km.PickMain):
		return a, a.openPicker(pickMain)
	case key.Matches(msg, km.PickOverlay):
		return a, a.openPicker(pickOverlay)
	case key.Matches(msg, km.Up):
		a.dispatch(state.SetOverlayPosition{Position: overlayform.Move(o.Position, 0, -1)})
	case key.Matches(msg, km.Down):
		a.dispatch(state.SetOverlayPosition{Position: overlayform.Move(o.Position, 0, 1)})
	case key.Matches(msg, km.Left):
		a.dispatch(state.SetOverlayPosition{Position: overlayform.Move(o.Position, -1, 0)})
	case key.Matches(msg, km.Right):
		a.dispatch(state.SetOverlayPosition{Position: overlayform.Move(o.Position, 1, 0)})
	case key.Matches(msg, km.Grow):
		a.dispatch(state.SetOverlaySize{Size: overlayform.Step(o.Size, 1)})
	case key.Matches(msg, km.Shrink):
		a.dispatch(state.SetOverlaySize{Size: overlayform.Step(o.Size, -1)})
	case key.Matches(msg, km.Mute):
		a.dispatch(state.SetMuteOverlayAudio{Mute: !o.MuteAudio})
	case key.Matches(msg, km.ScaleTime):
		a.dispatch(state.SetScaleOverlayTime{Scale: !o.ScaleTime})
	}
	return a, nil
}

// handleDialogKey routes keys to the open dialog.
func (a *App) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.dialogMode {
	case DialogHelp:
		a.dialogMode = DialogNone
		return a, nil

	case DialogPickFile:
		if key.Matches(msg, a.keyMap.Close) {
			a.dialogMode = DialogNone
			return a, nil
		}
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		if ok, path := a.picker.DidSelectFile(msg); ok {
			a.dialogMode = DialogNone
			if a.pickFor == pickCombine {
				return a, tea.Batch(cmd, a.setStatus("Probing "+path+"…", false),
					AddFiles(a.session, []string{path}, a.config.RequestTimeout()))
			}
			return a, tea.Batch(cmd, ChooseOverlayFile(a.pickFor, path))
		}
		if ok, path := a.picker.DidSelectDisabledFile(msg); ok {
			return a, tea.Batch(cmd, a.setStatus(path+" is not a supported video file", true))
		}
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.IsCancelled() {
		a.dialogMode = DialogNone
		return a, nil
	}
	if !a.input.IsSubmitted() {
		return a, cmd
	}

	mode := a.dialogMode
	a.dialogMode = DialogNone
	switch mode {
	case DialogAddPath:
		paths, err := utils.ExpandPaths(a.input.Value(0))
		if err != nil {
			return a, a.setStatus(err.Error(), true)
		}
		return a, tea.Batch(a.setStatus("Adding files…", false),
			AddFiles(a.session, paths, a.config.RequestTimeout()))
	case DialogDescription:
		a.dispatch(state.SetDescription{Description: strings.TrimSpace(a.input.Value(0))})
	case DialogParams:
		patch, err := paramsPatch(a.input.Values())
		if err != nil {
			return a, a.setStatus(err.Error(), true)
		}
		a.dispatch(state.MergeVideoParams{Patch: patch})
		return a, a.setStatus("Video parameters updated", false)
	}
	return a, nil
}

// submit starts the flow of the active view.
func (a *App) submit() tea.Cmd {
	if a.busy {
		return a.setStatus("A job is already running", true)
	}
	feature := a.st.SelectedFeature
	a.busy = true
	a.logger.Info().Str("feature", string(feature)).Msg("submitting job")
	return tea.Batch(
		a.setStatus("Submitting "+strings.ToLower(feature.Title())+" job…", false),
		StartProgress(a.session),
		SubmitJob(a.session, feature, a.config.RequestTimeout()),
		a.spinner.Tick,
	)
}

func (a *App) handleJobFinished(msg JobFinishedMsg) tea.Cmd {
	if msg.Err != nil {
		var ve *jobs.ValidationError
		if errors.As(msg.Err, &ve) {
			return a.setStatus(ve.Message, true)
		}
		a.logger.Error().Err(msg.Err).Str("feature", string(msg.Feature)).Msg("job failed")
		return tea.Batch(
			a.setStatus(api.Message(msg.Err), true),
			Notify(a.notifier, a.config.Notification, notify.Event{
				Feature: msg.Feature,
				Type:    notify.EventJobFailed,
				Message: api.Message(msg.Err),
			}),
		)
	}
	return tea.Batch(
		a.setStatus("Done. Press 'w' to download "+api.ArtifactName(msg.Link), false),
		Notify(a.notifier, a.config.Notification, notify.Event{
			Feature: msg.Feature,
			Type:    notify.EventJobCompleted,
			Message: "Output ready: " + api.ArtifactName(msg.Link),
			Link:    msg.Link,
		}),
	)
}

// dispatch applies action and refreshes the components immediately.
func (a *App) dispatch(action state.Action) {
	a.store.Dispatch(action)
	a.sync()
}

func (a *App) setStatus(msg string, isErr bool) tea.Cmd {
	a.statusSeq++
	a.statusBar.SetMessage(msg, isErr)
	return clearStatusAfter(a.statusSeq, statusTimeout)
}

// cycleFocus moves focus to the next visible pane.
func (a *App) cycleFocus() {
	var order []FocusArea
	if a.st.SidebarOpen {
		order = append(order, FocusSidebar)
	}
	if a.st.SelectedFeature == model.FeatureOverlay {
		order = append(order, FocusOverlay)
	} else {
		order = append(order, FocusFiles, FocusPreview)
	}

	next := order[0]
	for i, f := range order {
		if f == a.focus {
			next = order[(i+1)%len(order)]
			break
		}
	}
	a.focus = next
	a.updateFocusStyles()
	a.refreshStatus()
}

func (a *App) openPicker(target pickTarget) tea.Cmd {
	a.pickFor = target
	a.picker = a.newPicker()
	a.dialogMode = DialogPickFile
	var sizeCmd tea.Cmd
	a.picker, sizeCmd = a.picker.Update(a.pickerSize())
	return tea.Batch(a.picker.Init(), sizeCmd)
}

func (a *App) pickerSize() tea.WindowSizeMsg {
	// Room for the dialog border, title and status bar.
	return tea.WindowSizeMsg{Width: a.width - 8, Height: a.height - 6}
}

func (a *App) openInput(mode DialogMode, title string, fields []dialog.InputField) {
	a.input = dialog.NewInputDialog(title, fields)
	a.input.SetSize(a.width, a.height-1)
	if mode == DialogAddPath {
		a.input.SetRecentPaths(a.recentDirs())
	}
	a.dialogMode = mode
}

func (a *App) paramFields() []dialog.InputField {
	p := a.st.VideoParams
	codecs := make([]string, len(model.Codecs))
	for i, c := range model.Codecs {
		codecs[i] = string(c)
	}
	return []dialog.InputField{
		{Label: "Frame rate", Placeholder: "30/1", Value: p.FrameRate},
		{Label: "Width", Placeholder: "1920", Value: intValue(p.Width), Validate: nonNegativeInt("width")},
		{Label: "Height", Placeholder: "1080", Value: intValue(p.Height), Validate: nonNegativeInt("height")},
		{Label: "Codec", Value: string(p.Codec), Options: codecs, Validate: validateCodec},
		{Label: "Bitrate", Placeholder: model.DefaultBitrate, Value: p.Bitrate, Validate: validateBitrate},
	}
}

// paramsPatch turns the params form values into a full patch.
func paramsPatch(values []string) (model.VideoParamsPatch, error) {
	if len(values) != 5 {
		return model.VideoParamsPatch{}, fmt.Errorf("expected 5 values, got %d", len(values))
	}
	width, err := parseDimension(values[1])
	if err != nil {
		return model.VideoParamsPatch{}, fmt.Errorf("width: %w", err)
	}
	height, err := parseDimension(values[2])
	if err != nil {
		return model.VideoParamsPatch{}, fmt.Errorf("height: %w", err)
	}
	codec, err := model.ParseCodec(strings.TrimSpace(values[3]))
	if err != nil {
		return model.VideoParamsPatch{}, err
	}
	bitrate := strings.TrimSpace(values[4])
	if bitrate == "" {
		bitrate = model.DefaultBitrate
	}
	return model.VideoParamsPatch{
		FrameRate: model.Ptr(strings.TrimSpace(values[0])),
		Width:     &width,
		Height:    &height,
		Codec:     &codec,
		Bitrate:   &bitrate,
	}, nil
}

func parseDimension(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return n, nil
}

func intValue(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func required(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func nonNegativeInt(name string) func(string) error {
	return func(v string) error {
		if _, err := parseDimension(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

func validateCodec(v string) error {
	_, err := model.ParseCodec(strings.TrimSpace(v))
	return err
}

func validateBitrate(v string) error {
	v = strings.TrimSpace(v)
	if v != "" && !bitratePattern.MatchString(v) {
		return fmt.Errorf("bitrate %q should look like 1000k or 2M", v)
	}
	return nil
}

func validatePaths(v string) error {
	paths, err := utils.ExpandPaths(v)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("enter at least one path")
	}
	return nil
}
