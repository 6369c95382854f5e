package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/ui/components/sidebar"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

const (
	combineJobHeight = 9
	overlayJobHeight = 6
)

// View renders the entire application.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	if !a.ready {
		loading := lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent).
			Render("Loading vidjob...")
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(loading)
	}

	if a.windowTooSmall() {
		notice := lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent).
			Render(fmt.Sprintf("Window too small: need at least %dx%d (now %dx%d)", minAppWidth, minAppHeight, a.width, a.height))
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(notice)
	}

	if a.dialogMode != DialogNone {
		return lipgloss.JoinVertical(lipgloss.Left, a.renderDialog(), a.statusBar.View())
	}

	var main string
	if a.st.SelectedFeature == model.FeatureOverlay {
		main = a.renderOverlayView()
	} else {
		main = a.renderCombineView()
	}
	if a.st.SidebarOpen {
		main = lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), main)
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, a.statusBar.View())
}

func (a *App) windowTooSmall() bool {
	return a.width < minAppWidth || a.height < minAppHeight
}

// mainWidth is the width left for the active view.
func (a *App) mainWidth() int {
	if a.st.SidebarOpen {
		return a.width - sidebar.Width
	}
	return a.width
}

// layout sizes every component for the current window.
func (a *App) layout() {
	if a.width == 0 || a.height == 0 {
		return
	}
	bodyHeight := a.height - 1
	width := a.mainWidth()

	a.sidebar.SetHeight(bodyHeight)
	a.statusBar.SetWidth(a.width)

	topHeight := bodyHeight - combineJobHeight
	listWidth := width * 45 / 100
	a.fileList.SetSize(listWidth, topHeight)
	a.preview.SetSize(width-listWidth, topHeight)

	a.overlay.SetSize(width, bodyHeight-overlayJobHeight)

	barWidth := width - 30
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	a.bar.Width = barWidth
}

func (a *App) renderCombineView() string {
	top := lipgloss.JoinHorizontal(lipgloss.Top, a.fileList.View(), a.preview.View())
	return lipgloss.JoinVertical(lipgloss.Left, top, a.renderJobPanel(combineJobHeight, true))
}

func (a *App) renderOverlayView() string {
	return lipgloss.JoinVertical(lipgloss.Left, a.overlay.View(), a.renderJobPanel(overlayJobHeight, false))
}

// renderJobPanel shows the job settings, live progress and the download link.
func (a *App) renderJobPanel(height int, combine bool) string {
	width := a.mainWidth()
	inner := width - 4

	var lines []string
	if combine {
		p := a.st.VideoParams
		desc := a.st.Description
		if strings.TrimSpace(desc) == "" {
			desc = styles.Placeholder.Render("required, press 'e'")
		} else {
			desc = styles.Value.Render(styles.Truncate(desc, inner-14))
		}
		lines = append(lines,
			styles.Checkbox(a.st.IncludeAudio)+styles.Value.Render(" Include audio")+
				styles.Label.Render("    Codec: ")+styles.Value.Render(string(p.Codec)),
			styles.Label.Render("Description: ")+desc,
			styles.Label.Render("Params:      ")+styles.Value.Render(formatParams(p)),
		)
	}
	lines = append(lines, a.renderProgress(), a.renderLink(inner))

	title := styles.PanelTitle.Render("Job")
	if a.busy {
		title += a.spinner.View() + styles.ListItemDim.Render("running")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{styles.PanelTitleIcon.Render(styles.IconParams) + title}, lines...)...)

	return styles.BorderStyle.
		Width(width - 2).
		Height(height - 2).
		Render(body)
}

func (a *App) renderProgress() string {
	pr := a.st.Progress
	pct := fmt.Sprintf(" %3.0f%%", pr.Percent)
	eta := "  ETA " + model.FormatETA(pr.EstimatedSecondsLeft)
	return styles.Label.Render("Progress:    ") + a.bar.ViewAs(pr.Percent/100) +
		styles.Value.Render(pct) + styles.Label.Render(eta)
}

func (a *App) renderLink(width int) string {
	label := styles.Label.Render("Download:    ")
	if a.st.DownloadLink == "" {
		return label + styles.Placeholder.Render("not ready")
	}
	link := styles.Truncate(a.st.DownloadLink, width-lipgloss.Width(label)-12)
	return label + styles.Link.Render(link) + styles.ListItemDim.Render("(w: save)")
}

func formatParams(p model.VideoParams) string {
	parts := []string{}
	if p.FrameRate != "" {
		parts = append(parts, p.FrameRate+" fps")
	}
	if p.Width > 0 && p.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", p.Width, p.Height))
	}
	if p.Bitrate != "" {
		parts = append(parts, p.Bitrate)
	}
	if len(parts) == 0 {
		return "source defaults (press 'p')"
	}
	return strings.Join(parts, " · ")
}

// renderDialog renders the open dialog over the body area.
func (a *App) renderDialog() string {
	height := a.height - 1
	switch a.dialogMode {
	case DialogHelp:
		box := styles.DialogBox.Render(
			styles.DialogTitle.Render("Keys") + "\n" + a.help.View(a.keyMap) +
				"\n\n" + styles.ListItemDim.Render("press any key to close"))
		return lipgloss.Place(a.width, height, lipgloss.Center, lipgloss.Center, box)

	case DialogPickFile:
		title := "Add a clip"
		switch a.pickFor {
		case pickMain:
			title = "Choose the main video"
		case pickOverlay:
			title = "Choose the overlay video"
		}
		header := styles.DialogTitle.Render(title) + "\n" +
			styles.ListItemDim.Render(styles.Truncate(a.picker.CurrentDirectory, a.width-8))
		box := styles.DialogBox.
			Width(a.width - 4).
			Height(height - 2).
			Render(header + "\n" + a.picker.View())
		return box

	default:
		return a.input.View()
	}
}
