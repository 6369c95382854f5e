// Package filepreview renders the selected clip and its preview URL.
package filepreview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

// Model is the preview pane.
type Model struct {
	viewport viewport.Model
	file     *model.FileEntry
	handle   model.PreviewHandle
	width    int
	height   int
	focused  bool
}

// New creates an empty preview pane.
func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w - 4
	m.viewport.Height = h - 4
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.refresh()
}

// SetFocused updates the focus state.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSelection shows file and its handle. A nil file clears the pane.
func (m *Model) SetSelection(file *model.FileEntry, h model.PreviewHandle) {
	changed := (m.file == nil) != (file == nil) ||
		(file != nil && m.file != nil && file.ID != m.file.ID) ||
		h != m.handle
	m.file = file
	m.handle = h
	if changed {
		m.viewport.GotoTop()
	}
	m.refresh()
}

// URL returns the preview URL of the shown clip.
func (m Model) URL() string {
	return m.handle.URL
}

func (m *Model) refresh() {
	if m.file == nil {
		m.viewport.SetContent(styles.Placeholder.Render("Select a file and press enter to preview it."))
		return
	}
	width := m.viewport.Width
	lines := []string{
		detailLine("Name: ", m.file.Name, width),
		detailLine("Size: ", humanize.Bytes(uint64(m.file.Size)), width),
		detailLine("Path: ", m.file.Path, width),
		"",
	}
	if m.handle.IsZero() {
		lines = append(lines, styles.Placeholder.Render("Preparing preview…"))
	} else {
		lines = append(lines,
			styles.Label.Render("Preview URL:"),
			styles.Link.Render(styles.Truncate(m.handle.URL, width)),
			"",
			styles.ListItemDim.Render("Press 'o' to play it in the default player."),
		)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func detailLine(label, value string, width int) string {
	l := styles.Label.Render(label)
	return l + styles.Value.Render(styles.Truncate(value, width-lipgloss.Width(l)))
}

// Update scrolls the pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the pane.
func (m Model) View() string {
	icon := styles.PanelTitleIcon.Render(styles.IconPreview)
	title := styles.PanelTitle.Render("Preview")
	if m.focused {
		title = styles.PanelTitleFocused.Render("Preview")
	}
	header := icon + title
	if m.file != nil {
		header += styles.ListItemDim.Render(fmt.Sprintf("(%s)", styles.Truncate(m.file.Name, m.width/2)))
	}

	border := styles.BorderStyle
	if m.focused {
		border = styles.FocusedBorderStyle
	}
	inner := m.width - 4
	if inner < 1 {
		inner = 1
	}
	return border.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			strings.Repeat("─", inner),
			m.viewport.View(),
		))
}
