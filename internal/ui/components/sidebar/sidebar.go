// Package sidebar renders the feature navigation column.
package sidebar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

// Width is the rendered width of the open sidebar.
const Width = 22

// Model is the sidebar component.
type Model struct {
	cursor  int
	active  model.Feature
	focused bool
	height  int
	theme   model.Theme
}

// New creates a sidebar with the cursor on the first feature.
func New() Model {
	return Model{active: model.FeatureCombine}
}

// SetHeight updates the sidebar height.
func (m *Model) SetHeight(h int) {
	m.height = h
}

// SetFocused updates the focus state.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetActive marks the feature shown in the main area and moves the cursor to it.
func (m *Model) SetActive(f model.Feature) {
	m.active = f
	for i, x := range model.Features {
		if x == f {
			m.cursor = i
		}
	}
}

// SetTheme records the theme for the footer.
func (m *Model) SetTheme(t model.Theme) {
	m.theme = t
}

// CursorUp moves the cursor up.
func (m *Model) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// CursorDown moves the cursor down.
func (m *Model) CursorDown() {
	if m.cursor < len(model.Features)-1 {
		m.cursor++
	}
}

// Current returns the feature under the cursor.
func (m Model) Current() model.Feature {
	return model.Features[m.cursor]
}

// View renders the sidebar.
func (m Model) View() string {
	inner := Width - 4
	title := styles.PanelTitle.Render("Features")
	if m.focused {
		title = styles.PanelTitleFocused.Render("Features")
	}

	rows := []string{title, strings.Repeat("─", inner)}
	for i, f := range model.Features {
		icon := styles.IconFiles
		if f == model.FeatureOverlay {
			icon = styles.IconOverlay
		}
		label := icon + " " + f.Title()
		switch {
		case i == m.cursor && m.focused:
			rows = append(rows, styles.ListItemSelected.Width(inner).Render("› "+label))
		case f == m.active:
			rows = append(rows, styles.ListItem.Foreground(styles.Primary).Width(inner).Render("  "+label))
		default:
			rows = append(rows, styles.ListItemDim.Width(inner).Render("  "+label))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	footer := styles.ListItemDim.Render("theme: " + string(m.theme))
	gap := m.height - 2 - lipgloss.Height(body) - 1
	if gap > 0 {
		body += strings.Repeat("\n", gap+1) + footer
	}

	border := styles.BorderStyle
	if m.focused {
		border = styles.FocusedBorderStyle
	}
	return border.
		Width(Width - 2).
		Height(m.height - 2).
		Render(body)
}
