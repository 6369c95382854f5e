// Package overlayform renders the overlay job settings.
package overlayform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/state"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

// SizeStep is how much one key press grows or shrinks the overlay.
const SizeStep = 5

// Move returns the anchor one grid cell away from p, staying on the grid.
func Move(p model.OverlayPosition, dx, dy int) model.OverlayPosition {
	idx := 0
	for i, q := range model.Positions {
		if q == p {
			idx = i
		}
	}
	row, col := idx/3+dy, idx%3+dx
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return p
	}
	return model.Positions[row*3+col]
}

// Step returns size moved by n steps, clamped to the accepted range.
func Step(size, n int) int {
	return model.ClampOverlaySize(size + n*SizeStep)
}

// Model is the overlay settings panel.
type Model struct {
	spec    state.OverlaySpec
	width   int
	height  int
	focused bool
}

// New creates an empty panel.
func New() Model {
	return Model{}
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// SetSpec shows spec.
func (m *Model) SetSpec(spec state.OverlaySpec) {
	m.spec = spec
}

// View renders the panel.
func (m Model) View() string {
	inner := m.width - 4
	if inner < 1 {
		inner = 1
	}

	icon := styles.PanelTitleIcon.Render(styles.IconOverlay)
	title := styles.PanelTitle.Render("Overlay")
	if m.focused {
		title = styles.PanelTitleFocused.Render("Overlay")
	}

	lines := []string{
		icon + title,
		strings.Repeat("─", inner),
		fileLine("Main:    ", m.spec.Main, "press 'm' to choose", inner),
		fileLine("Overlay: ", m.spec.Overlay, "press 'v' to choose", inner),
		"",
		styles.Label.Render("Position ") + styles.Value.Render(string(m.spec.Position)),
		renderGrid(m.spec.Position),
		"",
		styles.Label.Render("Size     ") + renderSize(m.spec.Size, inner-9),
		"",
		styles.Checkbox(m.spec.MuteAudio) + styles.Value.Render(" Mute overlay audio"),
		styles.Checkbox(m.spec.ScaleTime) + styles.Value.Render(" Scale overlay to main duration"),
	}

	border := styles.BorderStyle
	if m.focused {
		border = styles.FocusedBorderStyle
	}
	return border.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func fileLine(label string, f *model.FileEntry, hint string, width int) string {
	l := styles.Label.Render(label)
	if f == nil {
		return l + styles.Placeholder.Render(hint)
	}
	size := " (" + humanize.Bytes(uint64(f.Size)) + ")"
	name := styles.Truncate(f.Name, width-lipgloss.Width(l)-len(size))
	return l + styles.Value.Render(name) + styles.ListItemDim.UnsetPadding().Render(size)
}

// renderGrid draws the 3x3 anchor grid with the current cell filled.
func renderGrid(current model.OverlayPosition) string {
	on := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	off := lipgloss.NewStyle().Foreground(styles.Muted)

	rows := make([]string, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			if model.Positions[r*3+c] == current {
				cells[c] = on.Render("[■]")
			} else {
				cells[c] = off.Render("[ ]")
			}
		}
		rows[r] = "  " + strings.Join(cells, " ")
	}
	return strings.Join(rows, "\n")
}

func renderSize(size, width int) string {
	label := fmt.Sprintf(" %d%%", size)
	barWidth := width - len(label)
	if barWidth > 30 {
		barWidth = 30
	}
	if barWidth < 1 {
		return styles.Value.Render(label)
	}
	filled := barWidth * size / model.MaxOverlaySize
	bar := lipgloss.NewStyle().Foreground(styles.Accent).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.Border).Render(strings.Repeat("░", barWidth-filled))
	return bar + styles.Value.Render(label)
}
