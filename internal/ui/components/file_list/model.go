// Package filelist provides the staged file list UI component.
package filelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

// Model is the file list component.
type Model struct {
	files      []model.FileEntry
	selectedID string
	cursor     int
	focused    bool
	width      int
	height     int
	offset     int // For scrolling
}

// New creates a new file list component.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// SetFocused updates the focus state.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the component is focused.
func (m Model) IsFocused() bool {
	return m.focused
}

// SetFiles replaces the entries. The cursor stays on the same file when it
// is still present.
func (m *Model) SetFiles(files []model.FileEntry, selectedID string) {
	var cursorID string
	if f := m.Current(); f != nil {
		cursorID = f.ID
	}
	m.files = files
	m.selectedID = selectedID

	m.cursor = 0
	for i, f := range files {
		if f.ID == cursorID {
			m.cursor = i
			break
		}
	}
	if m.cursor >= len(files) && len(files) > 0 {
		m.cursor = len(files) - 1
	}
	m.ensureVisible()
}

// Current returns the file under the cursor.
func (m Model) Current() *model.FileEntry {
	if m.cursor >= 0 && m.cursor < len(m.files) {
		f := m.files[m.cursor]
		return &f
	}
	return nil
}

// Cursor returns the index under the cursor.
func (m Model) Cursor() int {
	return m.cursor
}

// Len returns the number of entries.
func (m Model) Len() int {
	return len(m.files)
}

// CursorUp moves cursor up.
func (m *Model) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
		m.ensureVisible()
	}
}

// CursorDown moves cursor down.
func (m *Model) CursorDown() {
	if m.cursor < len(m.files)-1 {
		m.cursor++
		m.ensureVisible()
	}
}

func (m *Model) visibleRows() int {
	rows := m.height - 4 // border, title and rule
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ensureVisible adjusts scroll offset to keep cursor visible.
func (m *Model) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// HandleKey processes a navigation key.
func (m *Model) HandleKey(key string) bool {
	switch key {
	case "up", "k":
		m.CursorUp()
		return true
	case "down", "j":
		m.CursorDown()
		return true
	case "home", "g":
		m.cursor = 0
		m.offset = 0
		return true
	case "end", "G":
		if len(m.files) > 0 {
			m.cursor = len(m.files) - 1
			m.ensureVisible()
		}
		return true
	}
	return false
}

// TotalSize returns the summed size of all entries.
func (m Model) TotalSize() int64 {
	var total int64
	for _, f := range m.files {
		total += f.Size
	}
	return total
}

// View renders the file list.
func (m Model) View() string {
	innerWidth := m.width - 4
	innerHeight := m.height - 4
	if innerWidth < 1 {
		innerWidth = 1
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	icon := styles.PanelTitleIcon.Render(styles.IconFiles)
	title := styles.PanelTitle.Render("Files")
	if m.focused {
		title = styles.PanelTitleFocused.Render("Files")
	}
	count := fmt.Sprintf("(%d)", len(m.files))
	if len(m.files) > 0 {
		count = fmt.Sprintf("(%d, %s)", len(m.files), humanize.Bytes(uint64(m.TotalSize())))
	}
	header := icon + title + " " + styles.ListItemDim.Render(count)

	var rows []string
	if len(m.files) == 0 {
		rows = append(rows, "",
			styles.Placeholder.Render("No files yet"),
			styles.ListItemDim.Render("Press 'a' to add clips"))
	} else {
		visible := innerHeight
		if len(m.files) > innerHeight {
			visible = innerHeight - 1
			if visible < 1 {
				visible = 1
			}
		}
		end := m.offset + visible
		if end > len(m.files) {
			end = len(m.files)
		}
		for i := m.offset; i < end; i++ {
			rows = append(rows, m.renderItem(m.files[i], i == m.cursor, innerWidth))
		}
		if len(m.files) > visible {
			rows = append(rows, styles.ListItemDim.Render(fmt.Sprintf(" %d/%d ", m.cursor+1, len(m.files))))
		}
	}

	list := lipgloss.NewStyle().
		Width(innerWidth).
		Height(innerHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	border := styles.BorderStyle
	if m.focused {
		border = styles.FocusedBorderStyle
	}
	return border.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			strings.Repeat("─", innerWidth),
			list,
		))
}

// renderItem renders one entry: a preview dot, the name and its size.
func (m Model) renderItem(f model.FileEntry, atCursor bool, width int) string {
	dot := lipgloss.NewStyle().Foreground(styles.Muted).Render(styles.IconEmpty + " ")
	if f.ID == m.selectedID {
		dot = lipgloss.NewStyle().Foreground(styles.Success).Render(styles.IconDot + " ")
	}

	size := humanize.Bytes(uint64(f.Size))
	marker := "  "
	if atCursor {
		marker = "› "
	}
	nameWidth := width - 2 - lipgloss.Width(dot) - len(marker) - len(size) - 1
	name := styles.Truncate(f.Name, nameWidth)
	gap := nameWidth - lipgloss.Width(name)
	if gap < 0 {
		gap = 0
	}
	line := dot + marker + name + strings.Repeat(" ", gap) + " " + size

	row := lipgloss.NewStyle().Foreground(styles.Subtext1).Width(width).Padding(0, 1)
	if atCursor {
		row = lipgloss.NewStyle().
			Foreground(styles.TextCol).
			Width(width).
			Padding(0, 1)
		if m.focused {
			row = row.Background(styles.SurfaceCol).Bold(true)
		} else {
			row = row.Background(styles.Surface1)
		}
	}
	return row.Render(line)
}
