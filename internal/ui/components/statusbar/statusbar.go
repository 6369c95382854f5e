// Package statusbar provides the status bar UI component.
package statusbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/vidjob/internal/ui/styles"
)

// Model is the status bar component.
type Model struct {
	width     int
	message   string
	isError   bool
	viewLabel string
	stream    string
	bindings  []key.Binding
}

// New creates a new status bar component.
func New() Model {
	return Model{}
}

// SetWidth updates the status bar width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// SetMessage sets a temporary message.
func (m *Model) SetMessage(msg string, isError bool) {
	m.message = msg
	m.isError = isError
}

// ClearMessage clears the temporary message.
func (m *Model) ClearMessage() {
	m.message = ""
	m.isError = false
}

// Message returns the current message and whether it is an error.
func (m Model) Message() (string, bool) {
	return m.message, m.isError
}

// SetViewLabel updates the badge naming the active view.
func (m *Model) SetViewLabel(label string) {
	m.viewLabel = strings.ToUpper(strings.TrimSpace(label))
}

// SetStream updates the progress stream indicator.
func (m *Model) SetStream(status string) {
	m.stream = status
}

// SetBindings replaces the key hints shown on the right.
func (m *Model) SetBindings(bindings []key.Binding) {
	m.bindings = bindings
}

// View renders the status bar.
func (m Model) View() string {
	brand := styles.StatusBarBrand.Render(" vidjob ")

	label := m.viewLabel
	if label == "" {
		label = "COMBINE"
	}
	badge := lipgloss.NewStyle().
		Foreground(styles.Background).
		Background(styles.Accent).
		Bold(true).
		Padding(0, 1).
		Render(label)

	left := brand + badge
	if m.stream != "" {
		left += lipgloss.NewStyle().
			Foreground(streamColor(m.stream)).
			Render(" " + styles.IconDot + " " + m.stream + " ")
	}

	hints := make([]string, 0, len(m.bindings))
	for _, b := range m.bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, renderKey(h.Key, h.Desc))
	}
	right := strings.Join(hints, " ")

	var middle string
	if m.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		if m.isError {
			msgStyle = lipgloss.NewStyle().Foreground(styles.Danger).Bold(true)
		}
		avail := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
		middle = msgStyle.Render(" " + styles.Truncate(m.message, avail) + " ")
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(middle)
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2

	content := left +
		strings.Repeat(" ", leftPad) +
		middle +
		strings.Repeat(" ", padding-leftPad) +
		right

	return lipgloss.NewStyle().
		Background(styles.Bar).
		Foreground(styles.TextMuted).
		Width(m.width).
		MaxWidth(m.width).
		Render(content)
}

func streamColor(status string) lipgloss.Color {
	switch status {
	case "live":
		return styles.Success
	case "stalled":
		return styles.Warning
	default:
		return styles.Muted
	}
}

// renderKey renders a key binding hint.
func renderKey(key, desc string) string {
	return styles.StatusBarKey.Render(key) + styles.StatusBarDesc.Render(":"+desc)
}
