// Package dialog provides modal input dialogs for the vidjob TUI.
package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/vidjob/internal/ui/styles"
	"github.com/lazyvibe/vidjob/pkg/utils"
)

// InputField represents a single input field in the dialog.
type InputField struct {
	Label          string
	Placeholder    string
	Value          string
	EnablePathComp bool // complete file system paths
	Options        []string
	// Validate rejects a value before the dialog can be submitted.
	Validate func(string) error
}

// InputDialog is a modal dialog for text input.
type InputDialog struct {
	title      string
	inputs     []textinput.Model
	fields     []InputField
	focusIndex int
	width      int
	height     int
	submitted  bool
	cancelled  bool
	errMsg     string

	pathCompleter   *utils.PathCompleter
	suggestions     []string
	suggestionIndex int
	showSuggestions bool
}

// NewInputDialog creates a new input dialog.
func NewInputDialog(title string, fields []InputField) InputDialog {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.SetValue(f.Value)
		ti.CharLimit = 1024
		ti.Width = 48
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}

	return InputDialog{
		title:         title,
		inputs:        inputs,
		fields:        append([]InputField(nil), fields...),
		pathCompleter: utils.NewPathCompleter(nil),
	}
}

// SetSize updates the dialog dimensions.
func (d *InputDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetRecentPaths seeds path completion with directories already in use.
func (d *InputDialog) SetRecentPaths(paths []string) {
	d.pathCompleter = utils.NewPathCompleter(paths)
}

// Update handles input dialog messages.
func (d InputDialog) Update(msg tea.Msg) (InputDialog, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			if d.showSuggestions && len(d.suggestions) > 0 {
				d.suggestionIndex = (d.suggestionIndex + 1) % len(d.suggestions)
				d.applySuggestion()
				return d, nil
			}
			return d, d.moveFocus(1)

		case "shift+tab":
			if d.showSuggestions && len(d.suggestions) > 0 {
				d.suggestionIndex--
				if d.suggestionIndex < 0 {
					d.suggestionIndex = len(d.suggestions) - 1
				}
				d.applySuggestion()
				return d, nil
			}
			return d, d.moveFocus(-1)

		case "down":
			return d, d.moveFocus(1)

		case "up":
			return d, d.moveFocus(-1)

		case "enter":
			if i, err := d.validate(); err != nil {
				d.errMsg = err.Error()
				d.focusIndex = i
				return d, d.updateFocus()
			}
			d.submitted = true
			return d, nil

		case "esc":
			if d.showSuggestions {
				d.hideSuggestions()
				return d, nil
			}
			d.cancelled = true
			return d, nil

		case "ctrl+@", "ctrl+space":
			if d.isSuggestionEnabled() {
				d.updateSuggestions()
			}
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.inputs[d.focusIndex], cmd = d.inputs[d.focusIndex].Update(msg)
	d.errMsg = ""
	if d.isSuggestionEnabled() {
		d.updateSuggestions()
	}
	return d, cmd
}

func (d *InputDialog) validate() (int, error) {
	for i, f := range d.fields {
		if f.Validate == nil {
			continue
		}
		if err := f.Validate(d.inputs[i].Value()); err != nil {
			return i, err
		}
	}
	return 0, nil
}

func (d *InputDialog) moveFocus(delta int) tea.Cmd {
	n := len(d.inputs)
	d.focusIndex = ((d.focusIndex+delta)%n + n) % n
	d.hideSuggestions()
	return d.updateFocus()
}

func (d *InputDialog) applySuggestion() {
	d.inputs[d.focusIndex].SetValue(d.suggestions[d.suggestionIndex])
	d.inputs[d.focusIndex].CursorEnd()
}

func (d *InputDialog) hideSuggestions() {
	d.showSuggestions = false
	d.suggestions = nil
}

// updateSuggestions refreshes the completion candidates of the focused field.
func (d *InputDialog) updateSuggestions() {
	input := d.inputs[d.focusIndex].Value()
	f := d.fields[d.focusIndex]
	switch {
	case f.EnablePathComp:
		d.suggestions = d.pathCompleter.Complete(lastArg(input))
		if prefix := strings.TrimSuffix(input, lastArg(input)); prefix != "" {
			for i, s := range d.suggestions {
				d.suggestions[i] = prefix + s
			}
		}
	case len(f.Options) > 0:
		d.suggestions = matchOptions(f.Options, input)
	default:
		d.suggestions = nil
	}
	d.suggestionIndex = 0
	d.showSuggestions = len(d.suggestions) > 0
}

// lastArg returns the word being typed, so several paths can be entered.
func lastArg(input string) string {
	if i := strings.LastIndex(input, " "); i >= 0 {
		return input[i+1:]
	}
	return input
}

// updateFocus sets focus to the correct input.
func (d *InputDialog) updateFocus() tea.Cmd {
	cmds := make([]tea.Cmd, len(d.inputs))
	for i := range d.inputs {
		if i == d.focusIndex {
			cmds[i] = d.inputs[i].Focus()
		} else {
			d.inputs[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// View renders the dialog centered in its area.
func (d InputDialog) View() string {
	var b strings.Builder

	b.WriteString(styles.DialogTitle.Render(d.title))
	b.WriteString("\n")

	label := styles.Label
	labelFocused := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Border).
		Padding(0, 1)
	inputFocused := input.BorderForeground(styles.BorderFocus)

	for i, in := range d.inputs {
		ls, is := label, input
		if i == d.focusIndex {
			ls, is = labelFocused, inputFocused
		}
		b.WriteString(ls.Render(d.fields[i].Label))
		b.WriteString("\n")
		b.WriteString(is.Render(in.View()))
		b.WriteString("\n")

		if i == d.focusIndex && d.showSuggestions {
			b.WriteString(d.renderSuggestions())
		}
	}

	if d.errMsg != "" {
		b.WriteString(styles.Error.Render(d.errMsg))
		b.WriteString("\n")
	}

	help := "Enter: Confirm • Esc: Cancel"
	if d.isSuggestionEnabled() {
		help = "Tab: Cycle suggestions • " + help
	}
	b.WriteString(lipgloss.NewStyle().Foreground(styles.TextMuted).MarginTop(1).Render(help))

	content := styles.DialogBox.Render(b.String())
	if d.width > 0 && d.height > 0 {
		content = lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func (d InputDialog) renderSuggestions() string {
	normal := lipgloss.NewStyle().Foreground(styles.TextMuted).PaddingLeft(2)
	selected := lipgloss.NewStyle().Foreground(styles.Accent).Bold(true).PaddingLeft(2)

	const maxShow = 5
	var b strings.Builder
	for j, s := range d.suggestions {
		if j == maxShow {
			b.WriteString(normal.Render("  ..."))
			b.WriteString("\n")
			break
		}
		if j == d.suggestionIndex {
			b.WriteString(selected.Render("→ " + s))
		} else {
			b.WriteString(normal.Render("  " + s))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// IsSubmitted returns true if the user submitted the dialog.
func (d InputDialog) IsSubmitted() bool {
	return d.submitted
}

// IsCancelled returns true if the user cancelled the dialog.
func (d InputDialog) IsCancelled() bool {
	return d.cancelled
}

// Values returns all input values.
func (d InputDialog) Values() []string {
	values := make([]string, len(d.inputs))
	for i, in := range d.inputs {
		values[i] = in.Value()
	}
	return values
}

// Value returns the value of the input at the given index.
func (d InputDialog) Value(index int) string {
	if index < 0 || index >= len(d.inputs) {
		return ""
	}
	return d.inputs[index].Value()
}

func (d *InputDialog) isSuggestionEnabled() bool {
	if d.focusIndex < 0 || d.focusIndex >= len(d.fields) {
		return false
	}
	f := d.fields[d.focusIndex]
	return f.EnablePathComp || len(f.Options) > 0
}

func matchOptions(opts []string, input string) []string {
	if input == "" {
		return opts
	}
	lower := strings.ToLower(input)
	var matches []string
	for _, opt := range opts {
		if strings.HasPrefix(strings.ToLower(opt), lower) {
			matches = append(matches, opt)
		}
	}
	if len(matches) == 0 {
		for _, opt := range opts {
			if strings.Contains(strings.ToLower(opt), lower) {
				matches = append(matches, opt)
			}
		}
	}
	return matches
}
