// Package setup provides the first-run setup wizard.
package setup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazyvibe/vidjob/internal/app"
	"github.com/lazyvibe/vidjob/internal/model"
	"github.com/lazyvibe/vidjob/internal/ui/components/dialog"
	"github.com/lazyvibe/vidjob/internal/ui/styles"
	"github.com/lazyvibe/vidjob/pkg/utils"
)

// Step represents a setup wizard step.
type Step int

const (
	StepWelcome Step = iota
	StepService
	StepTheme
	StepComplete
)

// ThemeSaver persists the chosen theme.
type ThemeSaver interface {
	SaveTheme(theme model.Theme) error
}

// Model is the setup wizard model.
type Model struct {
	step      Step
	config    *app.Config
	configDir string
	prefs     ThemeSaver
	theme     model.Theme
	service   dialog.InputDialog
	error     string
	width     int
	height    int
}

// New creates a new setup wizard.
func New(configDir string, config *app.Config, prefs ThemeSaver, theme model.Theme) Model {
	if !theme.Valid() {
		theme = model.ThemeLight
	}
	return Model{
		step:      StepWelcome,
		config:    config,
		configDir: configDir,
		prefs:     prefs,
		theme:     theme,
	}
}

// Init initializes the setup wizard.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize sets the wizard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.service.SetSize(width, height)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.step == StepService {
			var cmd tea.Cmd
			m.service, cmd = m.service.Update(msg)
			if m.service.IsCancelled() {
				m.step = StepWelcome
				return m, nil
			}
			if m.service.IsSubmitted() {
				m.applyService(m.service.Values())
				m.step = StepTheme
				return m, nil
			}
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			return m.handleEnter()
		case "left", "right", "h", "l", "tab":
			if m.step == StepTheme {
				m.theme = m.theme.Toggle()
				styles.Use(m.theme)
			}
		case "esc":
			if m.step == StepTheme {
				m.openServiceDialog()
			}
		}
	}
	return m, nil
}

// handleEnter processes the enter key for each step.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.step {
	case StepWelcome:
		m.openServiceDialog()
	case StepTheme:
		if m.prefs != nil {
			if err := m.prefs.SaveTheme(m.theme); err != nil {
				m.error = err.Error()
				return m, nil
			}
		}
		m.config.Initialized = true
		if err := app.SaveConfig(m.configDir, m.config); err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.error = ""
		m.step = StepComplete
	case StepComplete:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) openServiceDialog() {
	m.service = dialog.NewInputDialog("Processing Service", []dialog.InputField{
		{
			Label:       "Service URL",
			Placeholder: "http://localhost:5000",
			Value:       m.config.ServiceURL,
			Validate: func(v string) error {
				_, err := app.NormalizeBaseURL(v)
				return err
			},
		},
		{
			Label:          "Download folder (optional)",
			Placeholder:    "~/Videos",
			Value:          m.config.DownloadDir,
			EnablePathComp: true,
		},
	})
	m.service.SetSize(m.width, m.height)
	m.step = StepService
}

func (m *Model) applyService(values []string) {
	if base, err := app.NormalizeBaseURL(values[0]); err == nil {
		m.config.ServiceURL = base
	}
	if dir := strings.TrimSpace(values[1]); dir != "" {
		m.config.DownloadDir = utils.ExpandPath(dir)
	} else {
		m.config.DownloadDir = ""
	}
}

// IsComplete returns true if setup is complete.
func (m Model) IsComplete() bool {
	return m.step == StepComplete
}

// Config returns the configured config.
func (m Model) Config() *app.Config {
	return m.config
}

// Theme returns the chosen theme.
func (m Model) Theme() model.Theme {
	return m.theme
}

// View renders the setup wizard.
func (m Model) View() string {
	var content string
	switch m.step {
	case StepWelcome:
		content = m.viewWelcome()
	case StepService:
		return m.service.View()
	case StepTheme:
		content = m.viewTheme()
	case StepComplete:
		content = m.viewComplete()
	}
	if m.error != "" {
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", styles.Error.Render(m.error))
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) viewWelcome() string {
	title := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render("Welcome to vidjob")
	subtitle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("Combine and overlay clips on your processing service")
	hint := lipgloss.NewStyle().
		Foreground(styles.Success).
		Bold(true).
		Render("Press Enter to continue, q to quit")

	return lipgloss.JoinVertical(lipgloss.Center, title, subtitle, "", "", hint)
}

func (m Model) viewTheme() string {
	title := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render("Pick a theme")

	option := func(t model.Theme) string {
		s := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())
		if t == m.theme {
			return s.BorderForeground(styles.BorderFocus).Foreground(styles.Primary).Bold(true).Render(string(t))
		}
		return s.BorderForeground(styles.Border).Foreground(styles.TextMuted).Render(string(t))
	}
	choices := lipgloss.JoinHorizontal(lipgloss.Center, option(model.ThemeLight), "  ", option(model.ThemeDark))
	hint := styles.ListItemDim.Render("←/→ switch • Enter confirm • Esc back")

	return lipgloss.JoinVertical(lipgloss.Center, title, "", choices, "", hint)
}

func (m Model) viewComplete() string {
	title := lipgloss.NewStyle().
		Foreground(styles.Success).
		Bold(true).
		Render("Setup complete")
	summary := lipgloss.JoinVertical(lipgloss.Left,
		styles.Label.Render("Service:  ")+styles.Value.Render(m.config.ServiceURL),
		styles.Label.Render("Config:   ")+styles.Value.Render(app.ConfigPath(m.configDir)),
	)
	hint := styles.ListItemDim.Render("Press Enter to start")
	return lipgloss.JoinVertical(lipgloss.Center, title, "", summary, "", hint)
}
