// Package styles defines the visual appearance of the vidjob TUI.
// The dark theme uses Catppuccin Mocha and the light theme Catppuccin Latte.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lazyvibe/vidjob/internal/model"
)

// Palette is one Catppuccin flavour.
type Palette struct {
	Mauve    lipgloss.Color
	Red      lipgloss.Color
	Peach    lipgloss.Color
	Yellow   lipgloss.Color
	Green    lipgloss.Color
	Sapphire lipgloss.Color
	Blue     lipgloss.Color
	Text     lipgloss.Color
	Subtext1 lipgloss.Color
	Subtext0 lipgloss.Color
	Overlay0 lipgloss.Color
	Surface1 lipgloss.Color
	Surface0 lipgloss.Color
	Base     lipgloss.Color
	Mantle   lipgloss.Color
}

// Mocha is the dark palette.
var Mocha = Palette{
	Mauve:    lipgloss.Color("#CBA6F7"),
	Red:      lipgloss.Color("#F38BA8"),
	Peach:    lipgloss.Color("#FAB387"),
	Yellow:   lipgloss.Color("#F9E2AF"),
	Green:    lipgloss.Color("#A6E3A1"),
	Sapphire: lipgloss.Color("#74C7EC"),
	Blue:     lipgloss.Color("#89B4FA"),
	Text:     lipgloss.Color("#CDD6F4"),
	Subtext1: lipgloss.Color("#BAC2DE"),
	Subtext0: lipgloss.Color("#A6ADC8"),
	Overlay0: lipgloss.Color("#6C7086"),
	Surface1: lipgloss.Color("#45475A"),
	Surface0: lipgloss.Color("#313244"),
	Base:     lipgloss.Color("#1E1E2E"),
	Mantle:   lipgloss.Color("#181825"),
}

// Latte is the light palette.
var Latte = Palette{
	Mauve:    lipgloss.Color("#8839EF"),
	Red:      lipgloss.Color("#D20F39"),
	Peach:    lipgloss.Color("#FE640B"),
	Yellow:   lipgloss.Color("#DF8E1D"),
	Green:    lipgloss.Color("#40A02B"),
	Sapphire: lipgloss.Color("#209FB5"),
	Blue:     lipgloss.Color("#1E66F5"),
	Text:     lipgloss.Color("#4C4F69"),
	Subtext1: lipgloss.Color("#5C5F77"),
	Subtext0: lipgloss.Color("#6C6F85"),
	Overlay0: lipgloss.Color("#9CA0B0"),
	Surface1: lipgloss.Color("#BCC0CC"),
	Surface0: lipgloss.Color("#CCD0DA"),
	Base:     lipgloss.Color("#EFF1F5"),
	Mantle:   lipgloss.Color("#E6E9EF"),
}

// Semantic colors for the active theme.
var (
	Primary     lipgloss.Color
	Accent      lipgloss.Color
	Danger      lipgloss.Color
	Warning     lipgloss.Color
	Success     lipgloss.Color
	Info        lipgloss.Color
	Muted       lipgloss.Color
	Background  lipgloss.Color
	Bar         lipgloss.Color
	SurfaceCol  lipgloss.Color
	Surface1    lipgloss.Color
	Subtext1    lipgloss.Color
	TextCol     lipgloss.Color
	TextMuted   lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
)

// Styles built from the active theme. Use rebuilds them.
var (
	BorderStyle        lipgloss.Style
	FocusedBorderStyle lipgloss.Style

	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style
	PanelTitleIcon    lipgloss.Style

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemDim      lipgloss.Style
	Placeholder      lipgloss.Style

	Label lipgloss.Style
	Value lipgloss.Style
	Link  lipgloss.Style
	Error lipgloss.Style
	OK    lipgloss.Style

	StatusBarStyle     lipgloss.Style
	StatusBarKey       lipgloss.Style
	StatusBarDesc      lipgloss.Style
	StatusBarSeparator lipgloss.Style
	StatusBarBrand     lipgloss.Style

	DialogBox   lipgloss.Style
	DialogTitle lipgloss.Style
)

var current = model.ThemeLight

func init() {
	Use(model.ThemeLight)
}

// Current returns the theme the styles were last built for.
func Current() model.Theme {
	return current
}

// PaletteFor maps a theme to its palette.
func PaletteFor(theme model.Theme) Palette {
	if theme == model.ThemeDark {
		return Mocha
	}
	return Latte
}

// Use switches every color and style to theme.
// Call it from the bubbletea loop only.
func Use(theme model.Theme) {
	if !theme.Valid() {
		theme = model.ThemeLight
	}
	current = theme
	p := PaletteFor(theme)

	Primary = p.Mauve
	Accent = p.Sapphire
	Danger = p.Red
	Warning = p.Peach
	Success = p.Green
	Info = p.Blue
	Muted = p.Overlay0
	Background = p.Base
	Bar = p.Mantle
	SurfaceCol = p.Surface0
	Surface1 = p.Surface1
	Subtext1 = p.Subtext1
	TextCol = p.Text
	TextMuted = p.Subtext0
	Border = p.Surface1
	BorderFocus = p.Mauve

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)
	FocusedBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderFocus)

	PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextCol).
		Padding(0, 1)
	PanelTitleFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Padding(0, 1)
	PanelTitleIcon = lipgloss.NewStyle().
		Foreground(Accent).
		MarginRight(1)

	ListItem = lipgloss.NewStyle().
		Foreground(TextCol).
		Padding(0, 1)
	ListItemSelected = lipgloss.NewStyle().
		Foreground(TextCol).
		Background(SurfaceCol).
		Bold(true).
		Padding(0, 1)
	ListItemDim = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)
	Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	Label = lipgloss.NewStyle().Foreground(TextMuted)
	Value = lipgloss.NewStyle().Foreground(TextCol)
	Link = lipgloss.NewStyle().Foreground(Info).Underline(true)
	Error = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	OK = lipgloss.NewStyle().Foreground(Success).Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Bar).
		Padding(0, 1)
	StatusBarKey = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
	StatusBarDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	StatusBarSeparator = lipgloss.NewStyle().
		Foreground(Muted).
		SetString(" │ ")
	StatusBarBrand = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	DialogBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)
	DialogTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		MarginBottom(1)
}

// Truncate shortens s to width cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Checkbox renders a boolean toggle.
func Checkbox(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(Success).Render("[x]")
	}
	return lipgloss.NewStyle().Foreground(Muted).Render("[ ]")
}

// Icons
var (
	IconFiles   = "🎞"
	IconOverlay = "🖼"
	IconPreview = "▶"
	IconParams  = "⚙"
	IconLink    = "⬇"
	IconDot     = "●"
	IconEmpty   = "○"
)

// RenderFancyHeader renders title centered on a rule of width cells.
func RenderFancyHeader(title string, width int) string {
	left := lipgloss.NewStyle().Foreground(Primary).Render("╭─")
	right := lipgloss.NewStyle().Foreground(Primary).Render("─╮")
	titleStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(TextCol).
		Background(SurfaceCol).
		Padding(0, 1).
		Render(title)

	fill := width - lipgloss.Width(titleStyled) - lipgloss.Width(left) - lipgloss.Width(right)
	if fill < 0 {
		fill = 0
	}
	leftFill := fill / 2
	rule := lipgloss.NewStyle().Foreground(Border)

	return left + rule.Render(strings.Repeat("─", leftFill)) + titleStyled +
		rule.Render(strings.Repeat("─", fill-leftFill)) + right
}
