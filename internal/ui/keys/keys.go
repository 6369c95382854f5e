// Package keys defines keyboard shortcuts for the vidjob TUI.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding

	// Global
	Sidebar key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
	Close   key.Binding

	// Files
	Add       key.Binding
	AddPath   key.Binding
	Select    key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
	Open      key.Binding

	// Combine
	Audio       key.Binding
	Description key.Binding
	Params      key.Binding
	Codec       key.Binding

	// Overlay
	PickMain    key.Binding
	PickOverlay key.Binding
	Grow        key.Binding
	Shrink      key.Binding
	Mute        key.Binding
	ScaleTime   key.Binding

	// Jobs
	Submit   key.Binding
	Download key.Binding
}

// DefaultKeyMap returns the default keyboard shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "sidebar"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add files"),
		),
		AddPath: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add by path"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "preview"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove"),
		),
		DeleteAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "remove all"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open preview"),
		),
		Audio: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "audio"),
		),
		Description: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "description"),
		),
		Params: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "params"),
		),
		Codec: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "codec"),
		),
		PickMain: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "main video"),
		),
		PickOverlay: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "overlay video"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "bigger"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "smaller"),
		),
		Mute: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "mute overlay"),
		),
		ScaleTime: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "scale time"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "submit"),
		),
		Download: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "download"),
		),
	}
}

// CombineHelp returns the bindings shown in the status bar on the combine view.
func (k KeyMap) CombineHelp() []key.Binding {
	return []key.Binding{k.Add, k.Select, k.Delete, k.Description, k.Params, k.Submit, k.Help, k.Quit}
}

// OverlayHelp returns the bindings shown in the status bar on the overlay view.
func (k KeyMap) OverlayHelp() []key.Binding {
	return []key.Binding{k.PickMain, k.PickOverlay, k.Grow, k.Shrink, k.Mute, k.Submit, k.Help, k.Quit}
}

// SidebarHelp returns the bindings shown while the sidebar has focus.
func (k KeyMap) SidebarHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Tab, k.Sidebar, k.Theme, k.Quit}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Tab},
		{k.Add, k.AddPath, k.Select, k.Delete, k.DeleteAll, k.Open},
		{k.Audio, k.Description, k.Params, k.Codec},
		{k.PickMain, k.PickOverlay, k.Grow, k.Shrink, k.Mute, k.ScaleTime},
		{k.Submit, k.Download, k.Sidebar, k.Theme, k.Help, k.Quit},
	}
}
