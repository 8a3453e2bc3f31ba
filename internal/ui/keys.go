package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Tab        key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Mine       key.Binding
	Shared     key.Binding
	Archived   key.Binding
	New        key.Binding
	Compose    key.Binding
	Search     key.Binding
	Rename     key.Binding
	Archive    key.Binding
	Share      key.Binding
	ExportJSON key.Binding
	ExportText key.Binding
	Copy       key.Binding
	Back       key.Binding
	Refresh    key.Binding
	Esc        key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle focus"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		Mine: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "my chats"),
		),
		Shared: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "shared"),
		),
		Archived: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "archived"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new chat"),
		),
		Compose: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "ask"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive/unarchive"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "share"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export json"),
		),
		ExportText: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "export text"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy text"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mine, k.Shared, k.Archived, k.New, k.Compose, k.Search, k.Rename, k.Archive, k.Share, k.ExportJSON, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.PageUp, k.PageDown, k.Back},
		{k.Mine, k.Shared, k.Archived, k.New, k.Compose, k.Search, k.Esc},
		{k.Rename, k.Archive, k.Share, k.ExportJSON, k.ExportText, k.Copy, k.Refresh, k.Quit},
	}
}
