package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds every storefront action.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Increment  key.Binding
	Decrement  key.Binding
	Remove     key.Binding
	SwitchPane key.Binding
	Category   key.Binding
	Detail     key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a/enter", "add to cart"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "less"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Increment, k.Decrement, k.Remove, k.SwitchPane, k.Category, k.Detail, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPane},
		{k.Add, k.Increment, k.Decrement, k.Remove},
		{k.Category, k.Detail, k.Back, k.Quit},
	}
}
