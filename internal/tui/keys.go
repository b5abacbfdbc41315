package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap описывает клавиши формы чеклиста.
type KeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	RoleNext key.Binding
	RolePrev key.Binding
	Activate key.Binding // нажать кнопку или загрузить фото
	Register key.Binding
	Submit   key.Binding
	Dismiss  key.Binding // закрыть предупреждение
	Quit     key.Binding
}

// DefaultKeyMap набор клавиш по умолчанию.
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "след. поле"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "пред. поле"),
	),
	RoleNext: key.NewBinding(
		key.WithKeys("right", "l", " "),
		key.WithHelp("→", "роль"),
	),
	RolePrev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "роль"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "выбрать"),
	),
	Register: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "регистрация"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "отправить"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("enter", "esc"),
		key.WithHelp("Enter", "OK"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "выход"),
	),
}

// ShortHelp клавиши для строки подсказки.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Register, k.Submit, k.Quit}
}

// FullHelp все клавиши по группам.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.RoleNext, k.RolePrev},
		{k.Activate, k.Register, k.Submit, k.Quit},
	}
}
