package component

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"neviraller/internal/action"
	"neviraller/internal/event"
	"neviraller/internal/frame"
	"neviraller/internal/keymap"
	"neviraller/internal/layout"
)

// MenuID identifies the Menu.
const MenuID ID = "menu"

// MenuItem is one entry of the menu.
type MenuItem struct {
	Label  string
	Action action.Action
}

func (i MenuItem) FilterValue() string { return i.Label }
func (i MenuItem) Title() string       { return i.Label }
func (i MenuItem) Description() string { return "" }

// DefaultMenuItems returns the installer's menu.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Label: "Install Neovim", Action: action.New(action.InstallNeovimNightly)},
		{Label: "Install NEVIRAIDE", Action: action.New(action.InstallNeviraide)},
		{Label: "Check dependencies", Action: action.New(action.CheckDeps)},
		{Label: "Quit", Action: action.New(action.Quit)},
	}
}

// Menu is the navigation list.
type Menu struct {
	Base
	items    []MenuItem
	selected int
	busy     bool
	list     list.Model
}

var _ Component = (*Menu)(nil)

// NewMenu creates a menu over items.
func NewMenu(items []MenuItem) *Menu {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(accent).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 0, 0, 2)

	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	l := list.New(listItems, delegate, 0, 0)
	l.Title = "Menu"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle

	return &Menu{
		Base:  NewBase(MenuID),
		items: items,
		list:  l,
	}
}

// Selected returns the selected index.
func (m *Menu) Selected() int {
	return m.selected
}

// SelectedItem returns the selected entry. ok is false for an empty menu.
func (m *Menu) SelectedItem() (MenuItem, bool) {
	if len(m.items) == 0 {
		return MenuItem{}, false
	}
	return m.items[m.selected], true
}

func (m *Menu) HandleEvent(ev event.Event) action.Action {
	if ev.Kind != event.Key || m.busy {
		return action.Action{}
	}
	switch ev.Key {
	case "up", "k":
		return action.New(action.Prev)
	case "down", "j":
		return action.New(action.Next)
	case "home":
		return action.New(action.Top)
	case "end":
		return action.New(action.Bottom)
	case "enter":
		return action.New(action.Select)
	}
	return action.Action{}
}

func (m *Menu) Update(a action.Action) (action.Action, error) {
	switch a.Kind {
	case action.ModeChanged:
		m.busy = a.Message != keymap.ModeHome.String()
	case action.Next:
		m.move(m.selected + 1)
	case action.Prev:
		m.move(m.selected - 1)
	case action.Top:
		m.move(0)
	case action.Bottom:
		m.move(len(m.items) - 1)
	case action.Select:
		item, ok := m.SelectedItem()
		if !ok {
			return action.Action{}, nil
		}
		if err := m.Send(item.Action); err != nil {
			return action.Action{}, err
		}
	}
	return action.Action{}, nil
}

func (m *Menu) move(i int) {
	if len(m.items) == 0 {
		return
	}
	m.selected = max(0, min(i, len(m.items)-1))
	m.list.Select(m.selected)
}

func (m *Menu) Draw(f *frame.Frame, area layout.Rect) error {
	m.area = area
	m.list.SetSize(area.Width, area.Height)
	m.list.Select(m.selected)
	f.Render(area, m.list.View())
	return nil
}
