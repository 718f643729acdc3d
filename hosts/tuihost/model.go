package tuihost

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	itemStyle      = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle  = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("170"))
	separatorStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("240"))
)

const (
	defaultWidth  = 60
	defaultHeight = 20
)

// menuItem adapts ctxsearch.MenuItem to list.Item.
type menuItem struct {
	item ctxsearch.MenuItem
}

func (i menuItem) FilterValue() string { return i.item.Title }

type itemDelegate struct{}

func (itemDelegate) Height() int                             { return 1 }
func (itemDelegate) Spacing() int                            { return 0 }
func (itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(menuItem)
	if !ok {
		return
	}
	if it.item.Type == ctxsearch.ItemSeparator {
		fmt.Fprint(w, separatorStyle.Render(strings.Repeat("─", 16)))
		return
	}
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("> "+it.item.Title))
		return
	}
	fmt.Fprint(w, itemStyle.Render(it.item.Title))
}

// Model is the bubbletea model of one menu invocation.
type Model struct {
	list   list.Model
	chosen string
	picked bool
}

// NewModel builds a model listing items for selection.
func NewModel(items []ctxsearch.MenuItem, selection string) Model {
	listItems := make([]list.Item, 0, len(items))
	for _, item := range items {
		listItems = append(listItems, menuItem{item: item})
	}
	l := list.New(listItems, itemDelegate{}, defaultWidth, defaultHeight)
	l.Title = fmt.Sprintf("Search %q", selection)
	l.Styles.Title = titleStyle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return Model{list: l}
}

// Chosen returns the picked item identifier.
func (m Model) Chosen() (string, bool) {
	return m.chosen, m.picked
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Enter picks the highlighted item unless it is
// a separator; esc, q and ctrl+c dismiss the menu.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			sel, ok := m.list.SelectedItem().(menuItem)
			if !ok || sel.item.Type == ctxsearch.ItemSeparator {
				return m, nil
			}
			m.chosen = sel.item.ID
			m.picked = true
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	return m.list.View()
}
