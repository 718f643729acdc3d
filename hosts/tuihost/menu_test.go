package tuihost

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

func sampleItems() []ctxsearch.MenuItem {
	return []ctxsearch.MenuItem{
		{ID: "https://a.test/?q=%s", Title: "A", Type: ctxsearch.ItemNormal},
		{ID: "1", Type: ctxsearch.ItemSeparator},
		{ID: "https://b.test/?q=%s", Title: "B", Type: ctxsearch.ItemNormal},
	}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, key := range keys {
		var next tea.Model
		next, cmd = m.Update(key)
		m = next.(Model)
	}
	return m, cmd
}

func TestMenuHostLifecycle(t *testing.T) {
	menu := NewMenu()
	ctx := context.Background()
	for _, item := range sampleItems() {
		require.NoError(t, menu.Create(ctx, item))
	}
	require.ErrorIs(t, menu.Create(ctx, ctxsearch.MenuItem{ID: "1"}), ErrDuplicateID)
	require.Len(t, menu.Items(), 3)

	require.NoError(t, menu.RemoveAll(ctx))
	require.Empty(t, menu.Items())
}

func TestClickFanOutAndCancel(t *testing.T) {
	menu := NewMenu()
	var got []string
	cancelFirst := menu.OnClicked(func(_ context.Context, e ctxsearch.ClickEvent) { got = append(got, "first:"+e.MenuItemID) })
	menu.OnClicked(func(_ context.Context, e ctxsearch.ClickEvent) { got = append(got, "second:"+e.MenuItemID) })

	menu.Click(context.Background(), ctxsearch.ClickEvent{MenuItemID: "x"})
	cancelFirst()
	cancelFirst()
	menu.Click(context.Background(), ctxsearch.ClickEvent{MenuItemID: "y"})

	require.Equal(t, []string{"first:x", "second:x", "second:y"}, got)
}

func TestModelPicksHighlightedItem(t *testing.T) {
	m := NewModel(sampleItems(), "go")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	id, ok := m.Chosen()
	require.True(t, ok)
	require.Equal(t, "https://b.test/?q=%s", id)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelIgnoresSeparator(t *testing.T) {
	m := NewModel(sampleItems(), "go")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	_, ok := m.Chosen()
	require.False(t, ok)
	require.Nil(t, cmd)
}

func TestModelDismiss(t *testing.T) {
	m := NewModel(sampleItems(), "go")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	_, ok := m.Chosen()
	require.False(t, ok)
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "A")
}

func TestRunRejectsCancelledContext(t *testing.T) {
	menu := NewMenu()
	require.NoError(t, menu.Create(context.Background(), sampleItems()[0]))
	clicked := false
	menu.OnClicked(func(context.Context, ctxsearch.ClickEvent) { clicked = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	picked, err := menu.Run(ctx, "go", tea.WithInput(nil), tea.WithoutRenderer())

	require.False(t, picked)
	require.Error(t, err)
	require.False(t, clicked)
}
