// Package tuihost is a terminal menu surface. Menu collects the items the
// builder materializes and Run shows them as a bubbletea list; picking an
// item is delivered to the click handlers like a context menu click.
package tuihost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

// ErrDuplicateID reports a Create for an identifier already on the menu.
var ErrDuplicateID = errors.New("tuihost: duplicate menu item id")

// Menu implements ctxsearch.MenuHost and ctxsearch.ClickSource.
type Menu struct {
	logger *zap.Logger

	mu       sync.Mutex
	items    []ctxsearch.MenuItem
	handlers []subscription
	nextSub  int
}

type subscription struct {
	id      int
	handler ctxsearch.ClickHandler
}

// Option configures a Menu.
type Option func(*Menu)

// WithLogger sets the menu logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Menu) {
		if logger != nil {
			m.logger = logger
		}
	}
}

var (
	_ ctxsearch.MenuHost    = (*Menu)(nil)
	_ ctxsearch.ClickSource = (*Menu)(nil)
)

// NewMenu returns an empty menu.
func NewMenu(opts ...Option) *Menu {
	m := &Menu{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// RemoveAll empties the menu.
func (m *Menu) RemoveAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

// Create appends item.
func (m *Menu) Create(_ context.Context, item ctxsearch.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ID == item.ID {
			return fmt.Errorf("%w: %q", ErrDuplicateID, item.ID)
		}
	}
	m.items = append(m.items, item)
	return nil
}

// Items returns a copy of the current menu.
func (m *Menu) Items() []ctxsearch.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ctxsearch.MenuItem(nil), m.items...)
}

// OnClicked subscribes handler to item picks.
func (m *Menu) OnClicked(handler ctxsearch.ClickHandler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.handlers = append(m.handlers, subscription{id: id, handler: handler})
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.handlers {
				if sub.id == id {
					m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Click delivers event to every subscribed handler in subscription order.
func (m *Menu) Click(ctx context.Context, event ctxsearch.ClickEvent) {
	m.mu.Lock()
	handlers := make([]ctxsearch.ClickHandler, 0, len(m.handlers))
	for _, sub := range m.handlers {
		handlers = append(handlers, sub.handler)
	}
	m.mu.Unlock()

	m.logger.Debug("menu item picked", zap.String("id", event.MenuItemID), zap.Int("handlers", len(handlers)))
	for _, handler := range handlers {
		handler(ctx, event)
	}
}

// Run shows the menu for selection and delivers the picked item, if any.
// It reports whether an item was picked.
func (m *Menu) Run(ctx context.Context, selection string, opts ...tea.ProgramOption) (bool, error) {
	model := NewModel(m.Items(), selection)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return false, fmt.Errorf("tuihost: run menu: %w", err)
	}
	picked, ok := final.(Model)
	if !ok {
		return false, nil
	}
	id, ok := picked.Chosen()
	if !ok {
		return false, nil
	}
	m.Click(ctx, ctxsearch.ClickEvent{MenuItemID: id, SelectionText: selection})
	return true, nil
}
