// Package memhost provides in-memory host doubles for the menu, click and
// tab capabilities. They record every call and support fault injection; they
// are intended for tests, examples and dry runs.
package memhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

// ErrDuplicateID is returned when an item id is already on the menu.
var ErrDuplicateID = errors.New("memhost: duplicate menu item id")

// Menu is an in-memory ctxsearch.MenuHost that also acts as a
// ctxsearch.ClickSource.
type Menu struct {
	mu        sync.Mutex
	items     []ctxsearch.MenuItem
	removes   int
	removeErr error
	createErr map[string]error
	onCreate  func(ctxsearch.MenuItem)

	handlers map[uint64]ctxsearch.ClickHandler
	nextID   uint64
}

// NewMenu returns an empty menu.
func NewMenu() *Menu {
	return &Menu{
		createErr: map[string]error{},
		handlers:  map[uint64]ctxsearch.ClickHandler{},
	}
}

// FailRemoveAll makes RemoveAll return err after clearing the items.
func (m *Menu) FailRemoveAll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErr = err
}

// FailCreate makes Create reject the item with id.
func (m *Menu) FailCreate(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.createErr, id)
		return
	}
	m.createErr[id] = err
}

// OnCreate registers fn to observe every Create call before it is applied.
func (m *Menu) OnCreate(fn func(ctxsearch.MenuItem)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onCreate = fn
}

// RemoveAll implements ctxsearch.MenuHost.
func (m *Menu) RemoveAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.removes++
	return m.removeErr
}

// Create implements ctxsearch.MenuHost.
func (m *Menu) Create(_ context.Context, item ctxsearch.MenuItem) error {
	m.mu.Lock()
	observe := m.onCreate
	m.mu.Unlock()
	if observe != nil {
		observe(item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.createErr[item.ID]; err != nil {
		return err
	}
	for _, existing := range m.items {
		if existing.ID == item.ID {
			return fmt.Errorf("%w: %q", ErrDuplicateID, item.ID)
		}
	}
	m.items = append(m.items, item)
	return nil
}

// Items returns the items currently on the menu.
func (m *Menu) Items() []ctxsearch.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ctxsearch.MenuItem(nil), m.items...)
}

// Removes reports how many times RemoveAll was called.
func (m *Menu) Removes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removes
}

// OnClicked implements ctxsearch.ClickSource.
func (m *Menu) OnClicked(handler ctxsearch.ClickHandler) (cancel func()) {
	if handler == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.handlers, id)
			m.mu.Unlock()
		})
	}
}

// Click delivers event to every subscribed handler on the caller's
// goroutine.
func (m *Menu) Click(ctx context.Context, event ctxsearch.ClickEvent) {
	m.mu.Lock()
	handlers := make([]ctxsearch.ClickHandler, 0, len(m.handlers))
	for id := uint64(0); id < m.nextID; id++ {
		if handler, ok := m.handlers[id]; ok {
			handlers = append(handlers, handler)
		}
	}
	m.mu.Unlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}
