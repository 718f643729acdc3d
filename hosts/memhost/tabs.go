package memhost

import (
	"context"
	"sync"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

// Tabs is an in-memory ctxsearch.TabHost recording every opened tab.
type Tabs struct {
	mu        sync.Mutex
	nextID    int
	created   []ctxsearch.CreateProperties
	active    *ctxsearch.Tab
	activeErr error
	failURL   map[string]error
	queries   int
	onCreate  func(ctxsearch.CreateProperties)
}

// NewTabs returns a host with no active tab. Tab ids start at firstID.
func NewTabs(firstID int) *Tabs {
	return &Tabs{nextID: firstID, failURL: map[string]error{}}
}

// SetActive sets the tab QueryActive returns; nil means none.
func (t *Tabs) SetActive(tab *ctxsearch.Tab) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tab == nil {
		t.active = nil
		return
	}
	copied := *tab
	t.active = &copied
}

// FailActive makes QueryActive return err.
func (t *Tabs) FailActive(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeErr = err
}

// FailURL makes Create reject url.
func (t *Tabs) FailURL(url string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		delete(t.failURL, url)
		return
	}
	t.failURL[url] = err
}

// OnCreate registers fn to observe every successful Create.
func (t *Tabs) OnCreate(fn func(ctxsearch.CreateProperties)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCreate = fn
}

// Create implements ctxsearch.TabHost.
func (t *Tabs) Create(_ context.Context, props ctxsearch.CreateProperties) (ctxsearch.Tab, error) {
	t.mu.Lock()
	if err := t.failURL[props.URL]; err != nil {
		t.mu.Unlock()
		return ctxsearch.Tab{}, err
	}
	t.created = append(t.created, cloneProps(props))
	tab := ctxsearch.Tab{ID: t.nextID, Index: len(t.created) - 1}
	if props.Index != nil {
		tab.Index = *props.Index
	}
	t.nextID++
	observe := t.onCreate
	t.mu.Unlock()

	if observe != nil {
		observe(props)
	}
	return tab, nil
}

// QueryActive implements ctxsearch.TabHost.
func (t *Tabs) QueryActive(context.Context) (*ctxsearch.Tab, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queries++
	if t.activeErr != nil {
		return nil, t.activeErr
	}
	if t.active == nil {
		return nil, nil
	}
	copied := *t.active
	return &copied, nil
}

// Created returns the properties of every opened tab in order.
func (t *Tabs) Created() []ctxsearch.CreateProperties {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ctxsearch.CreateProperties, 0, len(t.created))
	for _, props := range t.created {
		out = append(out, cloneProps(props))
	}
	return out
}

// Queries reports how many times QueryActive was called.
func (t *Tabs) Queries() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queries
}

func cloneProps(props ctxsearch.CreateProperties) ctxsearch.CreateProperties {
	out := props
	if props.Index != nil {
		index := *props.Index
		out.Index = &index
	}
	if props.OpenerTabID != nil {
		opener := *props.OpenerTabID
		out.OpenerTabID = &opener
	}
	return out
}
