package ctxsearch

import "context"

// Fixed identifiers for the items appended when the options item is shown.
const (
	OptionsSeparatorID = "separator"
	OptionsItemID      = "options.html"
	OptionsItemTitle   = "Options"
)

// TabIDNone marks a tab that has no usable host identifier.
const TabIDNone = -1

// ItemType distinguishes selectable items from separators.
type ItemType string

const (
	ItemNormal    ItemType = "normal"
	ItemSeparator ItemType = "separator"
)

// MenuItem is one item materialized on the menu surface.
type MenuItem struct {
	ID    string
	Title string
	Type  ItemType
}

// Tab is the subset of host tab state used for placement.
type Tab struct {
	ID    int
	Index int
}

// Valid reports whether the tab carries a usable, non-negative identifier.
func (t *Tab) Valid() bool {
	return t != nil && t.ID >= 0
}

// CreateProperties describes a tab to open. Nil Index means the host default
// (end of the tab strip).
type CreateProperties struct {
	URL         string
	Active      bool
	Index       *int
	OpenerTabID *int
}

// ClickEvent is delivered when the user picks a menu item.
type ClickEvent struct {
	MenuItemID    string
	SelectionText string
	Tab           *Tab
}

// ClickHandler reacts to a click event.
type ClickHandler func(ctx context.Context, event ClickEvent)

// MenuHost is the menu surface capability.
type MenuHost interface {
	RemoveAll(ctx context.Context) error
	Create(ctx context.Context, item MenuItem) error
}

// ClickSource delivers click events from the menu surface. The returned
// function unsubscribes the handler.
type ClickSource interface {
	OnClicked(handler ClickHandler) (cancel func())
}

// TabHost is the tab/window capability.
type TabHost interface {
	Create(ctx context.Context, props CreateProperties) (Tab, error)
	// QueryActive returns the active tab of the current window, or nil.
	QueryActive(ctx context.Context) (*Tab, error)
}
