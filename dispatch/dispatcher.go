// Package dispatch turns a clicked menu identifier and the selected text into
// opened tabs.
package dispatch

import (
	"context"
	"errors"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/template"
	"go.uber.org/zap"
)

// PreferencesLoader reads the placement flags.
type PreferencesLoader interface {
	LoadPreferences(ctx context.Context) (ctxsearch.Preferences, error)
}

// PreferencesLoaderFunc adapts a function to PreferencesLoader.
type PreferencesLoaderFunc func(ctx context.Context) (ctxsearch.Preferences, error)

// LoadPreferences calls fn.
func (fn PreferencesLoaderFunc) LoadPreferences(ctx context.Context) (ctxsearch.Preferences, error) {
	return fn(ctx)
}

// Renderer resolves one template against the selection.
type Renderer interface {
	Render(tmpl, selection string) string
}

// Dispatcher opens one tab per template carried by a menu identifier.
type Dispatcher struct {
	tabs       ctxsearch.TabHost
	prefs      PreferencesLoader
	renderer   Renderer
	optionsURL string
	logger     *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRenderer replaces the template engine.
func WithRenderer(renderer Renderer) Option {
	return func(d *Dispatcher) {
		if renderer != nil {
			d.renderer = renderer
		}
	}
}

// WithOptionsURL sets the page opened by the options menu item.
func WithOptionsURL(url string) Option {
	return func(d *Dispatcher) {
		if url != "" {
			d.optionsURL = url
		}
	}
}

// New builds a Dispatcher.
func New(tabs ctxsearch.TabHost, prefs PreferencesLoader, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tabs:       tabs,
		prefs:      prefs,
		optionsURL: ctxsearch.OptionsItemID,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.renderer == nil {
		d.renderer = template.New(template.WithLogger(d.logger))
	}
	return d
}

// Trigger renders every template in rawID and opens each result. A target
// that fails to open does not prevent the others; the returned error joins
// one *ctxsearch.TabCreationError per failed target.
func (d *Dispatcher) Trigger(ctx context.Context, rawID, selection string, origin *ctxsearch.Tab) error {
	prefs := d.loadPreferences(ctx)
	placement := d.placement(ctx, prefs, origin)

	log := d.logger.With(zap.String("id", rawID))
	log.Debug("dispatching selection",
		zap.Bool("foreground", placement.Active),
		zap.Bool("adjacent", prefs.OpenAdjacent),
	)

	if rawID == ctxsearch.OptionsItemID {
		return d.open(ctx, log, placement, rawID, d.optionsURL)
	}

	var errs []error
	for _, tmpl := range template.SplitTargets(rawID) {
		url := d.renderer.Render(tmpl, selection)
		if err := d.open(ctx, log, placement, tmpl, url); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleClick is a ctxsearch.ClickHandler that dispatches the click and logs
// the outcome.
func (d *Dispatcher) HandleClick(ctx context.Context, event ctxsearch.ClickEvent) {
	if err := d.Trigger(ctx, event.MenuItemID, event.SelectionText, event.Tab); err != nil {
		d.logger.Warn("dispatch finished with failures", zap.String("id", event.MenuItemID), zap.Error(err))
	}
}

func (d *Dispatcher) open(ctx context.Context, log *zap.Logger, placement ctxsearch.CreateProperties, tmpl, url string) error {
	props := placement
	props.URL = url
	tab, err := d.tabs.Create(ctx, props)
	if err != nil {
		log.Warn("opening tab failed", zap.String("url", url), zap.Error(err))
		return &ctxsearch.TabCreationError{Template: tmpl, URL: url, Err: err}
	}
	log.Debug("opened tab", zap.String("url", url), zap.Int("tab", tab.ID))
	return nil
}

// loadPreferences treats unreadable flags as all false.
func (d *Dispatcher) loadPreferences(ctx context.Context) ctxsearch.Preferences {
	if d.prefs == nil {
		return ctxsearch.Preferences{}
	}
	prefs, err := d.prefs.LoadPreferences(ctx)
	if err != nil {
		d.logger.Warn("reading preferences failed, using defaults", zap.Error(err))
		return ctxsearch.Preferences{}
	}
	return prefs
}

// placement computes the tab properties shared by every target of one
// trigger.
func (d *Dispatcher) placement(ctx context.Context, prefs ctxsearch.Preferences, origin *ctxsearch.Tab) ctxsearch.CreateProperties {
	props := ctxsearch.CreateProperties{Active: !prefs.OpenInBackground}

	if !prefs.OpenAdjacent {
		if origin.Valid() {
			props.OpenerTabID = intPtr(origin.ID)
		}
		return props
	}

	anchor := origin
	if !anchor.Valid() {
		active, err := d.tabs.QueryActive(ctx)
		if err != nil {
			d.logger.Warn("querying active tab failed", zap.Error(err))
		}
		anchor = active
	}
	if anchor.Valid() {
		props.Index = intPtr(anchor.Index + 1)
		props.OpenerTabID = intPtr(anchor.ID)
	}
	return props
}

func intPtr(v int) *int {
	return &v
}
