// Package rodhost opens result tabs in Chrome through the DevTools protocol.
//
// The protocol has no notion of tab strip positions or opener tabs, so Host
// keeps its own strip model: Create records the requested index and
// QueryActive reports the tab the host last brought to the foreground.
package rodhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

// Targets is the browser capability Host drives.
type Targets interface {
	// Open creates a page target and returns its identifier.
	Open(ctx context.Context, url string, background bool) (string, error)
	// List returns the identifiers of every open page target.
	List(ctx context.Context) ([]string, error)
}

// Host implements ctxsearch.TabHost over Targets.
type Host struct {
	targets Targets
	logger  *zap.Logger

	mu     sync.Mutex
	ids    map[string]int
	strip  []string
	active string
	nextID int
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

var _ ctxsearch.TabHost = (*Host)(nil)

// New wraps targets.
func New(targets Targets, opts ...Option) *Host {
	h := &Host{
		targets: targets,
		logger:  zap.NewNop(),
		ids:     make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Create opens props.URL in a new page target.
func (h *Host) Create(ctx context.Context, props ctxsearch.CreateProperties) (ctxsearch.Tab, error) {
	target, err := h.targets.Open(ctx, props.URL, !props.Active)
	if err != nil {
		return ctxsearch.Tab{ID: ctxsearch.TabIDNone, Index: -1}, fmt.Errorf("rodhost: open %s: %w", props.URL, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.assignLocked(target)
	index := len(h.strip)
	if props.Index != nil && *props.Index >= 0 && *props.Index <= len(h.strip) {
		index = *props.Index
	}
	h.strip = append(h.strip, "")
	copy(h.strip[index+1:], h.strip[index:])
	h.strip[index] = target
	if props.Active {
		h.active = target
	}
	if props.OpenerTabID != nil {
		h.logger.Debug("opener not supported by target host", zap.Int("opener", *props.OpenerTabID), zap.Int("tab", id))
	}
	h.logger.Debug("tab opened", zap.String("url", props.URL), zap.Int("tab", id), zap.Int("index", index), zap.Bool("active", props.Active))
	return ctxsearch.Tab{ID: id, Index: index}, nil
}

// QueryActive reconciles the strip with the browser and returns the active
// tab, or nil when no page is open. Without a known active tab the first
// listed page is used.
func (h *Host) QueryActive(ctx context.Context) (*ctxsearch.Tab, error) {
	listed, err := h.targets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("rodhost: list pages: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.reconcileLocked(listed)
	if len(h.strip) == 0 {
		return nil, nil
	}
	active := h.active
	if _, ok := h.ids[active]; !ok {
		active = listed[0]
		h.active = active
	}
	for index, target := range h.strip {
		if target == active {
			return &ctxsearch.Tab{ID: h.ids[target], Index: index}, nil
		}
	}
	return nil, nil
}

func (h *Host) assignLocked(target string) int {
	if id, ok := h.ids[target]; ok {
		return id
	}
	id := h.nextID
	h.nextID++
	h.ids[target] = id
	return id
}

// reconcileLocked drops closed targets and appends unseen ones in listed
// order.
func (h *Host) reconcileLocked(listed []string) {
	open := make(map[string]bool, len(listed))
	for _, target := range listed {
		open[target] = true
	}
	kept := h.strip[:0]
	for _, target := range h.strip {
		if open[target] {
			kept = append(kept, target)
			continue
		}
		delete(h.ids, target)
	}
	h.strip = kept
	for _, target := range listed {
		if _, ok := h.ids[target]; !ok {
			h.assignLocked(target)
			h.strip = append(h.strip, target)
		}
	}
}

// BrowserOptions selects the browser to drive.
type BrowserOptions struct {
	ControlURL string
	Bin        string
	Headless   bool
}

// Browser adapts a rod browser to Targets.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// Connect attaches to opts.ControlURL, or launches a browser when it is
// empty.
func Connect(opts BrowserOptions) (*Browser, error) {
	controlURL := opts.ControlURL
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().Headless(opts.Headless)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("rodhost: launch: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("rodhost: connect: %w", err)
	}
	return &Browser{browser: b, launcher: l}, nil
}

// Open implements Targets.
func (b *Browser) Open(ctx context.Context, url string, background bool) (string, error) {
	page, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url, Background: background})
	if err != nil {
		return "", err
	}
	return string(page.TargetID), nil
}

// List implements Targets.
func (b *Browser) List(ctx context.Context) ([]string, error) {
	pages, err := b.browser.Context(ctx).Pages()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(pages))
	for _, page := range pages {
		out = append(out, string(page.TargetID))
	}
	return out, nil
}

// Close shuts a launched browser down. An attached browser is left running.
func (b *Browser) Close() error {
	if b == nil || b.launcher == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Kill()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("rodhost: close: %w", err)
	}
	return nil
}
