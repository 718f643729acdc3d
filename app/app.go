// Package app wires the store, the menu builder and the dispatcher together:
// every storage change schedules a rebuild and every click schedules a
// dispatch.
package app

import (
	"context"
	"errors"
	"sync"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/dispatch"
	"github.com/goliatone/go-ctxsearch/menu"
	"github.com/goliatone/go-ctxsearch/pkg/activity"
	"github.com/goliatone/go-ctxsearch/storage"
	"github.com/goliatone/go-ctxsearch/template"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config lists the collaborators of an App. Store, Menu and Tabs are
// required; Clicks may be nil when clicks are delivered through Click.
type Config struct {
	Store      *storage.Store
	Menu       ctxsearch.MenuHost
	Clicks     ctxsearch.ClickSource
	Tabs       ctxsearch.TabHost
	OptionsURL string
	// Watch observes the primary storage area for writes by other processes.
	Watch  bool
	Logger *zap.Logger
	// Level, when set, follows the debug preference after every rebuild.
	Level *zap.AtomicLevel
}

// App is the running extension core.
type App struct {
	store      *storage.Store
	builder    *menu.Builder
	dispatcher *dispatch.Dispatcher
	clicks     ctxsearch.ClickSource
	watch      bool
	level      *zap.AtomicLevel
	logger     *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancels []func()
	wg      sync.WaitGroup
	reports chan menu.Report
}

// New validates cfg and builds an App.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if cfg.Menu == nil {
		return nil, errors.New("app: menu host is required")
	}
	if cfg.Tabs == nil {
		return nil, errors.New("app: tab host is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := template.New(template.WithLogger(logger.Named("template")))
	builder := menu.NewBuilder(cfg.Menu, cfg.Store, menu.WithLogger(logger.Named("menu")))
	dispatcher := dispatch.New(cfg.Tabs, cfg.Store,
		dispatch.WithLogger(logger.Named("dispatch")),
		dispatch.WithRenderer(engine),
		dispatch.WithOptionsURL(cfg.OptionsURL),
	)
	return &App{
		store:      cfg.Store,
		builder:    builder,
		dispatcher: dispatcher,
		clicks:     cfg.Clicks,
		watch:      cfg.Watch,
		level:      cfg.Level,
		logger:     logger,
	}, nil
}

// Start initializes storage, subscribes to changes and clicks, and performs
// the initial rebuild. Initialization failures are logged and startup
// continues with whatever the store holds.
func (a *App) Start(ctx context.Context) (menu.Report, error) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	a.logger.Info("starting", zap.String("tier", a.store.ResolveTier().String()))
	if err := a.store.Initialize(ctx); err != nil {
		a.logger.Error("storage initialization failed", zap.Error(err))
	}

	a.subscribe(a.store.OnChange(func(_ context.Context, event activity.Event) {
		a.logger.Debug("storage changed", zap.String("verb", event.Verb), zap.String("area", event.Area), zap.Strings("keys", event.Keys))
		a.spawn(func(ctx context.Context) {
			_, _ = a.Rebuild(ctx)
		})
	}))
	if a.clicks != nil {
		a.subscribe(a.clicks.OnClicked(func(_ context.Context, event ctxsearch.ClickEvent) {
			a.Click(event)
		}))
	}
	if a.watch {
		if err := a.store.Watch(ctx); err != nil {
			a.logger.Warn("watching storage failed", zap.Error(err))
		}
	}

	return a.Rebuild(ctx)
}

// Rebuild runs one serialized rebuild pass and applies the debug preference
// to the log level.
func (a *App) Rebuild(ctx context.Context) (menu.Report, error) {
	report, err := a.builder.Rebuild(ctx)
	if err != nil {
		return report, err
	}
	if a.level != nil {
		if report.Preferences.Debug {
			a.level.SetLevel(zapcore.DebugLevel)
		} else {
			a.level.SetLevel(zapcore.InfoLevel)
		}
	}
	a.mu.Lock()
	reports := a.reports
	a.mu.Unlock()
	if reports != nil {
		select {
		case reports <- report:
		default:
		}
	}
	return report, nil
}

// Reports returns a channel receiving the report of every successful
// rebuild. Reports are dropped when the channel is full.
func (a *App) Reports(buffer int) <-chan menu.Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reports == nil {
		a.reports = make(chan menu.Report, buffer)
	}
	return a.reports
}

// Click schedules a dispatch of event.
func (a *App) Click(event ctxsearch.ClickEvent) {
	a.spawn(func(ctx context.Context) {
		a.dispatcher.HandleClick(ctx, event)
	})
}

// Trigger dispatches synchronously.
func (a *App) Trigger(ctx context.Context, rawID, selection string, origin *ctxsearch.Tab) error {
	return a.dispatcher.Trigger(ctx, rawID, selection, origin)
}

// Store returns the configuration store.
func (a *App) Store() *storage.Store { return a.store }

// Wait blocks until every scheduled rebuild and dispatch has finished.
func (a *App) Wait() {
	a.wg.Wait()
}

// Close unsubscribes from storage and clicks and waits for scheduled work.
func (a *App) Close() {
	a.mu.Lock()
	cancels := a.cancels
	a.cancels = nil
	a.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	a.wg.Wait()
}

func (a *App) subscribe(cancel func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancels = append(a.cancels, cancel)
}

func (a *App) spawn(fn func(ctx context.Context)) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(ctx)
	}()
}
