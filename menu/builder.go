// Package menu rebuilds the context menu surface from the stored
// configuration. Rebuilds are serialized: at most one runs at a time and
// every requested rebuild performs its own full pass.
package menu

import (
	"context"
	"errors"
	"strconv"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"go.uber.org/zap"
)

// SnapshotLoader reads the current configuration.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context) (ctxsearch.Snapshot, error)
}

// SnapshotLoaderFunc adapts a function to SnapshotLoader.
type SnapshotLoaderFunc func(ctx context.Context) (ctxsearch.Snapshot, error)

// LoadSnapshot calls fn.
func (fn SnapshotLoaderFunc) LoadSnapshot(ctx context.Context) (ctxsearch.Snapshot, error) {
	return fn(ctx)
}

// Report summarizes one rebuild pass.
type Report struct {
	Items       []ctxsearch.MenuItem
	Failures    []*ctxsearch.ItemCreationError
	RemoveErr   error
	Preferences ctxsearch.Preferences
}

// Err joins the per-item failures, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, failure := range r.Failures {
		errs = append(errs, failure)
	}
	return errors.Join(errs...)
}

// Builder materializes a snapshot onto a MenuHost.
type Builder struct {
	host       ctxsearch.MenuHost
	loader     SnapshotLoader
	serializer *Serializer
	logger     *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSerializer shares a serializer between builders.
func WithSerializer(serializer *Serializer) Option {
	return func(b *Builder) {
		if serializer != nil {
			b.serializer = serializer
		}
	}
}

// NewBuilder builds a Builder over host and loader.
func NewBuilder(host ctxsearch.MenuHost, loader SnapshotLoader, opts ...Option) *Builder {
	b := &Builder{
		host:       host,
		loader:     loader,
		serializer: &Serializer{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Rebuild clears the menu and recreates it from the current snapshot. It
// blocks until a pass of its own has completed. The returned error is a
// *ctxsearch.ConfigParseError or *ctxsearch.StorageError when the snapshot
// could not be loaded; per-item failures are only reported in Report.
func (b *Builder) Rebuild(ctx context.Context) (Report, error) {
	var (
		report Report
		err    error
	)
	b.serializer.Do(func() {
		report, err = b.rebuild(ctx)
	})
	return report, err
}

func (b *Builder) rebuild(ctx context.Context) (Report, error) {
	var report Report

	if err := b.host.RemoveAll(ctx); err != nil {
		report.RemoveErr = err
		b.logger.Warn("removing menu items failed", zap.Error(err))
	}

	snap, err := b.loader.LoadSnapshot(ctx)
	if err != nil {
		b.logger.Error("menu rebuild aborted", zap.Error(err))
		return report, err
	}
	report.Preferences = snap.Preferences

	for i, entry := range snap.Entries {
		if !entry.Enabled {
			continue
		}
		item := itemFor(i, entry)
		b.create(ctx, &report, i, item)
	}

	if snap.ShowOptionsItem {
		b.create(ctx, &report, -1, ctxsearch.MenuItem{ID: ctxsearch.OptionsSeparatorID, Type: ctxsearch.ItemSeparator})
		b.create(ctx, &report, -1, ctxsearch.MenuItem{ID: ctxsearch.OptionsItemID, Title: ctxsearch.OptionsItemTitle, Type: ctxsearch.ItemNormal})
	}

	b.logger.Debug("menu rebuilt",
		zap.Int("items", len(report.Items)),
		zap.Int("failures", len(report.Failures)),
	)
	return report, nil
}

func (b *Builder) create(ctx context.Context, report *Report, index int, item ctxsearch.MenuItem) {
	if err := b.host.Create(ctx, item); err != nil {
		failure := &ctxsearch.ItemCreationError{Index: index, ID: item.ID, Err: err}
		report.Failures = append(report.Failures, failure)
		b.logger.Warn("creating menu item failed", zap.Int("index", index), zap.String("id", item.ID), zap.Error(err))
		return
	}
	report.Items = append(report.Items, item)
}

// itemFor maps an entry to its menu item. Separators are keyed by position;
// normal items carry their template text as identifier.
func itemFor(index int, entry ctxsearch.Entry) ctxsearch.MenuItem {
	if entry.IsSeparator() {
		return ctxsearch.MenuItem{ID: strconv.Itoa(index), Type: ctxsearch.ItemSeparator}
	}
	return ctxsearch.MenuItem{ID: entry.Template, Title: entry.Label, Type: ctxsearch.ItemNormal}
}
