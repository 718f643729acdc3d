package app_test

import (
	"context"
	"testing"
	"time"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/app"
	"github.com/goliatone/go-ctxsearch/hosts/memhost"
	"github.com/goliatone/go-ctxsearch/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fixture struct {
	app      *app.App
	store    *storage.Store
	menu     *memhost.Menu
	tabs     *memhost.Tabs
	durable  *storage.MemoryArea
	fallback *storage.MemoryArea
	level    zap.AtomicLevel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		menu:     memhost.NewMenu(),
		tabs:     memhost.NewTabs(1),
		durable:  storage.NewMemoryArea("sync"),
		fallback: storage.NewMemoryArea("local"),
		level:    zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	store, err := storage.New(f.durable, f.fallback)
	require.NoError(t, err)
	f.store = store

	a, err := app.New(app.Config{
		Store:  store,
		Menu:   f.menu,
		Clicks: f.menu,
		Tabs:   f.tabs,
		Level:  &f.level,
	})
	require.NoError(t, err)
	f.app = a
	t.Cleanup(a.Close)
	return f
}

func TestStartWritesDefaultsAndBuildsMenu(t *testing.T) {
	f := newFixture(t)

	report, err := f.app.Start(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Items, len(ctxsearch.DefaultEntries()))
	require.Equal(t, report.Items, f.menu.Items())
	require.Equal(t, "Sync", f.store.Tier().String())
}

func TestStartMigratesFallbackBeforeBuilding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap := ctxsearch.Snapshot{Entries: ctxsearch.EntryList{{Label: "Only", Template: "https://o.test/%s", Enabled: true}}}
	require.NoError(t, f.fallback.Set(ctx, snap.KeyValues()))

	report, err := f.app.Start(ctx)
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	require.Equal(t, "https://o.test/%s", report.Items[0].ID)

	rest, err := f.fallback.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, rest)
}

func TestChangeSchedulesRebuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reports := f.app.Reports(8)

	_, err := f.app.Start(ctx)
	require.NoError(t, err)
	<-reports

	require.NoError(t, f.store.Set(ctx, map[string]any{ctxsearch.KeyShowOptionsItem: "true", ctxsearch.KeyDebug: true}))

	select {
	case report := <-reports:
		last := report.Items[len(report.Items)-1]
		require.Equal(t, ctxsearch.OptionsItemID, last.ID)
	case <-time.After(5 * time.Second):
		t.Fatalf("rebuild was not scheduled")
	}
	f.app.Wait()
	require.Equal(t, zapcore.DebugLevel, f.level.Level())

	items := f.menu.Items()
	require.Equal(t, ctxsearch.OptionsItemID, items[len(items)-1].ID)
}

func TestClickDispatchesWithStoredPlacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.app.Start(ctx)
	require.NoError(t, err)
	f.app.Wait()

	require.NoError(t, f.store.SavePreferences(ctx, ctxsearch.Preferences{OpenInBackground: true, OpenAdjacent: true}))
	f.app.Wait()

	f.menu.Click(ctx, ctxsearch.ClickEvent{
		MenuItemID:    "https://a.test/?q=%s https://b.test/NOENCODESEARCH",
		SelectionText: "a b",
		Tab:           &ctxsearch.Tab{ID: 4, Index: 1},
	})
	f.app.Wait()

	created := f.tabs.Created()
	require.Len(t, created, 2)
	require.Equal(t, "https://a.test/?q=a%20b", created[0].URL)
	require.Equal(t, "https://b.test/a b", created[1].URL)
	for _, props := range created {
		require.False(t, props.Active)
		require.NotNil(t, props.Index)
		require.Equal(t, 2, *props.Index)
		require.Equal(t, 4, *props.OpenerTabID)
	}
}

func TestCloseStopsSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.app.Start(ctx)
	require.NoError(t, err)
	f.app.Close()

	removes := f.menu.Removes()
	require.NoError(t, f.store.Set(ctx, map[string]any{ctxsearch.KeyDebug: true}))
	f.menu.Click(ctx, ctxsearch.ClickEvent{MenuItemID: "u", SelectionText: "x"})
	f.app.Wait()

	require.Equal(t, removes, f.menu.Removes())
	require.Empty(t, f.tabs.Created())
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := app.New(app.Config{})
	require.Error(t, err)
}
