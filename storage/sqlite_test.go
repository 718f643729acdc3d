package storage_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/pkg/activity"
	"github.com/goliatone/go-ctxsearch/storage"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, name, path string) *storage.SQLiteArea {
	t.Helper()
	area, err := storage.OpenSQLite(context.Background(), name, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = area.Close() })
	return area
}

func TestSQLiteAreaRoundTrip(t *testing.T) {
	ctx := context.Background()
	area := openSQLite(t, "local", storage.MemoryDSN)

	require.NoError(t, area.Probe(ctx))
	require.NoError(t, area.Set(ctx, map[string]any{
		ctxsearch.KeyEntries:          `[["-1","A","a",true]]`,
		ctxsearch.KeyOpenInBackground: true,
		ctxsearch.KeyOpenAdjacent:     "false",
	}))

	all, err := area.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		ctxsearch.KeyEntries:          `[["-1","A","a",true]]`,
		ctxsearch.KeyOpenInBackground: true,
		ctxsearch.KeyOpenAdjacent:     "false",
	}, all)

	some, err := area.Get(ctx, ctxsearch.KeyOpenInBackground, "missing")
	require.NoError(t, err)
	require.Equal(t, map[string]any{ctxsearch.KeyOpenInBackground: true}, some)

	require.NoError(t, area.Set(ctx, map[string]any{ctxsearch.KeyOpenInBackground: false}))
	some, err = area.Get(ctx, ctxsearch.KeyOpenInBackground)
	require.NoError(t, err)
	require.Equal(t, false, some[ctxsearch.KeyOpenInBackground])

	require.NoError(t, area.Remove(ctx, ctxsearch.KeyOpenAdjacent))
	all, err = area.Get(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, area.Clear(ctx))
	all, err = area.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSQLiteAreaBacksStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	durable := openSQLite(t, "sync", filepath.Join(dir, "sync.db"))
	fallback := openSQLite(t, "local", filepath.Join(dir, "local.db"))
	require.NoError(t, fallback.Set(ctx, ctxsearch.DefaultSnapshot().KeyValues()))

	store, err := storage.New(durable, fallback)
	require.NoError(t, err)
	require.Equal(t, storage.TierDurable, store.ResolveTier())
	require.NoError(t, store.Initialize(ctx))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, ctxsearch.DefaultSnapshot(), snap)

	rest, err := fallback.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, rest)
}

func TestSQLiteAreaWatchSeesOtherConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "config.db")
	watched, err := storage.OpenSQLite(ctx, "sync", path, storage.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = watched.Close() })
	writer := openSQLite(t, "sync", path)

	store, err := storage.New(watched, storage.NewMemoryArea("local"))
	require.NoError(t, err)

	var external atomic.Int32
	store.OnChange(func(_ context.Context, event activity.Event) {
		if event.Verb == activity.VerbExternal {
			external.Add(1)
		}
	})
	require.NoError(t, store.Watch(ctx))

	require.NoError(t, writer.Set(ctx, map[string]any{ctxsearch.KeyDebug: true}))
	require.Eventually(t, func() bool { return external.Load() > 0 }, 5*time.Second, 20*time.Millisecond)
}

func TestSQLiteAreaWatchRejectsMemory(t *testing.T) {
	area := openSQLite(t, "local", storage.MemoryDSN)
	require.Error(t, area.Watch(context.Background(), func() {}))
}
