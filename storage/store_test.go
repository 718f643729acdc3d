package storage_test

import (
	"context"
	"errors"
	"testing"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/pkg/activity"
	"github.com/goliatone/go-ctxsearch/storage"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, durable, fallback storage.Area, opts ...storage.Option) *storage.Store {
	t.Helper()
	store, err := storage.New(durable, fallback, opts...)
	require.NoError(t, err)
	return store
}

func TestResolveTier(t *testing.T) {
	t.Run("no durable area", func(t *testing.T) {
		store := newStore(t, nil, storage.NewMemoryArea("local"))
		require.Equal(t, storage.TierFallback, store.ResolveTier())
		require.Equal(t, "Local", store.Tier().String())
	})

	t.Run("probe failure", func(t *testing.T) {
		durable := storage.NewMemoryArea("sync")
		durable.Fail(storage.OpProbe, errors.New("sync disabled"))
		store := newStore(t, durable, storage.NewMemoryArea("local"))
		require.Equal(t, storage.TierFallback, store.ResolveTier())
		require.Equal(t, "local", store.Primary().Name())
	})

	t.Run("durable available and cached", func(t *testing.T) {
		durable := storage.NewMemoryArea("sync")
		store := newStore(t, durable, storage.NewMemoryArea("local"))
		require.Equal(t, storage.TierDurable, store.ResolveTier())
		require.Equal(t, "Sync", store.Tier().String())

		durable.Fail(storage.OpProbe, errors.New("gone"))
		require.Equal(t, storage.TierDurable, store.ResolveTier())
	})
}

func TestInitializePrimaryWinsAndFallbackCleared(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryArea("sync")
	fallback := storage.NewMemoryArea("local")
	require.NoError(t, durable.Set(ctx, map[string]any{ctxsearch.KeyEntries: "[]", ctxsearch.KeyOpenInBackground: true}))
	require.NoError(t, fallback.Set(ctx, map[string]any{ctxsearch.KeyEntries: `[["-1","X","x",true]]`}))

	store := newStore(t, durable, fallback)
	require.NoError(t, store.Initialize(ctx))

	primary, err := durable.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]any{ctxsearch.KeyEntries: "[]", ctxsearch.KeyOpenInBackground: true}, primary)

	rest, err := fallback.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, rest)
}

func TestInitializeMigratesFallback(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryArea("sync")
	fallback := storage.NewMemoryArea("local")
	seed := map[string]any{ctxsearch.KeyEntries: `[["-1","X","x",true]]`, ctxsearch.KeyOpenAdjacent: "true"}
	require.NoError(t, fallback.Set(ctx, seed))

	capture := &activity.CaptureHook{}
	store := newStore(t, durable, fallback, storage.WithActivityHooks(capture))
	require.NoError(t, store.Initialize(ctx))

	primary, err := durable.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, seed, primary)

	rest, err := fallback.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, rest)

	require.Equal(t, []string{activity.VerbChanged, activity.VerbMigrated, activity.VerbCleared}, capture.Verbs())

	migrated := capture.Recorded()[1]
	require.Equal(t, "sync", migrated.Area)
	require.Equal(t, "local", migrated.Metadata["from"])
	require.Equal(t, []string{ctxsearch.KeyEntries, ctxsearch.KeyOpenAdjacent}, migrated.Keys)
}

func TestInitializeMigrationWriteFailureLeavesFallback(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryArea("sync")
	fallback := storage.NewMemoryArea("local")
	seed := map[string]any{ctxsearch.KeyEntries: "[]"}
	require.NoError(t, fallback.Set(ctx, seed))
	durable.Fail(storage.OpSet, errors.New("quota exceeded"))

	store := newStore(t, durable, fallback)
	err := store.Initialize(ctx)

	var storageErr *ctxsearch.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, storage.OpSet, storageErr.Op)
	require.Equal(t, "sync", storageErr.Area)
	require.ErrorContains(t, err, "quota exceeded")

	rest, err := fallback.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, seed, rest)
}

func TestInitializeClearFailureLeavesDuplicates(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryArea("sync")
	fallback := storage.NewMemoryArea("local")
	seed := map[string]any{ctxsearch.KeyEntries: "[]"}
	require.NoError(t, fallback.Set(ctx, seed))
	fallback.Fail(storage.OpClear, errors.New("locked"))

	store := newStore(t, durable, fallback)
	err := store.Initialize(ctx)

	var storageErr *ctxsearch.StorageError
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, storage.OpClear, storageErr.Op)

	primary, err := durable.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, seed, primary)

	rest, err := fallback.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, seed, rest)
}

func TestInitializeWritesDefaultsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	durable := storage.NewMemoryArea("sync")
	fallback := storage.NewMemoryArea("local")

	store := newStore(t, durable, fallback)
	require.NoError(t, store.Initialize(ctx))

	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, ctxsearch.DefaultSnapshot(), snap)
	require.False(t, snap.OpenInBackground || snap.OpenAdjacent || snap.ShowOptionsItem || snap.Debug)

	rest, err := fallback.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, rest)
}

func TestInitializeWithoutDurableTier(t *testing.T) {
	ctx := context.Background()

	t.Run("empty fallback receives defaults", func(t *testing.T) {
		fallback := storage.NewMemoryArea("local")
		store := newStore(t, nil, fallback)
		require.NoError(t, store.Initialize(ctx))

		values, err := fallback.Get(ctx)
		require.NoError(t, err)
		require.Len(t, values, len(ctxsearch.Keys))
	})

	t.Run("existing fallback data is kept", func(t *testing.T) {
		fallback := storage.NewMemoryArea("local")
		seed := map[string]any{ctxsearch.KeyEntries: "[]", ctxsearch.KeyDebug: true}
		require.NoError(t, fallback.Set(ctx, seed))

		store := newStore(t, nil, fallback)
		require.NoError(t, store.Initialize(ctx))

		values, err := fallback.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, seed, values)
	})
}

func TestLoadSnapshotNormalizesFlags(t *testing.T) {
	ctx := context.Background()
	fallback := storage.NewMemoryArea("local")
	require.NoError(t, fallback.Set(ctx, map[string]any{
		ctxsearch.KeyEntries:          `[["-1","Google","https://g.test/?q=%s","true"],[7,"","",false]]`,
		ctxsearch.KeyOpenInBackground: "TRUE",
		ctxsearch.KeyOpenAdjacent:     "false",
		ctxsearch.KeyShowOptionsItem:  true,
		ctxsearch.KeyDebug:            nil,
	}))

	store := newStore(t, nil, fallback)
	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	require.Equal(t, ctxsearch.EntryList{
		{ID: "-1", Label: "Google", Template: "https://g.test/?q=%s", Enabled: true},
		{ID: "7"},
	}, snap.Entries)
	require.Equal(t, ctxsearch.Preferences{OpenInBackground: true, ShowOptionsItem: true}, snap.Preferences)
}

func TestLoadSnapshotErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing entries", func(t *testing.T) {
		store := newStore(t, nil, storage.NewMemoryArea("local"))
		_, err := store.LoadSnapshot(ctx)

		var parseErr *ctxsearch.ConfigParseError
		require.ErrorAs(t, err, &parseErr)
		require.Equal(t, ctxsearch.KeyEntries, parseErr.Key)
		require.ErrorIs(t, err, ctxsearch.ErrSnapshotMissing)
	})

	t.Run("malformed entries", func(t *testing.T) {
		fallback := storage.NewMemoryArea("local")
		require.NoError(t, fallback.Set(ctx, map[string]any{ctxsearch.KeyEntries: "[[1,2"}))
		store := newStore(t, nil, fallback)
		_, err := store.LoadSnapshot(ctx)

		var parseErr *ctxsearch.ConfigParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("null entries", func(t *testing.T) {
		fallback := storage.NewMemoryArea("local")
		require.NoError(t, fallback.Set(ctx, map[string]any{ctxsearch.KeyEntries: "null"}))
		store := newStore(t, nil, fallback)
		_, err := store.LoadSnapshot(ctx)
		require.ErrorIs(t, err, ctxsearch.ErrInvalidEntries)
	})

	t.Run("backend failure", func(t *testing.T) {
		fallback := storage.NewMemoryArea("local")
		fallback.Fail(storage.OpGet, errors.New("disk gone"))
		store := newStore(t, nil, fallback)
		_, err := store.LoadSnapshot(ctx)

		var storageErr *ctxsearch.StorageError
		require.ErrorAs(t, err, &storageErr)
		require.Equal(t, storage.OpGet, storageErr.Op)
		require.ErrorContains(t, err, "disk gone")
	})
}

func TestLoadPreferencesWithoutEntries(t *testing.T) {
	ctx := context.Background()
	fallback := storage.NewMemoryArea("local")
	require.NoError(t, fallback.Set(ctx, map[string]any{ctxsearch.KeyOpenAdjacent: "True"}))

	store := newStore(t, nil, fallback)
	prefs, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	require.Equal(t, ctxsearch.Preferences{OpenAdjacent: true}, prefs)
}

func TestSaveSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, storage.NewMemoryArea("sync"), storage.NewMemoryArea("local"))

	snap := ctxsearch.DefaultSnapshot()
	snap, err := snap.WithEntry("Docs", "https://pkg.go.dev/search?q=%s")
	require.NoError(t, err)
	snap.Debug = true
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	got, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, snap, got)

	require.NoError(t, store.SavePreferences(ctx, ctxsearch.Preferences{OpenInBackground: true}))
	got, err = store.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, ctxsearch.Preferences{OpenInBackground: true}, got.Preferences)
	require.Equal(t, snap.Entries, got.Entries)
}

func TestOnChangeFiresForEveryWrite(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, nil, storage.NewMemoryArea("local"))

	var events []activity.Event
	cancel := store.OnChange(func(_ context.Context, event activity.Event) {
		events = append(events, event)
	})

	require.NoError(t, store.Set(ctx, map[string]any{ctxsearch.KeyDebug: true}))
	require.NoError(t, store.Remove(ctx, ctxsearch.KeyDebug))
	require.NoError(t, store.Set(ctx, map[string]any{ctxsearch.KeyEntries: "[]"}))
	require.NoError(t, store.Clear(ctx))

	require.Len(t, events, 4)
	require.Equal(t, activity.VerbChanged, events[0].Verb)
	require.Equal(t, activity.Change{OldValue: nil, NewValue: true}, events[0].Changes[ctxsearch.KeyDebug])
	require.Equal(t, activity.Change{OldValue: true}, events[1].Changes[ctxsearch.KeyDebug])
	require.Equal(t, activity.VerbCleared, events[3].Verb)
	require.Equal(t, "storage", events[3].Channel)

	cancel()
	require.NoError(t, store.Set(ctx, map[string]any{ctxsearch.KeyDebug: false}))
	require.Len(t, events, 4)
}

func TestStoreOperationsWrapBackendErrors(t *testing.T) {
	ctx := context.Background()
	fallback := storage.NewMemoryArea("local")
	boom := errors.New("backend refused")
	fallback.Fail(storage.OpSet, boom)
	fallback.Fail(storage.OpRemove, boom)
	fallback.Fail(storage.OpClear, boom)
	store := newStore(t, nil, fallback)

	for name, err := range map[string]error{
		storage.OpSet:    store.Set(ctx, map[string]any{ctxsearch.KeyDebug: true}),
		storage.OpRemove: store.Remove(ctx, ctxsearch.KeyDebug),
		storage.OpClear:  store.Clear(ctx),
	} {
		var storageErr *ctxsearch.StorageError
		require.ErrorAs(t, err, &storageErr, name)
		require.Equal(t, name, storageErr.Op)
		require.ErrorIs(t, err, boom)
	}
}

func TestWatchUnsupportedArea(t *testing.T) {
	store := newStore(t, nil, storage.NewMemoryArea("local"))
	err := store.Watch(context.Background())
	require.ErrorIs(t, err, storage.ErrWatchUnsupported)
}

func TestNewRequiresFallback(t *testing.T) {
	_, err := storage.New(storage.NewMemoryArea("sync"), nil)
	require.Error(t, err)
}
