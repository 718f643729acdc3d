package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	ctxsearch "github.com/goliatone/go-ctxsearch"
	"github.com/goliatone/go-ctxsearch/internal/hydrate"
	"github.com/goliatone/go-ctxsearch/pkg/activity"
	"go.uber.org/zap"
)

var flagKeys = []string{
	ctxsearch.KeyOpenInBackground,
	ctxsearch.KeyOpenAdjacent,
	ctxsearch.KeyShowOptionsItem,
	ctxsearch.KeyDebug,
}

// ChangeHandler receives every storage event: writes, removals, clears,
// migrations and external modifications.
type ChangeHandler func(ctx context.Context, event activity.Event)

// Store is the configuration store over a durable and a fallback area. The
// durable area is probed once; whichever tier wins is used for every read
// and write for the lifetime of the Store.
type Store struct {
	durable  Area
	fallback Area

	logger   *zap.Logger
	emitter  *activity.Emitter
	now      func() time.Time
	defaults func() ctxsearch.Snapshot

	tierOnce sync.Once
	tier     Tier

	snapshots   *hydrate.Decoder[ctxsearch.Snapshot]
	preferences *hydrate.Decoder[ctxsearch.Preferences]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivityHooks subscribes hooks to every storage event in addition to
// OnChange handlers.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(s *Store) {
		for _, hook := range hooks {
			s.emitter.Subscribe(hook)
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaults overrides the snapshot written when both tiers are empty.
func WithDefaults(defaults func() ctxsearch.Snapshot) Option {
	return func(s *Store) {
		if defaults != nil {
			s.defaults = defaults
		}
	}
}

// New builds a Store. durable may be nil; fallback is required.
func New(durable, fallback Area, opts ...Option) (*Store, error) {
	if fallback == nil {
		return nil, errors.New("storage: fallback area is required")
	}
	s := &Store{
		durable:  durable,
		fallback: fallback,
		logger:   zap.NewNop(),
		emitter:  activity.NewEmitter(nil, activity.Config{Enabled: true}),
		now:      time.Now,
		defaults: ctxsearch.DefaultSnapshot,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.snapshots = hydrate.NewDecoder[ctxsearch.Snapshot](
		hydrate.WithPreHook[ctxsearch.Snapshot](hydrate.RequireKeys(ctxsearch.KeyEntries)),
		hydrate.WithPreHook[ctxsearch.Snapshot](hydrate.ExpandJSONString(ctxsearch.KeyEntries)),
		hydrate.WithPreHook[ctxsearch.Snapshot](hydrate.NormalizeBools(flagKeys...)),
		hydrate.WithPostHook[ctxsearch.Snapshot](func(_ hydrate.Context, snap *ctxsearch.Snapshot) error {
			if snap.Entries == nil {
				return fmt.Errorf("%w: entry list is null", ctxsearch.ErrInvalidEntries)
			}
			return nil
		}),
	)
	s.preferences = hydrate.NewDecoder[ctxsearch.Preferences](
		hydrate.WithPreHook[ctxsearch.Preferences](hydrate.NormalizeBools(flagKeys...)),
	)
	return s, nil
}

// ResolveTier probes the durable area on first use and caches the answer.
func (s *Store) ResolveTier() Tier {
	s.tierOnce.Do(func() {
		s.tier = TierFallback
		if s.durable == nil {
			return
		}
		if prober, ok := s.durable.(Prober); ok {
			if err := prober.Probe(context.Background()); err != nil {
				s.logger.Info("durable storage unavailable", zap.String("area", s.durable.Name()), zap.Error(err))
				return
			}
		}
		s.tier = TierDurable
	})
	return s.tier
}

// Tier is an alias of ResolveTier for display purposes.
func (s *Store) Tier() Tier { return s.ResolveTier() }

// Primary returns the area selected by ResolveTier.
func (s *Store) Primary() Area {
	if s.ResolveTier() == TierDurable {
		return s.durable
	}
	return s.fallback
}

// Initialize reconciles the two tiers once at start. When the primary tier
// already holds data the fallback is cleared without merging. Otherwise
// fallback data is copied into the primary tier and then cleared. When both
// are empty the default snapshot is written.
func (s *Store) Initialize(ctx context.Context) error {
	primary := s.Primary()
	log := s.logger.With(zap.String("tier", s.ResolveTier().String()), zap.String("area", primary.Name()))

	primaryData, err := primary.Get(ctx)
	if err != nil {
		return ctxsearch.WrapStorage(OpGet, primary.Name(), "", err)
	}

	if s.ResolveTier() == TierFallback {
		if len(primaryData) > 0 {
			log.Debug("storage initialized from existing data")
			return nil
		}
		return s.writeDefaults(ctx, primary, log)
	}

	if len(primaryData) > 0 {
		log.Debug("durable tier has data, clearing fallback")
		if err := s.clearArea(ctx, s.fallback); err != nil {
			log.Error("clearing fallback failed", zap.Error(err))
			return err
		}
		return nil
	}

	fallbackData, err := s.fallback.Get(ctx)
	if err != nil {
		return ctxsearch.WrapStorage(OpGet, s.fallback.Name(), "", err)
	}
	if len(fallbackData) == 0 {
		return s.writeDefaults(ctx, primary, log)
	}

	if err := s.setArea(ctx, primary, fallbackData); err != nil {
		log.Error("migrating fallback data failed, fallback left untouched", zap.Error(err))
		return err
	}
	s.emit(ctx, activity.BuildMigratedEvent(s.fallback.Name(), primary.Name(), keysOf(fallbackData), s.now()))
	log.Info("migrated fallback data", zap.Int("keys", len(fallbackData)))

	if err := s.clearArea(ctx, s.fallback); err != nil {
		log.Error("clearing fallback after migration failed, duplicates remain", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) writeDefaults(ctx context.Context, area Area, log *zap.Logger) error {
	values := s.defaults().KeyValues()
	if err := s.setArea(ctx, area, values); err != nil {
		log.Error("writing defaults failed", zap.Error(err))
		return err
	}
	s.emit(ctx, activity.Event{
		Verb:       activity.VerbDefaults,
		Area:       area.Name(),
		Keys:       keysOf(values),
		OccurredAt: s.now(),
	})
	log.Info("wrote default configuration")
	return nil
}

// Get reads keys from the primary tier; no keys reads everything.
func (s *Store) Get(ctx context.Context, keys ...string) (map[string]any, error) {
	area := s.Primary()
	values, err := area.Get(ctx, keys...)
	if err != nil {
		return nil, ctxsearch.WrapStorage(OpGet, area.Name(), firstKey(keys), err)
	}
	return values, nil
}

// GetAll reads every pair from the primary tier.
func (s *Store) GetAll(ctx context.Context) (map[string]any, error) {
	return s.Get(ctx)
}

// Set writes values to the primary tier.
func (s *Store) Set(ctx context.Context, values map[string]any) error {
	return s.setArea(ctx, s.Primary(), values)
}

// Remove deletes keys from the primary tier.
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	area := s.Primary()
	previous, _ := area.Get(ctx, keys...)
	if err := area.Remove(ctx, keys...); err != nil {
		return ctxsearch.WrapStorage(OpRemove, area.Name(), firstKey(keys), err)
	}
	if len(previous) == 0 {
		return nil
	}
	changes := make(map[string]activity.Change, len(previous))
	for key, value := range previous {
		changes[key] = activity.Change{OldValue: value}
	}
	s.emit(ctx, activity.BuildChangedEvent(area.Name(), changes, s.now()))
	return nil
}

// Clear removes every pair from the primary tier.
func (s *Store) Clear(ctx context.Context) error {
	return s.clearArea(ctx, s.Primary())
}

// OnChange subscribes handler to every storage event and returns a function
// that unsubscribes it.
func (s *Store) OnChange(handler ChangeHandler) (cancel func()) {
	if handler == nil {
		return func() {}
	}
	return s.emitter.Subscribe(activity.HookFunc(func(ctx context.Context, event activity.Event) error {
		handler(ctx, event)
		return nil
	}))
}

// Watch starts observing the primary tier for writes made by other processes.
// Areas that cannot be watched are reported with ErrWatchUnsupported.
func (s *Store) Watch(ctx context.Context) error {
	area := s.Primary()
	watcher, ok := area.(Watcher)
	if !ok {
		return ctxsearch.WrapStorage(OpWatch, area.Name(), "", ErrWatchUnsupported)
	}
	err := watcher.Watch(ctx, func() {
		s.emit(ctx, activity.BuildExternalEvent(area.Name(), pathOf(area), s.now()))
	})
	if err != nil {
		return ctxsearch.WrapStorage(OpWatch, area.Name(), "", err)
	}
	return nil
}

// ErrWatchUnsupported reports an area that cannot observe external writes.
var ErrWatchUnsupported = errors.New("storage: area does not support watching")

// LoadSnapshot reads and decodes the full configuration. A missing or
// malformed entry list yields *ctxsearch.ConfigParseError.
func (s *Store) LoadSnapshot(ctx context.Context) (ctxsearch.Snapshot, error) {
	values, err := s.GetAll(ctx)
	if err != nil {
		return ctxsearch.Snapshot{}, err
	}
	snap, err := s.snapshots.Decode(hydrate.Context{Area: s.Primary().Name(), Keys: ctxsearch.Keys}, values)
	if err != nil {
		var missing *hydrate.MissingKeyError
		if errors.As(err, &missing) {
			err = fmt.Errorf("%w: %v", ctxsearch.ErrSnapshotMissing, err)
		}
		return ctxsearch.Snapshot{}, &ctxsearch.ConfigParseError{Key: ctxsearch.KeyEntries, Err: err}
	}
	return snap, nil
}

// LoadPreferences reads only the four flags, normalized to booleans.
func (s *Store) LoadPreferences(ctx context.Context) (ctxsearch.Preferences, error) {
	values, err := s.Get(ctx, flagKeys...)
	if err != nil {
		return ctxsearch.Preferences{}, err
	}
	prefs, err := s.preferences.Decode(hydrate.Context{Area: s.Primary().Name(), Keys: flagKeys}, values)
	if err != nil {
		return ctxsearch.Preferences{}, &ctxsearch.ConfigParseError{Key: "preferences", Err: err}
	}
	return prefs, nil
}

// SaveSnapshot replaces the stored configuration.
func (s *Store) SaveSnapshot(ctx context.Context, snap ctxsearch.Snapshot) error {
	return s.Set(ctx, snap.KeyValues())
}

// SavePreferences writes the four flags.
func (s *Store) SavePreferences(ctx context.Context, prefs ctxsearch.Preferences) error {
	return s.Set(ctx, map[string]any{
		ctxsearch.KeyOpenInBackground: prefs.OpenInBackground,
		ctxsearch.KeyOpenAdjacent:     prefs.OpenAdjacent,
		ctxsearch.KeyShowOptionsItem:  prefs.ShowOptionsItem,
		ctxsearch.KeyDebug:            prefs.Debug,
	})
}

func (s *Store) setArea(ctx context.Context, area Area, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	keys := keysOf(values)
	previous, _ := area.Get(ctx, keys...)
	if err := area.Set(ctx, values); err != nil {
		return ctxsearch.WrapStorage(OpSet, area.Name(), firstKey(keys), err)
	}
	changes := make(map[string]activity.Change, len(values))
	for key, value := range values {
		changes[key] = activity.Change{OldValue: previous[key], NewValue: value}
	}
	s.emit(ctx, activity.BuildChangedEvent(area.Name(), changes, s.now()))
	return nil
}

func (s *Store) clearArea(ctx context.Context, area Area) error {
	previous, _ := area.Get(ctx)
	if err := area.Clear(ctx); err != nil {
		return ctxsearch.WrapStorage(OpClear, area.Name(), "", err)
	}
	if len(previous) > 0 {
		s.emit(ctx, activity.BuildClearedEvent(area.Name(), previous, s.now()))
	}
	return nil
}

func (s *Store) emit(ctx context.Context, event activity.Event) {
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Warn("storage activity hook failed", zap.String("verb", event.Verb), zap.Error(err))
	}
}

func keysOf(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func firstKey(keys []string) string {
	if len(keys) == 1 {
		return keys[0]
	}
	return ""
}

func pathOf(area Area) string {
	if located, ok := area.(interface{ Path() string }); ok {
		return located.Path()
	}
	return ""
}
