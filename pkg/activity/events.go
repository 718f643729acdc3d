package activity

import (
	"sort"
	"time"
)

// Event verbs.
const (
	VerbChanged  = "storage.changed"
	VerbCleared  = "storage.cleared"
	VerbMigrated = "storage.migrated"
	VerbDefaults = "storage.defaults"
	VerbExternal = "storage.external"
)

// BuildChangedEvent describes a write or removal on area.
func BuildChangedEvent(area string, changes map[string]Change, at time.Time) Event {
	return Event{
		Verb:       VerbChanged,
		Area:       area,
		Keys:       sortedKeys(changes),
		Changes:    changes,
		OccurredAt: at,
	}
}

// BuildClearedEvent describes a clear of area; previous holds the removed
// values.
func BuildClearedEvent(area string, previous map[string]any, at time.Time) Event {
	changes := make(map[string]Change, len(previous))
	for key, value := range previous {
		changes[key] = Change{OldValue: value}
	}
	return Event{
		Verb:       VerbCleared,
		Area:       area,
		Keys:       sortedKeys(changes),
		Changes:    changes,
		OccurredAt: at,
	}
}

// BuildMigratedEvent records a copy of keys from one area into another.
func BuildMigratedEvent(from, to string, keys []string, at time.Time) Event {
	sorted := append([]string{}, keys...)
	sort.Strings(sorted)
	return Event{
		Verb:       VerbMigrated,
		Area:       to,
		Keys:       sorted,
		Metadata:   map[string]any{"from": from, "to": to},
		OccurredAt: at,
	}
}

// BuildExternalEvent records a modification made by another process.
func BuildExternalEvent(area, path string, at time.Time) Event {
	return Event{
		Verb:       VerbExternal,
		Area:       area,
		Metadata:   map[string]any{"path": path},
		OccurredAt: at,
	}
}

func sortedKeys(changes map[string]Change) []string {
	if len(changes) == 0 {
		return nil
	}
	keys := make([]string, 0, len(changes))
	for key := range changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
