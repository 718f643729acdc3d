// Package usersink forwards storage activity into a go-users activity log.
package usersink

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-ctxsearch/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// ObjectType is the object type recorded for storage areas.
const ObjectType = "ctxsearch.storage"

// Hook adapts storage events to a go-users ActivitySink. ActorID and UserID
// identify the installation writing the configuration; both may be empty or
// malformed, in which case uuid.Nil is recorded.
type Hook struct {
	Sink    usertypes.ActivitySink
	ActorID string
	UserID  string
}

// Notify forwards the event to the sink. Events without a verb or an area are
// skipped.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := h.Record(event)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record maps event onto a go-users ActivityRecord. Event metadata becomes
// record data, extended with the event id, the touched keys and, for writes,
// the keys whose values were removed.
func (h Hook) Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	event = activity.NormalizeEvent(event)
	if event.Verb == "" || event.Area == "" {
		return usertypes.ActivityRecord{}, false
	}

	data := maps.Clone(event.Metadata)
	if data == nil {
		data = map[string]any{}
	}
	data["event_id"] = event.ID
	if len(event.Keys) > 0 {
		data["keys"] = slices.Clone(event.Keys)
	}
	if removed := removedKeys(event.Changes); len(removed) > 0 {
		data["removed"] = removed
	}

	return usertypes.ActivityRecord{
		ActorID:    parseUUID(h.ActorID),
		UserID:     parseUUID(h.UserID),
		Verb:       event.Verb,
		ObjectType: ObjectType,
		ObjectID:   event.Area,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}, true
}

func removedKeys(changes map[string]activity.Change) []string {
	var out []string
	for key, change := range changes {
		if change.NewValue == nil {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
