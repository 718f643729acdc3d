// Package query evaluates expressions over the stored configuration with
// expr, CEL or (behind the js_eval build tag) JavaScript.
//
// Every engine sees the same bindings:
//
//	entries   every entry as {index, id, label, template, enabled, separator}
//	enabled   the enabled entries only
//	prefs     {background, adjacent, options, debug}
//	selection the text passed in Context.Selection
//	area      the storage area the snapshot was read from
//	now, args
//
// and the functions render(template, text), encode(text) and targets(id).
package query

import (
	"time"

	ctxsearch "github.com/goliatone/go-ctxsearch"
)

// Context carries the inputs of one evaluation.
type Context struct {
	Snapshot  ctxsearch.Snapshot
	Selection string
	Area      string
	Now       *time.Time
	Args      map[string]any
}

func (ctx Context) withDefaults() Context {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx Context) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

func (ctx Context) areaLabel() string {
	if ctx.Area != "" {
		return ctx.Area
	}
	return "unknown"
}

// bindings flattens the snapshot into plain maps and slices every engine can
// read.
func (ctx Context) bindings() map[string]any {
	ctx = ctx.withDefaults()
	entries := make([]any, 0, len(ctx.Snapshot.Entries))
	enabled := make([]any, 0, len(ctx.Snapshot.Entries))
	for i, entry := range ctx.Snapshot.Entries {
		binding := map[string]any{
			"index":     i,
			"id":        entry.ID,
			"label":     entry.Label,
			"template":  entry.Template,
			"enabled":   entry.Enabled,
			"separator": entry.IsSeparator(),
		}
		entries = append(entries, binding)
		if entry.Enabled {
			enabled = append(enabled, binding)
		}
	}
	prefs := ctx.Snapshot.Preferences
	return map[string]any{
		"entries": entries,
		"enabled": enabled,
		"prefs": map[string]any{
			"background": prefs.OpenInBackground,
			"adjacent":   prefs.OpenAdjacent,
			"options":    prefs.ShowOptionsItem,
			"debug":      prefs.Debug,
		},
		"selection": ctx.Selection,
		"area":      ctx.Area,
		"now":       ctx.timestamp(),
		"args":      ctx.Args,
	}
}
