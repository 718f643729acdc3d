// Package hydrate decodes flat stored key/value payloads into typed structs.
//
// A Decoder runs in three stages: pre-hooks rewrite a private copy of the
// payload, the payload is decoded into T, and post-hooks validate the result.
// Every failure is a *DecodeError naming the stage and the storage area.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies where a payload was read from.
type Context struct {
	Area string
	Keys []string
}

// PreHook rewrites the payload before decoding. Returning a nil map keeps the
// current payload.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook validates or adjusts the decoded value.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces JSON decoding for T.
type CustomDecoder[T any] func(Context, map[string]any) (T, error)

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Stage names the step of a decode that failed.
type Stage string

const (
	StageInput  Stage = "input"
	StagePre    Stage = "pre-hook"
	StageDecode Stage = "decode"
	StagePost   Stage = "post-hook"
)

// DecodeError reports a failed decode.
type DecodeError struct {
	Stage Stage
	Area  string
	Err   error
}

func (e *DecodeError) Error() string {
	switch e.Stage {
	case StageInput:
		return fmt.Sprintf("hydrate: payload is nil for area %q", e.Area)
	case StageDecode:
		return fmt.Sprintf("hydrate: decode area %q: %v", e.Area, e.Err)
	default:
		return fmt.Sprintf("hydrate: %s for area %q failed: %v", e.Stage, e.Area, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder turns stored payloads into T.
type Decoder[T any] struct {
	pre    []PreHook
	post   []PostHook[T]
	strict bool
	custom CustomDecoder[T]
}

// WithPreHook appends a payload rewrite.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.pre = append(d.pre, hook)
		}
	}
}

// WithPostHook appends a check on the decoded value.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.post = append(d.post, hook)
		}
	}
}

// WithDisallowUnknownFields rejects payload keys that T does not declare.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

// WithCustomDecoder replaces JSON decoding.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode runs the pipeline over a copy of payload; the caller's map is never
// modified.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, &DecodeError{Stage: StageInput, Area: ctx.Area}
	}

	current := cloneMap(payload)
	for _, hook := range d.pre {
		next, err := hook(ctx, current)
		if err != nil {
			return zero, &DecodeError{Stage: StagePre, Area: ctx.Area, Err: err}
		}
		if next != nil {
			current = next
		}
	}

	result, err := d.decode(ctx, current)
	if err != nil {
		return zero, &DecodeError{Stage: StageDecode, Area: ctx.Area, Err: err}
	}

	for _, hook := range d.post {
		if err := hook(ctx, &result); err != nil {
			return zero, &DecodeError{Stage: StagePost, Area: ctx.Area, Err: err}
		}
	}
	return result, nil
}

func (d *Decoder[T]) decode(ctx Context, payload map[string]any) (T, error) {
	if d.custom != nil {
		return d.custom(ctx, payload)
	}
	var out T
	raw, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	err = dec.Decode(&out)
	return out, err
}

// cloneMap copies nested maps and slices so hooks may rewrite in place.
func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
