package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type flagsFixture struct {
	Entries [][]any `json:"entries"`
	Bg      bool    `json:"bg"`
	Next    bool    `json:"next"`
	Debug   bool    `json:"debug"`
}

func flagsDecoder(extra ...DecoderOption[flagsFixture]) *Decoder[flagsFixture] {
	opts := []DecoderOption[flagsFixture]{
		WithPreHook[flagsFixture](RequireKeys("entries")),
		WithPreHook[flagsFixture](ExpandJSONString("entries")),
		WithPreHook[flagsFixture](NormalizeBools("bg", "next", "debug")),
	}
	return NewDecoder[flagsFixture](append(opts, extra...)...)
}

func TestDecoderNormalizesLooseFlags(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  flagsFixture
	}{
		{
			name:  "booleans pass through",
			input: map[string]any{"entries": "[]", "bg": true, "next": false},
			want:  flagsFixture{Entries: [][]any{}, Bg: true},
		},
		{
			name:  "strings compare case-insensitively",
			input: map[string]any{"entries": "[]", "bg": "TRUE", "next": "False", "debug": "true"},
			want:  flagsFixture{Entries: [][]any{}, Bg: true, Debug: true},
		},
		{
			name:  "null and absent are false",
			input: map[string]any{"entries": "[]", "bg": nil},
			want:  flagsFixture{Entries: [][]any{}},
		},
		{
			name:  "unknown strings are false",
			input: map[string]any{"entries": "[]", "next": "yes"},
			want:  flagsFixture{Entries: [][]any{}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := flagsDecoder().Decode(Context{Area: "local"}, tc.input)
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("decoded mismatch:\nwant: %#v\n got: %#v", tc.want, got)
			}
		})
	}
}

func TestDecoderExpandsJSONString(t *testing.T) {
	got, err := flagsDecoder().Decode(Context{Area: "sync"}, map[string]any{
		"entries": `[["-1","Google","https://g.test/?q=%s",true]]`,
	})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	want := [][]any{{"-1", "Google", "https://g.test/?q=%s", true}}
	if !reflect.DeepEqual(want, got.Entries) {
		t.Fatalf("entries mismatch:\nwant: %#v\n got: %#v", want, got.Entries)
	}
}

func TestDecoderAcceptsStructuredValue(t *testing.T) {
	got, err := flagsDecoder().Decode(Context{Area: "sync"}, map[string]any{
		"entries": []any{[]any{"a", "b", "c", false}},
	})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0][1] != "b" {
		t.Fatalf("unexpected entries: %#v", got.Entries)
	}
}

func TestDecoderMissingRequiredKey(t *testing.T) {
	_, err := flagsDecoder().Decode(Context{Area: "local"}, map[string]any{"bg": true})
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if missing.Key != "entries" {
		t.Fatalf("expected missing key entries, got %q", missing.Key)
	}
}

func TestDecoderMalformedJSONString(t *testing.T) {
	_, err := flagsDecoder().Decode(Context{Area: "local"}, map[string]any{"entries": "[[1,"})
	if err == nil {
		t.Fatalf("expected error for malformed entries")
	}
	if !strings.Contains(err.Error(), `pre-hook for area "local" failed`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecoderNilPayload(t *testing.T) {
	_, err := flagsDecoder().Decode(Context{Area: "local"}, nil)
	if err == nil || !strings.Contains(err.Error(), "payload is nil") {
		t.Fatalf("expected nil payload error, got %v", err)
	}
}

func TestDecoderPostHookAndDisallowUnknown(t *testing.T) {
	calls := 0
	decoder := flagsDecoder(
		WithPostHook[flagsFixture](func(ctx Context, v *flagsFixture) error {
			calls++
			if ctx.Area != "sync" {
				t.Fatalf("unexpected area %q", ctx.Area)
			}
			v.Debug = true
			return nil
		}),
	)
	got, err := decoder.Decode(Context{Area: "sync"}, map[string]any{"entries": "[]"})
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if calls != 1 || !got.Debug {
		t.Fatalf("expected post hook to run once and set debug, calls=%d got=%#v", calls, got)
	}

	strict := flagsDecoder(WithDisallowUnknownFields[flagsFixture]())
	if _, err := strict.Decode(Context{Area: "sync"}, map[string]any{"entries": "[]", "extra": 1}); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestDecoderCustomDecoder(t *testing.T) {
	decoder := NewDecoder[string](WithCustomDecoder[string](func(_ Context, payload map[string]any) (string, error) {
		if v, ok := payload["name"].(string); ok {
			return v, nil
		}
		return "", errors.New("name missing")
	}))
	got, err := decoder.Decode(Context{Area: "local"}, map[string]any{"name": "ok"})
	if err != nil || got != "ok" {
		t.Fatalf("unexpected custom decode result %q err=%v", got, err)
	}
	if _, err := decoder.Decode(Context{Area: "local"}, map[string]any{}); err == nil {
		t.Fatalf("expected custom decoder error")
	}
}

func TestDecoderDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"entries": "[]", "bg": "true"}
	if _, err := flagsDecoder().Decode(Context{Area: "local"}, input); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if input["bg"] != "true" || input["entries"] != "[]" {
		t.Fatalf("input payload was mutated: %#v", input)
	}
}
