package hydrate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeBools rewrites each key to a strict boolean. Booleans pass
// through, strings compare case-insensitively against "true", anything else
// (absent and null included) becomes false.
func NormalizeBools(keys ...string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		for _, key := range keys {
			switch v := payload[key].(type) {
			case bool:
			case string:
				payload[key] = strings.EqualFold(strings.TrimSpace(v), "true")
			default:
				payload[key] = false
			}
		}
		return payload, nil
	}
}

// ExpandJSONString replaces a string value holding JSON text with the decoded
// value. Values that are already structured are left alone.
func ExpandJSONString(key string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		raw, ok := payload[key].(string)
		if !ok {
			return payload, nil
		}
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		payload[key] = decoded
		return payload, nil
	}
}

// RequireKeys fails when any key is absent or null.
func RequireKeys(keys ...string) PreHook {
	return func(_ Context, payload map[string]any) (map[string]any, error) {
		for _, key := range keys {
			if payload[key] == nil {
				return nil, &MissingKeyError{Key: key}
			}
		}
		return payload, nil
	}
}

// MissingKeyError reports a required key that is not stored.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.Key)
}
