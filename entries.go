package ctxsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EntryList is the ordered entry sequence persisted under KeyEntries.
type EntryList []Entry

// MarshalJSON encodes the entry as a [identifier, label, template, enabled]
// tuple.
func (e Entry) MarshalJSON() ([]byte, error) {
	id := e.ID
	if id == "" {
		id = UnassignedID
	}
	return json.Marshal([]any{id, e.Label, e.Template, e.Enabled})
}

// UnmarshalJSON decodes a 4-element tuple. Numeric identifiers are accepted
// and the enabled flag may be a loose boolean.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("entry is not an array: %w", err)
	}
	if len(tuple) != 4 {
		return fmt.Errorf("entry has %d elements, want 4", len(tuple))
	}

	var id any
	if err := json.Unmarshal(tuple[0], &id); err != nil {
		return fmt.Errorf("entry identifier: %w", err)
	}
	switch v := id.(type) {
	case string:
		e.ID = v
	case float64:
		e.ID = strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		e.ID = UnassignedID
	default:
		return fmt.Errorf("entry identifier has type %T", id)
	}
	if err := json.Unmarshal(tuple[1], &e.Label); err != nil {
		return fmt.Errorf("entry label: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &e.Template); err != nil {
		return fmt.Errorf("entry template: %w", err)
	}
	var enabled any
	if err := json.Unmarshal(tuple[3], &enabled); err != nil {
		return fmt.Errorf("entry enabled flag: %w", err)
	}
	e.Enabled = LooseBool(enabled)
	return nil
}

// ParseEntries decodes the stored text form of an entry list.
func ParseEntries(raw string) (EntryList, error) {
	var entries EntryList
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		return nil, fmt.Errorf("entry list is null")
	}
	return entries, nil
}

// String renders the stored text form of the list.
func (l EntryList) String() string {
	if l == nil {
		l = EntryList{}
	}
	data, err := json.Marshal([]Entry(l))
	if err != nil {
		return "[]"
	}
	return string(data)
}

// LooseBool normalizes a stored flag. Booleans pass through, strings compare
// case-insensitively against "true", and anything else (including nil) is
// false.
func LooseBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	case nil:
		return false
	default:
		return strings.EqualFold(fmt.Sprint(v), "true")
	}
}

// KeyValues returns the flat key/value form the snapshot is persisted as.
func (s Snapshot) KeyValues() map[string]any {
	return map[string]any{
		KeyEntries:          s.Entries.String(),
		KeyOpenInBackground: s.OpenInBackground,
		KeyOpenAdjacent:     s.OpenAdjacent,
		KeyShowOptionsItem:  s.ShowOptionsItem,
		KeyDebug:            s.Debug,
	}
}

// ValidateEntriesJSON checks an imported entry list: a JSON array of
// 4-element arrays typed string, string, string, boolean.
func ValidateEntriesJSON(raw string) error {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntries, err)
	}
	if items == nil {
		return fmt.Errorf("%w: not an array", ErrInvalidEntries)
	}
	for i, item := range items {
		var tuple []any
		if err := json.Unmarshal(item, &tuple); err != nil {
			return fmt.Errorf("%w: item %d is not an array", ErrInvalidEntries, i)
		}
		if len(tuple) != 4 {
			return fmt.Errorf("%w: item %d has %d elements", ErrInvalidEntries, i, len(tuple))
		}
		for j := 0; j < 3; j++ {
			if _, ok := tuple[j].(string); !ok {
				return fmt.Errorf("%w: item %d element %d is not a string", ErrInvalidEntries, i, j)
			}
		}
		if _, ok := tuple[3].(bool); !ok {
			return fmt.Errorf("%w: item %d element 3 is not a boolean", ErrInvalidEntries, i)
		}
	}
	return nil
}

// CompactJSON reformats an entry list with one entry per line. Input that is
// not a JSON array is returned unchanged.
func CompactJSON(raw string) string {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return raw
	}
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, item := range items {
		var compact bytes.Buffer
		if err := json.Compact(&compact, item); err != nil {
			return raw
		}
		buf.WriteString("    ")
		buf.Write(compact.Bytes())
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]")
	return buf.String()
}

// WithEntry returns a copy of the snapshot with a new enabled entry appended.
// Both label and template are required.
func (s Snapshot) WithEntry(label, template string) (Snapshot, error) {
	label = strings.TrimSpace(label)
	template = strings.TrimSpace(template)
	if label == "" || template == "" {
		return s, fmt.Errorf("%w: label and template are required", ErrInvalidEntries)
	}
	out := s.Clone()
	out.Entries = append(out.Entries, Entry{ID: UnassignedID, Label: label, Template: template, Enabled: true})
	return out, nil
}
