package ctxsearch

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEntriesAcceptsLooseTuples(t *testing.T) {
	raw := `[[-1,"Google","https://g.test/TESTSEARCH","TRUE"],[null,"","",false],["7","Wiki","w",null]]`

	got, err := ParseEntries(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := EntryList{
		{ID: "-1", Label: "Google", Template: "https://g.test/TESTSEARCH", Enabled: true},
		{ID: "-1"},
		{ID: "7", Label: "Wiki", Template: "w"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if !got[1].IsSeparator() || got[0].IsSeparator() {
		t.Fatalf("unexpected separator detection")
	}
}

func TestParseEntriesRejectsMalformed(t *testing.T) {
	for _, raw := range []string{`null`, `{}`, `[["a","b","c"]]`, `[[{},"b","c",true]]`, `not json`} {
		if _, err := ParseEntries(raw); err == nil {
			t.Fatalf("expected error for %s", raw)
		}
	}
}

func TestEntryListString(t *testing.T) {
	list := EntryList{{Label: "A", Template: "t", Enabled: true}, {ID: "-1"}}
	if got := list.String(); got != `[["-1","A","t",true],["-1","","",false]]` {
		t.Fatalf("unexpected text form %s", got)
	}
	if got := EntryList(nil).String(); got != "[]" {
		t.Fatalf("nil list should encode as [], got %s", got)
	}
}

func TestLooseBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{in: true, want: true},
		{in: false, want: false},
		{in: "true", want: true},
		{in: " TRUE ", want: true},
		{in: "yes", want: false},
		{in: nil, want: false},
		{in: 1, want: false},
	}
	for _, tt := range tests {
		if got := LooseBool(tt.in); got != tt.want {
			t.Fatalf("LooseBool(%#v) = %t, want %t", tt.in, got, tt.want)
		}
	}
}

func TestValidateEntriesJSON(t *testing.T) {
	valid := `[["-1","A","https://a.test/TESTSEARCH",true],["-1","","",false]]`
	if err := ValidateEntriesJSON(valid); err != nil {
		t.Fatalf("expected valid list, got %v", err)
	}

	for _, raw := range []string{
		`{"a":1}`,
		`null`,
		`["x"]`,
		`[["-1","A","t"]]`,
		`[[-1,"A","t",true]]`,
		`[["-1","A","t","true"]]`,
	} {
		if err := ValidateEntriesJSON(raw); !errors.Is(err, ErrInvalidEntries) {
			t.Fatalf("ValidateEntriesJSON(%s) = %v, want ErrInvalidEntries", raw, err)
		}
	}
}

func TestCompactJSON(t *testing.T) {
	got := CompactJSON(`[ ["-1", "A", "t", true] , ["-1","","",false] ]`)
	want := "[\n    [\"-1\",\"A\",\"t\",true],\n    [\"-1\",\"\",\"\",false]\n]"
	if got != want {
		t.Fatalf("CompactJSON mismatch:\n%s\nwant:\n%s", got, want)
	}
	if got := CompactJSON("not json"); got != "not json" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestSnapshotKeyValues(t *testing.T) {
	snap := Snapshot{
		Entries:     EntryList{{ID: "-1", Label: "A", Template: "t", Enabled: true}},
		Preferences: Preferences{OpenAdjacent: true, Debug: true},
	}
	want := map[string]any{
		KeyEntries:          `[["-1","A","t",true]]`,
		KeyOpenInBackground: false,
		KeyOpenAdjacent:     true,
		KeyShowOptionsItem:  false,
		KeyDebug:            true,
	}
	if diff := cmp.Diff(want, snap.KeyValues()); diff != "" {
		t.Fatalf("key values mismatch (-want +got):\n%s", diff)
	}
}

func TestWithEntry(t *testing.T) {
	base := Snapshot{Entries: EntryList{{ID: "-1", Label: "A", Template: "a", Enabled: true}}}

	next, err := base.WithEntry(" B ", " https://b.test/%s ")
	if err != nil {
		t.Fatalf("with entry: %v", err)
	}
	if len(base.Entries) != 1 {
		t.Fatalf("original snapshot mutated")
	}
	if diff := cmp.Diff(Entry{ID: UnassignedID, Label: "B", Template: "https://b.test/%s", Enabled: true}, next.Entries[1]); diff != "" {
		t.Fatalf("appended entry mismatch (-want +got):\n%s", diff)
	}

	if _, err := base.WithEntry("", "t"); !errors.Is(err, ErrInvalidEntries) {
		t.Fatalf("expected missing label to fail, got %v", err)
	}
	if _, err := base.WithEntry("l", "  "); !errors.Is(err, ErrInvalidEntries) {
		t.Fatalf("expected missing template to fail, got %v", err)
	}
}

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot()
	if len(snap.Entries) != 12 {
		t.Fatalf("expected 12 default entries, got %d", len(snap.Entries))
	}
	separators := 0
	for i, entry := range snap.Entries {
		if entry.ID != UnassignedID || !entry.Enabled {
			t.Fatalf("default entry %d should be enabled and unassigned: %+v", i, entry)
		}
		if entry.IsSeparator() {
			separators++
			continue
		}
		if !strings.Contains(entry.Template, "TESTSEARCH") {
			t.Fatalf("default entry %d has no search marker: %s", i, entry.Template)
		}
	}
	if separators != 2 {
		t.Fatalf("expected 2 separators, got %d", separators)
	}
	if snap.Preferences != (Preferences{}) {
		t.Fatalf("expected every preference off, got %+v", snap.Preferences)
	}
}

func TestCatalog(t *testing.T) {
	engines := Catalog()
	seen := map[string]bool{}
	lastCategory := ""
	categories := map[string]bool{}
	for _, engine := range engines {
		if engine.Name == "" || engine.Category == "" || !strings.Contains(engine.Template, "TESTSEARCH") {
			t.Fatalf("incomplete catalog engine %+v", engine)
		}
		if seen[engine.Name] {
			t.Fatalf("duplicate catalog engine %q", engine.Name)
		}
		seen[engine.Name] = true
		if engine.Category != lastCategory {
			if categories[engine.Category] {
				t.Fatalf("category %q is not contiguous", engine.Category)
			}
			categories[engine.Category] = true
			lastCategory = engine.Category
		}
	}
}

func TestSnapshotClone(t *testing.T) {
	snap := DefaultSnapshot()
	clone := snap.Clone()
	clone.Entries[0].Label = "changed"
	if snap.Entries[0].Label == "changed" {
		t.Fatalf("clone shares entries")
	}
}

func TestTabValid(t *testing.T) {
	var missing *Tab
	if missing.Valid() {
		t.Fatalf("nil tab is not valid")
	}
	if (&Tab{ID: TabIDNone}).Valid() {
		t.Fatalf("TabIDNone is not valid")
	}
	if !(&Tab{ID: 0}).Valid() {
		t.Fatalf("tab 0 is valid")
	}
}
