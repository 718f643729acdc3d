package ctxsearch

// Storage keys shared by the store, the menu builder and the dispatcher.
const (
	KeyEntries          = "_allSearch"
	KeyOpenInBackground = "_askBg"
	KeyOpenAdjacent     = "_askNext"
	KeyShowOptionsItem  = "_askOptions"
	KeyDebug            = "_askDebug"
)

// Keys lists every key a Snapshot is persisted under.
var Keys = []string{
	KeyEntries,
	KeyOpenInBackground,
	KeyOpenAdjacent,
	KeyShowOptionsItem,
	KeyDebug,
}

// UnassignedID is the identifier persisted for entries that have not been
// materialized into a menu.
const UnassignedID = "-1"

// Entry is one configured menu line. A separator is an Entry whose Label and
// Template are both empty.
type Entry struct {
	ID       string
	Label    string
	Template string
	Enabled  bool
}

// IsSeparator reports whether the entry renders as a separator.
func (e Entry) IsSeparator() bool {
	return e.Label == "" && e.Template == ""
}

// Preferences holds the four boolean settings persisted next to the entries.
// Loose values ("true", "FALSE", null) are normalized when read from storage.
type Preferences struct {
	OpenInBackground bool `json:"_askBg"`
	OpenAdjacent     bool `json:"_askNext"`
	ShowOptionsItem  bool `json:"_askOptions"`
	Debug            bool `json:"_askDebug"`
}

// Snapshot is the full persisted configuration. It is loaded and replaced
// wholesale; consumers treat it as read-only.
type Snapshot struct {
	Entries EntryList `json:"_allSearch"`
	Preferences
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Entries != nil {
		out.Entries = append(EntryList{}, s.Entries...)
	}
	return out
}

// Enabled returns the entries that produce menu items, in display order.
func (s Snapshot) Enabled() []Entry {
	out := make([]Entry, 0, len(s.Entries))
	for _, entry := range s.Entries {
		if entry.Enabled {
			out = append(out, entry)
		}
	}
	return out
}

// FindByLabel returns the first entry whose label matches exactly.
func (s Snapshot) FindByLabel(label string) (Entry, bool) {
	for _, entry := range s.Entries {
		if !entry.IsSeparator() && entry.Label == label {
			return entry, true
		}
	}
	return Entry{}, false
}
