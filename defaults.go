package ctxsearch

// DefaultEntries returns the entry list written when both storage tiers are
// empty.
func DefaultEntries() EntryList {
	return EntryList{
		{ID: UnassignedID, Label: "Google", Template: "http://www.google.com/search?q=TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Label: "DuckDuckGo", Template: "https://duckduckgo.com/?q=TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Label: "Maps", Template: "https://www.google.com/maps/search/TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Label: "YouTube", Template: "http://www.youtube.com/results?search_query=TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Enabled: true},
		{ID: UnassignedID, Label: "E-bay US", Template: "http://shop.ebay.com/?_nkw=TESTSEARCH&_sacat=See-All-Categories", Enabled: true},
		{ID: UnassignedID, Label: "Amazon US", Template: "http://www.amazon.com/s/ref=nb_sb_noss?url=search-alias%3Daps&field-keywords=TESTSEARCH&x=0&y=0", Enabled: true},
		{ID: UnassignedID, Label: "Steam", Template: "https://store.steampowered.com/search/?term=TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Enabled: true},
		{ID: UnassignedID, Label: "GitHub", Template: "https://github.com/search?q=TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Label: "IMDB", Template: "http://www.imdb.com/find?s=all&q=TESTSEARCH", Enabled: true},
		{ID: UnassignedID, Label: "Wikipedia EN", Template: "http://en.wikipedia.org/w/index.php?title=Special:Search&search=TESTSEARCH", Enabled: true},
	}
}

// DefaultSnapshot returns the built-in configuration with every preference off.
func DefaultSnapshot() Snapshot {
	return Snapshot{Entries: DefaultEntries()}
}
