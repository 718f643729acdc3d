package ctxsearch

// CatalogEngine is one built-in search target users can add to their list.
type CatalogEngine struct {
	Category string
	Name     string
	Template string
}

// Catalog returns the built-in engines grouped by category, in display order.
func Catalog() []CatalogEngine {
	return []CatalogEngine{
		{Category: "Web search", Name: "Google", Template: "http://www.google.com/search?q=TESTSEARCH"},
		{Category: "Web search", Name: "Ask", Template: "http://www.ask.com/web?q=TESTSEARCH"},
		{Category: "Web search", Name: "Bing Search", Template: "http://www.bing.com/search?q=TESTSEARCH"},
		{Category: "Web search", Name: "DuckDuckGo", Template: "https://duckduckgo.com/?q=TESTSEARCH"},
		{Category: "Web search", Name: "Startpage", Template: "https://www.startpage.com/sp/search?q=TESTSEARCH"},
		{Category: "Web search", Name: "Ecosia", Template: "https://www.ecosia.org/search?q=TESTSEARCH"},
		{Category: "Web search", Name: "Yahoo! Japan", Template: "http://search.yahoo.co.jp/search?p=TESTSEARCH"},
		{Category: "Web search", Name: "Yahoo! Search", Template: "http://search.yahoo.com/search?p=TESTSEARCH"},
		{Category: "Web search", Name: "Dogpile", Template: "http://www.dogpile.com/dogpile/ws/results/Web/TESTSEARCH/1/417/TopNavigation/Relevance/iq=true/zoom=off/_iceUrlFlag=7?_IceUrl=true"},
		{Category: "Web search", Name: "Metacrawler", Template: "http://www.metacrawler.com/metacrawler/ws/results/Web/TESTSEARCH/1/417/TopNavigation/Relevance/iq=true/zoom=off/_iceUrlFlag=7?_IceUrl=true"},
		{Category: "Web search", Name: "Wolfram Alpha", Template: "http://www.wolframalpha.com/input/?i=TESTSEARCH"},
		{Category: "Web search", Name: "Reddit", Template: "http://www.google.com/search?q=site:reddit.com+TESTSEARCH"},
		{Category: "Music & Movies", Name: "Spotify", Template: "https://open.spotify.com/search/TESTSEARCH"},
		{Category: "Music & Movies", Name: "Pandora", Template: "http://www.pandora.com/search/TESTSEARCH"},
		{Category: "Music & Movies", Name: "iTunes", Template: "http://itunes.apple.com/us/album/TESTSEARCH"},
		{Category: "Music & Movies", Name: "Last.fm", Template: "http://www.last.fm/search?q=TESTSEARCH"},
		{Category: "Music & Movies", Name: "Yahoo! Music", Template: "http://new.music.yahoo.com/search/?p=TESTSEARCH"},
		{Category: "Music & Movies", Name: "YouTube Music", Template: "https://music.youtube.com/search?q=TESTSEARCH"},
		{Category: "Music & Movies", Name: "Google Play Music", Template: "https://play.google.com/store/search?q=TESTSEARCH"},
		{Category: "Music & Movies", Name: "MTV", Template: "http://www.mtv.com/search/?q=TESTSEARCH"},
		{Category: "Music & Movies", Name: "IMDb", Template: "http://www.imdb.com/find?s=all&q=TESTSEARCH"},
		{Category: "Music & Movies", Name: "Rotten Tomatoes", Template: "http://www.rottentomatoes.com/search/full_search.php?search=TESTSEARCH"},
		{Category: "Shopping", Name: "E-bay US", Template: "http://shop.ebay.com/?_nkw=TESTSEARCH&_sacat=See-All-Categories"},
		{Category: "Shopping", Name: "Amazon US", Template: "http://www.amazon.com/s/ref=nb_sb_noss?url=search-alias%3Daps&field-keywords=TESTSEARCH&x=0&y=0"},
		{Category: "Shopping", Name: "Walmart", Template: "https://www.walmart.com/search?q=TESTSEARCH"},
		{Category: "Shopping", Name: "Target", Template: "https://www.target.com/s?searchTerm=TESTSEARCH"},
		{Category: "Shopping", Name: "Best Buy", Template: "http://www.bestbuy.com/site/searchpage.jsp?_dyncharset=ISO-8859-1&_dynSessConf=-3947329785467320985&id=pcat17071&type=page&st=TESTSEARCH&sc=Global&cp=1&nrp=15&sp=&qp=&list=n&iht=y&usc=All+Categories&ks=960"},
		{Category: "Shopping", Name: "Newegg", Template: "http://www.newegg.com/Product/ProductList.aspx?Submit=ENE&DEPA=0&Order=BESTMATCH&Description=TESTSEARCH"},
		{Category: "Shopping", Name: "Craigslist", Template: "http://www.google.com/search?q=site:craigslist.org+TESTSEARCH"},
		{Category: "Shopping", Name: "Lowes", Template: "https://www.lowes.com/search?searchTerm=TESTSEARCH"},
		{Category: "Shopping", Name: "Home Depot", Template: "https://www.homedepot.com/s/TESTSEARCH"},
		{Category: "Shopping", Name: "Google Products", Template: "http://www.google.com/products?q=TESTSEARCH&aq=f"},
		{Category: "Shopping", Name: "Bing Shopping", Template: "http://www.bing.com/shopping/search?q=TESTSEARCH&go=&form=QBRE"},
		{Category: "Shopping", Name: "Yahoo Shopping", Template: "http://search.yahoo.com/search?vc=&p=TESTSEARCH"},
		{Category: "Social Search", Name: "Facebook", Template: "http://www.facebook.com/#!/search/?q=TESTSEARCH"},
		{Category: "Social Search", Name: "X/Twitter", Template: "https://x.com/search?q=TESTSEARCH&src=typed_query"},
		{Category: "Social Search", Name: "Bluesky", Template: "https://bsky.app/search?q=TESTSEARCH"},
		{Category: "Social Search", Name: "Instagram", Template: "http://instagram.com/TESTSEARCH"},
		{Category: "Social Search", Name: "Tumblr", Template: "http://www.tumblr.com/search/TESTSEARCH"},
		{Category: "Social Search", Name: "Google Groups", Template: "http://groups.google.com/groups/search?q=TESTSEARCH"},
		{Category: "Social Search", Name: "Pinterest", Template: "http://pinterest.com/search/?q=TESTSEARCH"},
		{Category: "Social Search", Name: "Myspace", Template: "http://searchservice.myspace.com/index.cfm?fuseaction=sitesearch.results&orig=search_Header&origpfc=FriendFinder&type=AllMySpace&qry=TESTSEARCH&submit=Search"},
		{Category: "Image search", Name: "Google Images", Template: "http://www.google.com/images?q=TESTSEARCH"},
		{Category: "Image search", Name: "Bing Images", Template: "http://www.bing.com/images/search?q=TESTSEARCH"},
		{Category: "Image search", Name: "Imgur", Template: "http://imgur.com/search?q=TESTSEARCH"},
		{Category: "Image search", Name: "flickr", Template: "http://www.flickr.com/search/?q=TESTSEARCH&w=all"},
		{Category: "Image search", Name: "500px", Template: "https://500px.com/search?q=TESTSEARCH"},
		{Category: "Image search", Name: "deviantART", Template: "http://www.deviantart.com/?q=TESTSEARCH"},
		{Category: "News", Name: "Google News", Template: "http://news.google.com/news/search?q=TESTSEARCH"},
		{Category: "News", Name: "Bing News", Template: "http://www.bing.com/news/search?q=TESTSEARCH&go=&form=QBLH&scope=news&filt=all&qs=n&sk="},
		{Category: "News", Name: "CNN", Template: "http://edition.cnn.com/search/?query=TESTSEARCH&primaryType=mixed&sortBy=date"},
		{Category: "News", Name: "BBC World", Template: "http://search.bbc.co.uk/search?go=toolbar&uri=/&q=TESTSEARCH"},
		{Category: "News", Name: "Yahoo! News", Template: "http://news.search.yahoo.com/search/news?p=TESTSEARCH"},
		{Category: "News", Name: "Techdirt", Template: "https://www.techdirt.com/search/?q=TESTSEARCH"},
		{Category: "News", Name: "The Guardian", Template: "http://www.guardian.co.uk/search?q=TESTSEARCH"},
		{Category: "Other", Name: "Archive.org", Template: "https://archive.org/search.php?query=TESTSEARCH"},
		{Category: "Other", Name: "Wikipedia EN", Template: "http://en.wikipedia.org/w/index.php?title=Special:Search&search=TESTSEARCH"},
		{Category: "Other", Name: "Google Definition", Template: "http://www.google.com/search?hl=en&q=define:TESTSEARCH"},
		{Category: "Other", Name: "Google Scholar", Template: "https://scholar.google.com/scholar?q=TESTSEARCH"},
		{Category: "Development Search", Name: "GitHub", Template: "https://github.com/search?q=TESTSEARCH"},
		{Category: "Development Search", Name: "Stack Overflow", Template: "https://stackoverflow.com/search?q=TESTSEARCH"},
		{Category: "Development Search", Name: "CodeProject", Template: "https://www.codeproject.com/search.aspx?q=TESTSEARCH"},
		{Category: "Development Search", Name: "Visual Studio", Template: "https://visualstudio.microsoft.com/search/?query=TESTSEARCH"},
		{Category: "Gaming Search", Name: "Steam", Template: "https://store.steampowered.com/search/?term=TESTSEARCH"},
		{Category: "Gaming Search", Name: "Epic Games", Template: "https://store.epicgames.com/en-US/search?q=TESTSEARCH"},
		{Category: "Gaming Search", Name: "GOG", Template: "https://www.gog.com/en/games?query=TESTSEARCH"},
		{Category: "Gaming Search", Name: "Xbox Live", Template: "https://www.xbox.com/en-US/search?q=TESTSEARCH"},
		{Category: "Gaming Search", Name: "Sony PSN", Template: "https://store.playstation.com/en-us/search/TESTSEARCH"},
		{Category: "Gaming Search", Name: "Twitch", Template: "https://www.twitch.tv/search?term=TESTSEARCH"},
		{Category: "Videos", Name: "YouTube", Template: "http://www.youtube.com/results?search_query=TESTSEARCH"},
		{Category: "Videos", Name: "Google Videos", Template: "http://www.google.com/search?q=TESTSEARCH&tbo=p&tbs=vid:1&source=vgc&hl=en&aq=f"},
		{Category: "Videos", Name: "Bing Videos", Template: "http://www.bing.com/videos/search?q=TESTSEARCH"},
		{Category: "Videos", Name: "Metacafe", Template: "http://www.metacafe.com/results/TESTSEARCH/"},
		{Category: "Videos", Name: "Vimeo", Template: "http://vimeo.com/search?q=TESTSEARCH"},
	}
}

// CatalogEngineByName looks up a built-in engine by its exact name.
func CatalogEngineByName(name string) (CatalogEngine, bool) {
	for _, engine := range Catalog() {
		if engine.Name == name {
			return engine, true
		}
	}
	return CatalogEngine{}, false
}
