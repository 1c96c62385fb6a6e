package homepage

// BookmarkEntry holds the properties of one Homepage bookmark.
type BookmarkEntry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description"`
}

// BookmarksConfig mirrors bookmarks.yaml: a list of categories, each
// mapping its name to a list of bookmarks, each mapping the bookmark
// name to a list of entries. Only the first entry under a name is used.
//
// bookmarks.yaml:
//
//	  - Developer:
//	      - Github:
//	          - abbr: GH
//	            href: https://github.com/
type BookmarksConfig []map[string][]map[string][]BookmarkEntry
