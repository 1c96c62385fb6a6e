package domain

// ImportItem is a bookmark read from an external source, together with
// the name of the folder it belongs in. An empty Folder means the
// default (first) folder.
type ImportItem struct {
	Folder   string
	Bookmark *Bookmark
}

// ImportResult summarizes one import.
type ImportResult struct {
	Imported       int `json:"imported"`
	Skipped        int `json:"skipped"`
	FoldersCreated int `json:"foldersCreated"`
}
