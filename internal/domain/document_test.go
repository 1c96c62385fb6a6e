package domain

import (
	"testing"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
)

func newTestDocument() *Document {
	doc := NewDocument()
	doc.Folders = []*Folder{
		{ID: "f1", Name: "General", Order: IntPtr(1)},
		{ID: "f2", Name: "Important", Order: IntPtr(2)},
	}
	doc.Bookmarks = []*Bookmark{
		{ID: "b1", URL: "https://example.com", Title: "Example Site", FolderID: "f2", Tags: []string{"web", "demo"}},
		{ID: "b2", URL: "https://go.dev", Title: "Go", Description: "The Go programming language", FolderID: "f1", Tags: []string{"golang"}},
		{ID: "b3", URL: "https://news.ycombinator.com", Title: "HN", FolderID: "f2", Tags: []string{"news", "demo"}},
	}
	doc.Tags = []*Tag{
		{ID: "t1", Name: "demo"},
		{ID: "t2", Name: "golang"},
	}
	return doc
}

func ids(bookmarks []*Bookmark) []string {
	out := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, b.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchBookmarks(t *testing.T) {
	doc := newTestDocument()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title prefix lowercase", "exam", []string{"b1"}},
		{"title uppercase query", "EXAMPLE", []string{"b1"}},
		{"description", "programming", []string{"b2"}},
		{"url", "ycombinator", []string{"b3"}},
		{"tag", "GOLANG", []string{"b2"}},
		{"shared tag", "demo", []string{"b1", "b3"}},
		{"empty query matches all", "", []string{"b1", "b2", "b3"}},
		{"no match", "rust", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(doc.SearchBookmarks(tt.query))
			if !equalIDs(got, tt.want) {
				t.Errorf("SearchBookmarks(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	doc := newTestDocument()

	if got := ids(doc.BookmarksInFolder("f2")); !equalIDs(got, []string{"b1", "b3"}) {
		t.Errorf("BookmarksInFolder(f2) = %v", got)
	}
	if got := doc.BookmarksInFolder("F2"); len(got) != 0 {
		t.Errorf("BookmarksInFolder is exact match, got %v", ids(got))
	}
	if got := ids(doc.BookmarksWithTag("demo")); !equalIDs(got, []string{"b1", "b3"}) {
		t.Errorf("BookmarksWithTag(demo) = %v", got)
	}
	if got := doc.BookmarksWithTag("dem"); len(got) != 0 {
		t.Errorf("BookmarksWithTag is exact match, got %v", ids(got))
	}
}

func TestRemoveFolderReassignsBookmarks(t *testing.T) {
	doc := newTestDocument()

	if err := doc.RemoveFolder("f2"); err != nil {
		t.Fatalf("RemoveFolder() error = %v", err)
	}
	if doc.Folder("f2") != nil {
		t.Error("folder f2 should be removed")
	}
	for _, id := range []string{"b1", "b3"} {
		if got := doc.Bookmark(id).FolderID; got != "f1" {
			t.Errorf("bookmark %s folder = %s, want f1", id, got)
		}
	}
}

func TestRemoveFirstFolderUsesFirstRemaining(t *testing.T) {
	doc := newTestDocument()

	if err := doc.RemoveFolder("f1"); err != nil {
		t.Fatalf("RemoveFolder() error = %v", err)
	}
	if got := doc.Bookmark("b2").FolderID; got != "f2" {
		t.Errorf("bookmark b2 folder = %s, want f2", got)
	}
}

func TestRemoveLastFolderWithBookmarks(t *testing.T) {
	doc := newTestDocument()
	if err := doc.RemoveFolder("f1"); err != nil {
		t.Fatalf("RemoveFolder(f1) error = %v", err)
	}

	err := doc.RemoveFolder("f2")
	if !apperr.Is(err, ErrNoFallbackFolder) {
		t.Fatalf("RemoveFolder(last) error = %v, want ErrNoFallbackFolder", err)
	}
	if doc.Folder("f2") == nil {
		t.Error("folder must be kept when removal fails")
	}
	if got := doc.Bookmark("b1").FolderID; got != "f2" {
		t.Errorf("bookmark folder changed to %s on failed removal", got)
	}
}

func TestRemoveLastEmptyFolder(t *testing.T) {
	doc := NewDocument()
	doc.Folders = []*Folder{{ID: "only", Name: "Only"}}

	if err := doc.RemoveFolder("only"); err != nil {
		t.Fatalf("RemoveFolder() error = %v", err)
	}
	if len(doc.Folders) != 0 {
		t.Errorf("folders = %d, want 0", len(doc.Folders))
	}
}

func TestRemoveUnknownFolder(t *testing.T) {
	doc := newTestDocument()
	if err := doc.RemoveFolder("missing"); !apperr.Is(err, apperr.ErrNotFound) {
		t.Errorf("RemoveFolder(missing) error = %v, want not found", err)
	}
}

func TestRemoveTagStripsLabels(t *testing.T) {
	doc := newTestDocument()
	doc.Bookmarks[0].Tags = []string{"demo", "web", "demo"}

	if !doc.RemoveTag("t1") {
		t.Fatal("RemoveTag(t1) = false, want true")
	}
	if doc.Tag("t1") != nil {
		t.Error("tag record should be removed")
	}
	for _, b := range doc.Bookmarks {
		if b.HasTag("demo") {
			t.Errorf("bookmark %s still tagged demo: %v", b.ID, b.Tags)
		}
	}
	if got := doc.Bookmark("b1").Tags; len(got) != 1 || got[0] != "web" {
		t.Errorf("b1 tags = %v, want [web]", got)
	}
	if doc.RemoveTag("t1") {
		t.Error("removing a missing tag should report false")
	}
}

func TestNormalize(t *testing.T) {
	doc := &Document{Bookmarks: []*Bookmark{nil, {ID: "b"}}}
	doc.Normalize()

	if doc.Version != DocumentVersion {
		t.Errorf("Version = %q", doc.Version)
	}
	if doc.Folders == nil || doc.Tags == nil {
		t.Error("collections must not be nil")
	}
	if len(doc.Bookmarks) != 1 {
		t.Errorf("nil bookmarks should be dropped, got %d", len(doc.Bookmarks))
	}
}
