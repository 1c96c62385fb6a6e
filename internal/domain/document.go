package domain

import (
	"slices"
	"strings"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
)

// DocumentVersion is the schema version written to new documents.
const DocumentVersion = "1.0"

// ErrNoFallbackFolder is returned when a folder that still holds
// bookmarks is deleted and no other folder exists to receive them.
var ErrNoFallbackFolder = apperr.Conflict("cannot delete the last folder while bookmarks still reference it")

// Document is the envelope persisted as bookmarks.json. It is always
// read and written as a whole.
type Document struct {
	Version      string      `json:"version"`
	LastModified Timestamp   `json:"lastModified"`
	Bookmarks    []*Bookmark `json:"bookmarks"`
	Folders      []*Folder   `json:"folders"`
	Tags         []*Tag      `json:"tags"`
}

// NewDocument returns an empty envelope.
func NewDocument() *Document {
	return &Document{
		Version:   DocumentVersion,
		Bookmarks: []*Bookmark{},
		Folders:   []*Folder{},
		Tags:      []*Tag{},
	}
}

// Normalize fills in what older or hand-edited documents may omit, so
// collections always encode as arrays.
func (d *Document) Normalize() {
	if d.Version == "" {
		d.Version = DocumentVersion
	}
	if d.Bookmarks == nil {
		d.Bookmarks = []*Bookmark{}
	}
	if d.Folders == nil {
		d.Folders = []*Folder{}
	}
	if d.Tags == nil {
		d.Tags = []*Tag{}
	}
	d.Bookmarks = slices.DeleteFunc(d.Bookmarks, func(b *Bookmark) bool { return b == nil })
	d.Folders = slices.DeleteFunc(d.Folders, func(f *Folder) bool { return f == nil })
	d.Tags = slices.DeleteFunc(d.Tags, func(t *Tag) bool { return t == nil })
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

// BookmarkIndex returns the position of the bookmark with id, or -1.
func (d *Document) BookmarkIndex(id string) int {
	return slices.IndexFunc(d.Bookmarks, func(b *Bookmark) bool { return b.ID == id })
}

// Bookmark returns the bookmark with id, or nil.
func (d *Document) Bookmark(id string) *Bookmark {
	if i := d.BookmarkIndex(id); i >= 0 {
		return d.Bookmarks[i]
	}
	return nil
}

// RemoveBookmark deletes the bookmark with id and reports whether it existed.
func (d *Document) RemoveBookmark(id string) bool {
	before := len(d.Bookmarks)
	d.Bookmarks = slices.DeleteFunc(d.Bookmarks, func(b *Bookmark) bool { return b.ID == id })
	return len(d.Bookmarks) != before
}

// SearchBookmarks is a case-insensitive substring search over title,
// description, URL and tags.
func (d *Document) SearchBookmarks(query string) []*Bookmark {
	q := strings.ToLower(query)
	out := make([]*Bookmark, 0)
	for _, b := range d.Bookmarks {
		if b.Matches(q) {
			out = append(out, b)
		}
	}
	return out
}

// BookmarksInFolder returns bookmarks whose FolderID equals folderID.
func (d *Document) BookmarksInFolder(folderID string) []*Bookmark {
	out := make([]*Bookmark, 0)
	for _, b := range d.Bookmarks {
		if b.FolderID == folderID {
			out = append(out, b)
		}
	}
	return out
}

// BookmarksWithTag returns bookmarks carrying the exact label.
func (d *Document) BookmarksWithTag(label string) []*Bookmark {
	out := make([]*Bookmark, 0)
	for _, b := range d.Bookmarks {
		if b.HasTag(label) {
			out = append(out, b)
		}
	}
	return out
}

// HasURL reports whether any bookmark already points at rawURL.
func (d *Document) HasURL(rawURL string) bool {
	return slices.ContainsFunc(d.Bookmarks, func(b *Bookmark) bool { return b.URL == rawURL })
}

// ─────────────────────────────────────────────────────────────────
// Folders
// ─────────────────────────────────────────────────────────────────

// FolderIndex returns the position of the folder with id, or -1.
func (d *Document) FolderIndex(id string) int {
	return slices.IndexFunc(d.Folders, func(f *Folder) bool { return f.ID == id })
}

// Folder returns the folder with id, or nil.
func (d *Document) Folder(id string) *Folder {
	if i := d.FolderIndex(id); i >= 0 {
		return d.Folders[i]
	}
	return nil
}

// FolderByName returns the first folder whose name matches case-insensitively.
func (d *Document) FolderByName(name string) *Folder {
	for _, f := range d.Folders {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// NextFolderOrder is the order assigned to a folder created without one.
func (d *Document) NextFolderOrder() int {
	return len(d.Folders) + 1
}

// RemoveFolder deletes folder id after moving its bookmarks to the first
// remaining folder. It returns apperr.ErrNotFound for an unknown id and
// ErrNoFallbackFolder when bookmarks would be orphaned; in both cases
// the document is left untouched.
func (d *Document) RemoveFolder(id string) error {
	idx := d.FolderIndex(id)
	if idx < 0 {
		return apperr.NotFound("folder %s not found", id)
	}

	var fallback *Folder
	for _, f := range d.Folders {
		if f.ID != id {
			fallback = f
			break
		}
	}

	affected := d.BookmarksInFolder(id)
	if len(affected) > 0 && fallback == nil {
		return ErrNoFallbackFolder
	}
	for _, b := range affected {
		b.FolderID = fallback.ID
	}

	d.Folders = slices.Delete(d.Folders, idx, idx+1)
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Tags
// ─────────────────────────────────────────────────────────────────

// Tag returns the tag with id, or nil.
func (d *Document) Tag(id string) *Tag {
	for _, t := range d.Tags {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// RemoveTag strips the tag's label from every bookmark, then deletes the
// tag record. It reports whether the tag existed.
func (d *Document) RemoveTag(id string) bool {
	tag := d.Tag(id)
	if tag == nil {
		return false
	}
	for _, b := range d.Bookmarks {
		b.RemoveTag(tag.Name)
	}
	d.Tags = slices.DeleteFunc(d.Tags, func(t *Tag) bool { return t.ID == id })
	return true
}
