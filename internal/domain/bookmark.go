package domain

import (
	"slices"
	"strings"
)

// Bookmark is a saved URL stored in the user's bookmarks.json.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is server-generated on create and preserved by updates.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	URL         string `json:"url" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Favicon     string `json:"favicon,omitempty"`

	// FolderID points at a Folder.ID. It is not validated against the
	// folder collection.
	FolderID string `json:"folderId,omitempty"`

	// Tags holds tag labels (Tag.Name), in insertion order.
	// Duplicates are allowed.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Timestamps
	// ─────────────────────────────

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`

	Metadata *BookmarkMetadata `json:"metadata,omitempty"`
}

// BookmarkMetadata is client-owned usage data. The server only
// initializes it on create.
type BookmarkMetadata struct {
	VisitCount  int            `json:"visitCount"`
	LastVisited Timestamp      `json:"lastVisited,omitzero"`
	CustomData  map[string]any `json:"customData,omitempty"`
}

// HasTag reports whether the bookmark carries label (exact match).
func (b *Bookmark) HasTag(label string) bool {
	return slices.Contains(b.Tags, label)
}

// RemoveTag drops every occurrence of label and reports whether any was removed.
func (b *Bookmark) RemoveTag(label string) bool {
	before := len(b.Tags)
	b.Tags = slices.DeleteFunc(b.Tags, func(t string) bool { return t == label })
	return len(b.Tags) != before
}

// Matches reports whether the lowercased query is a substring of the
// title, description, URL or any tag.
func (b *Bookmark) Matches(lowerQuery string) bool {
	if strings.Contains(strings.ToLower(b.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(b.Description), lowerQuery) ||
		strings.Contains(strings.ToLower(b.URL), lowerQuery) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}
