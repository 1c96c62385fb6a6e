package domain

// Folder groups bookmarks. Folders form a tree through ParentID; cycles
// are not prevented.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	ParentID string `json:"parentId,omitempty"`

	// IsLocked and PasswordHash are only changed by the lock and unlock
	// operations. PasswordHash is an argon2id encoded hash.
	IsLocked     bool   `json:"isLocked"`
	PasswordHash string `json:"passwordHash,omitempty"`

	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`

	// Order is the display position; nil means "append".
	Order *int `json:"order,omitempty"`
}

// Public returns a copy safe to hand to API clients.
func (f Folder) Public() Folder {
	f.PasswordHash = ""
	return f
}

// Tag is a named label. UsageCount is initialized to zero and is not
// maintained by any operation.
type Tag struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	Color      string `json:"color,omitempty"`
	UsageCount int    `json:"usageCount"`
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}
