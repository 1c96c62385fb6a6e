// Package filestore defines the remote file store used as the
// persistence layer: one container folder holding named files.
package filestore

import (
	"context"
	"strings"
	"time"
)

// FolderMimeType marks a Drive file as a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// Credential is the delegated bearer credential of the calling user.
// Every FileStore call receives it explicitly.
type Credential struct {
	AccessToken string
}

// Valid reports whether the credential carries a token.
func (c Credential) Valid() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

// FileInfo describes a file inside a container.
type FileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Size       int64     `json:"size"`
}

// FileStore is the remote storage contract.
//
// All methods fail with errors.ErrStoreUnavailable when the credential is
// not valid and with errors.ErrRemoteCallFailed on transport failures.
type FileStore interface {
	// EnsureContainer returns the id of the non-trashed folder named
	// name, creating it when missing.
	EnsureContainer(ctx context.Context, cred Credential, name string) (string, error)

	// ReadFile returns the full content of the named file. found is
	// false, with a nil error, when no such file exists.
	ReadFile(ctx context.Context, cred Credential, name, containerID string) (content string, found bool, err error)

	// WriteFile replaces the named file's content, creating it when missing.
	WriteFile(ctx context.Context, cred Credential, name, content, containerID string) error

	// DeleteFile removes the named file. Missing files are not an error.
	DeleteFile(ctx context.Context, cred Credential, name, containerID string) error

	// ListFiles returns every non-trashed file in the container.
	ListFiles(ctx context.Context, cred Credential, containerID string) ([]FileInfo, error)
}
