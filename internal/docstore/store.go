// Package docstore keeps the bookmark document in the user's file store.
//
// Every operation reads the whole document, applies one change in
// memory and writes the whole document back. Nothing is cached between
// calls and there is no locking: concurrent writers race and the last
// write wins.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

const (
	DefaultContainerName = "BookmarkService"
	DataFileName         = "bookmarks.json"
)

// Account identifies whose document is being accessed. ContainerID is
// resolved on first use and can be cached by the caller afterwards.
type Account struct {
	Credential  filestore.Credential
	ContainerID string
}

type Options struct {
	ContainerName   string
	BackupRetention int // 0 keeps every backup
	Now             func() time.Time
}

type Store struct {
	files filestore.FileStore
	opts  Options
	log   logger.Logger
}

func New(files filestore.FileStore, opts Options, log logger.Logger) *Store {
	if opts.ContainerName == "" {
		opts.ContainerName = DefaultContainerName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{files: files, opts: opts, log: log}
}

func (s *Store) now() domain.Timestamp {
	return domain.NewTimestamp(s.opts.Now())
}

// nextUpdate returns a timestamp strictly after prev. Timestamps are
// stored with second precision, so two updates within the same second
// would otherwise compare equal.
func (s *Store) nextUpdate(prev domain.Timestamp) domain.Timestamp {
	now := s.now()
	if !prev.IsZero() && !now.After(prev.Time) {
		return domain.NewTimestamp(prev.Add(time.Second))
	}
	return now
}

func newID() string {
	return uuid.NewString()
}

// container returns the account's container id, resolving it through
// EnsureContainer when unknown.
func (s *Store) container(ctx context.Context, acct *Account) (string, error) {
	if acct.ContainerID != "" {
		return acct.ContainerID, nil
	}
	id, err := s.files.EnsureContainer(ctx, acct.Credential, s.opts.ContainerName)
	if err != nil {
		return "", err
	}
	acct.ContainerID = id
	return id, nil
}

// Load reads the document. A missing data file yields an empty document.
func (s *Store) Load(ctx context.Context, acct *Account) (*domain.Document, error) {
	containerID, err := s.container(ctx, acct)
	if err != nil {
		return nil, err
	}

	content, found, err := s.files.ReadFile(ctx, acct.Credential, DataFileName, containerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return domain.NewDocument(), nil
	}

	doc, err := decode(content)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(content string) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, apperr.StoreCorrupt(fmt.Sprintf("parse %s", DataFileName), err)
	}
	doc.Normalize()
	return &doc, nil
}

// Save stamps lastModified and writes the whole document.
func (s *Store) Save(ctx context.Context, acct *Account, doc *domain.Document) error {
	containerID, err := s.container(ctx, acct)
	if err != nil {
		return err
	}

	doc.Normalize()
	doc.LastModified = s.now()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return s.files.WriteFile(ctx, acct.Credential, DataFileName, string(data), containerID)
}

// mutate runs one load → change → save cycle. When fn returns an error
// nothing is written.
func (s *Store) mutate(ctx context.Context, acct *Account, fn func(doc *domain.Document) error) error {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.Save(ctx, acct, doc)
}

// Initialize ensures the container exists and seeds the data file when
// it is missing. An existing data file is left untouched. It returns
// the container id.
func (s *Store) Initialize(ctx context.Context, acct *Account) (string, error) {
	acct.ContainerID = ""
	containerID, err := s.container(ctx, acct)
	if err != nil {
		return "", err
	}

	_, found, err := s.files.ReadFile(ctx, acct.Credential, DataFileName, containerID)
	if err != nil {
		return "", err
	}
	if found {
		return containerID, nil
	}

	doc := domain.NewDocument()
	doc.Folders = seedFolders()
	if err := s.Save(ctx, acct, doc); err != nil {
		return "", err
	}

	s.log.Info("document initialized", logger.String("container", containerID))
	return containerID, nil
}

func seedFolders() []*domain.Folder {
	return []*domain.Folder{
		{ID: newID(), Name: "General", Color: "#4285F4", Icon: "folder", Order: domain.IntPtr(1)},
		{ID: newID(), Name: "Important", Color: "#EA4335", Icon: "star", Order: domain.IntPtr(2)},
	}
}
