// Package memory is an in-process FileStore. It backs the tests and the
// memory storage backend used for local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
)

type file struct {
	info    filestore.FileInfo
	content string
}

type container struct {
	id    string
	name  string
	files map[string]*file // name -> file
}

// Store is an in-process filestore.FileStore. It backs the "memory"
// storage backend and the package tests. All callers share one
// namespace; the credential is only checked for presence.
type Store struct {
	mu         sync.RWMutex
	containers map[string]*container // ID -> container
	writes     int
	failWith   error // returned by the next call, then cleared
	now        func() time.Time
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{
		containers: make(map[string]*container),
		now:        time.Now,
	}
}

// FailNext makes the next call return err. Used to simulate remote failures.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWith = err
}

// Writes returns the number of successful WriteFile calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.writes
}

// check validates the credential and consumes an injected failure.
// Callers must hold the write lock.
func (s *Store) check(cred filestore.Credential) error {
	if !cred.Valid() {
		return apperr.StoreUnavailable("memory store: no delegated credential")
	}
	if s.failWith != nil {
		err := s.failWith
		s.failWith = nil
		return apperr.RemoteCallFailed("memory store", err)
	}
	return nil
}

func (s *Store) EnsureContainer(_ context.Context, cred filestore.Credential, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(cred); err != nil {
		return "", err
	}

	for _, c := range s.containers {
		if c.name == name {
			return c.id, nil
		}
	}

	c := &container{
		id:    uuid.NewString(),
		name:  name,
		files: make(map[string]*file),
	}
	s.containers[c.id] = c
	return c.id, nil
}

func (s *Store) ReadFile(_ context.Context, cred filestore.Credential, name, containerID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(cred); err != nil {
		return "", false, err
	}

	c, ok := s.containers[containerID]
	if !ok {
		return "", false, nil
	}
	f, ok := c.files[name]
	if !ok {
		return "", false, nil
	}
	return f.content, true, nil
}

func (s *Store) WriteFile(_ context.Context, cred filestore.Credential, name, content, containerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(cred); err != nil {
		return err
	}

	c, ok := s.containers[containerID]
	if !ok {
		return apperr.RemoteCallFailed(fmt.Sprintf("memory store: container %s not found", containerID), nil)
	}

	now := s.now()
	if f, ok := c.files[name]; ok {
		f.content = content
		f.info.ModifiedAt = now
		f.info.Size = int64(len(content))
	} else {
		c.files[name] = &file{
			info: filestore.FileInfo{
				ID:         uuid.NewString(),
				Name:       name,
				CreatedAt:  now,
				ModifiedAt: now,
				Size:       int64(len(content)),
			},
			content: content,
		}
	}
	s.writes++
	return nil
}

func (s *Store) DeleteFile(_ context.Context, cred filestore.Credential, name, containerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(cred); err != nil {
		return err
	}

	if c, ok := s.containers[containerID]; ok {
		delete(c.files, name)
	}
	return nil
}

func (s *Store) ListFiles(_ context.Context, cred filestore.Credential, containerID string) ([]filestore.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(cred); err != nil {
		return nil, err
	}

	c, ok := s.containers[containerID]
	if !ok {
		return []filestore.FileInfo{}, nil
	}

	files := make([]filestore.FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f.info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

var _ filestore.FileStore = (*Store)(nil)
