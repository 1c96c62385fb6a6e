package docstore

import (
	"context"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/domain"
	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

func (s *Store) ListFolders(ctx context.Context, acct *Account) ([]*domain.Folder, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	return doc.Folders, nil
}

// CreateFolder assigns a fresh id and, when absent, the next order.
// Folders are always created unlocked.
func (s *Store) CreateFolder(ctx context.Context, acct *Account, f *domain.Folder) (*domain.Folder, error) {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		f.ID = newID()
		f.IsLocked = false
		f.PasswordHash = ""
		if f.Order == nil {
			f.Order = domain.IntPtr(doc.NextFolderOrder())
		}
		doc.Folders = append(doc.Folders, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("folder created", logger.String("id", f.ID))
	return f, nil
}

// UpdateFolder replaces the stored folder with f. The lock state is
// owned by LockFolder and UnlockFolder and carried over unchanged.
func (s *Store) UpdateFolder(ctx context.Context, acct *Account, id string, f *domain.Folder) (*domain.Folder, error) {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		i := doc.FolderIndex(id)
		if i < 0 {
			return apperr.NotFound("folder %s not found", id)
		}
		prev := doc.Folders[i]
		f.ID = id
		f.IsLocked = prev.IsLocked
		f.PasswordHash = prev.PasswordHash
		doc.Folders[i] = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("folder updated", logger.String("id", id))
	return f, nil
}

// DeleteFolder moves the folder's bookmarks to the first remaining
// folder and removes it. See domain.Document.RemoveFolder for errors.
func (s *Store) DeleteFolder(ctx context.Context, acct *Account, id string) error {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		return doc.RemoveFolder(id)
	})
	if err != nil {
		return err
	}

	s.log.Info("folder deleted", logger.String("id", id))
	return nil
}

// LockFolder sets a password on the folder. Locking an already locked
// folder replaces its password.
func (s *Store) LockFolder(ctx context.Context, acct *Account, id, password string) (*domain.Folder, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	var out *domain.Folder
	err = s.mutate(ctx, acct, func(doc *domain.Document) error {
		f := doc.Folder(id)
		if f == nil {
			return apperr.NotFound("folder %s not found", id)
		}
		f.IsLocked = true
		f.PasswordHash = hash
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("folder locked", logger.String("id", id))
	return out, nil
}

// UnlockFolder clears the lock when password matches. Unlocking a folder
// that is not locked succeeds without a write.
func (s *Store) UnlockFolder(ctx context.Context, acct *Account, id, password string) (*domain.Folder, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	f := doc.Folder(id)
	if f == nil {
		return nil, apperr.NotFound("folder %s not found", id)
	}
	if !f.IsLocked {
		return f, nil
	}
	if !auth.VerifyPassword(f.PasswordHash, password) {
		return nil, apperr.Forbidden("wrong folder password")
	}

	f.IsLocked = false
	f.PasswordHash = ""
	if err := s.Save(ctx, acct, doc); err != nil {
		return nil, err
	}

	s.log.Info("folder unlocked", logger.String("id", id))
	return f, nil
}
