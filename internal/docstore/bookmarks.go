package docstore

import (
	"context"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

func (s *Store) ListBookmarks(ctx context.Context, acct *Account) ([]*domain.Bookmark, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	return doc.Bookmarks, nil
}

func (s *Store) GetBookmark(ctx context.Context, acct *Account, id string) (*domain.Bookmark, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	b := doc.Bookmark(id)
	if b == nil {
		return nil, apperr.NotFound("bookmark %s not found", id)
	}
	return b, nil
}

// CreateBookmark assigns a fresh id and both timestamps. Any id or
// timestamps sent by the client are ignored.
func (s *Store) CreateBookmark(ctx context.Context, acct *Account, b *domain.Bookmark) (*domain.Bookmark, error) {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		now := s.now()
		b.ID = newID()
		b.CreatedAt = now
		b.UpdatedAt = now
		if b.Tags == nil {
			b.Tags = []string{}
		}
		if b.Metadata == nil {
			b.Metadata = &domain.BookmarkMetadata{VisitCount: 0}
		}
		doc.Bookmarks = append(doc.Bookmarks, b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bookmark created", logger.String("id", b.ID))
	return b, nil
}

// UpdateBookmark replaces the stored bookmark with b, keeping its id and
// creation time.
func (s *Store) UpdateBookmark(ctx context.Context, acct *Account, id string, b *domain.Bookmark) (*domain.Bookmark, error) {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		i := doc.BookmarkIndex(id)
		if i < 0 {
			return apperr.NotFound("bookmark %s not found", id)
		}
		prev := doc.Bookmarks[i]
		b.ID = id
		b.CreatedAt = prev.CreatedAt
		b.UpdatedAt = s.nextUpdate(prev.UpdatedAt)
		if b.Tags == nil {
			b.Tags = []string{}
		}
		doc.Bookmarks[i] = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("bookmark updated", logger.String("id", id))
	return b, nil
}

func (s *Store) DeleteBookmark(ctx context.Context, acct *Account, id string) error {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		if !doc.RemoveBookmark(id) {
			return apperr.NotFound("bookmark %s not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("bookmark deleted", logger.String("id", id))
	return nil
}

func (s *Store) SearchBookmarks(ctx context.Context, acct *Account, query string) ([]*domain.Bookmark, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	return doc.SearchBookmarks(query), nil
}

func (s *Store) BookmarksByFolder(ctx context.Context, acct *Account, folderID string) ([]*domain.Bookmark, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	return doc.BookmarksInFolder(folderID), nil
}

func (s *Store) BookmarksByTag(ctx context.Context, acct *Account, tag string) ([]*domain.Bookmark, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	return doc.BookmarksWithTag(tag), nil
}
