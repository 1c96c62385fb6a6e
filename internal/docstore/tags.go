package docstore

import (
	"context"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

func (s *Store) ListTags(ctx context.Context, acct *Account) ([]*domain.Tag, error) {
	doc, err := s.Load(ctx, acct)
	if err != nil {
		return nil, err
	}
	return doc.Tags, nil
}

// CreateTag assigns a fresh id. UsageCount always starts at zero and is
// not maintained afterwards.
func (s *Store) CreateTag(ctx context.Context, acct *Account, t *domain.Tag) (*domain.Tag, error) {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		t.ID = newID()
		t.UsageCount = 0
		doc.Tags = append(doc.Tags, t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tag created", logger.String("id", t.ID))
	return t, nil
}

// DeleteTag strips the tag's label from every bookmark, then removes it.
func (s *Store) DeleteTag(ctx context.Context, acct *Account, id string) error {
	err := s.mutate(ctx, acct, func(doc *domain.Document) error {
		if !doc.RemoveTag(id) {
			return apperr.NotFound("tag %s not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("tag deleted", logger.String("id", id))
	return nil
}
