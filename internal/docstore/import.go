package docstore

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

const importedFolderColor = "#9E9E9E"

// Import merges items into the document in a single load → save cycle.
// Items whose URL is blank or already present are skipped. Folders are
// matched by name, case-insensitively, and created when missing.
func (s *Store) Import(ctx context.Context, acct *Account, items []domain.ImportItem) (domain.ImportResult, error) {
	var res domain.ImportResult

	doc, err := s.Load(ctx, acct)
	if err != nil {
		return res, err
	}

	now := s.now()
	for _, item := range items {
		b := item.Bookmark
		if b == nil || strings.TrimSpace(b.URL) == "" || doc.HasURL(b.URL) {
			res.Skipped++
			continue
		}

		b.FolderID = s.importFolder(doc, item.Folder, &res)
		b.ID = newID()
		b.CreatedAt = now
		b.UpdatedAt = now
		if b.Tags == nil {
			b.Tags = []string{}
		}
		if b.Metadata == nil {
			b.Metadata = &domain.BookmarkMetadata{}
		}
		doc.Bookmarks = append(doc.Bookmarks, b)
		res.Imported++
	}

	if res.Imported == 0 {
		return res, nil
	}
	if err := s.Save(ctx, acct, doc); err != nil {
		return domain.ImportResult{}, err
	}

	s.log.Info("bookmarks imported",
		logger.Int("imported", res.Imported),
		logger.Int("skipped", res.Skipped),
		logger.Int("folders", res.FoldersCreated),
	)
	return res, nil
}

// importFolder resolves a folder name to an id, creating the folder when
// needed. An empty name maps to the first folder, or to no folder at all.
func (s *Store) importFolder(doc *domain.Document, name string, res *domain.ImportResult) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if len(doc.Folders) > 0 {
			return doc.Folders[0].ID
		}
		return ""
	}
	if f := doc.FolderByName(name); f != nil {
		return f.ID
	}

	f := &domain.Folder{
		ID:    newID(),
		Name:  name,
		Color: importedFolderColor,
		Icon:  "folder",
		Order: domain.IntPtr(doc.NextFolderOrder()),
	}
	doc.Folders = append(doc.Folders, f)
	res.FoldersCreated++
	return f.ID
}
