package homepage

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
)

// importTag labels every bookmark that came from a Homepage file.
const importTag = "homepage"

// BookmarkMapper converts Homepage bookmark config to import items
type BookmarkMapper struct{}

// NewBookmarkMapper creates a new bookmark mapper
func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

// MapBookmarks converts BookmarksConfig to import items. Each category
// becomes the target folder of its bookmarks.
func (m *BookmarkMapper) MapBookmarks(config BookmarksConfig) ([]domain.ImportItem, error) {
	items := make([]domain.ImportItem, 0)

	for _, category := range config {
		for categoryName, bookmarkList := range category {
			for _, bookmarkMap := range bookmarkList {
				for bookmarkName, entryList := range bookmarkMap {
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]

					if strings.TrimSpace(entry.Href) == "" {
						continue
					}

					custom := map[string]any{}
					if entry.Abbr != "" {
						custom["abbr"] = entry.Abbr
					}
					if entry.Icon != "" {
						custom["icon"] = entry.Icon
					}

					items = append(items, domain.ImportItem{
						Folder: categoryName,
						Bookmark: &domain.Bookmark{
							URL:         entry.Href,
							Title:       bookmarkName,
							Description: entry.Description,
							Favicon:     iconURL(entry.Icon),
							Tags:        []string{importTag},
							Metadata:    metadataWith(custom),
						},
					})
				}
			}
		}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in config")
	}

	return items, nil
}

// iconURL keeps icons that are absolute URLs. Homepage icon names
// (mdi-*, si-*, file names) only resolve inside Homepage itself.
func iconURL(icon string) string {
	if strings.HasPrefix(icon, "http://") || strings.HasPrefix(icon, "https://") {
		return icon
	}
	return ""
}

func metadataWith(custom map[string]any) *domain.BookmarkMetadata {
	md := &domain.BookmarkMetadata{}
	if len(custom) > 0 {
		md.CustomData = custom
	}
	return md
}
