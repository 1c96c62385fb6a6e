package homepage

import (
	"fmt"
	"net/url"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
)

// Mapper converts Homepage services to import items
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapServices converts ServicesConfig to import items. Each service
// group becomes a folder; the service name becomes the title.
func (m *Mapper) MapServices(config ServicesConfig) ([]domain.ImportItem, error) {
	var items []domain.ImportItem

	for _, groupMap := range config {
		for groupName, servicesList := range groupMap {
			for _, serviceMap := range servicesList {
				for serviceName, props := range serviceMap {
					if props.Href == "" {
						continue
					}

					// Skip anything that is not an absolute URL
					parsedURL, err := url.Parse(props.Href)
					if err != nil || parsedURL.Hostname() == "" {
						continue
					}

					var custom map[string]any
					if props.Icon != "" {
						custom = map[string]any{"icon": props.Icon}
					}

					items = append(items, domain.ImportItem{
						Folder: groupName,
						Bookmark: &domain.Bookmark{
							URL:         props.Href,
							Title:       serviceName,
							Description: props.Description,
							Favicon:     iconURL(props.Icon),
							Tags:        []string{importTag},
							Metadata:    metadataWith(custom),
						},
					})
				}
			}
		}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}

	return items, nil
}
