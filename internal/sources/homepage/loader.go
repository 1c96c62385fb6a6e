package homepage

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/drivemark/internal/domain"
)

// Format names the Homepage configuration file being imported.
type Format string

const (
	FormatBookmarks Format = "bookmarks" // bookmarks.yaml
	FormatServices  Format = "services"  // services.yaml
)

// ParseFormat maps a query value to a Format. Empty means bookmarks.
func ParseFormat(v string) (Format, error) {
	switch Format(v) {
	case "", FormatBookmarks:
		return FormatBookmarks, nil
	case FormatServices:
		return FormatServices, nil
	default:
		return "", fmt.Errorf("unknown homepage format %q", v)
	}
}

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Parse decodes a Homepage YAML document and maps it to import items.
func Parse(data []byte, format Format) ([]domain.ImportItem, error) {
	// Homepage template variables ({{HOMEPAGE_VAR_...}}) are not resolvable here
	data = stripTemplateVariables(data)

	switch format {
	case FormatServices:
		var config ServicesConfig
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse services yaml: %w", err)
		}
		return NewMapper().MapServices(config)
	default:
		var config BookmarksConfig
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
		}
		return NewBookmarkMapper().MapBookmarks(config)
	}
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
