package homepage

import (
	"testing"
)

func TestMapperMapServices(t *testing.T) {
	config := ServicesConfig{
		{
			"Infrastructure": []map[string]ServiceProps{
				{
					"AdGuard Home": {
						Icon:        "adguard-home.svg",
						Href:        "https://adguard.domain.ext",
						Description: "Network-wide ads blocking",
					},
				},
				{
					"Traefik": {
						Icon:        "https://traefik.domain.ext/icon.png",
						Href:        "https://traefik.domain.ext",
						Description: "Cloud Native Application Proxy",
					},
				},
			},
		},
	}

	items, err := NewMapper().MapServices(config)
	if err != nil {
		t.Fatalf("MapServices() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("MapServices() returned %v items, want 2", len(items))
	}

	for _, item := range items {
		if item.Folder != "Infrastructure" {
			t.Errorf("item folder = %q, want Infrastructure", item.Folder)
		}
		if len(item.Bookmark.Tags) != 1 || item.Bookmark.Tags[0] != "homepage" {
			t.Errorf("item tags = %v, want [homepage]", item.Bookmark.Tags)
		}
		if item.Bookmark.Title == "Traefik" && item.Bookmark.Favicon != "https://traefik.domain.ext/icon.png" {
			t.Errorf("Traefik favicon = %q", item.Bookmark.Favicon)
		}
		if item.Bookmark.Metadata.CustomData["icon"] == nil {
			t.Errorf("%s: icon should be kept in custom data", item.Bookmark.Title)
		}
	}
}

func TestMapperMapServicesEmptyConfig(t *testing.T) {
	items, err := NewMapper().MapServices(ServicesConfig{})
	if err == nil {
		t.Error("MapServices() with empty config should return error")
	}
	if items != nil {
		t.Errorf("MapServices() with empty config should return nil items, got %v", len(items))
	}
}

func TestMapperMapServicesInvalidURL(t *testing.T) {
	config := ServicesConfig{
		{
			"Test": []map[string]ServiceProps{
				{
					"Invalid Service": {
						Href: "not-a-valid-url",
					},
				},
			},
		},
	}

	items, err := NewMapper().MapServices(config)
	if err == nil {
		t.Error("MapServices() should return error when no valid services found")
	}
	if items != nil {
		t.Errorf("MapServices() should return nil when no valid services, got %v items", len(items))
	}
}

func TestBookmarkMapperSkipsEmptyEntries(t *testing.T) {
	config := BookmarksConfig{
		{
			"Dev": []map[string][]BookmarkEntry{
				{"NoEntry": {}},
				{"NoHref": {{Abbr: "NH"}}},
				{"Go": {{Href: "https://go.dev"}}},
			},
		},
	}

	items, err := NewBookmarkMapper().MapBookmarks(config)
	if err != nil {
		t.Fatalf("MapBookmarks() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("MapBookmarks() returned %d items, want 1", len(items))
	}
	if items[0].Bookmark.Metadata == nil || items[0].Bookmark.Metadata.CustomData != nil {
		t.Errorf("metadata = %+v, want empty metadata without custom data", items[0].Bookmark.Metadata)
	}
}
