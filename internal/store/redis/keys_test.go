package redis

import (
	"strings"
	"testing"
)

func TestKeys(t *testing.T) {
	if got := SessionKey("abc"); got != "drivemark:session:abc" {
		t.Errorf("SessionKey = %q", got)
	}
	if got := StateKey("xyz"); got != "drivemark:oauth-state:xyz" {
		t.Errorf("StateKey = %q", got)
	}

	a := MetadataKey("https://example.com/a")
	b := MetadataKey("https://example.com/b")
	if !strings.HasPrefix(a, KeyPrefixMetadata) {
		t.Errorf("MetadataKey = %q, want prefix %q", a, KeyPrefixMetadata)
	}
	if a == b {
		t.Error("different URLs share a metadata key")
	}
	if a != MetadataKey("https://example.com/a") {
		t.Error("MetadataKey is not stable")
	}
	if len(a) != len(KeyPrefixMetadata)+64 {
		t.Errorf("MetadataKey length = %d", len(a))
	}
}
