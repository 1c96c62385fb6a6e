package redis

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// KeyPrefixSession is the prefix for session keys
	KeyPrefixSession = "drivemark:session:"
	// KeyPrefixState is the prefix for pending OAuth state values
	KeyPrefixState = "drivemark:oauth-state:"
	// KeyPrefixMetadata is the prefix for cached page metadata
	KeyPrefixMetadata = "drivemark:metadata:"
)

// SessionKey returns the Redis key for a session by ID
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// StateKey returns the Redis key for an OAuth state value
func StateKey(state string) string {
	return KeyPrefixState + state
}

// MetadataKey returns the Redis key for the metadata of a URL.
// URLs are hashed to keep keys short and free of separators.
func MetadataKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return KeyPrefixMetadata + hex.EncodeToString(sum[:])
}
