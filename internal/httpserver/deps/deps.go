package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
	"github.com/MrSnakeDoc/drivemark/internal/metadata"
	"github.com/MrSnakeDoc/drivemark/internal/validation"
)

// MetadataFetcher extracts page previews. It never fails.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) metadata.Metadata
}

// MetadataCache remembers successful extractions.
type MetadataCache interface {
	CacheMetadata(ctx context.Context, url string, md metadata.Metadata, ttl time.Duration) error
	CachedMetadata(ctx context.Context, url string) (metadata.Metadata, bool, error)
	FlushMetadata(ctx context.Context) error
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed to access the server
	AllowedCIDRS []string // IPs allowed to access healthz/readyz endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RequestTimeout   time.Duration // deadline for /api requests
	CORSOrigins      []string      // origins allowed to call the API with credentials
	CORSMaxAge       int           // preflight cache, seconds
	RateBurst        int           // fetch-metadata bucket size per client IP
	RateRefillPerMin int           // fetch-metadata refill per client IP

	Store            *docstore.Store       // bookmark document in the user's Drive
	Auth             *auth.Authenticator   // Google sign-in and sessions
	Validator        *validation.Validator // request payload checks
	Metadata         MetadataFetcher       // page preview extraction
	MetadataCache    MetadataCache         // optional, nil disables caching
	MetadataCacheTTL time.Duration
	FrontendURL      string // browser landing page after login
}
