package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendDrive  = "drive"
	BackendMemory = "memory"

	SessionsRedis  = "redis"
	SessionsMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per request deadline for /api routes

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StorageBackend  string // "drive" | "memory"
	DriveFolder     string // name of the container folder in the user's Drive
	DriveEndpoint   string // optional Drive API base URL override
	BackupRetention int    // backups kept after each new backup (0 = unlimited)

	// OAuth2 / sessions
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string        // ex: http://localhost:8080/api/login/oauth2/code/google
	FrontendURL        string        // where the browser lands after login
	SessionStore       string        // "redis" | "memory"
	SessionTTL         time.Duration // ex: 168h
	CookieSecure       bool

	// Metadata extraction
	MetadataTimeout  time.Duration // per fetch deadline (default 5s)
	MetadataPrivate  bool          // allow fetching loopback and private addresses
	MetadataCacheTTL time.Duration // cached results lifetime, 0 disables the cache
	RateBurst        int           // fetch-metadata bucket size per client
	RateRefillPerMin int           // fetch-metadata tokens refilled per minute

	// CORS
	CORSOrigins []string
	CORSMaxAge  int // seconds

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("DRIVEMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("DRIVEMARK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("DRIVEMARK_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("DRIVEMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DRIVEMARK_PRETTY_LOG", true),

		// Storage
		StorageBackend:  mustOneOf("DRIVEMARK_STORAGE_BACKEND", BackendDrive, BackendDrive, BackendMemory),
		DriveFolder:     getenv("DRIVEMARK_DRIVE_FOLDER", "BookmarkService"),
		DriveEndpoint:   getenv("DRIVEMARK_DRIVE_ENDPOINT", ""),
		BackupRetention: getenvInt("DRIVEMARK_BACKUP_RETENTION", 10),

		// OAuth2 / sessions
		GoogleClientID:     requireEnv("DRIVEMARK_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: requireEnv("DRIVEMARK_GOOGLE_CLIENT_SECRET"),
		OAuthRedirectURL:   requireEnv("DRIVEMARK_OAUTH_REDIRECT_URL"),
		FrontendURL:        getenv("DRIVEMARK_FRONTEND_URL", "http://localhost:3000"),
		SessionStore:       mustOneOf("DRIVEMARK_SESSION_STORE", SessionsRedis, SessionsRedis, SessionsMemory),
		SessionTTL:         mustDuration("DRIVEMARK_SESSION_TTL", 7*24*time.Hour),
		CookieSecure:       mustBool("DRIVEMARK_COOKIE_SECURE", true),

		// Metadata extraction
		MetadataTimeout:  mustDuration("DRIVEMARK_METADATA_TIMEOUT", 5*time.Second),
		MetadataPrivate:  mustBool("DRIVEMARK_METADATA_ALLOW_PRIVATE", false),
		MetadataCacheTTL: mustDuration("DRIVEMARK_METADATA_CACHE_TTL", 6*time.Hour),
		RateBurst:        getenvInt("DRIVEMARK_RATE_BURST", 20),
		RateRefillPerMin: getenvInt("DRIVEMARK_RATE_REFILL_PER_MIN", 30),

		// CORS
		CORSOrigins: splitAndTrim(getenv("DRIVEMARK_CORS_ORIGINS", "http://localhost:3000")),
		CORSMaxAge:  getenvInt("DRIVEMARK_CORS_MAX_AGE", 300),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("DRIVEMARK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("DRIVEMARK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("DRIVEMARK_TRUST_PROXY", false),
	}

	if cfg.SessionStore == SessionsRedis {
		cfg.RedisAddr = requireEnv("DRIVEMARK_REDIS_ADDR")
		cfg.RedisUser = getenv("DRIVEMARK_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("DRIVEMARK_REDIS_PASSWORD_REQUIRED", true)
		cfg.RedisPassword = getenv("DRIVEMARK_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("DRIVEMARK_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("DRIVEMARK_REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("DRIVEMARK_REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("DRIVEMARK_REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("DRIVEMARK_REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("DRIVEMARK_REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("DRIVEMARK_REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("DRIVEMARK_REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("DRIVEMARK_REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("DRIVEMARK_REDIS_WARN_THRESHOLD", 3)

		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: DRIVEMARK_REDIS_PASSWORD is required when DRIVEMARK_REDIS_PASSWORD_REQUIRED=true")
		}
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	cp.GoogleClientSecret = redact(cp.GoogleClientSecret)
	cp.RedisPassword = redact(cp.RedisPassword)
	cp.RedisUser = redact(cp.RedisUser)
	return cp
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "***REDACTED***"
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

// mustOneOf panics when the variable is set to a value outside allowed.
func mustOneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(getenv(key, def))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	panic(fmt.Sprintf("❌ FATAL: %s must be one of %s, got %q", key, strings.Join(allowed, "|"), v))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
