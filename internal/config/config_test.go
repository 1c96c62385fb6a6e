package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustOneOf(t *testing.T) {
	t.Setenv("TEST_BACKEND", "MEMORY")
	if got := mustOneOf("TEST_BACKEND", BackendDrive, BackendDrive, BackendMemory); got != BackendMemory {
		t.Errorf("mustOneOf() = %v, want %v", got, BackendMemory)
	}

	if got := mustOneOf("TEST_BACKEND_MISSING", BackendDrive, BackendDrive, BackendMemory); got != BackendDrive {
		t.Errorf("mustOneOf() = %v, want %v", got, BackendDrive)
	}

	t.Setenv("TEST_BACKEND_BAD", "s3")
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("mustOneOf() should have panicked")
		}
	}()
	mustOneOf("TEST_BACKEND_BAD", BackendDrive, BackendDrive, BackendMemory)
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` http://a.example , "http://b.example",, 'c' `)
	want := []string{"http://a.example", "http://b.example", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if splitAndTrim("") != nil {
		t.Error("splitAndTrim(\"\") should be nil")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DRIVEMARK_GOOGLE_CLIENT_ID", "client")
	t.Setenv("DRIVEMARK_GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("DRIVEMARK_OAUTH_REDIRECT_URL", "http://localhost:8080/api/login/oauth2/code/google")
}

func TestLoadWithMemorySessions(t *testing.T) {
	setRequired(t)
	t.Setenv("DRIVEMARK_SESSION_STORE", "memory")
	t.Setenv("DRIVEMARK_STORAGE_BACKEND", "memory")
	t.Setenv("DRIVEMARK_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("DRIVEMARK_METADATA_TIMEOUT", "2s")

	cfg := Load()
	if cfg.StorageBackend != BackendMemory {
		t.Errorf("StorageBackend = %v", cfg.StorageBackend)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %v, want empty without redis sessions", cfg.RedisAddr)
	}
	if cfg.DriveFolder != "BookmarkService" {
		t.Errorf("DriveFolder = %v", cfg.DriveFolder)
	}
	if cfg.MetadataTimeout != 2*time.Second {
		t.Errorf("MetadataTimeout = %v", cfg.MetadataTimeout)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.MetadataPrivate {
		t.Error("MetadataPrivate should default to false")
	}
}

func TestLoadRequiresRedisPassword(t *testing.T) {
	setRequired(t)
	t.Setenv("DRIVEMARK_REDIS_ADDR", "localhost:6379")
	t.Setenv("DRIVEMARK_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without a redis password")
		}
	}()
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := &Config{GoogleClientSecret: "secret", RedisPassword: "pw"}
	r := cfg.Redacted()
	if r.GoogleClientSecret == "secret" || r.RedisPassword == "pw" {
		t.Errorf("Redacted() leaked secrets: %+v", r)
	}
	if r.RedisUser != "" {
		t.Errorf("Redacted() RedisUser = %q, want empty", r.RedisUser)
	}
	if cfg.GoogleClientSecret != "secret" {
		t.Error("Redacted() modified the original")
	}
}
