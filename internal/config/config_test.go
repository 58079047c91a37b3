package config

import (
	"os"
	"testing"
	"time"
)

func validEnv() map[string]string {
	return map[string]string{
		"SERVER_PORT":             "8080",
		"SERVER_HOST":             "0.0.0.0",
		"SERVER_BASE_URL":         "http://localhost:8080",
		"SERVER_READ_TIMEOUT":     "10s",
		"SERVER_WRITE_TIMEOUT":    "10s",
		"SERVER_IDLE_TIMEOUT":     "120s",
		"SERVER_SHUTDOWN_TIMEOUT": "30s",

		"DB_HOST":      "localhost",
		"DB_PORT":      "5432",
		"DB_USER":      "testuser",
		"DB_PASSWORD":  "testpass",
		"DB_NAME":      "testdb",
		"DB_SSLMODE":   "disable",
		"DB_MAX_CONNS": "25",
		"DB_MIN_CONNS": "5",

		"JWT_SECRET": "0123456789abcdef0123456789abcdef",

		"RATE_LIMIT_ENABLED": "true",
		"RATE_LIMIT_RPS":     "10",
		"RATE_LIMIT_BURST":   "20",

		"REDIS_URL": "redis://localhost:6379/0",
		"CACHE_TTL": "30m",

		"APP_ENV":   "test",
		"LOG_LEVEL": "debug",
	}
}

func TestLoad_Success(t *testing.T) {
	for key, value := range validEnv() {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://localhost:8080" {
		t.Errorf("Server.BaseURL = %s, want http://localhost:8080", cfg.Server.BaseURL)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %s, want localhost", cfg.Database.Host)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Database.MaxConns = %d, want 25", cfg.Database.MaxConns)
	}

	if cfg.Auth.JWTSecret != "0123456789abcdef0123456789abcdef" {
		t.Error("Auth.JWTSecret did not load")
	}

	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = false, want true")
	}
	if cfg.RateLimit.RPS != 10 {
		t.Errorf("RateLimit.RPS = %f, want 10", cfg.RateLimit.RPS)
	}

	if !cfg.Cache.Enabled() {
		t.Error("Cache.Enabled() = false, want true")
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL)
	}

	if cfg.App.Environment != "test" {
		t.Errorf("App.Environment = %s, want test", cfg.App.Environment)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	// Only the required variables.
	t.Setenv("SERVER_BASE_URL", "http://localhost:8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port default = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout default = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Database.SSLMode default = %s, want disable", cfg.Database.SSLMode)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled default = false, want true")
	}
	if cfg.Cache.Enabled() {
		t.Error("Cache.Enabled() = true without REDIS_URL, want false")
	}
	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment default = %s, want development", cfg.App.Environment)
	}
}

func TestLoad_MissingRequiredVariable(t *testing.T) {
	tests := []struct {
		name       string
		skipEnvVar string
	}{
		{"missing SERVER_BASE_URL", "SERVER_BASE_URL"},
		{"missing DB_HOST", "DB_HOST"},
		{"missing DB_NAME", "DB_NAME"},
		{"missing JWT_SECRET", "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for key, value := range validEnv() {
				if key == tt.skipEnvVar {
					continue
				}
				t.Setenv(key, value)
			}

			if _, err := Load(); err == nil {
				t.Errorf("Load() succeeded without %s, want error", tt.skipEnvVar)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"short JWT secret", "JWT_SECRET", "tooshort"},
		{"invalid SSL mode", "DB_SSLMODE", "maybe"},
		{"min conns above max", "DB_MIN_CONNS", "100"},
		{"invalid environment", "APP_ENV", "galaxy"},
		{"invalid log level", "LOG_LEVEL", "loud"},
		{"zero rate limit", "RATE_LIMIT_RPS", "0"},
		{"zero cache TTL", "CACHE_TTL", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for key, value := range validEnv() {
				t.Setenv(key, value)
			}
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() succeeded with %s=%s, want error", tt.key, tt.value)
			}
		})
	}
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		Name:     "shortlink",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=app password=secret dbname=shortlink sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestRateLimitDisabledSkipsValidation(t *testing.T) {
	cfg := RateLimitConfig{Enabled: false, RPS: 0, Burst: 0}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on disabled limiter: %v", err)
	}
}
