// Package config loads the application configuration from environment
// variables, with an optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session store backends.
const (
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"
)

// Config carries every setting, grouped by concern.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Log      LogConfig
	CORS     CORSConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string // e.g. ./data/gamevault.db
}

// SessionConfig selects where sessions live.
type SessionConfig struct {
	Store         string        // "sqlite" or "redis"
	SweepInterval time.Duration // 0 disables the background sweep
}

// RedisConfig is used when Session.Store is "redis".
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// AuthConfig holds credential and login settings.
type AuthConfig struct {
	Hasher           string // "sha512" or "bcrypt"
	AdminEmails      []string
	TrustedProxies   []string // IPs or CIDRs allowed to set X-Forwarded-For
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// CatalogConfig holds the Steam proxy settings.
type CatalogConfig struct {
	APIURL        string
	StoreURL      string
	DefaultLocale string
	CacheTTL      time.Duration
	Timeout       time.Duration
}

// LogConfig holds the logrus settings.
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// CORSConfig lists the allowed origins.
type CORSConfig struct {
	Origins []string
}

// Load builds a Config from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	loginMax, err := strconv.Atoi(getEnv("LOGIN_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: %w", err)
	}

	var sweep, loginWindow, cacheTTL, timeout time.Duration
	for key, spec := range map[string]struct {
		dst      *time.Duration
		fallback string
	}{
		"SESSION_SWEEP_INTERVAL": {&sweep, "1h"},
		"LOGIN_WINDOW":           {&loginWindow, "1m"},
		"CATALOG_CACHE_TTL":      {&cacheTTL, "1h"},
		"CATALOG_TIMEOUT":        {&timeout, "10s"},
	} {
		d, err := time.ParseDuration(getEnv(key, spec.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("invalid %s: must not be negative", key)
		}
		*spec.dst = d
	}

	store := strings.ToLower(getEnv("SESSION_STORE", SessionStoreSQLite))
	if store != SessionStoreSQLite && store != SessionStoreRedis {
		return nil, fmt.Errorf("invalid SESSION_STORE %q: want %q or %q", store, SessionStoreSQLite, SessionStoreRedis)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/gamevault.db"),
		},
		Session: SessionConfig{
			Store:         store,
			SweepInterval: sweep,
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "gamevault:"),
		},
		Auth: AuthConfig{
			Hasher:           getEnv("PASSWORD_HASHER", "sha512"),
			AdminEmails:      splitList(getEnv("ADMIN_EMAILS", "")),
			TrustedProxies:   splitList(getEnv("TRUSTED_PROXIES", "")),
			LoginMaxAttempts: loginMax,
			LoginWindow:      loginWindow,
		},
		Catalog: CatalogConfig{
			APIURL:        getEnv("STEAM_API_URL", "https://api.steampowered.com"),
			StoreURL:      getEnv("STEAM_STORE_URL", "https://store.steampowered.com"),
			DefaultLocale: getEnv("CATALOG_DEFAULT_LOCALE", "french"),
			CacheTTL:      cacheTTL,
			Timeout:       timeout,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		CORS: CORSConfig{
			Origins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3030")),
		},
	}

	return cfg, nil
}

// Addr returns the listen address, e.g. "0.0.0.0:9090".
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv returns the variable's value, or fallback when it is unset.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
