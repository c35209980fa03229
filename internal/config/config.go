// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used by the server and
// the content generation CLI.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"edukoder/internal/ai"
	"edukoder/internal/ingest"
	"edukoder/internal/models"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Order API database; empty disables the order endpoints.
	DatabaseURL string

	// Valkey (Redis-compatible cache); empty host disables the image cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Content provider
	ProviderValue string // GM_APY: endpoint URL or API key
	AIProvider    string // forces "gemini", "openai", "claude" or "mistral"
	AIModel       string
	AIPrompt      string
	AIBaseURL     string
	ProviderKeys  map[string]string
	ItemLimit     int
	Timeout       time.Duration

	// Image search
	PexelsAPIKey string

	// S3-compatible publish target
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Static site
	SiteURL       string
	PublicDir     string
	AdsenseClient string
	PingMessage   string

	// Browser origins allowed to call the API; "*" allows any.
	CORSOrigins []string

	LogLevel slog.Level
}

// Load reads configuration from environment variables after loading an
// optional .env file. Variables already set in the environment win over the
// file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not parse .env file", "error", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: firstEnv("8080", "PORT", "APP_PORT"),
		Env:  envOrDefault("APP_ENV", "development"),

		DatabaseURL: firstEnv("", "NEON_DATABASE_URL", "DATABASE_URL"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		ProviderValue: strings.TrimSpace(os.Getenv("GM_APY")),
		AIProvider:    strings.ToLower(strings.TrimSpace(os.Getenv("AI_PROVIDER"))),
		AIModel:       firstEnv("", "AI_MODEL", "GEMINI_MODEL"),
		AIPrompt:      os.Getenv("AI_PROMPT"),
		AIBaseURL:     os.Getenv("AI_BASE_URL"),
		ProviderKeys: map[string]string{
			"gemini":  os.Getenv("GEMINI_API_KEY"),
			"openai":  os.Getenv("OPENAI_API_KEY"),
			"claude":  firstEnv("", "CLAUDE_API_KEY", "ANTHROPIC_API_KEY"),
			"mistral": os.Getenv("MISTRAL_API_KEY"),
		},

		PexelsAPIKey: firstEnv("", "PEXELS_API_KEY", "PEXELS_API", "PEXELS", "NEXT_PUBLIC_PEXELS_API_KEY"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SiteURL:       strings.TrimRight(envOrDefault("SITE_URL", "https://edukoder.com"), "/"),
		PublicDir:     envOrDefault("PUBLIC_DIR", "public"),
		AdsenseClient: envOrDefault("ADSENSE_CLIENT", "ca-pub-5704376838710588"),
		PingMessage:   envOrDefault("PING_MESSAGE", "pong"),
		CORSOrigins:   splitList(envOrDefault("CORS_ORIGINS", "*")),
	}

	cfg.ItemLimit = intEnv("ITEM_LIMIT")
	cfg.Timeout = time.Duration(intEnv("AI_TIMEOUT_SECONDS")) * time.Second
	cfg.LogLevel = parseLevel(os.Getenv("LOG_LEVEL"))

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		slog.Warn("no DATABASE_URL/NEON_DATABASE_URL set, order API will answer 500")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether an image-search cache is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// StorageEnabled reports whether a publish target is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// DataFile returns the path of the JSON store for kind.
func (c *Config) DataFile(kind models.ContentKind) string {
	return filepath.Join(c.PublicDir, "data", string(kind)+".json")
}

// BlogDir returns the directory holding Markdown and HTML articles.
func (c *Config) BlogDir() string {
	return filepath.Join(c.PublicDir, "blog")
}

// Ingest derives the pipeline configuration for kind. GM_APY is classified
// by shape: a recognised API key selects API-key mode, anything else is
// handed to the pipeline as an endpoint. Without GM_APY the first
// configured provider key is used, AI_PROVIDER's own key first.
func (c *Config) Ingest(kind models.ContentKind) ingest.Config {
	cfg := ingest.Config{
		Kind:            kind,
		ProviderName:    c.AIProvider,
		Model:           c.AIModel,
		ProviderBaseURL: c.AIBaseURL,
		ImageAPIKey:     c.PexelsAPIKey,
		ItemLimit:       c.ItemLimit,
		PromptOverride:  c.AIPrompt,
		Timeout:         c.Timeout,
	}

	if v := c.ProviderValue; v != "" {
		if name := ai.DetectProvider(v); name != "" {
			cfg.ProviderAPIKey = v
			if cfg.ProviderName == "" {
				cfg.ProviderName = name
			}
			return cfg
		}
		cfg.ProviderEndpoint = v
	}

	if cfg.ProviderName != "" {
		if key := c.ProviderKeys[cfg.ProviderName]; key != "" {
			cfg.ProviderAPIKey = key
			return cfg
		}
	}
	for _, name := range []string{"gemini", "openai", "claude", "mistral"} {
		if key := c.ProviderKeys[name]; key != "" {
			cfg.ProviderAPIKey = key
			if cfg.ProviderName == "" {
				cfg.ProviderName = name
			}
			return cfg
		}
	}
	return cfg
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty variable among keys, or fallback.
func firstEnv(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return fallback
}

// intEnv reads a non-negative integer. Unset is 0; anything unparseable
// is logged and also treated as 0 so the caller's default applies.
func intEnv(key string) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("ignoring invalid setting, using default", "key", key, "value", v)
		return 0
	}
	return n
}

// parseLevel maps LOG_LEVEL to a slog level; unknown names fall back to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	slog.Warn("ignoring invalid setting, using default", "key", "LOG_LEVEL", "value", s)
	return slog.LevelInfo
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
