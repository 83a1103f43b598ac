// Package config turns viper settings into the typed configuration the
// engine is built from.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "SANAD"

// Config is the complete runtime configuration.
type Config struct {
	PrimaryAPI PrimaryAPIConfig
	CDN        CDNConfig
	Cache      CacheConfig
	Resolver   ResolverConfig
	Server     ServerConfig
	Log        LogConfig
}

// PrimaryAPIConfig configures the keyed hadith API. An empty APIKey
// disables the source.
type PrimaryAPIConfig struct {
	BaseURL       string
	APIKey        string
	RatePerSecond float64
	Timeout       time.Duration
}

// CDNConfig configures the static CDN.
type CDNConfig struct {
	BaseURL     string
	Timeout     time.Duration
	Concurrency int
}

// CacheConfig sets the cache TTL classes.
type CacheConfig struct {
	MetadataTTL   time.Duration
	ContentTTL    time.Duration
	SweepInterval time.Duration
}

// ResolverConfig tunes source fallback.
type ResolverConfig struct {
	AdapterTimeout   time.Duration
	PlaceholderBooks bool
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string
}

// LogConfig configures logging.
type LogConfig struct {
	Level string
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("primary_api.base_url", "https://hadithapi.com/api")
	v.SetDefault("primary_api.api_key", "")
	v.SetDefault("primary_api.api_key_file", "")
	v.SetDefault("primary_api.rate_per_second", 2.0)
	v.SetDefault("primary_api.timeout", "10s")

	v.SetDefault("cdn.base_url", "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1")
	v.SetDefault("cdn.timeout", "15s")
	v.SetDefault("cdn.concurrency", 4)

	v.SetDefault("cache.metadata_ttl", "12h")
	v.SetDefault("cache.content_ttl", "1h")
	v.SetDefault("cache.sweep_interval", "10m")

	v.SetDefault("resolver.adapter_timeout", "20s")
	v.SetDefault("resolver.placeholder_books", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
}

// BindEnv makes every key readable from SANAD_ prefixed variables, with
// dots replaced by underscores (primary_api.api_key -> SANAD_PRIMARY_API_API_KEY).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads variables from .env style files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		slog.Debug("Loaded environment file", "path", path)
	}
	return nil
}

// Load reads the typed configuration from v. The API key file, when set,
// takes precedence over an inline key.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		PrimaryAPI: PrimaryAPIConfig{
			BaseURL:       v.GetString("primary_api.base_url"),
			APIKey:        strings.TrimSpace(v.GetString("primary_api.api_key")),
			RatePerSecond: v.GetFloat64("primary_api.rate_per_second"),
			Timeout:       v.GetDuration("primary_api.timeout"),
		},
		CDN: CDNConfig{
			BaseURL:     v.GetString("cdn.base_url"),
			Timeout:     v.GetDuration("cdn.timeout"),
			Concurrency: v.GetInt("cdn.concurrency"),
		},
		Cache: CacheConfig{
			MetadataTTL:   v.GetDuration("cache.metadata_ttl"),
			ContentTTL:    v.GetDuration("cache.content_ttl"),
			SweepInterval: v.GetDuration("cache.sweep_interval"),
		},
		Resolver: ResolverConfig{
			AdapterTimeout:   v.GetDuration("resolver.adapter_timeout"),
			PlaceholderBooks: v.GetBool("resolver.placeholder_books"),
		},
		Server: ServerConfig{Addr: v.GetString("server.addr")},
		Log:    LogConfig{Level: v.GetString("log.level")},
	}

	if path := strings.TrimSpace(v.GetString("primary_api.api_key_file")); path != "" {
		key, err := ReadSecretFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("primary_api.api_key_file: %w", err)
		}
		cfg.PrimaryAPI.APIKey = key
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	durations := map[string]time.Duration{
		"primary_api.timeout":  c.PrimaryAPI.Timeout,
		"cdn.timeout":          c.CDN.Timeout,
		"cache.metadata_ttl":   c.Cache.MetadataTTL,
		"cache.content_ttl":    c.Cache.ContentTTL,
		"cache.sweep_interval": c.Cache.SweepInterval,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}
	if c.Resolver.AdapterTimeout < 0 {
		return fmt.Errorf("resolver.adapter_timeout must not be negative")
	}
	if c.PrimaryAPI.RatePerSecond <= 0 {
		return fmt.Errorf("primary_api.rate_per_second must be positive")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ReadSecretFile returns the contents of a secret file with surrounding
// whitespace and the trailing newline removed. The raw bytes are used as is:
// no quoting or escaping is interpreted.
func ReadSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", path)
	}
	return secret, nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", name)
	}
	return level, nil
}
