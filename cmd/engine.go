package cmd

import (
	"log/slog"
	"net/http"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/config"
	"github.com/lepinkainen/sanad/internal/ratelimit"
	"github.com/lepinkainen/sanad/internal/resolver"
	"github.com/lepinkainen/sanad/internal/source/api"
	"github.com/lepinkainen/sanad/internal/source/cdn"
	"github.com/lepinkainen/sanad/internal/source/curated"
)

// Engine is the wired resolver plus the cache it shares with its adapters.
type Engine struct {
	Resolver *resolver.Resolver
	Cache    *cache.Cache
}

// buildEngine wires the cache, the three sources and the resolver from cfg.
// The keyed API is left out entirely when no key is configured.
func buildEngine(cfg config.Config, logger *slog.Logger) *Engine {
	c := cache.New(
		cache.WithTTL(cache.Metadata, cfg.Cache.MetadataTTL),
		cache.WithTTL(cache.Content, cfg.Cache.ContentTTL),
		cache.WithSweepInterval(cfg.Cache.SweepInterval),
		cache.WithLogger(logger),
	)

	opts := []resolver.Option{
		resolver.WithCache(c),
		resolver.WithLogger(logger),
		resolver.WithAdapterTimeout(cfg.Resolver.AdapterTimeout),
		resolver.WithPlaceholderBooks(cfg.Resolver.PlaceholderBooks),
		resolver.WithCDN(cdn.New(
			cdn.WithBaseURL(cfg.CDN.BaseURL),
			cdn.WithHTTPClient(&http.Client{Timeout: cfg.CDN.Timeout}),
			cdn.WithConcurrency(cfg.CDN.Concurrency),
			cdn.WithCache(c),
			cdn.WithLogger(logger),
		)),
	}

	if cfg.PrimaryAPI.APIKey != "" {
		opts = append(opts, resolver.WithAPI(api.NewClient(cfg.PrimaryAPI.APIKey,
			api.WithBaseURL(cfg.PrimaryAPI.BaseURL),
			api.WithHTTPClient(&http.Client{Timeout: cfg.PrimaryAPI.Timeout}),
			api.WithRateLimiter(ratelimit.New("hadith API", cfg.PrimaryAPI.RatePerSecond, 1)),
			api.WithCache(c),
			api.WithLogger(logger),
		)))
	} else {
		logger.Debug("No API key configured, keyed API disabled")
	}

	cur, err := curated.New()
	if err != nil {
		logger.Error("Curated dataset failed to load", "error", err)
	} else {
		opts = append(opts, resolver.WithCurated(cur))
	}

	return &Engine{Resolver: resolver.New(opts...), Cache: c}
}
