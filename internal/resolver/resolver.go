// Package resolver answers every read by walking a fixed chain of sources,
// short-circuiting on the first non-empty answer. Source failures degrade to
// the next link; an exhausted chain yields an empty result, never an error.
package resolver

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/source"
)

// DefaultAdapterTimeout bounds a single source attempt.
const DefaultAdapterTimeout = 20 * time.Second

// Curated is the local dataset the resolver falls back to and searches.
type Curated interface {
	source.Adapter
	All(collectionID string) []hadith.Hadith
	NativeName(collectionID string) string
}

// Resolver orchestrates the sources. The zero value is not usable; use New.
type Resolver struct {
	cdn     source.Adapter
	api     source.Adapter
	curated Curated

	cache          *cache.Cache
	logger         *slog.Logger
	adapterTimeout time.Duration
	placeholders   bool
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithCDN sets the static CDN source.
func WithCDN(a source.Adapter) Option {
	return func(r *Resolver) { r.cdn = a }
}

// WithAPI sets the keyed API source. Leave unset when no key is configured.
func WithAPI(a source.Adapter) Option {
	return func(r *Resolver) { r.api = a }
}

// WithCurated sets the local curated source.
func WithCurated(c Curated) Option {
	return func(r *Resolver) { r.curated = c }
}

// WithCache sets the cache merged book lists and search matches are stored in.
func WithCache(c *cache.Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAdapterTimeout bounds each source attempt. Zero disables the bound.
func WithAdapterTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d >= 0 {
			r.adapterTimeout = d
		}
	}
}

// WithPlaceholderBooks makes Books generate numbered synthetic books when
// every source came back empty.
func WithPlaceholderBooks(enabled bool) Option {
	return func(r *Resolver) { r.placeholders = enabled }
}

// New creates a resolver. Sources that are not configured are skipped.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		logger:         slog.Default(),
		adapterTimeout: DefaultAdapterTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// curatedAdapter returns the curated source as a plain adapter, or nil.
func (r *Resolver) curatedAdapter() source.Adapter {
	if r.curated == nil {
		return nil
	}
	return r.curated
}

// cdnEligible reports whether the CDN serves the collection.
func (r *Resolver) cdnEligible(collectionID string) bool {
	return supports(r.cdn, collectionID)
}

func supports(a source.Adapter, collectionID string) bool {
	if a == nil {
		return false
	}
	if s, ok := a.(source.Supporter); ok {
		return s.Supports(collectionID)
	}
	return true
}

// attempt runs one link of a chain under the per-adapter deadline. It
// reports whether the link produced a usable, non-empty answer.
func attempt[T any](ctx context.Context, r *Resolver, a source.Adapter, op, collectionID string,
	call func(context.Context) (T, error), empty func(T) bool) (T, bool) {
	var zero T
	if a == nil || !supports(a, collectionID) {
		return zero, false
	}

	if r.adapterTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.adapterTimeout)
		defer cancel()
	}

	start := time.Now()
	v, err := call(ctx)
	logger := r.logger.With("op", op, "source", a.Name(), "collection", collectionID)
	switch {
	case err == nil:
	case stdErrors.Is(err, errors.ErrUnsupported):
		logger.Debug("Source does not serve collection")
		return zero, false
	case errors.IsAuthError(err):
		logger.Error("Source rejected credentials, falling through", "error", err)
		return zero, false
	case stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.Warn("Source timed out, falling through", "timeout", r.adapterTimeout, "error", err)
		return zero, false
	default:
		logger.Warn("Source unavailable, falling through", "error", err)
		return zero, false
	}

	if empty(v) {
		logger.Debug("Source returned nothing", "duration", time.Since(start))
		return zero, false
	}
	logger.Debug("Source answered", "duration", time.Since(start))
	return v, true
}
