// Package cdn adapts the sharded static hadith CDN: one shared info.json
// describing every collection's sections, plus per-edition section and
// single-hadith documents.
package cdn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
)

const (
	// Name identifies this source in logs and results.
	Name = "cdn"

	defaultBaseURL     = "https://cdn.jsdelivr.net/gh/fawazahmed0/hadith-api@1"
	defaultTimeout     = 15 * time.Second
	defaultConcurrency = 4

	langPrimary = "eng"
	langNative  = "ara"
)

// editions maps canonical collection ids to the CDN's edition names.
var editions = map[string]string{
	"bukhari":  "bukhari",
	"muslim":   "muslim",
	"abudawud": "abudawud",
	"tirmidhi": "tirmidhi",
	"nasai":    "nasai",
	"ibnmajah": "ibnmajah",
	"malik":    "malik",
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Adapter reads the static CDN.
type Adapter struct {
	baseURL     string
	httpClient  HTTPDoer
	cache       *cache.Cache
	logger      *slog.Logger
	concurrency int
}

// Option is a functional option for configuring the Adapter.
type Option func(*Adapter)

// WithBaseURL sets a custom CDN root.
func WithBaseURL(base string) Option {
	return func(a *Adapter) {
		if base != "" {
			a.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(a *Adapter) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithCache sets the cache raw documents are stored in.
func WithCache(c *cache.Cache) Option {
	return func(a *Adapter) { a.cache = c }
}

// WithLogger sets the adapter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithConcurrency bounds parallel section downloads.
func WithConcurrency(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New creates a CDN adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements source.Adapter.
func (a *Adapter) Name() string { return Name }

// Supports reports whether the CDN publishes the collection.
func (a *Adapter) Supports(collectionID string) bool {
	_, ok := editions[collectionID]
	return ok
}

func (a *Adapter) edition(collectionID string) (string, error) {
	ed, ok := editions[collectionID]
	if !ok {
		return "", fmt.Errorf("%s: %q: %w", Name, collectionID, errors.ErrUnsupported)
	}
	return ed, nil
}

// fetchJSON downloads path, preferring the minified document and falling
// back to the plain one. The error of the last attempt is returned.
func (a *Adapter) fetchJSON(ctx context.Context, path string, target any) error {
	var lastErr error
	for _, suffix := range []string{".min.json", ".json"} {
		err := a.doJSONRequest(ctx, a.baseURL+"/"+path+suffix, target)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return errors.NewUnavailableError(Name, 0, ctx.Err())
		}
		a.logger.Debug("CDN document fetch failed", "path", path+suffix, "error", err)
		lastErr = err
	}
	return lastErr
}

func (a *Adapter) doJSONRequest(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.NewUnavailableError(Name, 0, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return errors.NewUnavailableError(Name, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewUnavailableError(Name, resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.NewSchemaError(Name, endpoint, err)
	}
	return nil
}
