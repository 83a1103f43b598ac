// Package api adapts the keyed hadith REST API: a chapters endpoint per
// collection and a single filtered, paginated hadiths endpoint.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/ratelimit"
)

const (
	// Name identifies this source in logs and results.
	Name = "api"

	defaultBaseURL       = "https://hadithapi.com/api"
	defaultTimeout       = 10 * time.Second
	defaultMaxAttempts   = 3
	defaultRetryDelay    = time.Second
	defaultRatePerSecond = 2
	defaultRateBurst     = 4
	chaptersPerPage      = 100
)

// slugs maps canonical collection ids to the API's book slugs.
var slugs = map[string]string{
	"bukhari":  "sahih-bukhari",
	"muslim":   "sahih-muslim",
	"abudawud": "abu-dawood",
	"tirmidhi": "al-tirmidhi",
	"nasai":    "sunan-nasai",
	"ibnmajah": "ibn-e-majah",
	"mishkat":  "mishkat",
	"ahmad":    "musnad-ahmad",
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is the keyed API adapter.
type Client struct {
	apiKey        string
	baseURL       string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	cache         *cache.Cache
	logger        *slog.Logger
	retryAttempts int
	retryDelay    time.Duration
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		rateLimiter:   ratelimit.New("hadith API", defaultRatePerSecond, defaultRateBurst),
		logger:        slog.Default(),
		retryAttempts: defaultMaxAttempts,
		retryDelay:    defaultRetryDelay,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRetryAttempts sets the number of attempts for retryable failures.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRetryDelay sets the first backoff delay. Later attempts double it.
func WithRetryDelay(d time.Duration) Option {
	return func(client *Client) {
		if d >= 0 {
			client.retryDelay = d
		}
	}
}

// WithRateLimiter sets the limiter. A nil limiter disables limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithCache sets the cache raw pages and chapter counts are stored in.
func WithCache(c *cache.Cache) Option {
	return func(client *Client) { client.cache = c }
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// Name implements source.Adapter.
func (c *Client) Name() string { return Name }

// Supports reports whether the API publishes the collection.
func (c *Client) Supports(collectionID string) bool {
	_, ok := slugs[collectionID]
	return ok
}

// Slug returns the API's book slug for a collection.
func Slug(collectionID string) (string, bool) {
	s, ok := slugs[collectionID]
	return s, ok
}
