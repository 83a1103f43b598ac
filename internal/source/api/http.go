package api

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/sanad/internal/errors"
)

// apiStatus is the error envelope the API answers failures with.
type apiStatus struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)
	return c.baseURL + "/" + strings.TrimPrefix(path, "/") + "?" + params.Encode()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	if c.apiKey == "" {
		return errors.NewAuthError(Name, 0, "")
	}
	endpoint := c.endpoint(path, params)

	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return errors.NewUnavailableError(Name, 0, err)
		}
		err := c.doJSONRequest(ctx, endpoint, target)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == c.retryAttempts {
			return err
		}
		c.logger.Debug("Retrying API request", "path", path, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return errors.NewUnavailableError(Name, 0, ctx.Err())
		case <-time.After(backoffDelay(c.retryDelay, attempt)):
		}
	}
	return lastErr
}

func (c *Client) doJSONRequest(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.NewUnavailableError(Name, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewUnavailableError(Name, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var status apiStatus
		_ = json.Unmarshal(body, &status)
		msg := status.Message
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewAuthError(Name, resp.StatusCode, msg)
		case http.StatusTooManyRequests:
			return errors.NewRateLimitError(fmt.Sprintf("%s: rate limited: %s", Name, msg), retryAfter(resp.Header.Get("Retry-After")))
		default:
			return errors.NewUnavailableError(Name, resp.StatusCode, fmt.Errorf("unexpected status: %s", msg))
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.NewSchemaError(Name, req.URL.Path, err)
	}
	return nil
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func isRetryable(err error) bool {
	var urlErr *url.Error
	if stdErrors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		// Network errors (connection resets etc.)
		if strings.Contains(urlErr.Error(), "connection") {
			return true
		}
	}
	var u *errors.UnavailableError
	if stdErrors.As(err, &u) && u.StatusCode >= 500 {
		return true
	}
	return false
}

func backoffDelay(base time.Duration, attempt int) time.Duration {
	// exponential backoff capped at 10 seconds
	delay := base * time.Duration(1<<uint(attempt-1))
	if delay > 10*time.Second {
		return 10 * time.Second
	}
	return delay
}
