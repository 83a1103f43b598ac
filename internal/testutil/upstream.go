package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Upstream is a fake HTTP provider that serves canned documents by path and
// counts every request it receives.
type Upstream struct {
	*httptest.Server

	mu        sync.Mutex
	routes    map[string]http.HandlerFunc
	hits      map[string]int
	total     int
	lastQuery map[string]url.Values
	failWith  int
}

// NewUpstream starts a fake upstream that is closed when the test completes.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()

	u := &Upstream{
		routes:    make(map[string]http.HandlerFunc),
		hits:      make(map[string]int),
		lastQuery: make(map[string]url.Values),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits[r.URL.Path]++
	u.total++
	u.lastQuery[r.URL.Path] = r.URL.Query()
	route, ok := u.routes[r.URL.Path]
	failWith := u.failWith
	u.mu.Unlock()

	if failWith != 0 {
		w.WriteHeader(failWith)
		_, _ = w.Write([]byte(`{"error":"simulated outage"}`))
		return
	}
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	route(w, r)
}

// Handle serves body with status for requests to path.
func (u *Upstream) Handle(path string, status int, body string) {
	u.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// HandleFunc registers a custom handler for path.
func (u *Upstream) HandleFunc(path string, fn http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[path] = fn
}

// FailAll makes every request answer with status. Zero restores normal routing.
func (u *Upstream) FailAll(status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failWith = status
}

// Hits returns how many requests hit path.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// TotalHits returns how many requests the upstream received.
func (u *Upstream) TotalHits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.total
}

// LastQuery returns the query string of the latest request to path.
func (u *Upstream) LastQuery(path string) url.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastQuery[path]
}
