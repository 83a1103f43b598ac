package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/resolver"
	"github.com/lepinkainen/sanad/internal/server"
	"github.com/lepinkainen/sanad/internal/source/cdn"
	"github.com/lepinkainen/sanad/internal/source/curated"
	"github.com/lepinkainen/sanad/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	c := cache.New()
	up := testutil.NewUpstream(t)
	testutil.ServeCDN(up)
	cur, err := curated.New()
	require.NoError(t, err)

	r := resolver.New(
		resolver.WithCache(c),
		resolver.WithCDN(cdn.New(cdn.WithBaseURL(up.URL), cdn.WithCache(c))),
		resolver.WithCurated(cur),
	)
	ts := httptest.NewServer(server.New(r, c, "", nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Status string      `json:"status"`
		Cache  cache.Stats `json:"cache"`
	}
	assert.Equal(t, http.StatusOK, get(t, ts, "/healthz", &body))
	assert.Equal(t, "ok", body.Status)
}

func TestCollections(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Data []hadith.Collection `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/collections", &body))
	require.NotEmpty(t, body.Data)

	ids := make([]string, 0, len(body.Data))
	for _, c := range body.Data {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, "bukhari")
	assert.Contains(t, ids, "nawawi")
}

func TestBooks(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Data []hadith.Book `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/collections/bukhari/books", &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "كتاب بدء الوحى", body.Data[0].NameNative)
}

func TestBooksUnknownCollectionIsEmptyArray(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Data []hadith.Book `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/collections/nope/books", &body))
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Data)
}

func TestHadithsPaged(t *testing.T) {
	ts := newTestServer(t)

	var res pagination.Result[hadith.Hadith]
	require.Equal(t, http.StatusOK, get(t, ts, "/collections/bukhari/hadiths?book=1&page=2&limit=5", &res))
	assert.Equal(t, cdn.Name, res.Source)
	assert.Equal(t, testutil.BukhariBook1Count, res.Total)
	assert.Equal(t, 2, res.CurrentPage)
	assert.False(t, res.HasMore)
	require.Len(t, res.Items, 2)
	assert.Equal(t, 6, res.Items[0].Number)
}

func TestHadithsHugePage(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/collections/bukhari/hadiths?page=184467440737095517&limit=100",
		"/collections/bukhari/hadiths?book=1&page=184467440737095517&limit=100",
	} {
		var res pagination.Result[hadith.Hadith]
		require.Equal(t, http.StatusOK, get(t, ts, path, &res), path)
		assert.Empty(t, res.Items, path)
		assert.False(t, res.HasMore, path)
		assert.Equal(t, 184467440737095517, res.CurrentPage, path)
	}
}

func TestHadithsGradeFilter(t *testing.T) {
	ts := newTestServer(t)

	var res pagination.Result[hadith.Hadith]
	require.Equal(t, http.StatusOK, get(t, ts, "/collections/tirmidhi/hadiths?book=1&grade=hasan", &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, hadith.GradeGood, res.Items[0].Grade)
}

func TestHadithsBadParameters(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		code string
	}{
		{"non-numeric book", "/collections/bukhari/hadiths?book=one", "invalid_book"},
		{"zero book", "/collections/bukhari/hadiths?book=0", "invalid_book"},
		{"unknown grade", "/collections/bukhari/hadiths?grade=excellent", "invalid_grade"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, http.StatusBadRequest, get(t, ts, tt.path, &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestHadithsUnknownCollectionIsEmptyPage(t *testing.T) {
	ts := newTestServer(t)

	var res pagination.Result[hadith.Hadith]
	require.Equal(t, http.StatusOK, get(t, ts, "/collections/nope/hadiths?page=abc", &res))
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.CurrentPage)
	assert.Zero(t, res.LastPage)
}

func TestSingleHadith(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Data hadith.Hadith `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(t, ts, "/collections/nawawi/hadiths/5", &body))
	assert.Equal(t, 5, body.Data.Number)
	assert.Contains(t, body.Data.Text, "rejected")
}

func TestSingleHadithNotFound(t *testing.T) {
	ts := newTestServer(t)

	var body errorBody
	assert.Equal(t, http.StatusNotFound, get(t, ts, "/collections/nawawi/hadiths/999", &body))
	assert.Equal(t, "not_found", body.Code)

	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/collections/nawawi/hadiths/x", &body))
	assert.Equal(t, "invalid_number", body.Code)
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)

	var res pagination.Result[hadith.Hadith]
	require.Equal(t, http.StatusOK, get(t, ts, "/search?q=naseehah&collection=nawawi", &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, 7, res.Items[0].Number)
	assert.Contains(t, res.Items[0].Snippet, "<mark>")
}

func TestSearchRequiresQuery(t *testing.T) {
	ts := newTestServer(t)

	var body errorBody
	assert.Equal(t, http.StatusBadRequest, get(t, ts, "/search?q=%20", &body))
	assert.Equal(t, "missing_query", body.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	var body errorBody
	assert.Equal(t, http.StatusNotFound, get(t, ts, "/nope", &body))
	assert.Equal(t, "not_found", body.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := server.New(resolver.New(), nil, "127.0.0.1:0", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
