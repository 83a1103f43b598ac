package resolver_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/resolver"
	"github.com/lepinkainen/sanad/internal/source"
	"github.com/lepinkainen/sanad/internal/source/api"
	"github.com/lepinkainen/sanad/internal/source/cdn"
	"github.com/lepinkainen/sanad/internal/source/curated"
	"github.com/lepinkainen/sanad/internal/testutil"
)

const apiKey = "resolver-key"

type harness struct {
	resolver *resolver.Resolver
	cdn      *testutil.Upstream
	api      *testutil.Upstream
}

// newHarness wires the real adapters against fake upstreams.
func newHarness(t *testing.T, key string, opts ...resolver.Option) *harness {
	t.Helper()

	c := cache.New()
	cdnUp := testutil.NewUpstream(t)
	testutil.ServeCDN(cdnUp)
	apiUp := testutil.NewUpstream(t)
	testutil.ServePrimaryAPI(apiUp, apiKey)

	cur, err := curated.New()
	require.NoError(t, err)

	base := []resolver.Option{
		resolver.WithCache(c),
		resolver.WithCDN(cdn.New(cdn.WithBaseURL(cdnUp.URL), cdn.WithCache(c))),
		resolver.WithAPI(api.NewClient(key, api.WithBaseURL(apiUp.URL+"/api"), api.WithCache(c),
			api.WithRateLimiter(nil), api.WithRetryDelay(0))),
		resolver.WithCurated(cur),
	}
	return &harness{
		resolver: resolver.New(append(base, opts...)...),
		cdn:      cdnUp,
		api:      apiUp,
	}
}

func intPtr(n int) *int { return &n }

func TestBooksFromCDNWithCuratedNativeNames(t *testing.T) {
	h := newHarness(t, apiKey)

	books := h.resolver.Books(context.Background(), "bukhari")
	require.Len(t, books, 2)
	assert.Equal(t, "Revelation", books[0].Name)
	assert.Equal(t, "كتاب بدء الوحى", books[0].NameNative, "blank CDN field filled from curated")
	assert.Equal(t, testutil.BukhariBook1Count, books[0].NarrationCount, "CDN count kept")
	assert.Equal(t, "كتاب الإيمان", books[1].NameNative)
	assert.Zero(t, h.api.TotalHits())
}

func TestBooksFallsThroughToAPI(t *testing.T) {
	h := newHarness(t, apiKey)
	h.cdn.FailAll(503)

	books := h.resolver.Books(context.Background(), "bukhari")
	require.Len(t, books, testutil.APIBukhariChapters)
	assert.Equal(t, "Knowledge", books[2].Name)
	assert.False(t, books[0].Synthetic)
}

func TestBooksAuthFailureFallsThroughToCurated(t *testing.T) {
	h := newHarness(t, "wrong-key")
	h.cdn.FailAll(503)

	books := h.resolver.Books(context.Background(), "bukhari")
	require.Len(t, books, 3)
	assert.Equal(t, "كتاب العلم", books[2].NameNative)
	assert.Positive(t, h.api.TotalHits())
}

func TestBooksAllFailingIsEmpty(t *testing.T) {
	u := testutil.NewUpstream(t)
	u.FailAll(500)
	r := resolver.New(resolver.WithCDN(cdn.New(cdn.WithBaseURL(u.URL))))

	books := r.Books(context.Background(), "bukhari")
	require.NotNil(t, books)
	assert.Empty(t, books)
}

func TestBooksPlaceholdersAreSynthetic(t *testing.T) {
	h := newHarness(t, apiKey, resolver.WithPlaceholderBooks(true))
	h.cdn.FailAll(503)
	h.api.FailAll(503)

	books := h.resolver.Books(context.Background(), "abudawud")
	require.Len(t, books, 43)
	for _, b := range books {
		assert.True(t, b.Synthetic)
	}
	assert.Equal(t, "Book 1", books[0].Name)

	assert.Empty(t, h.resolver.Books(context.Background(), "unknown"))
}

func TestBooksCachedAfterFirstSuccess(t *testing.T) {
	h := newHarness(t, apiKey)
	ctx := context.Background()

	first := h.resolver.Books(ctx, "bukhari")
	hits := h.cdn.TotalHits()
	h.cdn.FailAll(503)

	second := h.resolver.Books(ctx, "bukhari")
	assert.Equal(t, first, second)
	assert.Equal(t, hits, h.cdn.TotalHits())
}

func TestBooksFromAPIPickUpBackfilledCounts(t *testing.T) {
	h := newHarness(t, apiKey, resolver.WithCurated(nil))
	h.cdn.FailAll(503)
	ctx := context.Background()

	books := h.resolver.Books(ctx, "bukhari")
	require.Len(t, books, testutil.APIBukhariChapters)
	assert.Zero(t, books[0].NarrationCount, "unknown until the chapter is listed")

	res := h.resolver.Hadiths(ctx, resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(1), Page: 1, Limit: 25})
	require.Equal(t, api.Name, res.Source)
	require.Equal(t, 4, res.Total)

	books = h.resolver.Books(ctx, "bukhari")
	require.Len(t, books, testutil.APIBukhariChapters)
	assert.Equal(t, 4, books[0].NarrationCount)
	assert.Zero(t, books[1].NarrationCount)
}

func TestHadithsBukhariBookOneScenario(t *testing.T) {
	h := newHarness(t, apiKey)
	ctx := context.Background()

	res := h.resolver.Hadiths(ctx, resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(1), Page: 1, Limit: 5})
	assert.Equal(t, cdn.Name, res.Source)
	require.Len(t, res.Items, 5)
	assert.Equal(t, testutil.BukhariBook1Count, res.Total)
	assert.Equal(t, 1, res.CurrentPage)
	assert.Equal(t, 2, res.LastPage)
	assert.True(t, res.HasMore)
	for _, item := range res.Items {
		assert.NotEmpty(t, item.Text)
		assert.Equal(t, hadith.GradeAuthentic, item.Grade)
	}

	res = h.resolver.Hadiths(ctx, resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(1), Page: 2, Limit: 5})
	require.Len(t, res.Items, 2)
	assert.False(t, res.HasMore)
}

func TestHadithsClampsPaging(t *testing.T) {
	h := newHarness(t, apiKey)

	res := h.resolver.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(1), Page: -3, Limit: 0})
	assert.Equal(t, 1, res.CurrentPage)
	assert.Len(t, res.Items, testutil.BukhariBook1Count)
	assert.Equal(t, 1, res.LastPage)
}

func TestHadithsCollectionWideUsesCDNWindow(t *testing.T) {
	h := newHarness(t, apiKey)

	res := h.resolver.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "bukhari", Page: 2, Limit: 5})
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 3, res.LastPage)
	require.Len(t, res.Items, 5)
	assert.Equal(t, 6, res.Items[0].Number)
}

func TestHadithsFallsBackToCurated(t *testing.T) {
	h := newHarness(t, apiKey)
	h.cdn.FailAll(503)

	res := h.resolver.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(1), Page: 1, Limit: 5})
	assert.Equal(t, curated.Name, res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Items[0].Number)
	assert.Zero(t, h.api.TotalHits(), "curated answered before the API")
}

func TestHadithsAPIIsLastLink(t *testing.T) {
	h := newHarness(t, apiKey)

	// The CDN fixture has no section 3 and the curated book 3 is empty.
	res := h.resolver.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(3), Page: 1, Limit: 5})
	assert.Equal(t, api.Name, res.Source)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 7, res.Items[0].Number)
}

func TestHadithsNonCDNCollectionIsCuratedOnly(t *testing.T) {
	h := newHarness(t, apiKey)

	res := h.resolver.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "nawawi", Page: 1, Limit: 3})
	assert.Equal(t, curated.Name, res.Source)
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 4, res.LastPage)
	assert.Zero(t, h.cdn.TotalHits())
	assert.Zero(t, h.api.TotalHits())
}

func TestHadithsGradeFilter(t *testing.T) {
	h := newHarness(t, apiKey)

	good := hadith.GradeGood
	res := h.resolver.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "tirmidhi", Book: intPtr(1), Page: 1, Limit: 25, Grade: &good})
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].Number)
	assert.Equal(t, cdn.Name, res.Source)
}

func TestHadithsAllFailingIsEmpty(t *testing.T) {
	r := resolver.New()

	res := r.Hadiths(context.Background(), resolver.ListQuery{CollectionID: "bukhari", Page: 2, Limit: 10})
	require.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.Total)
	assert.Equal(t, 2, res.CurrentPage)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.Source)
}

func TestRepeatedReadsAreIdempotentAndCached(t *testing.T) {
	h := newHarness(t, apiKey)
	ctx := context.Background()
	q := resolver.ListQuery{CollectionID: "bukhari", Book: intPtr(1), Page: 1, Limit: 5}

	first, err := json.Marshal(h.resolver.Hadiths(ctx, q))
	require.NoError(t, err)
	hits := h.cdn.TotalHits() + h.api.TotalHits()

	second, err := json.Marshal(h.resolver.Hadiths(ctx, q))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, hits, h.cdn.TotalHits()+h.api.TotalHits(), "second read makes no upstream calls")
}

func TestHadithSingle(t *testing.T) {
	h := newHarness(t, apiKey)
	ctx := context.Background()

	got := h.resolver.Hadith(ctx, "bukhari", 5)
	require.NotNil(t, got)
	assert.Equal(t, testutil.BukhariArabicText(5), got.TextNative)

	assert.Nil(t, h.resolver.Hadith(ctx, "bukhari", 0))
	assert.Nil(t, h.resolver.Hadith(ctx, "nawawi", 400))
}

func TestHadithFallsBackToCurated(t *testing.T) {
	h := newHarness(t, apiKey)
	h.cdn.FailAll(503)

	got := h.resolver.Hadith(context.Background(), "bukhari", 1)
	require.NotNil(t, got)
	assert.Contains(t, got.Text, "intentions")
}

func TestNawawiFiveWithoutNetworkSources(t *testing.T) {
	cur, err := curated.New()
	require.NoError(t, err)
	r := resolver.New(resolver.WithCurated(cur))

	got := r.Hadith(context.Background(), "nawawi", 5)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Number)
	assert.Equal(t, "nawawi", got.CollectionID)
}

func TestSearchCuratedOnlyTermHighlighted(t *testing.T) {
	h := newHarness(t, apiKey)

	res := h.resolver.Search(context.Background(), resolver.SearchQuery{Query: "naseehah"})
	require.NotEmpty(t, res.Items)
	assert.Equal(t, curated.Name, res.Source)
	assert.Equal(t, 7, res.Items[0].Number)
	assert.Contains(t, res.Items[0].Snippet, "<mark>naseehah</mark>")
	assert.Zero(t, h.cdn.TotalHits()+h.api.TotalHits())
}

func TestSearchScopesAndPaging(t *testing.T) {
	h := newHarness(t, apiKey)
	ctx := context.Background()

	all := h.resolver.Search(ctx, resolver.SearchQuery{Query: "intentions"})
	assert.Equal(t, 2, all.Total, "nawawi 1 and bukhari 1")

	scoped := h.resolver.Search(ctx, resolver.SearchQuery{Query: "intentions", CollectionID: "bukhari"})
	require.Len(t, scoped.Items, 1)
	assert.Equal(t, "bukhari", scoped.Items[0].CollectionID)

	paged := h.resolver.Search(ctx, resolver.SearchQuery{Query: "Messenger of Allah", Limit: 2})
	assert.Len(t, paged.Items, 2)
	assert.True(t, paged.HasMore)

	arabic := h.resolver.Search(ctx, resolver.SearchQuery{Query: "النصيحة"})
	require.NotEmpty(t, arabic.Items)
	assert.Contains(t, arabic.Items[0].Snippet, "<mark>")

	empty := h.resolver.Search(ctx, resolver.SearchQuery{Query: "   "})
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Total)

	none := h.resolver.Search(ctx, resolver.SearchQuery{Query: "xylophone"})
	assert.Empty(t, none.Items)
}

// fakeAdapter is a scripted source for chain-ordering tests.
type fakeAdapter struct {
	name  string
	books []hadith.Book
	page  source.Page
	err   error
	block bool
	stats [2]int
	calls atomic.Int32
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return errors.NewUnavailableError(f.name, 0, ctx.Err())
	}
	return f.err
}

func (f *fakeAdapter) Books(ctx context.Context, _ string) ([]hadith.Book, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.books, nil
}

func (f *fakeAdapter) Hadiths(ctx context.Context, _ source.Query) (source.Page, error) {
	if err := f.wait(ctx); err != nil {
		return source.Page{}, err
	}
	return f.page, nil
}

func (f *fakeAdapter) Hadith(ctx context.Context, _ string, _ int) (*hadith.Hadith, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if len(f.page.Items) == 0 {
		return nil, nil
	}
	return &f.page.Items[0], nil
}

func (f *fakeAdapter) CollectionStats(ctx context.Context, _ string) (int, int, error) {
	if err := f.wait(ctx); err != nil {
		return 0, 0, err
	}
	return f.stats[0], f.stats[1], nil
}

func TestSlowSourceIsBoundedByAdapterTimeout(t *testing.T) {
	slow := &fakeAdapter{name: "slow", block: true}
	backup := &fakeAdapter{name: "backup", books: []hadith.Book{{Number: 1, Name: "One"}}}
	r := resolver.New(resolver.WithCDN(slow), resolver.WithAPI(backup), resolver.WithAdapterTimeout(20*time.Millisecond))

	start := time.Now()
	books := r.Books(context.Background(), "bukhari")
	require.Len(t, books, 1)
	assert.Equal(t, "One", books[0].Name)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFallbackDeterminism(t *testing.T) {
	first := &fakeAdapter{name: "first", err: errors.NewUnavailableError("first", 502, nil)}
	second := &fakeAdapter{name: "second", books: []hadith.Book{{Number: 1, Name: "Second"}}}
	third := &fakeAdapter{name: "third", books: []hadith.Book{{Number: 1, Name: "Third"}}}

	for range 3 {
		r := resolver.New(resolver.WithCDN(first), resolver.WithAPI(second), resolver.WithCurated(curatedStub{third}))
		books := r.Books(context.Background(), "bukhari")
		require.Len(t, books, 1)
		assert.Equal(t, "Second", books[0].Name)
	}
}

func TestUnsupportedSourceIsSkipped(t *testing.T) {
	unsupported := &fakeAdapter{name: "cdn", err: errors.ErrUnsupported}
	backup := &fakeAdapter{name: "api", books: []hadith.Book{{Number: 2}}}
	r := resolver.New(resolver.WithCDN(unsupported), resolver.WithAPI(backup))

	books := r.Books(context.Background(), "ahmad")
	require.Len(t, books, 1)
	assert.Equal(t, 2, books[0].Number)
}

func TestCollectionsEnrichesUnknownCountsOnly(t *testing.T) {
	stats := &fakeAdapter{name: "cdn", stats: [2]int{61, 1851}}
	cur, err := curated.New()
	require.NoError(t, err)
	r := resolver.New(resolver.WithCDN(stats), resolver.WithCurated(cur))

	cols := r.Collections(context.Background())
	byID := make(map[string]hadith.Collection, len(cols))
	for _, c := range cols {
		byID[c.ID] = c
	}

	assert.Equal(t, 61, byID["malik"].TotalBooks)
	assert.Equal(t, 1851, byID["malik"].TotalNarrations)
	assert.Equal(t, 7563, byID["bukhari"].TotalNarrations, "populated seed counts are kept")
	assert.Equal(t, 42, byID["nawawi"].TotalNarrations)
	assert.NotEmpty(t, byID["malik"].DisplayNameNative)
}

func TestCollectionsWithoutSources(t *testing.T) {
	cols := resolver.New().Collections(context.Background())
	assert.Len(t, cols, len(hadith.SeedCollections()))
}

// curatedStub adapts a fakeAdapter to the curated interface.
type curatedStub struct{ *fakeAdapter }

func (curatedStub) All(string) []hadith.Hadith { return nil }
func (curatedStub) NativeName(string) string   { return "" }
