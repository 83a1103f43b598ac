package api

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
	"github.com/lepinkainen/sanad/internal/hadith"
)

func (c *Client) slug(collectionID string) (string, error) {
	s, ok := slugs[collectionID]
	if !ok {
		return "", fmt.Errorf("%s: %q: %w", Name, collectionID, errors.ErrUnsupported)
	}
	return s, nil
}

// Books implements source.Adapter. The API does not report per-chapter
// counts; NarrationCount is back-filled from counts observed while listing
// that chapter's hadiths and stays zero until then.
func (c *Client) Books(ctx context.Context, collectionID string) ([]hadith.Book, error) {
	slug, err := c.slug(collectionID)
	if err != nil {
		return nil, err
	}

	chapters, _, err := cache.GetOrFetch(c.cache, cache.Key(Name, "chapters", slug), cache.Metadata, func() ([]chapter, error) {
		return c.fetchChapters(ctx, slug)
	})
	if err != nil {
		return nil, fmt.Errorf("listing books for %s: %w", collectionID, err)
	}

	books := make([]hadith.Book, 0, len(chapters))
	for i, ch := range chapters {
		n := int(ch.ChapterNumber)
		if n < 1 {
			n = i + 1
		}
		books = append(books, hadith.Book{
			Number:         n,
			Name:           ch.ChapterEnglish,
			NameNative:     ch.ChapterArabic,
			NarrationCount: c.chapterCount(slug, n),
		})
	}
	sort.SliceStable(books, func(i, j int) bool { return books[i].Number < books[j].Number })
	return books, nil
}

// fetchChapters reads the first chapters page, then any remaining pages concurrently.
func (c *Client) fetchChapters(ctx context.Context, slug string) ([]chapter, error) {
	path := slug + "/chapters"
	first, lastPage, err := c.chapterPage(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	if lastPage <= 1 {
		return first, nil
	}

	rest := make([][]chapter, lastPage-1)
	g, gctx := errgroup.WithContext(ctx)
	for p := 2; p <= lastPage; p++ {
		g.Go(func() error {
			items, _, err := c.chapterPage(gctx, path, p)
			if err != nil {
				return fmt.Errorf("chapters page %d: %w", p, err)
			}
			rest[p-2] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := first
	for _, items := range rest {
		out = append(out, items...)
	}
	return out, nil
}

func (c *Client) chapterPage(ctx context.Context, path string, page int) ([]chapter, int, error) {
	params := url.Values{}
	params.Set("paginate", strconv.Itoa(chaptersPerPage))
	params.Set("page", strconv.Itoa(page))

	var resp chaptersResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		if errors.IsNotFound(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	items, lastPage, err := resp.decode()
	if err != nil {
		return nil, 0, errors.NewSchemaError(Name, "chapters", err)
	}
	return items, lastPage, nil
}

func countKey(slug string, chapter int) string {
	return cache.Key(Name, "count", slug, chapter)
}

func (c *Client) chapterCount(slug string, chapter int) int {
	if c.cache == nil {
		return 0
	}
	raw, ok := c.cache.Get(countKey(slug, chapter))
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return n
}

func (c *Client) rememberCount(slug string, chapter, total int) {
	if c.cache == nil || total < 1 {
		return
	}
	c.cache.Set(countKey(slug, chapter), cache.Metadata, []byte(strconv.Itoa(total)))
}
