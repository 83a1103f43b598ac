package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/source"
)

// statuses maps canonical grades to the API's server-side status filter.
// Fabricated and Unknown have no equivalent.
var statuses = map[hadith.Grade]string{
	hadith.GradeAuthentic: "Sahih",
	hadith.GradeGood:      "Hasan",
	hadith.GradeWeak:      "Da'eef",
}

// listing is the cached, already canonical form of one hadiths page.
type listing struct {
	Items []hadith.Hadith `json:"items"`
	Total int             `json:"total"`
}

// Hadiths implements source.Adapter with the API's native pagination and
// server-side grade filter.
func (c *Client) Hadiths(ctx context.Context, q source.Query) (source.Page, error) {
	slug, err := c.slug(q.CollectionID)
	if err != nil {
		return source.Page{}, err
	}

	params := url.Values{}
	params.Set("book", slug)
	params.Set("paginate", strconv.Itoa(q.Limit))
	params.Set("page", strconv.Itoa(q.Page))
	if q.Book != nil {
		params.Set("chapter", strconv.Itoa(*q.Book))
	}
	if q.Grade != nil {
		status, ok := statuses[*q.Grade]
		if !ok {
			return source.Page{}, nil
		}
		params.Set("status", status)
	}

	key := cache.Key(Name, "hadiths", slug, q.Book, q.Page, q.Limit, source.GradeKey(q.Grade))
	l, _, err := cache.GetOrFetchWithPolicy(c.cache, key, cache.Content, func() (listing, error) {
		return c.fetchHadiths(ctx, q.CollectionID, params)
	}, func(l listing) bool { return l.Total > 0 })
	if err != nil {
		return source.Page{}, fmt.Errorf("listing %s: %w", q.CollectionID, err)
	}

	if q.Book != nil && q.Grade == nil {
		c.rememberCount(slug, *q.Book, l.Total)
	}
	return source.Page{Items: l.Items, Total: l.Total, Windowed: true}, nil
}

// Hadith implements source.Adapter.
func (c *Client) Hadith(ctx context.Context, collectionID string, number int) (*hadith.Hadith, error) {
	slug, err := c.slug(collectionID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("book", slug)
	params.Set("hadithNumber", strconv.Itoa(number))
	params.Set("paginate", "5")

	key := cache.Key(Name, "hadith", slug, number)
	l, _, err := cache.GetOrFetchWithPolicy(c.cache, key, cache.Content, func() (listing, error) {
		return c.fetchHadiths(ctx, collectionID, params)
	}, func(l listing) bool { return l.Total > 0 })
	if err != nil {
		return nil, fmt.Errorf("fetching %s %d: %w", collectionID, number, err)
	}
	for _, h := range l.Items {
		if h.Number == number {
			return &h, nil
		}
	}
	return nil, nil
}

func (c *Client) fetchHadiths(ctx context.Context, collectionID string, params url.Values) (listing, error) {
	var resp hadithsResponse
	if err := c.getJSON(ctx, "hadiths", params, &resp); err != nil {
		// The API answers an empty filter result with 404.
		if errors.IsNotFound(err) {
			return listing{Items: []hadith.Hadith{}}, nil
		}
		return listing{}, err
	}
	if resp.Hadiths == nil {
		return listing{}, errors.NewSchemaError(Name, "hadiths", fmt.Errorf("missing hadiths object"))
	}

	items := make([]hadith.Hadith, 0, len(resp.Hadiths.Data))
	skipped := 0
	for _, w := range resp.Hadiths.Data {
		h, ok := toHadith(collectionID, w)
		if !ok {
			skipped++
			continue
		}
		items = append(items, h)
	}
	if skipped > 0 {
		c.logger.Warn("Skipped API hadiths without a usable number", "collection", collectionID, "skipped", skipped)
	}

	total := int(resp.Hadiths.Total)
	if total < len(items) {
		total = len(items)
	}
	return listing{Items: items, Total: total}, nil
}

func toHadith(collectionID string, w wireHadith) (hadith.Hadith, bool) {
	n := int(w.HadithNumber)
	if n < 1 {
		return hadith.Hadith{}, false
	}

	h := hadith.Hadith{
		CollectionID: collectionID,
		Number:       n,
		Text:         hadith.CleanText(w.HadithEnglish),
		TextNative:   hadith.CleanText(w.HadithArabic),
		Grade:        hadith.NormalizeGrade(w.Status, collectionID),
		BookNumber:   int(w.ChapterID),
	}
	if w.Chapter != nil {
		if cn := int(w.Chapter.ChapterNumber); cn > 0 {
			h.BookNumber = cn
		}
		h.ChapterTitle = strings.TrimSpace(w.Chapter.ChapterEnglish)
	}

	narrator := strings.TrimSpace(w.EnglishNarrator)
	if extracted := hadith.ExtractNarrator(narrator); extracted != "" {
		narrator = extracted
	} else if narrator == "" {
		narrator = hadith.ExtractNarrator(h.Text)
	}
	h.Narrator = strings.TrimSuffix(narrator, ":")

	name := collectionID
	if c, ok := hadith.LookupCollection(collectionID); ok {
		name = c.DisplayName
	}
	h.Reference = fmt.Sprintf("%s %d", name, n)
	return h, true
}
