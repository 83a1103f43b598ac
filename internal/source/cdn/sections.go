package cdn

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/source"
)

// Hadiths implements source.Adapter.
//
// A book query downloads that one section. A collection-wide query pages
// natively across sections, downloading only the sections up to the requested
// window. A grade filter on a collection-wide query needs every section, since
// grades are only known after download.
func (a *Adapter) Hadiths(ctx context.Context, q source.Query) (source.Page, error) {
	edition, err := a.edition(q.CollectionID)
	if err != nil {
		return source.Page{}, err
	}

	if q.Book != nil {
		items, err := a.section(ctx, q.CollectionID, edition, *q.Book)
		if errors.IsNotFound(err) {
			return source.Page{}, nil
		}
		if err != nil {
			return source.Page{}, fmt.Errorf("listing book %d of %s: %w", *q.Book, q.CollectionID, err)
		}
		return source.Full(source.FilterGrade(items, q.Grade)), nil
	}

	meta, ok, err := a.info(ctx, edition)
	if err != nil {
		return source.Page{}, fmt.Errorf("listing %s: %w", q.CollectionID, err)
	}
	if !ok {
		return source.Page{}, nil
	}
	spans := meta.spans()

	if q.Grade != nil {
		items, err := a.sections(ctx, q.CollectionID, edition, spans)
		if err != nil {
			return source.Page{}, err
		}
		return source.Full(source.FilterGrade(items, q.Grade)), nil
	}

	page, limit := pagination.Clamp(q.Page, q.Limit)
	return a.window(ctx, q.CollectionID, edition, spans, pagination.Offset(page, limit), limit)
}

// window cuts limit narrations starting at collection-wide position start.
// info.json boundaries only estimate section sizes, since editions are often
// sparse, so positions are counted from what each downloaded section really
// holds. Every section up to the window is downloaded; sections never
// downloaded contribute their estimate to the total.
func (a *Adapter) window(ctx context.Context, collectionID, edition string, spans []span, start, limit int) (source.Page, error) {
	estimated := 0
	for _, s := range spans {
		estimated += s.count()
	}
	if start >= estimated {
		return source.Page{Items: []hadith.Hadith{}, Total: estimated, Windowed: true}, nil
	}

	end := start + limit
	batch := len(spans)
	seen := 0
	for i, s := range spans {
		seen += s.count()
		if seen >= end {
			batch = i + 1
			break
		}
	}
	downloaded, err := a.sectionSet(ctx, collectionID, edition, spans[:batch])
	if err != nil {
		return source.Page{}, err
	}

	items := make([]hadith.Hadith, 0, limit)
	pos := 0
	i := 0
	for ; i < len(spans) && len(items) < limit; i++ {
		if i >= len(downloaded) {
			// Sparse sections left the window short; pull the next one.
			more, err := a.sectionSet(ctx, collectionID, edition, spans[i:i+1])
			if err != nil {
				return source.Page{}, err
			}
			downloaded = append(downloaded, more...)
		}
		section := downloaded[i]
		if skip := max(start-pos, 0); skip < len(section) {
			take := min(len(section)-skip, limit-len(items))
			items = append(items, section[skip:skip+take]...)
		}
		pos += len(section)
	}

	total := pos
	for j := i; j < len(spans); j++ {
		if j < len(downloaded) {
			total += len(downloaded[j])
		} else {
			total += spans[j].count()
		}
	}
	return source.Page{Items: items, Total: total, Windowed: true}, nil
}

// sections downloads several sections concurrently and concatenates them in
// span order. Any section failing fails the whole call.
func (a *Adapter) sections(ctx context.Context, collectionID, edition string, spans []span) ([]hadith.Hadith, error) {
	results, err := a.sectionSet(ctx, collectionID, edition, spans)
	if err != nil {
		return nil, err
	}
	var out []hadith.Hadith
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// sectionSet downloads sections concurrently, one result per span.
func (a *Adapter) sectionSet(ctx context.Context, collectionID, edition string, spans []span) ([][]hadith.Hadith, error) {
	results := make([][]hadith.Hadith, len(spans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, s := range spans {
		g.Go(func() error {
			items, err := a.section(gctx, collectionID, edition, s.Section)
			if err != nil {
				return fmt.Errorf("section %d: %w", s.Section, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// section fetches both language editions of one section in parallel and
// merges them by number. A missing native edition leaves TextNative empty;
// only both editions failing makes the section unavailable.
func (a *Adapter) section(ctx context.Context, collectionID, edition string, n int) ([]hadith.Hadith, error) {
	return a.editions(ctx, collectionID, edition, "sections", n)
}

func (a *Adapter) editions(ctx context.Context, collectionID, edition, kind string, n int) ([]hadith.Hadith, error) {
	var primary, native document
	var primaryErr, nativeErr error

	var g errgroup.Group
	g.Go(func() error {
		primary, primaryErr = a.document(ctx, langPrimary, edition, kind, n)
		return nil
	})
	g.Go(func() error {
		native, nativeErr = a.document(ctx, langNative, edition, kind, n)
		return nil
	})
	_ = g.Wait()

	switch {
	case primaryErr != nil && nativeErr != nil:
		return nil, primaryErr
	case primaryErr != nil:
		a.logger.Warn("Primary edition unavailable, serving native text only",
			"collection", collectionID, "kind", kind, "number", n, "error", primaryErr)
	case nativeErr != nil:
		a.logger.Warn("Native edition unavailable, serving without native text",
			"collection", collectionID, "kind", kind, "number", n, "error", nativeErr)
	}

	items, dropped := mergeEditions(collectionID, primary.Hadiths, native.Hadiths)
	if dropped > 0 {
		a.logger.Warn("Dropped CDN entries without a usable hadith number",
			"collection", collectionID, "kind", kind, "number", n, "dropped", dropped)
	}
	return items, nil
}

// document fetches and validates one edition document, caching it at content TTL.
func (a *Adapter) document(ctx context.Context, lang, edition, kind string, n int) (document, error) {
	key := cache.Key(Name, kind, lang, edition, n)
	doc, _, err := cache.GetOrFetch(a.cache, key, cache.Content, func() (document, error) {
		var doc document
		path := fmt.Sprintf("editions/%s-%s/%d", lang, edition, n)
		if kind == "sections" {
			path = fmt.Sprintf("editions/%s-%s/sections/%d", lang, edition, n)
		}
		if err := a.fetchJSON(ctx, path, &doc); err != nil {
			return document{}, err
		}
		if doc.Hadiths == nil {
			return document{}, errors.NewSchemaError(Name, path, fmt.Errorf("missing hadiths array"))
		}
		return doc, nil
	})
	return doc, err
}

// Hadith implements source.Adapter with the CDN's single-hadith documents.
func (a *Adapter) Hadith(ctx context.Context, collectionID string, number int) (*hadith.Hadith, error) {
	edition, err := a.edition(collectionID)
	if err != nil {
		return nil, err
	}

	items, err := a.editions(ctx, collectionID, edition, "hadith", number)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching %s %d: %w", collectionID, number, err)
	}
	for _, h := range items {
		if h.Number == number {
			return &h, nil
		}
	}
	return nil, nil
}
