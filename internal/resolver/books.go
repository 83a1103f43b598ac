package resolver

import (
	"context"
	"fmt"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/source"
)

// Books lists a collection's books: CDN, then the keyed API, then the
// curated set, then (when enabled) synthetic placeholders. The first
// non-empty list wins and curated data fills its blank fields.
//
// Lists answered by the keyed API are not cached here: their narration
// counts fill in as chapters are listed, and the API client already caches
// the chapter list itself.
func (r *Resolver) Books(ctx context.Context, collectionID string) []hadith.Book {
	key := cache.Key("resolver", "books", collectionID)
	res, _, err := cache.GetOrFetchWithPolicy(r.cache, key, cache.Metadata, func() (resolvedBooks, error) {
		return r.resolveBooks(ctx, collectionID), nil
	}, func(b resolvedBooks) bool { return b.Stable && len(b.Books) > 0 })
	if err != nil {
		r.logger.Warn("Book list cache failed", "collection", collectionID, "error", err)
		res = r.resolveBooks(ctx, collectionID)
	}
	if res.Books == nil {
		return []hadith.Book{}
	}
	return res.Books
}

// resolvedBooks is a merged book list. Stable is false when the list may
// change before it expires: placeholders, or keyed API counts still being
// back-filled.
type resolvedBooks struct {
	Books  []hadith.Book `json:"books"`
	Stable bool          `json:"stable"`
}

func (r *Resolver) resolveBooks(ctx context.Context, collectionID string) resolvedBooks {
	noBooks := func(b []hadith.Book) bool { return len(b) == 0 }

	var curatedBooks []hadith.Book
	if c := r.curatedAdapter(); c != nil {
		curatedBooks, _ = attempt(ctx, r, c, "books", collectionID, func(ctx context.Context) ([]hadith.Book, error) {
			return c.Books(ctx, collectionID)
		}, noBooks)
	}

	for _, a := range []source.Adapter{r.cdn, r.api} {
		books, ok := attempt(ctx, r, a, "books", collectionID, func(ctx context.Context) ([]hadith.Book, error) {
			return a.Books(ctx, collectionID)
		}, noBooks)
		if ok {
			return resolvedBooks{Books: mergeBooks(books, curatedBooks), Stable: a != r.api}
		}
	}

	if len(curatedBooks) > 0 {
		return resolvedBooks{Books: curatedBooks, Stable: true}
	}

	if r.placeholders {
		if books := placeholderBooks(collectionID); len(books) > 0 {
			r.logger.Info("No source listed books, serving placeholders", "collection", collectionID, "count", len(books))
			return resolvedBooks{Books: books}
		}
	}
	r.logger.Info("No source listed books", "collection", collectionID)
	return resolvedBooks{Books: []hadith.Book{}}
}

// placeholderBooks numbers the seed's book count. Collections with an
// unknown count get none.
func placeholderBooks(collectionID string) []hadith.Book {
	c, ok := hadith.LookupCollection(collectionID)
	if !ok || c.TotalBooks < 1 {
		return nil
	}
	books := make([]hadith.Book, c.TotalBooks)
	for i := range books {
		books[i] = hadith.Book{
			Number:    i + 1,
			Name:      fmt.Sprintf("Book %d", i+1),
			Synthetic: true,
		}
	}
	return books
}
