package resolver

import (
	"context"
	"strings"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/search"
)

// SearchQuery is a phrase search, optionally limited to one collection.
type SearchQuery struct {
	Query        string
	CollectionID string
	Page         int
	Limit        int
}

// Search scans the curated set only. No upstream offers search across a
// whole collection without downloading all of it, so results cover the
// curated subset rather than the full corpus.
func (r *Resolver) Search(ctx context.Context, q SearchQuery) pagination.Result[hadith.Hadith] {
	page, limit := pagination.Clamp(q.Page, q.Limit)
	folded := search.Fold(q.Query)
	if folded == "" || r.curated == nil {
		return pagination.Empty[hadith.Hadith](page, limit)
	}
	collectionID := strings.TrimSpace(q.CollectionID)

	key := cache.Key("resolver", "search", folded, collectionID)
	matches, _, err := cache.GetOrFetch(r.cache, key, cache.Content, func() ([]hadith.Hadith, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return search.Filter(r.curated.All(collectionID), q.Query), nil
	})
	if err != nil {
		r.logger.Warn("Search failed", "query", q.Query, "error", err)
		return pagination.Empty[hadith.Hadith](page, limit)
	}

	r.logger.Debug("Search scanned curated set", "query", q.Query, "collection", collectionID, "matches", len(matches))
	if len(matches) == 0 {
		return pagination.Empty[hadith.Hadith](page, limit)
	}
	res := pagination.Paginate(matches, page, limit)
	res.Source = r.curated.Name()
	return res
}
