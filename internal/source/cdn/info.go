package cdn

import (
	"context"
	"fmt"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/errors"
	"github.com/lepinkainen/sanad/internal/hadith"
)

// info returns the metadata of one collection from the shared info.json.
// The document covers every collection and is cached once at metadata TTL.
func (a *Adapter) info(ctx context.Context, edition string) (infoMetadata, bool, error) {
	all, _, err := cache.GetOrFetch(a.cache, cache.Key(Name, "info"), cache.Metadata, func() (map[string]infoCollection, error) {
		var doc map[string]infoCollection
		if err := a.fetchJSON(ctx, "info", &doc); err != nil {
			return nil, err
		}
		if len(doc) == 0 {
			return nil, errors.NewSchemaError(Name, "info", fmt.Errorf("no collections"))
		}
		return doc, nil
	})
	if err != nil {
		return infoMetadata{}, false, err
	}
	c, ok := all[edition]
	return c.Metadata, ok, nil
}

// Books implements source.Adapter from info.json section boundaries.
// The CDN carries no native-script book names.
func (a *Adapter) Books(ctx context.Context, collectionID string) ([]hadith.Book, error) {
	edition, err := a.edition(collectionID)
	if err != nil {
		return nil, err
	}
	meta, ok, err := a.info(ctx, edition)
	if err != nil {
		return nil, fmt.Errorf("listing books for %s: %w", collectionID, err)
	}
	if !ok {
		return nil, nil
	}

	spans := meta.spans()
	books := make([]hadith.Book, 0, len(spans))
	for _, s := range spans {
		books = append(books, hadith.Book{
			Number:               s.Section,
			Name:                 s.Name,
			NarrationCount:       s.count(),
			FirstNarrationNumber: s.First,
			LastNarrationNumber:  s.Last,
		})
	}
	return books, nil
}

// CollectionStats implements source.CollectionStatter.
func (a *Adapter) CollectionStats(ctx context.Context, collectionID string) (int, int, error) {
	edition, err := a.edition(collectionID)
	if err != nil {
		return 0, 0, err
	}
	meta, ok, err := a.info(ctx, edition)
	if err != nil || !ok {
		return 0, 0, err
	}
	spans := meta.spans()
	narrations := 0
	for _, s := range spans {
		narrations += s.count()
	}
	return len(spans), narrations, nil
}
