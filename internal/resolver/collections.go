package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/source"
)

// Collections lists the known collections. Seed counts that are unknown are
// filled from CDN section metadata and blank native names from the curated
// set; populated seed fields are never replaced.
func (r *Resolver) Collections(ctx context.Context) []hadith.Collection {
	cols := hadith.SeedCollections()

	statter, _ := r.cdn.(source.CollectionStatter)
	if statter != nil {
		var g errgroup.Group
		g.SetLimit(4)
		for i := range cols {
			c := &cols[i]
			if c.TotalBooks > 0 && c.TotalNarrations > 0 {
				continue
			}
			g.Go(func() error {
				type stats struct{ books, narrations int }
				s, ok := attempt(ctx, r, r.cdn, "collections", c.ID, func(ctx context.Context) (stats, error) {
					b, n, err := statter.CollectionStats(ctx, c.ID)
					return stats{b, n}, err
				}, func(s stats) bool { return s.books == 0 && s.narrations == 0 })
				if !ok {
					return nil
				}
				if c.TotalBooks == 0 {
					c.TotalBooks = s.books
				}
				if c.TotalNarrations == 0 {
					c.TotalNarrations = s.narrations
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	if r.curated != nil {
		for i := range cols {
			if cols[i].DisplayNameNative == "" {
				cols[i].DisplayNameNative = r.curated.NativeName(cols[i].ID)
			}
		}
	}
	return cols
}
