// Package source defines the contract every upstream adapter implements.
//
// Adapters translate one provider's wire format into the canonical hadith
// model. They never panic on upstream trouble: failures come back as errors
// wrapping errors.ErrUnavailable, and "the source has nothing" comes back as
// an empty answer with a nil error, so the resolver can tell the two apart.
package source

import (
	"context"

	"github.com/lepinkainen/sanad/internal/hadith"
)

// Adapter is one upstream provider.
type Adapter interface {
	// Name identifies the source in logs and in results.
	Name() string

	// Books lists the books of a collection.
	Books(ctx context.Context, collectionID string) ([]hadith.Book, error)

	// Hadiths lists narrations for a collection, optionally restricted to one
	// book and one grade.
	Hadiths(ctx context.Context, q Query) (Page, error)

	// Hadith fetches one narration by its collection-wide number.
	// Returns nil, nil when the source does not have it.
	Hadith(ctx context.Context, collectionID string, number int) (*hadith.Hadith, error)
}

// Supporter is implemented by adapters that only serve some collections.
type Supporter interface {
	Supports(collectionID string) bool
}

// CollectionStatter is implemented by adapters that can report collection-wide counts.
type CollectionStatter interface {
	CollectionStats(ctx context.Context, collectionID string) (books, narrations int, err error)
}

// Query selects a page of narrations. Page and Limit are already clamped.
type Query struct {
	CollectionID string
	Book         *int
	Page         int
	Limit        int
	Grade        *hadith.Grade
}

// Page is an adapter's answer to a Query.
//
// When Windowed is false Items holds the complete (filtered) result set and
// Total equals len(Items). When Windowed is true the adapter paged natively:
// Items is the requested window and Total the size of the whole set.
type Page struct {
	Items    []hadith.Hadith
	Total    int
	Windowed bool
}

// Empty reports whether the source has nothing for the query at all. A
// windowed page past the end is not empty: the source has data, just not there.
func (p Page) Empty() bool { return p.Total == 0 && len(p.Items) == 0 }

// Full wraps a complete result set.
func Full(items []hadith.Hadith) Page {
	return Page{Items: items, Total: len(items)}
}

// FilterGrade keeps the narrations carrying grade g. A nil grade keeps everything.
func FilterGrade(items []hadith.Hadith, g *hadith.Grade) []hadith.Hadith {
	if g == nil {
		return items
	}
	out := make([]hadith.Hadith, 0, len(items))
	for _, h := range items {
		if h.Grade == *g {
			out = append(out, h)
		}
	}
	return out
}

// GradeKey renders an optional grade for cache keys.
func GradeKey(g *hadith.Grade) string {
	if g == nil {
		return ""
	}
	return string(*g)
}
