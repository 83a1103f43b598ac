package resolver

import (
	"context"

	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/source"
)

// ListQuery selects narrations of one collection. Book and Grade are optional.
type ListQuery struct {
	CollectionID string
	Book         *int
	Page         int
	Limit        int
	Grade        *hadith.Grade
}

// Hadiths lists narrations. CDN-served collections try the CDN, then the
// curated set, then the keyed API; every other collection is curated only.
func (r *Resolver) Hadiths(ctx context.Context, q ListQuery) pagination.Result[hadith.Hadith] {
	page, limit := pagination.Clamp(q.Page, q.Limit)
	sq := source.Query{
		CollectionID: q.CollectionID,
		Book:         q.Book,
		Page:         page,
		Limit:        limit,
		Grade:        q.Grade,
	}

	for _, a := range r.listChain(q.CollectionID) {
		p, ok := attempt(ctx, r, a, "hadiths", q.CollectionID, func(ctx context.Context) (source.Page, error) {
			return a.Hadiths(ctx, sq)
		}, source.Page.Empty)
		if !ok {
			continue
		}

		var res pagination.Result[hadith.Hadith]
		if p.Windowed {
			res = pagination.FromWindow(p.Items, p.Total, page, limit)
		} else {
			res = pagination.Paginate(p.Items, page, limit)
		}
		res.Source = a.Name()
		return res
	}

	r.logger.Info("No source listed narrations", "collection", q.CollectionID, "book", q.Book, "grade", source.GradeKey(q.Grade))
	return pagination.Empty[hadith.Hadith](page, limit)
}

func (r *Resolver) listChain(collectionID string) []source.Adapter {
	if !r.cdnEligible(collectionID) {
		return nonNil(r.curatedAdapter())
	}
	return nonNil(r.cdn, r.curatedAdapter(), r.api)
}

// Hadith fetches one narration by number: the CDN single-item document for
// CDN-served collections, then a curated scan, then the keyed API. Returns
// nil when no source has it.
func (r *Resolver) Hadith(ctx context.Context, collectionID string, number int) *hadith.Hadith {
	if number < 1 {
		return nil
	}

	for _, a := range r.listChain(collectionID) {
		h, ok := attempt(ctx, r, a, "hadith", collectionID, func(ctx context.Context) (*hadith.Hadith, error) {
			return a.Hadith(ctx, collectionID, number)
		}, func(h *hadith.Hadith) bool { return h == nil })
		if ok {
			return h
		}
	}
	r.logger.Info("No source has narration", "collection", collectionID, "number", number)
	return nil
}

func nonNil(adapters ...source.Adapter) []source.Adapter {
	out := adapters[:0]
	for _, a := range adapters {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}
