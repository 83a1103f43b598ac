package resolver

import (
	"github.com/lepinkainen/sanad/internal/hadith"
)

// mergeBooks fills blank names of primary from fillers matched by book
// number. For each field the first non-empty value wins, so a populated
// field is never overwritten. Counts are not merged: a filler such as the
// curated set may cover only part of a book.
func mergeBooks(primary []hadith.Book, fillers ...[]hadith.Book) []hadith.Book {
	out := make([]hadith.Book, len(primary))
	copy(out, primary)

	for _, filler := range fillers {
		byNumber := make(map[int]hadith.Book, len(filler))
		for _, b := range filler {
			byNumber[b.Number] = b
		}
		for i := range out {
			f, ok := byNumber[out[i].Number]
			if !ok {
				continue
			}
			if out[i].Name == "" && f.Name != "" {
				out[i].Name = f.Name
			}
			if out[i].NameNative == "" && f.NameNative != "" {
				out[i].NameNative = f.NameNative
			}
		}
	}
	return out
}
