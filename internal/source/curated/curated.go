// Package curated serves the hand-authored dataset embedded in the binary.
// It needs no network and is the only source for some collections.
package curated

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/source"
)

// Name identifies this source in logs and results.
const Name = "curated"

//go:embed data/curated.yaml
var embedded []byte

type dataset struct {
	Collections []collectionData `yaml:"collections"`
}

type collectionData struct {
	ID         string       `yaml:"id"`
	NameNative string       `yaml:"name_native"`
	Books      []bookData   `yaml:"books"`
	Hadiths    []hadithData `yaml:"hadiths"`
}

type bookData struct {
	Number     int    `yaml:"number"`
	Name       string `yaml:"name"`
	NameNative string `yaml:"name_native"`
}

type hadithData struct {
	Number        int    `yaml:"number"`
	Book          int    `yaml:"book"`
	Chapter       *int   `yaml:"chapter"`
	ChapterTitle  string `yaml:"chapter_title"`
	Text          string `yaml:"text"`
	TextNative    string `yaml:"text_native"`
	Narrator      string `yaml:"narrator"`
	NarratorChain string `yaml:"narrator_chain"`
	Grade         string `yaml:"grade"`
	GradedBy      string `yaml:"graded_by"`
}

type collection struct {
	nameNative string
	books      []hadith.Book
	hadiths    []hadith.Hadith
}

// Adapter is the in-process curated source. It is read-only after
// construction and safe for concurrent use.
type Adapter struct {
	order       []string
	collections map[string]*collection
}

// New loads the embedded dataset.
func New() (*Adapter, error) {
	return NewFromYAML(embedded)
}

// NewFromYAML loads a dataset in the embedded format.
func NewFromYAML(data []byte) (*Adapter, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing curated dataset: %w", err)
	}

	a := &Adapter{collections: make(map[string]*collection)}
	for _, cd := range ds.Collections {
		id := strings.TrimSpace(cd.ID)
		if id == "" {
			return nil, fmt.Errorf("curated dataset: collection without id")
		}
		if _, dup := a.collections[id]; dup {
			return nil, fmt.Errorf("curated dataset: duplicate collection %q", id)
		}
		c, err := buildCollection(id, cd)
		if err != nil {
			return nil, err
		}
		a.collections[id] = c
		a.order = append(a.order, id)
	}
	return a, nil
}

func buildCollection(id string, cd collectionData) (*collection, error) {
	name := id
	if seed, ok := hadith.LookupCollection(id); ok {
		name = seed.DisplayName
	}

	c := &collection{nameNative: strings.TrimSpace(cd.NameNative)}
	seen := make(map[int]bool)
	inBook := make(map[int]int)
	for _, hd := range cd.Hadiths {
		if hd.Number < 1 {
			return nil, fmt.Errorf("curated dataset: %s: invalid hadith number %d", id, hd.Number)
		}
		if seen[hd.Number] {
			return nil, fmt.Errorf("curated dataset: %s: duplicate hadith %d", id, hd.Number)
		}
		seen[hd.Number] = true

		h := hadith.Hadith{
			CollectionID:  id,
			Number:        hd.Number,
			Text:          strings.TrimSpace(hd.Text),
			TextNative:    strings.TrimSpace(hd.TextNative),
			NarratorChain: strings.TrimSpace(hd.NarratorChain),
			Narrator:      strings.TrimSpace(hd.Narrator),
			Grade:         hadith.NormalizeGrade(hd.Grade, id),
			GradedBy:      strings.TrimSpace(hd.GradedBy),
			BookNumber:    hd.Book,
			ChapterNumber: hd.Chapter,
			ChapterTitle:  strings.TrimSpace(hd.ChapterTitle),
			Reference:     fmt.Sprintf("%s %d", name, hd.Number),
		}
		if h.Narrator == "" {
			h.Narrator = hadith.ExtractNarrator(h.Text)
		}
		c.hadiths = append(c.hadiths, h)
	}
	sort.Slice(c.hadiths, func(i, j int) bool { return c.hadiths[i].Number < c.hadiths[j].Number })
	for i := range c.hadiths {
		h := &c.hadiths[i]
		if h.BookNumber > 0 {
			inBook[h.BookNumber]++
			h.InBookReference = fmt.Sprintf("Book %d, Hadith %d", h.BookNumber, inBook[h.BookNumber])
		}
	}

	for _, bd := range cd.Books {
		if bd.Number < 1 {
			return nil, fmt.Errorf("curated dataset: %s: invalid book number %d", id, bd.Number)
		}
		b := hadith.Book{
			Number:     bd.Number,
			Name:       strings.TrimSpace(bd.Name),
			NameNative: strings.TrimSpace(bd.NameNative),
		}
		for _, h := range c.hadiths {
			if h.BookNumber != b.Number {
				continue
			}
			b.NarrationCount++
			if b.FirstNarrationNumber == 0 {
				b.FirstNarrationNumber = h.Number
			}
			b.LastNarrationNumber = h.Number
		}
		c.books = append(c.books, b)
	}
	sort.Slice(c.books, func(i, j int) bool { return c.books[i].Number < c.books[j].Number })
	return c, nil
}

// Name implements source.Adapter.
func (a *Adapter) Name() string { return Name }

// Supports reports whether the dataset mentions the collection at all.
func (a *Adapter) Supports(collectionID string) bool {
	_, ok := a.collections[collectionID]
	return ok
}

// NativeName returns the curated native-script collection name, or "".
func (a *Adapter) NativeName(collectionID string) string {
	if c, ok := a.collections[collectionID]; ok {
		return c.nameNative
	}
	return ""
}

// Books implements source.Adapter.
func (a *Adapter) Books(_ context.Context, collectionID string) ([]hadith.Book, error) {
	c, ok := a.collections[collectionID]
	if !ok || len(c.books) == 0 {
		return nil, nil
	}
	return append([]hadith.Book(nil), c.books...), nil
}

// Hadiths implements source.Adapter. The whole filtered set is returned;
// the caller paginates.
func (a *Adapter) Hadiths(_ context.Context, q source.Query) (source.Page, error) {
	c, ok := a.collections[q.CollectionID]
	if !ok {
		return source.Page{}, nil
	}
	items := make([]hadith.Hadith, 0, len(c.hadiths))
	for _, h := range c.hadiths {
		if q.Book != nil && h.BookNumber != *q.Book {
			continue
		}
		items = append(items, h)
	}
	return source.Full(source.FilterGrade(items, q.Grade)), nil
}

// Hadith implements source.Adapter by scanning the collection.
func (a *Adapter) Hadith(_ context.Context, collectionID string, number int) (*hadith.Hadith, error) {
	c, ok := a.collections[collectionID]
	if !ok {
		return nil, nil
	}
	for _, h := range c.hadiths {
		if h.Number == number {
			return &h, nil
		}
	}
	return nil, nil
}

// All returns every curated narration of a collection, or of every
// collection in dataset order when collectionID is empty.
func (a *Adapter) All(collectionID string) []hadith.Hadith {
	var out []hadith.Hadith
	for _, id := range a.order {
		if collectionID != "" && id != collectionID {
			continue
		}
		out = append(out, a.collections[id].hadiths...)
	}
	return out
}
