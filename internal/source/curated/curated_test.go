package curated

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/source"
)

func newAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := New()
	require.NoError(t, err)
	return a
}

func TestEmbeddedDatasetLoads(t *testing.T) {
	a := newAdapter(t)

	assert.True(t, a.Supports("nawawi"))
	assert.True(t, a.Supports("malik"))
	assert.False(t, a.Supports("ahmad"))
	assert.Equal(t, "الأربعون النووية", a.NativeName("nawawi"))
	assert.Empty(t, a.NativeName("ahmad"))
}

func TestNawawiFiveOffline(t *testing.T) {
	a := newAdapter(t)

	h, err := a.Hadith(context.Background(), "nawawi", 5)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "nawawi", h.CollectionID)
	assert.Equal(t, 5, h.Number)
	assert.Contains(t, h.Text, "innovates")
	assert.Contains(t, h.TextNative, "فهو رد")
	assert.Equal(t, "Aishah", h.Narrator)
	assert.Equal(t, hadith.GradeAuthentic, h.Grade)
	assert.Equal(t, "Forty Hadith of an-Nawawi 5", h.Reference)
	assert.Equal(t, "Book 1, Hadith 5", h.InBookReference)

	missing, err := a.Hadith(context.Background(), "nawawi", 41)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNarratorExtractedWhenNotAuthored(t *testing.T) {
	a := newAdapter(t)

	h, err := a.Hadith(context.Background(), "nawawi", 3)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "Abdullah ibn Umar", h.Narrator)

	h, err = a.Hadith(context.Background(), "bukhari", 1)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "'Umar bin Al-Khattab", h.Narrator)
	assert.Equal(t, hadith.GradeAuthentic, h.Grade, "ungraded bukhari is authentic")
}

func TestBooksCarryCuratedCounts(t *testing.T) {
	a := newAdapter(t)

	books, err := a.Books(context.Background(), "bukhari")
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "كتاب بدء الوحى", books[0].NameNative)
	assert.Equal(t, 1, books[0].NarrationCount)
	assert.Equal(t, 8, books[1].FirstNarrationNumber)
	assert.Zero(t, books[2].NarrationCount)

	none, err := a.Books(context.Background(), "malik")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHadithsFilters(t *testing.T) {
	a := newAdapter(t)
	ctx := context.Background()

	page, err := a.Hadiths(ctx, source.Query{CollectionID: "nawawi", Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.False(t, page.Windowed)
	assert.Equal(t, 10, page.Total)

	book := 2
	page, err = a.Hadiths(ctx, source.Query{CollectionID: "bukhari", Book: &book, Page: 1, Limit: 5})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 8, page.Items[0].Number)

	weak := hadith.GradeWeak
	page, err = a.Hadiths(ctx, source.Query{CollectionID: "nawawi", Page: 1, Limit: 5, Grade: &weak})
	require.NoError(t, err)
	assert.True(t, page.Empty())

	page, err = a.Hadiths(ctx, source.Query{CollectionID: "ahmad", Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.True(t, page.Empty())
}

func TestAll(t *testing.T) {
	a := newAdapter(t)

	assert.Len(t, a.All("nawawi"), 10)
	all := a.All("")
	assert.Len(t, all, 14)
	assert.Equal(t, "nawawi", all[0].CollectionID)
	assert.Equal(t, "tirmidhi", all[len(all)-1].CollectionID)
	assert.Empty(t, a.All("ahmad"))
}

func TestNewFromYAMLValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "collections: ["},
		{"missing id", "collections:\n  - name_native: x\n"},
		{"duplicate collection", "collections:\n  - id: a\n  - id: a\n"},
		{"bad hadith number", "collections:\n  - id: a\n    hadiths:\n      - number: 0\n"},
		{"duplicate hadith", "collections:\n  - id: a\n    hadiths:\n      - number: 1\n      - number: 1\n"},
		{"bad book number", "collections:\n  - id: a\n    books:\n      - number: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFromYAML([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	a := newAdapter(t)

	books, err := a.Books(context.Background(), "nawawi")
	require.NoError(t, err)
	books[0].Name = "changed"

	again, err := a.Books(context.Background(), "nawawi")
	require.NoError(t, err)
	assert.Equal(t, "The Forty Hadith", again[0].Name)
}
