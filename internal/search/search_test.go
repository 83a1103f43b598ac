package search

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/sanad/internal/hadith"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Naseehah", "naseehah"},
		{"  Ṣaḥīḥ   al-Bukhārī ", "sahih al-bukhari"},
		{"Da’if", "da'if"},
		{"الدِّينُ النَّصِيحَةُ", "الدين النصيحة"},
		{"الـــدين", "الدين"},
		{"STRASSE", "strasse"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestMatchReturnsOriginalOffsets(t *testing.T) {
	text := "The religion is Naṣīḥah (sincere counsel)."
	s, e, ok := Match(text, "nasihah")
	require.True(t, ok)
	assert.Equal(t, "Naṣīḥah", text[s:e])

	_, _, ok = Match(text, "charity")
	assert.False(t, ok)

	_, _, ok = Match(text, "   ")
	assert.False(t, ok)
}

func TestMatchArabicIgnoresHarakat(t *testing.T) {
	text := "قال: الدِّينُ النَّصِيحَةُ. قلنا: لمن؟"
	s, e, ok := Match(text, "الدين النصيحة")
	require.True(t, ok)
	assert.Equal(t, "الدِّينُ النَّصِيحَةُ", text[s:e])
}

func TestMatchAcrossCollapsedWhitespace(t *testing.T) {
	text := "sincere\n   counsel"
	s, e, ok := Match(text, "sincere counsel")
	require.True(t, ok)
	assert.Equal(t, text, text[s:e])
}

func TestSnippet(t *testing.T) {
	text := "aaaa bbbb cccc dddd eeee"
	s, e, ok := Match(text, "cccc")
	require.True(t, ok)

	assert.Equal(t, "…bbbb <mark>cccc</mark> dddd…", Snippet(text, s, e, 5))
	assert.Equal(t, "aaaa bbbb <mark>cccc</mark> dddd eeee", Snippet(text, s, e, 100))
	assert.Empty(t, Snippet(text, 3, 3, 5))
}

func TestSnippetRuneBoundaries(t *testing.T) {
	text := "عن أبي هريرة قال الدين النصيحة لله"
	s, e, ok := Match(text, "الدين")
	require.True(t, ok)
	snippet := Snippet(text, s, e, 3)
	assert.Contains(t, snippet, "<mark>الدين</mark>")
	assert.True(t, utf8.ValidString(snippet))
}

func TestFilter(t *testing.T) {
	items := []hadith.Hadith{
		{Number: 1, Text: "Actions are but by intentions."},
		{Number: 7, Text: "The religion is naseehah.", TextNative: "الدين النصيحة"},
		{Number: 9, TextNative: "وما أمرتكم به فأتوا منه ما استطعتم"},
	}

	got := Filter(items, "Naseehah")
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Number)
	assert.Contains(t, got[0].Snippet, "<mark>naseehah</mark>")

	got = Filter(items, "استطعتم")
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].Number)
	assert.Contains(t, got[0].Snippet, "<mark>استطعتم</mark>")

	assert.Empty(t, Filter(items, "zakat"))
	assert.Nil(t, Filter(items, " "))
	assert.Empty(t, items[1].Snippet, "input is not modified")
}
