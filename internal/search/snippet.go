package search

import (
	"strings"
	"unicode/utf8"

	"github.com/lepinkainen/sanad/internal/hadith"
)

const (
	// SnippetRadius is how many bytes of context surround a match.
	SnippetRadius = 60

	markOpen  = "<mark>"
	markClose = "</mark>"
	ellipsis  = "…"
)

// Snippet cuts a window of text around [start, end) and wraps the match in
// <mark> tags. Cuts land on rune boundaries.
func Snippet(text string, start, end, radius int) string {
	if start < 0 || end > len(text) || start >= end {
		return ""
	}

	from := max(start-radius, 0)
	for from > 0 && !utf8.RuneStart(text[from]) {
		from--
	}
	to := min(end+radius, len(text))
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}

	var b strings.Builder
	if from > 0 {
		b.WriteString(ellipsis)
	}
	b.WriteString(strings.TrimLeft(text[from:start], " "))
	b.WriteString(markOpen)
	b.WriteString(text[start:end])
	b.WriteString(markClose)
	b.WriteString(strings.TrimRight(text[end:to], " "))
	if to < len(text) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// Filter returns the narrations whose primary or native text contains query,
// in input order, each with Snippet set from the first field that matched.
func Filter(items []hadith.Hadith, query string) []hadith.Hadith {
	if Fold(query) == "" {
		return nil
	}
	out := make([]hadith.Hadith, 0)
	for _, h := range items {
		for _, text := range []string{h.Text, h.TextNative} {
			s, e, ok := Match(text, query)
			if !ok {
				continue
			}
			h.Snippet = Snippet(text, s, e, SnippetRadius)
			out = append(out, h)
			break
		}
	}
	return out
}
