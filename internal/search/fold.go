// Package search implements accent- and case-insensitive phrase matching
// over narration text, with highlighted snippets.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

var apostrophes = map[rune]bool{'‘': true, '’': true, 'ʼ': true, 'ʿ': true, 'ʾ': true, '`': true, '´': true}

// folder holds the stateful transformers for one folding pass. They must
// not be shared between goroutines.
type folder struct {
	stripMarks transform.Transformer
	caser      cases.Caser
}

func newFolder() *folder {
	return &folder{
		stripMarks: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))),
		caser:      cases.Fold(),
	}
}

// foldRune maps a single rune to its comparison form. Diacritics, Arabic
// harakat and tatweel fold to nothing.
func (fo *folder) foldRune(r rune) string {
	switch {
	case r == tatweel:
		return ""
	case apostrophes[r]:
		return "'"
	case unicode.IsSpace(r):
		return " "
	}
	s, _, err := transform.String(fo.stripMarks, string(r))
	if err != nil {
		s = string(r)
	}
	return fo.caser.String(s)
}

// folded is a comparison form of some text plus, per folded byte, the byte
// span of the original rune it came from.
type folded struct {
	text  string
	start []int
	end   []int
}

func foldWithOffsets(s string) folded {
	fo := newFolder()
	var b strings.Builder
	var start, end []int
	lastSpace := true
	for i, r := range s {
		f := fo.foldRune(r)
		if f == "" {
			continue
		}
		if f == " " {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		w := len(string(r))
		for range len(f) {
			start = append(start, i)
			end = append(end, i+w)
		}
		b.WriteString(f)
	}
	return folded{text: b.String(), start: start, end: end}
}

// Fold returns the comparison form of s: marks stripped, case folded,
// whitespace collapsed and trimmed.
func Fold(s string) string {
	return strings.TrimSpace(foldWithOffsets(s).text)
}

// Match finds the first occurrence of query in text after folding both, and
// returns its byte span in the original text.
func Match(text, query string) (int, int, bool) {
	q := Fold(query)
	if q == "" {
		return 0, 0, false
	}
	f := foldWithOffsets(text)
	idx := strings.Index(f.text, q)
	if idx < 0 {
		return 0, 0, false
	}
	return f.start[idx], f.end[idx+len(q)-1], true
}
