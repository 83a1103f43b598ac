package hadith

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// CleanText turns upstream narration text into plain text. Some editions
// carry inline HTML (<br>, <b>, entities); markup is dropped and line breaks
// from <br> and <p> are kept. Blank lines and surrounding space are trimmed.
func CleanText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.ContainsAny(raw, "<&") {
		raw = stripMarkup(raw)
	}
	raw = newlines.Replace(raw)

	lines := strings.Split(raw, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func stripMarkup(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return doc.Text()
}
