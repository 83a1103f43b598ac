package cdn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lepinkainen/sanad/internal/hadith"
)

type mergedHadith struct {
	hadith.Hadith
	rawGrade string
}

// mergeEditions joins the primary-language and native-script editions of the
// same narrations by hadith number. Editions are frequently sparse or ordered
// differently, so array positions are never used. Entries without a usable
// number are dropped and counted.
func mergeEditions(collectionID string, primary, native []wireHadith) ([]hadith.Hadith, int) {
	byNumber := make(map[int]*mergedHadith)
	dropped := 0

	get := func(w wireHadith) *mergedHadith {
		n, ok := w.number()
		if !ok {
			dropped++
			return nil
		}
		m, exists := byNumber[n]
		if !exists {
			m = &mergedHadith{Hadith: hadith.Hadith{CollectionID: collectionID, Number: n}}
			byNumber[n] = m
		}
		if m.BookNumber == 0 && w.Reference.Book > 0 {
			m.BookNumber = w.Reference.Book
			if w.Reference.Hadith > 0 {
				m.InBookReference = fmt.Sprintf("Book %d, Hadith %d", w.Reference.Book, w.Reference.Hadith)
			}
		}
		if m.rawGrade == "" && len(w.Grades) > 0 {
			m.rawGrade = w.Grades[0].Grade
			m.GradedBy = strings.TrimSpace(w.Grades[0].Name)
		}
		return m
	}

	for _, w := range primary {
		if m := get(w); m != nil {
			m.Text = hadith.CleanText(w.Text)
		}
	}
	for _, w := range native {
		if m := get(w); m != nil {
			m.TextNative = hadith.CleanText(w.Text)
		}
	}

	name := collectionID
	if c, ok := hadith.LookupCollection(collectionID); ok {
		name = c.DisplayName
	}

	out := make([]hadith.Hadith, 0, len(byNumber))
	for _, m := range byNumber {
		h := m.Hadith
		h.Grade = hadith.NormalizeGrade(m.rawGrade, collectionID)
		h.Narrator = hadith.ExtractNarrator(h.Text)
		h.Reference = fmt.Sprintf("%s %d", name, h.Number)
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, dropped
}
