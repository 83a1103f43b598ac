// Package hadith defines the canonical in-memory representation that every
// source adapter produces: collections, books, hadiths and their grades.
package hadith

import "strings"

// Grade is the closed set of authenticity classifications a hadith can carry.
// Raw provider grading text never leaves the adapters; use NormalizeGrade.
type Grade string

const (
	GradeAuthentic  Grade = "Authentic"
	GradeGood       Grade = "Good"
	GradeWeak       Grade = "Weak"
	GradeFabricated Grade = "Fabricated"
	GradeUnknown    Grade = "Unknown"
)

// Grades lists every canonical grade in priority order.
var Grades = []Grade{GradeAuthentic, GradeGood, GradeWeak, GradeFabricated, GradeUnknown}

// Valid reports whether g is one of the canonical grades.
func (g Grade) Valid() bool {
	for _, known := range Grades {
		if g == known {
			return true
		}
	}
	return false
}

// ParseGrade maps a canonical grade name (case-insensitive) or raw grading
// text to a Grade. It reports false when the input names no grade at all.
func ParseGrade(s string) (Grade, bool) {
	g := NormalizeGrade(s, "")
	if g == GradeUnknown && !strings.EqualFold(strings.TrimSpace(s), string(GradeUnknown)) {
		return GradeUnknown, false
	}
	return g, true
}

// Collection is one compilation of hadith, e.g. Sahih al-Bukhari.
type Collection struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	DisplayNameNative string `json:"display_name_native"`
	CompilerName      string `json:"compiler_name"`
	TotalNarrations   int    `json:"total_narrations"`
	TotalBooks        int    `json:"total_books"`
	Description       string `json:"description"`
}

// Book is a numbered chapter or section within a Collection.
type Book struct {
	Number               int    `json:"book_number"`
	Name                 string `json:"name"`
	NameNative           string `json:"name_native"`
	NarrationCount       int    `json:"narration_count"`
	FirstNarrationNumber int    `json:"first_narration_number"`
	LastNarrationNumber  int    `json:"last_narration_number"`
	// Synthetic marks generated placeholder books that no source reported.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Hadith is a single narration. Number is unique within its collection.
type Hadith struct {
	CollectionID    string `json:"collection_id"`
	Number          int    `json:"narration_number"`
	Text            string `json:"text_primary"`
	TextNative      string `json:"text_native"`
	NarratorChain   string `json:"narrator_chain"`
	Narrator        string `json:"narrator_primary"`
	Grade           Grade  `json:"grade"`
	GradedBy        string `json:"graded_by"`
	BookNumber      int    `json:"book_number"`
	ChapterNumber   *int   `json:"chapter_number,omitempty"`
	ChapterTitle    string `json:"chapter_title,omitempty"`
	Reference       string `json:"reference"`
	InBookReference string `json:"in_book_reference"`
	// Snippet is only populated on search results.
	Snippet string `json:"snippet,omitempty"`
}
