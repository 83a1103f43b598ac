package hadith

import "strings"

// gradeRules are checked in order; the first rule with a matching needle wins.
// "Hasan Sahih" therefore resolves to Authentic.
var gradeRules = []struct {
	grade   Grade
	needles []string
}{
	{GradeAuthentic, []string{"sahih", "saheeh", "sound", "authentic", "صحيح"}},
	{GradeGood, []string{"hasan", "good", "حسن"}},
	{GradeWeak, []string{"da'if", "daif", "da'eef", "daeef", "dhaif", "dha'if", "weak", "munkar", "shadh", "ضعيف", "منكر"}},
	{GradeFabricated, []string{"mawdu", "maudu", "mawdoo", "fabricated", "fabrication", "batil", "موضوع"}},
}

// ungradedAuthentic holds the collections whose narrations carry no grade
// string because the whole compilation is accepted as authentic. An empty
// grade in these collections means Authentic by convention, not Unknown.
var ungradedAuthentic = map[string]bool{
	"bukhari": true,
	"muslim":  true,
}

// apostrophes normalises the quote variants providers use in transliterations
// (Da'if, Da`if, Da’if).
var apostrophes = strings.NewReplacer("`", "'", "’", "'", "‘", "'", "ʿ", "'", "ʾ", "'")

// NormalizeGrade maps free-text grading from any source to a canonical Grade.
// It never returns a value outside Grades.
func NormalizeGrade(raw, collectionID string) Grade {
	text := strings.ToLower(strings.TrimSpace(apostrophes.Replace(raw)))
	if text == "" {
		if ungradedAuthentic[collectionID] {
			return GradeAuthentic
		}
		return GradeUnknown
	}

	for _, rule := range gradeRules {
		for _, needle := range rule.needles {
			if strings.Contains(text, needle) {
				return rule.grade
			}
		}
	}
	return GradeUnknown
}
