package hadith

import (
	"regexp"
	"strings"
)

// narratorTemplates are tried in order against the start of a narration.
// Each has exactly one capture group holding the narrator's name.
var narratorTemplates = []*regexp.Regexp{
	regexp.MustCompile(`^Narrated\s+([^:\n]{1,120}?)\s*:`),
	regexp.MustCompile(`^([^:\n]{1,120}?)\s+reported\s*:`),
	regexp.MustCompile(`^([^:\n]{1,120}?)\s+narrated(?:\s+that)?\s*:`),
	regexp.MustCompile(`^On the authority of\s+([^,:\n]{1,120}?)\s*(?:\([^)]*\))?\s*,?\s*who said`),
	regexp.MustCompile(`^It was narrated from\s+([^,:\n]{1,120}?)\s+that`),
	regexp.MustCompile(`^It was narrated that\s+([^,:\n]{1,120}?)\s+said`),
}

// honorific strips a trailing parenthetical such as "(may Allah be pleased with him)".
var honorific = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ExtractNarrator returns the primary narrator named at the start of text, or
// "" when no template matches.
func ExtractNarrator(text string) string {
	text = strings.TrimSpace(text)
	for _, re := range narratorTemplates {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(honorific.ReplaceAllString(m[1], ""))
		name = strings.TrimRight(name, ",")
		if name != "" {
			return name
		}
	}
	return ""
}
