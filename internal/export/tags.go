package export

import (
	"regexp"
	"sort"
	"strings"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	hyphenRun   = regexp.MustCompile(`-+`)
	tagReserved = regexp.MustCompile(`[#&'",.;:()\[\]]`)
)

// normalizeTag follows Obsidian tag rules: case is kept, whitespace becomes
// hyphens and "/" is kept for hierarchy.
func normalizeTag(tag string) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	tag = tagReserved.ReplaceAllString(tag, "")
	tag = whitespace.ReplaceAllString(strings.TrimSpace(tag), "-")
	tag = hyphenRun.ReplaceAllString(tag, "-")
	return strings.Trim(tag, "-")
}

// normalizeTags returns the sorted, deduplicated non-empty tags.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		n := normalizeTag(tag)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
