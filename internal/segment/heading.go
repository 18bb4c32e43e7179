package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule recognizes one heading style. Match receives the trimmed line and
// returns the canonical section name.
type Rule struct {
	Name  string
	Match func(trimmed string) (string, bool)
}

// The separator accepts Unicode spaces (no-break, ideographic) and the BOM
// as well as ASCII whitespace; RE2's \s alone is ASCII only.
var chapterRe = regexp.MustCompile(`(?i)^CHAPTER[\s\p{Zs}\x{2028}\x{2029}\x{FEFF}]+[IVXLCDM]+(?:\b|\.|:).*$`)

// isBlank reports runes stripped from both ends of a line before matching.
// A leading byte order mark counts, so the first line of a UTF-8 BOM file
// can still be a heading.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Rules are evaluated top to bottom; the first match wins. The exact
// book-level labels come before the looser chapter pattern.
var rules = []Rule{
	{Name: "book-section", Match: matchBookSection},
	{Name: "roman-chapter", Match: matchRomanChapter},
}

// matchBookSection accepts PREFACE and CONCLUSION as the whole line, in any
// case, and canonicalizes to upper case.
func matchBookSection(trimmed string) (string, bool) {
	upper := strings.ToUpper(trimmed)
	if upper == "PREFACE" || upper == "CONCLUSION" {
		return upper, true
	}
	return "", false
}

// matchRomanChapter accepts "CHAPTER <roman numerals>" with optional
// punctuation or subtitle. The numerals are not validated. The trimmed line
// is the canonical name, case preserved.
func matchRomanChapter(trimmed string) (string, bool) {
	if chapterRe.MatchString(trimmed) {
		return trimmed, true
	}
	return "", false
}

// Classify reports whether line is a heading and, if so, its canonical name.
func Classify(line string) (string, bool) {
	trimmed := strings.TrimFunc(line, isBlank)
	if trimmed == "" {
		return "", false
	}
	for _, r := range rules {
		if name, ok := r.Match(trimmed); ok {
			return name, true
		}
	}
	return "", false
}

// Rules returns the heading rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}
