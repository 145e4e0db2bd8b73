package composer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	separatorRuns = regexp.MustCompile(`[_-]+`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

const fallbackStepLabel = "Working on your draft"

// FormatStep humanizes a raw status token from the generation job into a
// display label: camelCase and snake-case split into words, each word
// title-cased, with the brand token "linkedin" rendered as "LinkedIn".
// "fetchingContext" becomes "Fetching Context".
func FormatStep(raw string) string {
	normalized := camelBoundary.ReplaceAllString(raw, "$1 $2")
	normalized = separatorRuns.ReplaceAllString(normalized, " ")
	normalized = spaceRuns.ReplaceAllString(normalized, " ")
	normalized = strings.ToLower(strings.TrimSpace(normalized))
	if normalized == "" {
		return fallbackStepLabel
	}

	words := strings.Split(normalized, " ")
	for i, word := range words {
		if word == "linkedin" {
			words[i] = "LinkedIn"
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
