package usecase

import (
	"regexp"
	"strings"
)

var (
	symbolSeparators = regexp.MustCompile(`[,\t\n;|]+`)
	symbolChars      = regexp.MustCompile(`[^A-Za-z0-9.^]`)
)

// ParseSymbols extracts ticker codes from free-form text. Separators are
// commas, tabs, newlines, semicolons, pipes, and whitespace; everything that
// is not a letter, digit, dot, or caret is stripped from each token.
func ParseSymbols(text string) []string {
	text = symbolSeparators.ReplaceAllString(text, " ")

	var out []string
	for _, item := range strings.Fields(text) {
		code := symbolChars.ReplaceAllString(item, "")
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}
