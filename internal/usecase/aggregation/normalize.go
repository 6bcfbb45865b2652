package usecase_aggregation

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	DefaultMaxWordLength = 50
	DefaultMaxTextLength = 1000
)

// NormalizeWord collapses inner whitespace, trims, case-folds and caps the word at maxLen runes.
// NormalizeWord(NormalizeWord(w)) == NormalizeWord(w).
func NormalizeWord(word string, maxLen int) string {
	word = strings.Join(strings.Fields(word), " ")
	// Casers keep state, one per call
	word = cases.Fold().String(word)

	if maxLen > 0 {
		if r := []rune(word); len(r) > maxLen {
			word = strings.TrimSpace(string(r[:maxLen]))
		}
	}
	return word
}
