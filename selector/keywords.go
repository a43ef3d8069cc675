package selector

import (
	"strings"
	"unicode"
)

// minKeywordLength filters out short stopword-like tokens ("a", "to", "is")
// that would otherwise dominate Jaccard overlap.
const minKeywordLength = 3

// tokenize lowercases the text, strips punctuation, and returns the set of
// tokens longer than two characters.
func tokenize(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	set := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) >= minKeywordLength {
			set[tok] = struct{}{}
		}
	}
	return set
}

// jaccard returns the intersection-over-union of two token sets.
// Two empty sets have no overlap signal and score 0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
