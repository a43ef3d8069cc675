// Package tokens provides character-based token estimation.
//
// The core never tokenizes conversation messages itself; their counts arrive
// precomputed. Estimation is only needed for synthetic messages produced
// inside the module, such as compaction summaries.
package tokens

import "unicode/utf8"

// charsPerToken is calibrated for Claude-style tokenizers, which average
// roughly four characters per token for English text.
const charsPerToken = 4

// Approximate estimates the token count of a string without an API call.
// Any non-empty string counts as at least one token.
func Approximate(content string) int {
	if content == "" {
		return 0
	}
	runes := utf8.RuneCountInString(content)
	return (runes + charsPerToken - 1) / charsPerToken
}
