package lexical

import (
	"strings"
	"unicode"
)

// Tokenize lowercases the text and splits it into alphanumeric word tokens,
// dropping everything else. No stemming, no stop words: exact term-level
// retrieval is the contract of this index.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// distinct returns the unique tokens in first-seen order.
func distinct(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
