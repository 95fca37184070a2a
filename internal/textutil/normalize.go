package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// diacriticStripper decomposes characters and removes combining marks so that
// "José" and "Jose" normalize to the same string.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text, strips diacritics, and collapses whitespace.
// Returns "" for empty or whitespace-only input.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if stripped, _, err := transform.String(diacriticStripper, text); err == nil {
		text = stripped
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits normalized text into lowercase alphanumeric tokens.
// Single-character tokens are kept so initials remain comparable.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(Normalize(text), -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}
