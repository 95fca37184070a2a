package textutil

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// levenshtein is safe for concurrent use: Compare never mutates the metric.
var levenshtein = metrics.NewLevenshtein()

// Ratio computes a normalized Levenshtein similarity between two strings
// after normalization. Returns 1 for two empty strings, 0 when exactly one
// side is empty.
func Ratio(a, b string) float64 {
	a = Normalize(a)
	b = Normalize(b)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return clamp01(strutil.Similarity(a, b, levenshtein))
}

// TokenSortRatio tokenizes both strings, sorts the tokens, and compares the
// rejoined forms. Word order and punctuation differences do not lower the
// score, so "Smith, John" matches "John Smith".
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// NameRatio compares personal names with awareness of abbreviated given
// names. A single-letter token is expanded to an unpaired token on the other
// side sharing its first letter, so "J. Smith" scores 1 against "John Smith".
// An initial the other record simply omits ("John A. Smith" vs "J. Smith")
// is dropped rather than counted as an edit.
func NameRatio(a, b string) float64 {
	at, bt := Tokenize(a), Tokenize(b)
	if len(at) == 0 && len(bt) == 0 {
		return 1
	}
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}
	at, bt = alignInitials(at, bt)
	return Ratio(joinSorted(at), joinSorted(bt))
}

// alignInitials pairs tokens across the two lists: exact duplicates first,
// then single-letter tokens against unpaired longer tokens with the same
// first letter (the initial takes the longer token's spelling). A leftover
// initial is removed only when the other side has no unpaired tokens at all;
// two competing initials ("John A. Smith" vs "John B. Smith") both stay.
func alignInitials(a, b []string) ([]string, []string) {
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	usedA := make([]bool, len(a))
	usedB := make([]bool, len(b))

	for i := range a {
		for j := range b {
			if !usedA[i] && !usedB[j] && a[i] == b[j] {
				usedA[i], usedB[j] = true, true
				break
			}
		}
	}
	for i := range a {
		if usedA[i] || len(a[i]) != 1 {
			continue
		}
		for j := range b {
			if usedB[j] || len(b[j]) < 2 || b[j][0] != a[i][0] {
				continue
			}
			a[i] = b[j]
			usedA[i], usedB[j] = true, true
			break
		}
	}
	for j := range b {
		if usedB[j] || len(b[j]) != 1 {
			continue
		}
		for i := range a {
			if usedA[i] || len(a[i]) < 2 || a[i][0] != b[j][0] {
				continue
			}
			b[j] = a[i]
			usedA[i], usedB[j] = true, true
			break
		}
	}

	aExhausted, bExhausted := allTrue(usedA), allTrue(usedB)
	a = dropDanglingInitials(a, usedA, bExhausted)
	b = dropDanglingInitials(b, usedB, aExhausted)
	return a, b
}

func dropDanglingInitials(tokens []string, used []bool, otherExhausted bool) []string {
	if !otherExhausted {
		return tokens
	}
	kept := tokens[:0]
	for i, tok := range tokens {
		if !used[i] && len(tok) == 1 {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

func allTrue(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}

// acronymMatchScore is the similarity granted when one title spells the
// initial letters of the other. CFO and Chief Financial Officer agree, but
// an acronym carries less signal than an identical string.
const acronymMatchScore = 0.7

// TitleRatio compares role titles. A single-token side spelling the first
// letters of the other side's tokens scores as a moderate match instead of
// the near-zero edit similarity the raw strings produce.
func TitleRatio(a, b string) float64 {
	base := TokenSortRatio(a, b)
	if base >= acronymMatchScore {
		return base
	}
	at, bt := Tokenize(a), Tokenize(b)
	if isAcronymOf(at, bt) || isAcronymOf(bt, at) {
		return acronymMatchScore
	}
	return base
}

func isAcronymOf(short, long []string) bool {
	if len(short) != 1 || len(long) < 2 || len(short[0]) != len(long) {
		return false
	}
	for i, tok := range long {
		if short[0][i] != tok[0] {
			return false
		}
	}
	return true
}

func sortedTokens(text string) string {
	return joinSorted(Tokenize(text))
}

func joinSorted(tokens []string) string {
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ExactFold reports case-insensitive equality of the normalized forms. Used
// as the degraded comparison when a fuzzy ratio cannot be computed.
func ExactFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
