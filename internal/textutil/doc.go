// Package textutil provides text processing utilities for record comparison
// and key generation.
//
// The primary use cases are:
//   - Normalizing free-text fields (case folding, diacritic removal,
//     whitespace collapsing) before comparison
//   - Computing fuzzy similarity ratios tolerant of abbreviation,
//     punctuation, and word order
//   - Sanitizing person and company names into stable storage keys
//
// Similarity ratios are Levenshtein-based and normalized to [0, 1].
// TokenSortRatio sorts tokens before comparing so "Smith, John" and
// "John Smith" score as near-identical.
package textutil
