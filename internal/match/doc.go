// Package match implements pairwise similarity scoring of executive records
// and transitive grouping into candidate person clusters.
//
// Scoring compares four weighted attributes (name, address, title, company)
// with fuzzy token-sort ratios and produces a weighted total in [0, 1].
// Grouping treats every pair at or above the minimum threshold as an edge
// and takes connected components, so chained name variants land in one
// cluster. Each cluster carries an internal confidence equal to the minimum
// pairwise score across all member pairs; a single weak pair therefore pulls
// the whole cluster down rather than being averaged away.
//
// Tier boundaries come from a Policy value passed into every call. Nothing
// in this package holds mutable state, which keeps runs with different
// tuning independent and testable.
package match
