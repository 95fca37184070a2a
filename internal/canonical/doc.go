// Package canonical merges approved clusters into one person record per
// person plus one company-link record per (person, company) pair.
package canonical
